package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"crmforms/collections"
	"crmforms/logging"
	"crmforms/templates"
)

func buildModuleAccessData(app *pocketbase.PocketBase) templates.ModuleAccessData {
	data := templates.ModuleAccessData{Modules: collections.Modules}
	for _, role := range collections.Roles {
		row := templates.ModuleAccessRow{Role: role}
		for _, module := range collections.Modules {
			canView, canEdit := collections.LookupModuleAccess(app, role, module)
			row.Cells = append(row.Cells, templates.ModuleAccessCell{
				Module:  module,
				CanView: canView,
				CanEdit: canEdit,
			})
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

func renderModuleAccess(e *core.RequestEvent, data templates.ModuleAccessData) error {
	var component templ.Component
	if e.Request.Header.Get("HX-Request") == "true" {
		component = templates.ModuleAccessContent(data)
	} else {
		component = templates.ModuleAccessPage(data, GetNavData(e.Request))
	}
	return component.Render(e.Request.Context(), e.Response)
}

// HandleModuleAccess renders the role x module permission matrix.
func HandleModuleAccess(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderModuleAccess(e, buildModuleAccessData(app))
	}
}

// HandleModuleAccessSave stores every role/module pair from the submitted
// matrix. Unchecked boxes revoke access.
func HandleModuleAccessSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		for _, role := range collections.Roles {
			for _, module := range collections.Modules {
				key := role + ":" + module
				canView := e.Request.FormValue(key+":view") == "true"
				canEdit := e.Request.FormValue(key+":edit") == "true"
				if err := collections.SaveModuleAccess(app, role, module, canView, canEdit); err != nil {
					logging.L().Errorf("module_access: %v", err)
					return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
				}
			}
		}
		logging.L().Infof("module_access: settings saved by %s", GetRole(e.Request))
		SetToast(e, "success", "Module access saved")
		return renderModuleAccess(e, buildModuleAccessData(app))
	}
}
