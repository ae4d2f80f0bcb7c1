package handlers

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"crmforms/logging"
	"crmforms/services"
	"crmforms/templates"
)

func leadDraftFromForm(resolver *services.GeoCascadeResolver, r *http.Request) (services.LeadDraft, map[string]string) {
	errs := make(map[string]string)
	d := services.LeadDraft{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Company: strings.TrimSpace(r.FormValue("company")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		Source:  strings.TrimSpace(r.FormValue("source")),
		Status:  services.LeadStatus(strings.TrimSpace(r.FormValue("status"))),
	}
	if d.Status == "" {
		d.Status = services.LeadNew
	}
	address, err := addressFromForm(resolver, r, "")
	if err != nil {
		addressError(errs, "", err)
	}
	d.Address = address
	for k, v := range services.ValidateLeadDraft(resolver, d) {
		if _, ok := errs[k]; !ok {
			errs[k] = v
		}
	}
	return d, errs
}

func leadFormData(resolver *services.GeoCascadeResolver, id string, d services.LeadDraft, errs map[string]string) templates.LeadFormData {
	return templates.LeadFormData{
		ID:      id,
		Draft:   d,
		Address: addressFormData(resolver, "", "LOCATION", d.Address, false),
		Errors:  errs,
	}
}

func renderLeadForm(e *core.RequestEvent, data templates.LeadFormData) error {
	var component templ.Component
	if e.Request.Header.Get("HX-Request") == "true" {
		component = templates.LeadFormContent(data)
	} else {
		component = templates.LeadFormPage(data, GetNavData(e.Request))
	}
	return component.Render(e.Request.Context(), e.Response)
}

func setLeadFields(record *core.Record, d services.LeadDraft) {
	record.Set("name", d.Name)
	record.Set("company", d.Company)
	record.Set("email", d.Email)
	record.Set("phone", d.Phone)
	record.Set("source", d.Source)
	record.Set("status", string(d.Status))
	setAddressFields(record, "", d.Address)
}

// HandleLeadList renders leads, newest first.
func HandleLeadList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var records []*core.Record
		if err := app.RecordQuery("leads").OrderBy("created DESC").All(&records); err != nil {
			logging.L().Errorf("lead_list: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		items := make([]templates.LeadListItem, 0, len(records))
		for _, r := range records {
			items = append(items, templates.LeadListItem{
				ID:       r.Id,
				Name:     r.GetString("name"),
				Company:  r.GetString("company"),
				Status:   r.GetString("status"),
				Location: locationLabel(r.GetString("city"), r.GetString("state"), r.GetString("country")),
			})
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.LeadListContent(items)
		} else {
			component = templates.LeadListPage(items, GetNavData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleLeadCreate renders an empty lead form.
func HandleLeadCreate(resolver *services.GeoCascadeResolver) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d := services.LeadDraft{Status: services.LeadNew}
		return renderLeadForm(e, leadFormData(resolver, "", d, map[string]string{}))
	}
}

// HandleLeadSave validates and creates a lead.
func HandleLeadSave(app *pocketbase.PocketBase, resolver *services.GeoCascadeResolver) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		d, errs := leadDraftFromForm(resolver, e.Request)
		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return renderLeadForm(e, leadFormData(resolver, "", d, errs))
		}

		col, err := app.FindCollectionByNameOrId("leads")
		if err != nil {
			logging.L().Errorf("lead_create: could not find leads collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		record := core.NewRecord(col)
		setLeadFields(record, d)
		if err := app.Save(record); err != nil {
			logging.L().Errorf("lead_create: could not save lead: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Lead created successfully")
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/leads")
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/leads")
	}
}

// HandleLeadEdit renders the form for an existing lead.
func HandleLeadEdit(app *pocketbase.PocketBase, resolver *services.GeoCascadeResolver) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		record, err := app.FindRecordById("leads", id)
		if err != nil {
			logging.L().Warnf("lead_edit: could not find lead %s: %v", id, err)
			return ErrorToast(e, http.StatusNotFound, "Lead not found")
		}
		d := services.LeadDraft{
			Name:    record.GetString("name"),
			Company: record.GetString("company"),
			Email:   record.GetString("email"),
			Phone:   record.GetString("phone"),
			Source:  record.GetString("source"),
			Status:  services.LeadStatus(record.GetString("status")),
			Address: addressFromRecord(resolver, record, ""),
		}
		return renderLeadForm(e, leadFormData(resolver, id, d, map[string]string{}))
	}
}

// HandleLeadUpdate validates and saves an existing lead.
func HandleLeadUpdate(app *pocketbase.PocketBase, resolver *services.GeoCascadeResolver) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		record, err := app.FindRecordById("leads", id)
		if err != nil {
			logging.L().Warnf("lead_update: could not find lead %s: %v", id, err)
			return ErrorToast(e, http.StatusNotFound, "Lead not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		d, errs := leadDraftFromForm(resolver, e.Request)
		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return renderLeadForm(e, leadFormData(resolver, id, d, errs))
		}

		setLeadFields(record, d)
		if err := app.Save(record); err != nil {
			logging.L().Errorf("lead_update: could not save lead %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Lead updated successfully")
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/leads")
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/leads")
	}
}
