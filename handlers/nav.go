package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"

	"crmforms/collections"
	"crmforms/templates"
)

var navModules = []struct {
	module     string
	label      string
	href       string
	collection string
}{
	{"customers", "Customers", "/customers", "customers"},
	{"leads", "Leads", "/leads", "leads"},
	{"proposals", "Proposals", "/proposals", "proposals"},
	{"proformas", "Proforma Invoices", "/proformas", "proforma_invoices"},
	{"donors", "Donors", "/donors", "donors"},
}

// BuildNavData constructs the navigation for the current request. Modules
// the acting role cannot view are left out; each entry carries its record
// count.
func BuildNavData(r *http.Request, app *pocketbase.PocketBase) templates.NavData {
	role := GetRole(r)
	data := templates.NavData{Role: role}

	for _, m := range navModules {
		if canView, _ := collections.LookupModuleAccess(app, role, m.module); !canView {
			continue
		}
		item := templates.NavItem{
			Label:  m.label,
			Href:   m.href,
			Active: r.URL.Path == m.href || strings.HasPrefix(r.URL.Path, m.href+"/"),
		}
		if count, err := app.CountRecords(m.collection); err == nil {
			item.Count = int(count)
		}
		data.Items = append(data.Items, item)
	}

	if role == "admin" {
		data.Items = append(data.Items, templates.NavItem{
			Label:  "Module Access",
			Href:   "/admin/module-access",
			Active: strings.HasPrefix(r.URL.Path, "/admin/module-access"),
		})
	}
	return data
}
