package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"crmforms/services"
)

// LeadFormData holds everything the lead create/edit form renders.
type LeadFormData struct {
	ID      string
	Draft   services.LeadDraft
	Address AddressFormData
	Errors  map[string]string
}

// LeadFormContent renders the lead form.
func LeadFormContent(data LeadFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		action := "/leads"
		title := "Create Lead"
		if data.ID != "" {
			action = "/leads/" + data.ID + "/save"
			title = "Edit Lead"
		}
		h.raw(`<section id="lead-form"><h1>`)
		h.text(title)
		h.raw(`</h1>`)
		h.component(ctx, FormErrors(data.Errors))
		h.raw(`<form method="post" action="`, attr(action), `" hx-post="`, attr(action), `" hx-target="#lead-form" hx-swap="outerHTML">`)
		h.raw(`<fieldset><legend>CONTACT</legend>`)
		textInput(h, data.Errors, "name", "Name", data.Draft.Name, "")
		textInput(h, data.Errors, "company", "Company", data.Draft.Company, "")
		textInput(h, data.Errors, "email", "Email", data.Draft.Email, "email")
		textInput(h, data.Errors, "phone", "Phone", data.Draft.Phone, "tel")
		textInput(h, data.Errors, "source", "Source", data.Draft.Source, "")
		statuses := make([]string, len(services.LeadStatusOptions))
		for i, s := range services.LeadStatusOptions {
			statuses[i] = string(s)
		}
		h.raw(`<div class="field"><label for="status">Status</label><select id="status" name="status">`)
		h.component(ctx, StringOptionList(statuses, string(data.Draft.Status), ""))
		h.raw(`</select>`)
		fieldError(h, data.Errors, "status")
		h.raw(`</div></fieldset>`)
		h.component(ctx, AddressFields(data.Address, data.Errors))
		h.raw(`<div class="actions"><a href="/leads">Cancel</a><button type="submit">Save Lead</button></div>`)
		h.raw(`</form></section>`)
		return h.err
	})
}

// LeadFormPage renders the lead form as a full page.
func LeadFormPage(data LeadFormData, nav NavData) templ.Component {
	title := "Create Lead"
	if data.ID != "" {
		title = "Edit Lead"
	}
	return Page(title, nav, LeadFormContent(data))
}

// LeadListItem is one row of the lead list.
type LeadListItem struct {
	ID       string
	Name     string
	Company  string
	Status   string
	Location string
}

// LeadListContent renders the lead table.
func LeadListContent(items []LeadListItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="lead-list"><header><h1>Leads</h1><a class="button" href="/leads/create">New Lead</a></header>`)
		if len(items) == 0 {
			h.raw(`<p class="empty">No leads yet.</p></section>`)
			return h.err
		}
		h.raw(`<table><thead><tr><th>Name</th><th>Company</th><th>Status</th><th>Location</th></tr></thead><tbody>`)
		for _, l := range items {
			h.raw(`<tr><td><a href="/leads/`, attr(l.ID), `/edit">`)
			h.text(l.Name)
			h.raw(`</a></td><td>`)
			h.text(l.Company)
			h.raw(`</td><td><span class="status status-`, attr(l.Status), `">`)
			h.text(l.Status)
			h.raw(`</span></td><td>`)
			h.text(l.Location)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
		return h.err
	})
}

// LeadListPage renders the lead list as a full page.
func LeadListPage(items []LeadListItem, nav NavData) templ.Component {
	return Page("Leads", nav, LeadListContent(items))
}
