package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"crmforms/services"
)

// CustomerFormData holds everything the customer create/edit form renders.
type CustomerFormData struct {
	ID       string
	Draft    services.CustomerDraft
	Billing  AddressFormData
	Shipping AddressFormData
	Errors   map[string]string
}

func (d CustomerFormData) action() string {
	if d.ID == "" {
		return "/customers"
	}
	return "/customers/" + d.ID + "/save"
}

// CustomerFormContent renders the customer form. Toggling "same as billing"
// re-renders the form through /customers/form.
func CustomerFormContent(data CustomerFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		title := "Create Customer"
		if data.ID != "" {
			title = "Edit Customer"
		}
		h.raw(`<section id="customer-form"><h1>`)
		h.text(title)
		h.raw(`</h1>`)
		h.component(ctx, FormErrors(data.Errors))
		h.raw(`<form method="post" action="`, attr(data.action()), `" hx-post="`, attr(data.action()), `" hx-target="#customer-form" hx-swap="outerHTML">`)
		if data.ID != "" {
			h.raw(`<input type="hidden" name="id" value="`, attr(data.ID), `">`)
		}
		h.raw(`<fieldset><legend>BASIC INFORMATION</legend>`)
		textInput(h, data.Errors, "name", "Customer Name", data.Draft.Name, "")
		textInput(h, data.Errors, "email", "Email", data.Draft.Email, "email")
		textInput(h, data.Errors, "phone", "Phone", data.Draft.Phone, "tel")
		textInput(h, data.Errors, "gstin", "GSTIN", data.Draft.GSTIN, "")
		h.raw(`<div class="field"><label for="currency">Currency</label><select id="currency" name="currency">`)
		currencies := make([]string, len(services.CurrencyOptions))
		for i, c := range services.CurrencyOptions {
			currencies[i] = string(c)
		}
		h.component(ctx, StringOptionList(currencies, string(data.Draft.Currency), ""))
		h.raw(`</select></div></fieldset>`)

		h.component(ctx, AddressFields(data.Billing, data.Errors))
		h.raw(`<label class="toggle"><input type="checkbox" name="same_as_billing" value="true"`, checkedAttr(data.Draft.SameAsBilling))
		h.raw(` hx-post="/customers/form" hx-target="#customer-form" hx-swap="outerHTML" hx-include="closest form"> Shipping same as billing</label>`)
		h.component(ctx, AddressFields(data.Shipping, data.Errors))

		h.raw(`<div class="actions"><a href="/customers">Cancel</a><button type="submit">Save Customer</button></div>`)
		h.raw(`</form></section>`)
		return h.err
	})
}

// CustomerFormPage renders the customer form as a full page.
func CustomerFormPage(data CustomerFormData, nav NavData) templ.Component {
	title := "Create Customer"
	if data.ID != "" {
		title = "Edit Customer"
	}
	return Page(title, nav, CustomerFormContent(data))
}

// CustomerListItem is one row of the customer list.
type CustomerListItem struct {
	ID       string
	Name     string
	Email    string
	City     string
	State    string
	Country  string
	Currency string
}

// CustomerListContent renders the customer table.
func CustomerListContent(items []CustomerListItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="customer-list"><header><h1>Customers</h1>`)
		h.raw(`<a class="button" href="/customers/create">New Customer</a> <a class="button" href="/customers/export">Export Excel</a></header>`)
		if len(items) == 0 {
			h.raw(`<p class="empty">No customers yet.</p></section>`)
			return h.err
		}
		h.raw(`<table><thead><tr><th>Name</th><th>Email</th><th>City</th><th>State</th><th>Country</th><th>Currency</th><th></th></tr></thead><tbody>`)
		for _, c := range items {
			h.raw(`<tr id="customer-`, attr(c.ID), `"><td><a href="/customers/`, attr(c.ID), `/edit">`)
			h.text(c.Name)
			h.raw(`</a></td>`)
			for _, v := range []string{c.Email, c.City, c.State, c.Country, c.Currency} {
				h.raw(`<td>`)
				h.text(v)
				h.raw(`</td>`)
			}
			h.raw(`<td><button hx-delete="/customers/`, attr(c.ID), `" hx-confirm="Delete this customer?">Delete</button></td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
		return h.err
	})
}

// CustomerListPage renders the customer list as a full page.
func CustomerListPage(items []CustomerListItem, nav NavData) templ.Component {
	return Page("Customers", nav, CustomerListContent(items))
}
