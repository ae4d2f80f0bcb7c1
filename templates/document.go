package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"crmforms/services"
)

// DocumentItemRow is one persisted line item of a proposal or proforma.
type DocumentItemRow struct {
	ID          string
	SINo        int
	Description string
	HSNCode     string
	UoM         string
	Qty         float64
	Rate        float64
	Amount      float64
}

// DocumentViewData holds a proposal or proforma with its items and totals.
type DocumentViewData struct {
	// BasePath is "/proposals" or "/proformas".
	BasePath     string
	KindLabel    string
	ID           string
	DocNumber    string
	Title        string
	CustomerName string
	Status       string
	Items        []DocumentItemRow
	Totals       TotalsData
	Errors       map[string]string
	// ProformaID is set on a proposal that already has a proforma.
	ProformaID string
	CanExport  bool
}

// DocumentViewContent renders the document header, its items with an add
// form and the live totals.
func DocumentViewContent(data DocumentViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		docPath := data.BasePath + "/" + data.ID
		money := func(v float64) string { return services.FormatMoney(data.Totals.Currency, v) }

		h.raw(`<section id="document-view"><header><h1>`)
		h.text(data.KindLabel + " " + data.DocNumber)
		h.raw(`</h1><p class="meta">`)
		h.text(data.CustomerName)
		if data.Title != "" {
			h.text(" · " + data.Title)
		}
		h.raw(` <span class="status status-`, attr(data.Status), `">`)
		h.text(data.Status)
		h.raw(`</span></p><div class="actions">`)
		if data.CanExport {
			h.raw(`<a class="button" href="`, attr(docPath), `/export/pdf" hx-boost="false">Export PDF</a>`)
		}
		if data.BasePath == "/proposals" {
			if data.ProformaID != "" {
				h.raw(`<a class="button" href="/proformas/`, attr(data.ProformaID), `">View Proforma</a>`)
			} else {
				h.raw(`<button hx-post="`, attr(docPath), `/proforma">Create Proforma</button>`)
			}
		}
		h.raw(`</div></header>`)
		h.component(ctx, FormErrors(data.Errors))

		h.raw(`<form id="items-form" hx-post="/totals/preview" hx-trigger="input changed delay:300ms" hx-target="#totals-summary" hx-swap="outerHTML">`)
		h.raw(`<input type="hidden" name="currency" value="`, attr(string(data.Totals.Currency)), `">`)
		h.raw(`<input type="hidden" name="tax_type" value="`, attr(string(data.Totals.TaxType)), `">`)
		h.raw(`<input type="hidden" name="tax_percent" value="`, formatNumber(data.Totals.TaxPercent), `">`)
		h.raw(`<input type="hidden" name="tax_exclusive" value="`, strconv.FormatBool(data.Totals.TaxExclusive), `">`)
		h.raw(`<div class="field"><label for="discount_percent">Discount %</label>`)
		h.raw(`<input type="number" step="any" id="discount_percent" name="discount_percent" value="`, formatNumber(data.Totals.DiscountPercent), `"></div>`)
		h.raw(`<table class="items"><thead><tr><th>#</th><th>Description</th><th>HSN/SAC</th><th>UoM</th><th>Qty</th><th>Rate</th><th>Amount</th><th></th></tr></thead><tbody>`)
		for _, it := range data.Items {
			h.raw(`<tr id="item-`, attr(it.ID), `"><td>`, strconv.Itoa(it.SINo), `</td><td>`)
			h.text(it.Description)
			h.raw(`<input type="hidden" name="description" value="`, attr(it.Description), `"></td><td>`)
			h.text(it.HSNCode)
			h.raw(`</td><td>`)
			h.text(it.UoM)
			h.raw(`</td><td><input type="number" step="any" name="qty" value="`, formatNumber(it.Qty), `"></td>`)
			h.raw(`<td><input type="number" step="any" name="rate" value="`, formatNumber(it.Rate), `"></td><td>`)
			h.text(money(it.Amount))
			h.raw(`</td><td><button type="button" hx-delete="`, attr(docPath), `/items/`, attr(it.ID), `" hx-target="#document-view" hx-swap="outerHTML">Remove</button></td></tr>`)
		}
		if len(data.Items) == 0 {
			h.raw(`<tr><td colspan="8" class="empty">No items yet.</td></tr>`)
		}
		h.raw(`</tbody></table></form>`)
		h.component(ctx, TotalsSummary(data.Totals))

		h.raw(`<form id="add-item" hx-post="`, attr(docPath), `/items" hx-target="#document-view" hx-swap="outerHTML"><fieldset><legend>ADD ITEM</legend>`)
		textInput(h, data.Errors, "item_description", "Description", "", "")
		textInput(h, data.Errors, "item_hsn_code", "HSN/SAC", "", "")
		h.raw(`<div class="field"><label for="item_uom">UoM</label><select id="item_uom" name="item_uom">`)
		h.component(ctx, StringOptionList(services.UOMOptions, services.DefaultUOM, ""))
		h.raw(`</select></div>`)
		textInput(h, data.Errors, "item_qty", "Qty", "1", "number")
		textInput(h, data.Errors, "item_rate", "Rate", "0", "number")
		h.raw(`<button type="submit">Add Item</button></fieldset></form></section>`)
		return h.err
	})
}

// DocumentViewPage renders a document as a full page.
func DocumentViewPage(data DocumentViewData, nav NavData) templ.Component {
	return Page(data.KindLabel+" "+data.DocNumber, nav, DocumentViewContent(data))
}

// SelectOption is a generic value/label pair.
type SelectOption struct {
	Value string
	Label string
}

// DocumentFormData holds the new proposal/proforma form.
type DocumentFormData struct {
	BasePath        string
	KindLabel       string
	Customers       []SelectOption
	CustomerID      string
	Title           string
	Currency        string
	TaxType         string
	TaxPercent      string
	DiscountPercent string
	Errors          map[string]string
}

// DocumentFormContent renders the new document form.
func DocumentFormContent(data DocumentFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="document-form"><h1>New `)
		h.text(data.KindLabel)
		h.raw(`</h1>`)
		h.component(ctx, FormErrors(data.Errors))
		h.raw(`<form method="post" action="`, attr(data.BasePath), `" hx-post="`, attr(data.BasePath), `" hx-target="#document-form" hx-swap="outerHTML">`)
		h.raw(`<div class="field"><label for="customer">Customer</label><select id="customer" name="customer"><option value="">Select customer</option>`)
		for _, c := range data.Customers {
			h.raw(`<option value="`, attr(c.Value), `"`, selectedAttr(c.Value == data.CustomerID), `>`)
			h.text(c.Label)
			h.raw(`</option>`)
		}
		h.raw(`</select>`)
		fieldError(h, data.Errors, "customer")
		h.raw(`</div>`)
		if data.BasePath == "/proposals" {
			textInput(h, data.Errors, "title", "Title", data.Title, "")
		}

		currencies := make([]string, len(services.CurrencyOptions))
		for i, c := range services.CurrencyOptions {
			currencies[i] = string(c)
		}
		h.raw(`<div class="field"><label for="currency">Currency</label><select id="currency" name="currency">`)
		h.component(ctx, StringOptionList(currencies, data.Currency, ""))
		h.raw(`</select></div>`)

		h.raw(`<div class="field"><label for="tax_type">Tax</label><select id="tax_type" name="tax_type">`)
		for _, opt := range services.TaxTypeOptions {
			h.raw(`<option value="`, attr(string(opt.Type)), `"`, selectedAttr(string(opt.Type) == data.TaxType), `>`)
			h.text(opt.Label)
			h.raw(`</option>`)
		}
		h.raw(`</select></div>`)
		textInput(h, data.Errors, "tax_percent", "Tax % (blank for default)", data.TaxPercent, "number")
		textInput(h, data.Errors, "discount_percent", "Discount %", data.DiscountPercent, "number")
		h.raw(`<div class="actions"><a href="`, attr(data.BasePath), `">Cancel</a><button type="submit">Create</button></div></form></section>`)
		return h.err
	})
}

// DocumentFormPage renders the new document form as a full page.
func DocumentFormPage(data DocumentFormData, nav NavData) templ.Component {
	return Page("New "+data.KindLabel, nav, DocumentFormContent(data))
}

// DocumentListItem is one row of a proposal or proforma list.
type DocumentListItem struct {
	ID           string
	DocNumber    string
	CustomerName string
	Status       string
	GrandTotal   string
}

// DocumentListContent renders a proposal or proforma table.
func DocumentListContent(basePath, kindLabel string, items []DocumentListItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="document-list"><header><h1>`)
		h.text(kindLabel + "s")
		h.raw(`</h1><a class="button" href="`, attr(basePath), `/create">New `)
		h.text(kindLabel)
		h.raw(`</a></header>`)
		if len(items) == 0 {
			h.raw(`<p class="empty">Nothing here yet.</p></section>`)
			return h.err
		}
		h.raw(`<table><thead><tr><th>Number</th><th>Customer</th><th>Status</th><th>Grand Total</th></tr></thead><tbody>`)
		for _, d := range items {
			h.raw(`<tr><td><a href="`, attr(basePath+"/"+d.ID), `">`)
			h.text(d.DocNumber)
			h.raw(`</a></td><td>`)
			h.text(d.CustomerName)
			h.raw(`</td><td>`)
			h.text(d.Status)
			h.raw(`</td><td class="num">`)
			h.text(d.GrandTotal)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
		return h.err
	})
}

// DocumentListPage renders a document list as a full page.
func DocumentListPage(basePath, kindLabel string, items []DocumentListItem, nav NavData) templ.Component {
	return Page(kindLabel+"s", nav, DocumentListContent(basePath, kindLabel, items))
}
