package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"crmforms/config"
	"crmforms/logging"
	"crmforms/services"
	"crmforms/templates"
)

// DocRoute binds a document kind to its URL prefix and display label.
type DocRoute struct {
	Kind     services.DocKind
	BasePath string
	Label    string
}

var (
	ProposalRoute = DocRoute{Kind: services.DocProposal, BasePath: "/proposals", Label: "Proposal"}
	ProformaRoute = DocRoute{Kind: services.DocProforma, BasePath: "/proformas", Label: "Proforma Invoice"}
)

func (r DocRoute) docPath(id string) string {
	return r.BasePath + "/" + id
}

// buildDocumentViewData loads a document, its items and totals.
func buildDocumentViewData(app *pocketbase.PocketBase, route DocRoute, id string, cfg *config.Config) (templates.DocumentViewData, error) {
	doc, pricing, err := services.LoadDocumentPricing(app, route.Kind, id, pricingOptions(cfg))
	if err != nil {
		return templates.DocumentViewData{}, err
	}

	itemCollection, parentField := services.ItemCollection(route.Kind)
	records, err := app.FindRecordsByFilter(itemCollection, parentField+" = {:id}", "sort_order", 0, 0, map[string]any{"id": id})
	if err != nil {
		records = nil
	}

	data := templates.DocumentViewData{
		BasePath:  route.BasePath,
		KindLabel: route.Label,
		ID:        doc.Id,
		DocNumber: doc.GetString("doc_number"),
		Title:     doc.GetString("title"),
		Status:    doc.GetString("status"),
		Totals: templates.TotalsData{
			Currency:        pricing.Currency,
			TaxType:         pricing.TaxType,
			DiscountPercent: pricing.DiscountPercent,
			TaxPercent:      pricing.TaxPercent,
			Totals:          pricing.Totals,
			TaxExclusive:    route.Kind == services.DocProforma && cfg.ProformaTaxExclusive,
		},
		Errors:    map[string]string{},
		CanExport: route.Kind == services.DocProforma,
	}
	if customer, err := app.FindRecordById("customers", doc.GetString("customer")); err == nil {
		data.CustomerName = customer.GetString("name")
	}
	for i, r := range records {
		item := services.LineItem{Quantity: r.GetFloat("qty"), Rate: r.GetFloat("rate")}
		data.Items = append(data.Items, templates.DocumentItemRow{
			ID:          r.Id,
			SINo:        i + 1,
			Description: r.GetString("description"),
			HSNCode:     r.GetString("hsn_code"),
			UoM:         r.GetString("uom"),
			Qty:         item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount(),
		})
	}
	if route.Kind == services.DocProposal {
		if pi, err := app.FindFirstRecordByFilter("proforma_invoices", "proposal = {:id}", dbx.Params{"id": id}); err == nil && pi != nil {
			data.ProformaID = pi.Id
		}
	}
	return data, nil
}

func renderDocumentView(e *core.RequestEvent, data templates.DocumentViewData) error {
	var component templ.Component
	if e.Request.Header.Get("HX-Request") == "true" {
		component = templates.DocumentViewContent(data)
	} else {
		component = templates.DocumentViewPage(data, GetNavData(e.Request))
	}
	return component.Render(e.Request.Context(), e.Response)
}

// HandleDocumentList renders proposals or proformas, newest first, with
// their grand totals.
func HandleDocumentList(app *pocketbase.PocketBase, route DocRoute, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var records []*core.Record
		if err := app.RecordQuery(services.DocumentCollection(route.Kind)).OrderBy("created DESC").All(&records); err != nil {
			logging.L().Errorf("document_list: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		items := make([]templates.DocumentListItem, 0, len(records))
		for _, r := range records {
			item := templates.DocumentListItem{
				ID:        r.Id,
				DocNumber: r.GetString("doc_number"),
				Status:    r.GetString("status"),
			}
			if customer, err := app.FindRecordById("customers", r.GetString("customer")); err == nil {
				item.CustomerName = customer.GetString("name")
			}
			if _, pricing, err := services.LoadDocumentPricing(app, route.Kind, r.Id, pricingOptions(cfg)); err == nil {
				item.GrandTotal = services.FormatMoney(pricing.Currency, pricing.Totals.GrandTotal)
			}
			items = append(items, item)
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.DocumentListContent(route.BasePath, route.Label, items)
		} else {
			component = templates.DocumentListPage(route.BasePath, route.Label, items, GetNavData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

func customerOptions(app *pocketbase.PocketBase) []templates.SelectOption {
	var records []*core.Record
	if err := app.RecordQuery("customers").OrderBy("name ASC").All(&records); err != nil {
		logging.L().Warnf("customer_options: %v", err)
		return nil
	}
	out := make([]templates.SelectOption, 0, len(records))
	for _, r := range records {
		out = append(out, templates.SelectOption{Value: r.Id, Label: r.GetString("name")})
	}
	return out
}

func renderDocumentForm(e *core.RequestEvent, data templates.DocumentFormData) error {
	var component templ.Component
	if e.Request.Header.Get("HX-Request") == "true" {
		component = templates.DocumentFormContent(data)
	} else {
		component = templates.DocumentFormPage(data, GetNavData(e.Request))
	}
	return component.Render(e.Request.Context(), e.Response)
}

// HandleDocumentCreate renders the new document form.
func HandleDocumentCreate(app *pocketbase.PocketBase, route DocRoute, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderDocumentForm(e, templates.DocumentFormData{
			BasePath:   route.BasePath,
			KindLabel:  route.Label,
			Customers:  customerOptions(app),
			CustomerID: e.Request.URL.Query().Get("customer"),
			Currency:   string(services.ParseCurrencyType(cfg.DefaultCurrency)),
			TaxType:    string(services.TaxGST),
			Errors:     map[string]string{},
		})
	}
}

// HandleDocumentSave numbers and creates a new draft document.
func HandleDocumentSave(app *pocketbase.PocketBase, route DocRoute, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		currency := e.Request.FormValue("currency")
		if strings.TrimSpace(currency) == "" {
			currency = cfg.DefaultCurrency
		}
		draft := services.DocumentDraft{
			CustomerID:      strings.TrimSpace(e.Request.FormValue("customer")),
			Title:           strings.TrimSpace(e.Request.FormValue("title")),
			Currency:        services.ParseCurrencyType(currency),
			TaxType:         services.ParseTaxType(e.Request.FormValue("tax_type")),
			TaxPercent:      strings.TrimSpace(e.Request.FormValue("tax_percent")),
			DiscountPercent: strings.TrimSpace(e.Request.FormValue("discount_percent")),
		}
		errs := services.ValidateDocumentDraft(draft)
		if _, ok := errs["customer"]; !ok {
			if _, err := app.FindRecordById("customers", draft.CustomerID); err != nil {
				errs["customer"] = "Customer not found"
			}
		}
		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return renderDocumentForm(e, templates.DocumentFormData{
				BasePath:        route.BasePath,
				KindLabel:       route.Label,
				Customers:       customerOptions(app),
				CustomerID:      draft.CustomerID,
				Title:           draft.Title,
				Currency:        string(draft.Currency),
				TaxType:         string(draft.TaxType),
				TaxPercent:      draft.TaxPercent,
				DiscountPercent: draft.DiscountPercent,
				Errors:          errs,
			})
		}

		docNumber, err := services.GenerateDocNumber(app, route.Kind, time.Now())
		if err != nil {
			logging.L().Errorf("document_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		col, err := app.FindCollectionByNameOrId(services.DocumentCollection(route.Kind))
		if err != nil {
			logging.L().Errorf("document_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("doc_number", docNumber)
		record.Set("customer", draft.CustomerID)
		if route.Kind == services.DocProposal {
			record.Set("title", draft.Title)
		}
		record.Set("currency", string(draft.Currency))
		record.Set("tax_type", string(draft.TaxType))
		record.Set("tax_percent", services.ResolveTaxPercent(draft.TaxType, draft.TaxPercent))
		record.Set("discount_percent", services.ClampDiscountPercent(cast.ToFloat64(draft.DiscountPercent)))
		record.Set("status", "draft")
		if err := app.Save(record); err != nil {
			logging.L().Errorf("document_create: could not save %s: %v", route.Kind, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		logging.L().Infof("document_create: created %s %s", route.Kind, docNumber)

		redirectURL := route.docPath(record.Id)
		SetToast(e, "success", fmt.Sprintf("%s %s created", route.Label, docNumber))
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", redirectURL)
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, redirectURL)
	}
}

// HandleDocumentView renders a document with its items and totals.
func HandleDocumentView(app *pocketbase.PocketBase, route DocRoute, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		data, err := buildDocumentViewData(app, route, id, cfg)
		if err != nil {
			logging.L().Warnf("document_view: %v", err)
			return ErrorToast(e, http.StatusNotFound, route.Label+" not found")
		}
		return renderDocumentView(e, data)
	}
}

// HandleDocumentAddItem appends a line item and re-renders the document.
func HandleDocumentAddItem(app *pocketbase.PocketBase, route DocRoute, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if _, err := app.FindRecordById(services.DocumentCollection(route.Kind), id); err != nil {
			logging.L().Warnf("add_item: %s %s not found: %v", route.Kind, id, err)
			return ErrorToast(e, http.StatusNotFound, route.Label+" not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		item := services.NewLineItem(
			strings.TrimSpace(e.Request.FormValue("item_description")),
			strings.TrimSpace(e.Request.FormValue("item_qty")),
			strings.TrimSpace(e.Request.FormValue("item_rate")),
		)
		item.HSNCode = strings.TrimSpace(e.Request.FormValue("item_hsn_code"))
		item.UoM = strings.TrimSpace(e.Request.FormValue("item_uom"))

		errs := map[string]string{}
		if item.Description == "" {
			errs["item_description"] = "Description is required"
		}
		if rowErr, ok := services.ValidateLineItems([]services.LineItem{item})[0]; ok {
			field := "item_rate"
			if item.Quantity < 0 {
				field = "item_qty"
			}
			errs[field] = rowErr.Error()
		}
		if len(errs) > 0 {
			data, err := buildDocumentViewData(app, route, id, cfg)
			if err != nil {
				logging.L().Errorf("add_item: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			data.Errors = errs
			SetToast(e, "warning", "Please fix the errors below")
			return renderDocumentView(e, data)
		}

		itemCollection, parentField := services.ItemCollection(route.Kind)
		col, err := app.FindCollectionByNameOrId(itemCollection)
		if err != nil {
			logging.L().Errorf("add_item: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		sortOrder := 1
		if last, err := app.FindRecordsByFilter(col, parentField+" = {:id}", "-sort_order", 1, 0, map[string]any{"id": id}); err == nil && len(last) > 0 {
			sortOrder = last[0].GetInt("sort_order") + 1
		}

		record := core.NewRecord(col)
		record.Set(parentField, id)
		record.Set("sort_order", sortOrder)
		record.Set("description", item.Description)
		record.Set("hsn_code", item.HSNCode)
		record.Set("uom", item.UoM)
		record.Set("qty", item.Quantity)
		record.Set("rate", item.Rate)
		if err := app.Save(record); err != nil {
			logging.L().Errorf("add_item: could not save item: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		data, err := buildDocumentViewData(app, route, id, cfg)
		if err != nil {
			logging.L().Errorf("add_item: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		SetToast(e, "success", "Item added")
		return renderDocumentView(e, data)
	}
}

// HandleDocumentDeleteItem removes a line item and re-renders the document.
func HandleDocumentDeleteItem(app *pocketbase.PocketBase, route DocRoute, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")
		if id == "" || itemID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing required IDs")
		}

		itemCollection, parentField := services.ItemCollection(route.Kind)
		record, err := app.FindRecordById(itemCollection, itemID)
		if err != nil || record.GetString(parentField) != id {
			logging.L().Warnf("delete_item: item %s not found under %s %s", itemID, route.Kind, id)
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}
		if err := app.Delete(record); err != nil {
			logging.L().Errorf("delete_item: error deleting %s: %v", itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		data, err := buildDocumentViewData(app, route, id, cfg)
		if err != nil {
			logging.L().Errorf("delete_item: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		SetToast(e, "success", "Item deleted")
		return renderDocumentView(e, data)
	}
}

// HandleProformaFromProposal creates a proforma invoice carrying over the
// proposal's customer, pricing and items. A proposal that already has a
// proforma redirects to it instead.
func HandleProformaFromProposal(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")
		proposal, err := app.FindRecordById("proposals", proposalID)
		if err != nil {
			logging.L().Warnf("proforma_from_proposal: proposal %s not found: %v", proposalID, err)
			return ErrorToast(e, http.StatusNotFound, "Proposal not found")
		}

		proformaID, created, err := copyProposalToProforma(app, proposal)
		if err != nil {
			logging.L().Errorf("proforma_from_proposal: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if created {
			SetToast(e, "success", "Proforma invoice created")
		}

		redirectURL := ProformaRoute.docPath(proformaID)
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", redirectURL)
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, redirectURL)
	}
}

// copyProposalToProforma returns the proposal's proforma, creating it when
// none exists yet. The lookup, numbering and copy share one transaction.
func copyProposalToProforma(app core.App, proposal *core.Record) (proformaID string, created bool, err error) {
	err = app.RunInTransaction(func(txApp core.App) error {
		existing, err := txApp.FindFirstRecordByFilter("proforma_invoices", "proposal = {:id}", dbx.Params{"id": proposal.Id})
		if err == nil && existing != nil {
			proformaID = existing.Id
			return nil
		}
		docNumber, err := services.GenerateDocNumber(txApp, services.DocProforma, time.Now())
		if err != nil {
			return err
		}

		col, err := txApp.FindCollectionByNameOrId("proforma_invoices")
		if err != nil {
			return err
		}
		pi := core.NewRecord(col)
		pi.Set("doc_number", docNumber)
		pi.Set("customer", proposal.GetString("customer"))
		pi.Set("proposal", proposal.Id)
		for _, field := range []string{"currency", "tax_type", "tax_percent", "discount_percent"} {
			pi.Set(field, proposal.Get(field))
		}
		pi.Set("status", "draft")
		if err := txApp.Save(pi); err != nil {
			return fmt.Errorf("save proforma: %w", err)
		}

		itemsCol, err := txApp.FindCollectionByNameOrId("proforma_items")
		if err != nil {
			return err
		}
		items, err := txApp.FindRecordsByFilter("proposal_items", "proposal = {:id}", "sort_order", 0, 0, map[string]any{"id": proposal.Id})
		if err != nil {
			return fmt.Errorf("fetch proposal items: %w", err)
		}
		for _, it := range items {
			r := core.NewRecord(itemsCol)
			r.Set("proforma", pi.Id)
			for _, field := range []string{"sort_order", "description", "hsn_code", "uom", "qty", "rate"} {
				r.Set(field, it.Get(field))
			}
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("copy item %s: %w", it.Id, err)
			}
		}
		proformaID, created = pi.Id, true
		return nil
	})
	return proformaID, created, err
}

// HandleTotalsPreview recomputes totals from an unsaved items form. Rows
// are matched by position across the description/qty/rate arrays; missing
// or malformed numbers count as zero.
func HandleTotalsPreview() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		form := e.Request.Form
		descriptions, qtys, rates := form["description"], form["qty"], form["rate"]
		rows := max(len(descriptions), len(qtys), len(rates))

		at := func(list []string, i int) string {
			if i < len(list) {
				return list[i]
			}
			return ""
		}
		items := make([]services.LineItem, 0, rows)
		for i := 0; i < rows; i++ {
			items = append(items, services.NewLineItem(at(descriptions, i), at(qtys, i), at(rates, i)))
		}

		taxType := services.ParseTaxType(form.Get("tax_type"))
		data := templates.TotalsData{
			Currency:        services.ParseCurrencyType(form.Get("currency")),
			TaxType:         taxType,
			DiscountPercent: cast.ToFloat64(strings.TrimSpace(form.Get("discount_percent"))),
			TaxPercent:      services.ResolveTaxPercent(taxType, form.Get("tax_percent")),
			TaxExclusive:    cast.ToBool(form.Get("tax_exclusive")),
			RowErrors:       services.ValidateLineItems(items),
		}
		data.Totals = services.ComputeTotals(services.TotalsInput{
			Items:           items,
			DiscountPercent: data.DiscountPercent,
			TaxPercent:      data.TaxPercent,
		})
		if data.TaxExclusive {
			data.Totals = data.Totals.ExcludingTax()
		}

		if strings.Contains(e.Request.Header.Get("Accept"), "application/json") {
			return e.JSON(http.StatusOK, data.Totals)
		}
		return templates.TotalsSummary(data).Render(e.Request.Context(), e.Response)
	}
}
