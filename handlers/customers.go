package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"crmforms/config"
	"crmforms/logging"
	"crmforms/services"
	"crmforms/templates"
)

// customerDraftFromForm rebuilds a customer draft from a submitted form.
// Cascade errors are returned as field errors. A disabled shipping block posts
// nothing, so a form that has just unticked "same as billing" keeps the
// mirrored copy as its starting shipping address.
func customerDraftFromForm(resolver *services.GeoCascadeResolver, r *http.Request) (services.CustomerDraft, map[string]string) {
	errs := make(map[string]string)
	sameAs := r.FormValue("same_as_billing") == "true"
	shippingPosted := formHasPrefix(r, "shipping_")

	d := services.CustomerDraft{
		Name:          strings.TrimSpace(r.FormValue("name")),
		Email:         strings.TrimSpace(r.FormValue("email")),
		Phone:         strings.TrimSpace(r.FormValue("phone")),
		GSTIN:         strings.ToUpper(strings.TrimSpace(r.FormValue("gstin"))),
		Currency:      services.ParseCurrencyType(r.FormValue("currency")),
		SameAsBilling: sameAs || !shippingPosted,
	}

	fromForm := func(prefix string) func(services.AddressDraft) (services.AddressDraft, error) {
		return func(services.AddressDraft) (services.AddressDraft, error) {
			a, err := addressFromForm(resolver, r, prefix)
			if err != nil {
				addressError(errs, prefix, err)
			}
			return a, nil
		}
	}

	steps := []func(services.CustomerDraft) (services.CustomerDraft, error){
		func(d services.CustomerDraft) (services.CustomerDraft, error) {
			return d.UpdateAddress(resolver, services.AddressBilling, fromForm("billing_"))
		},
		func(d services.CustomerDraft) (services.CustomerDraft, error) {
			return d.SetSameAsBilling(resolver, sameAs)
		},
	}
	if !sameAs && shippingPosted {
		steps = append(steps, func(d services.CustomerDraft) (services.CustomerDraft, error) {
			return d.UpdateAddress(resolver, services.AddressShipping, fromForm("shipping_"))
		})
	}
	for _, step := range steps {
		next, err := step(d)
		if err != nil {
			logging.L().Errorw("customer form: draft transition failed", "error", err)
			return d, errs
		}
		d = next
	}
	return d, errs
}

// formHasPrefix reports whether any submitted field name starts with prefix.
func formHasPrefix(r *http.Request, prefix string) bool {
	for name := range r.Form {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func customerFormData(resolver *services.GeoCascadeResolver, id string, d services.CustomerDraft, errs map[string]string) templates.CustomerFormData {
	return templates.CustomerFormData{
		ID:       id,
		Draft:    d,
		Billing:  addressFormData(resolver, "billing_", "BILLING ADDRESS", d.Billing, false),
		Shipping: addressFormData(resolver, "shipping_", "SHIPPING ADDRESS", d.Shipping, d.SameAsBilling),
		Errors:   errs,
	}
}

func renderCustomerForm(e *core.RequestEvent, data templates.CustomerFormData) error {
	var component templ.Component
	if e.Request.Header.Get("HX-Request") == "true" {
		component = templates.CustomerFormContent(data)
	} else {
		component = templates.CustomerFormPage(data, GetNavData(e.Request))
	}
	return component.Render(e.Request.Context(), e.Response)
}

// setCustomerFields writes a draft onto a customer record. Location columns
// receive display names, never codes.
func setCustomerFields(record *core.Record, d services.CustomerDraft) {
	record.Set("name", d.Name)
	record.Set("email", d.Email)
	record.Set("phone", d.Phone)
	record.Set("gstin", d.GSTIN)
	record.Set("currency", string(d.Currency))
	setAddressFields(record, "billing_", d.Billing)
	setAddressFields(record, "shipping_", d.Shipping)
	record.Set("same_as_billing", d.SameAsBilling)
}

// HandleCustomerList renders all customers ordered by name.
func HandleCustomerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var records []*core.Record
		if err := app.RecordQuery("customers").OrderBy("name ASC").All(&records); err != nil {
			logging.L().Errorf("customer_list: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		items := make([]templates.CustomerListItem, 0, len(records))
		for _, r := range records {
			items = append(items, templates.CustomerListItem{
				ID:       r.Id,
				Name:     r.GetString("name"),
				Email:    r.GetString("email"),
				City:     r.GetString("billing_city"),
				State:    r.GetString("billing_state"),
				Country:  r.GetString("billing_country"),
				Currency: r.GetString("currency"),
			})
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.CustomerListContent(items)
		} else {
			component = templates.CustomerListPage(items, GetNavData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleCustomerCreate renders an empty customer form.
func HandleCustomerCreate(resolver *services.GeoCascadeResolver, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d := services.CustomerDraft{
			Currency:      services.ParseCurrencyType(cfg.DefaultCurrency),
			SameAsBilling: true,
		}
		return renderCustomerForm(e, customerFormData(resolver, "", d, map[string]string{}))
	}
}

// HandleCustomerFormRefresh re-renders the form after a client-side
// transition such as toggling "same as billing", without saving.
func HandleCustomerFormRefresh(resolver *services.GeoCascadeResolver) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		d, errs := customerDraftFromForm(resolver, e.Request)
		return renderCustomerForm(e, customerFormData(resolver, e.Request.FormValue("id"), d, errs))
	}
}

// HandleCustomerSave validates and creates a customer.
func HandleCustomerSave(app *pocketbase.PocketBase, resolver *services.GeoCascadeResolver) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		d, errs := customerDraftFromForm(resolver, e.Request)
		for k, v := range services.ValidateCustomerDraft(resolver, d) {
			if _, ok := errs[k]; !ok {
				errs[k] = v
			}
		}
		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return renderCustomerForm(e, customerFormData(resolver, "", d, errs))
		}

		col, err := app.FindCollectionByNameOrId("customers")
		if err != nil {
			logging.L().Errorf("customer_create: could not find customers collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		record := core.NewRecord(col)
		setCustomerFields(record, d)
		if err := app.Save(record); err != nil {
			logging.L().Errorf("customer_create: could not save customer: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		logging.L().Infof("customer_create: created customer %s", record.Id)

		SetToast(e, "success", "Customer created successfully")
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/customers")
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/customers")
	}
}

// HandleCustomerEdit renders the form for an existing customer. Stored
// location names are resolved to selections; text that no longer matches
// the dataset is shown as-is.
func HandleCustomerEdit(app *pocketbase.PocketBase, resolver *services.GeoCascadeResolver) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing customer ID")
		}
		record, err := app.FindRecordById("customers", id)
		if err != nil {
			logging.L().Warnf("customer_edit: could not find customer %s: %v", id, err)
			return ErrorToast(e, http.StatusNotFound, "Customer not found")
		}

		d := services.CustomerDraft{
			Name:          record.GetString("name"),
			Email:         record.GetString("email"),
			Phone:         record.GetString("phone"),
			GSTIN:         record.GetString("gstin"),
			Currency:      services.ParseCurrencyType(record.GetString("currency")),
			Billing:       addressFromRecord(resolver, record, "billing_"),
			Shipping:      addressFromRecord(resolver, record, "shipping_"),
			SameAsBilling: record.GetBool("same_as_billing"),
		}
		return renderCustomerForm(e, customerFormData(resolver, id, d, map[string]string{}))
	}
}

// HandleCustomerUpdate validates and saves an existing customer.
func HandleCustomerUpdate(app *pocketbase.PocketBase, resolver *services.GeoCascadeResolver) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing customer ID")
		}
		record, err := app.FindRecordById("customers", id)
		if err != nil {
			logging.L().Warnf("customer_update: could not find customer %s: %v", id, err)
			return ErrorToast(e, http.StatusNotFound, "Customer not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		d, errs := customerDraftFromForm(resolver, e.Request)
		for k, v := range services.ValidateCustomerDraft(resolver, d) {
			if _, ok := errs[k]; !ok {
				errs[k] = v
			}
		}
		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			return renderCustomerForm(e, customerFormData(resolver, id, d, errs))
		}

		setCustomerFields(record, d)
		if err := app.Save(record); err != nil {
			logging.L().Errorf("customer_update: could not save customer %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Customer updated successfully")
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/customers")
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/customers")
	}
}

// errCustomerInUse is returned when a customer still has documents.
var errCustomerInUse = errors.New("customer has documents")

func customerHasDocuments(app core.App, customerID string) error {
	for _, collection := range []string{"proposals", "proforma_invoices"} {
		n, err := app.CountRecords(collection, dbx.HashExp{"customer": customerID})
		if err != nil {
			return fmt.Errorf("count %s: %w", collection, err)
		}
		if n > 0 {
			return fmt.Errorf("%s: %w", collection, errCustomerInUse)
		}
	}
	return nil
}

// HandleCustomerDelete deletes a customer that has no proposals or proformas.
func HandleCustomerDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing customer ID")
		}
		record, err := app.FindRecordById("customers", id)
		if err != nil {
			logging.L().Warnf("customer_delete: could not find customer %s: %v", id, err)
			return ErrorToast(e, http.StatusNotFound, "Customer not found")
		}
		if err := customerHasDocuments(app, id); err != nil {
			if errors.Is(err, errCustomerInUse) {
				return ErrorToast(e, http.StatusConflict, "Cannot delete customer: it has proposals or proforma invoices")
			}
			logging.L().Errorw("customer delete: document lookup failed", "id", id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if err := app.Delete(record); err != nil {
			logging.L().Errorf("customer_delete: failed to delete customer %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		logging.L().Infof("customer_delete: deleted customer %s", id)

		SetToast(e, "success", "Customer deleted successfully")
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/customers")
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/customers")
	}
}
