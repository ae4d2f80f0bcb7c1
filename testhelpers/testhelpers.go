// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"crmforms/collections"
	"crmforms/services"
)

// NewTestApp returns a bootstrapped PocketBase app whose data directory
// lives under t.TempDir, with every CRM collection created.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	app := pocketbase.NewWithConfig(pocketbase.Config{DefaultDataDir: t.TempDir()})
	if err := app.Bootstrap(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	collections.Setup(app)
	return app
}

// NewTestResolver returns a resolver over the embedded geography dataset.
func NewTestResolver(t *testing.T) *services.GeoCascadeResolver {
	t.Helper()

	ds, err := services.DefaultGeoDataset()
	if err != nil {
		t.Fatalf("failed to load embedded geo dataset: %v", err)
	}
	return services.NewGeoCascadeResolver(ds)
}

// CreateTestCustomer creates a customer billed and shipped in Mumbai.
func CreateTestCustomer(t *testing.T, app core.App, name string) *core.Record {
	t.Helper()

	record := newRecord(t, app, "customers")
	record.Set("name", name)
	record.Set("email", "billing@example.com")
	record.Set("currency", "INR")
	for _, prefix := range []string{"billing_", "shipping_"} {
		record.Set(prefix+"address_line_1", "123 Test Street")
		record.Set(prefix+"city", "Mumbai")
		record.Set(prefix+"state", "Maharashtra")
		record.Set(prefix+"country", "India")
		record.Set(prefix+"pin_code", "400001")
	}
	record.Set("same_as_billing", true)

	mustSave(t, app, record)

	return record
}

// CreateTestLead creates a lead with the given location names.
func CreateTestLead(t *testing.T, app core.App, name, country, state, city string) *core.Record {
	t.Helper()

	record := newRecord(t, app, "leads")
	record.Set("name", name)
	record.Set("email", "lead@example.com")
	record.Set("country", country)
	record.Set("state", state)
	record.Set("city", city)

	mustSave(t, app, record)
	return record
}

// CreateTestProposal creates a draft proposal for a customer.
func CreateTestProposal(t *testing.T, app core.App, customerID, docNumber string) *core.Record {
	t.Helper()
	return createTestDocument(t, app, "proposals", customerID, docNumber)
}

// CreateTestProforma creates a draft proforma invoice for a customer.
func CreateTestProforma(t *testing.T, app core.App, customerID, docNumber string) *core.Record {
	t.Helper()
	return createTestDocument(t, app, "proforma_invoices", customerID, docNumber)
}

func createTestDocument(t *testing.T, app core.App, collection, customerID, docNumber string) *core.Record {
	t.Helper()

	record := newRecord(t, app, collection)
	record.Set("doc_number", docNumber)
	record.Set("customer", customerID)
	record.Set("currency", "INR")
	record.Set("tax_type", "gst")
	record.Set("tax_percent", 18)
	record.Set("discount_percent", 10)
	record.Set("status", "draft")

	mustSave(t, app, record)
	return record
}

// CreateTestItem creates a line item under a proposal ("proposal_items",
// "proposal") or proforma ("proforma_items", "proforma").
func CreateTestItem(t *testing.T, app core.App, collection, parentField, parentID string, sortOrder int, description string, qty, rate float64) *core.Record {
	t.Helper()

	record := newRecord(t, app, collection)
	record.Set(parentField, parentID)
	record.Set("sort_order", sortOrder)
	record.Set("description", description)
	record.Set("hsn_code", "8504")
	record.Set("uom", "Nos")
	record.Set("qty", qty)
	record.Set("rate", rate)
	mustSave(t, app, record)
	return record
}

// CreateTestDonor creates a donor record.
func CreateTestDonor(t *testing.T, app core.App, name string) *core.Record {
	t.Helper()

	record := newRecord(t, app, "donors")
	record.Set("name", name)
	record.Set("country", "India")
	mustSave(t, app, record)
	return record
}

// AssertHTMLContains reports every fragment missing from body.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	var missing []string
	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			missing = append(missing, frag)
		}
	}
	if len(missing) == 0 {
		return
	}
	preview := body
	if len(preview) > 500 {
		preview = preview[:500] + "..."
	}
	t.Errorf("HTML is missing %q\nbody: %s", missing, preview)
}

func AssertHXRedirect(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("HX-Redirect = %q, want %q", got, want)
	}
}

func newRecord(t *testing.T, app core.App, collection string) *core.Record {
	t.Helper()
	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("collection %s: %v", collection, err)
	}
	return core.NewRecord(col)
}

func mustSave(t *testing.T, app core.App, record *core.Record) {
	t.Helper()
	if err := app.Save(record); err != nil {
		t.Fatalf("save %s record: %v", record.Collection().Name, err)
	}
}
