package collections_test

import (
	"testing"

	"crmforms/collections"
	"crmforms/services"
	"crmforms/testhelpers"
)

func TestSeed_CreatesData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	customers, err := app.FindAllRecords("customers")
	if err != nil {
		t.Fatalf("query customers error: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}

	proposals, _ := app.FindAllRecords("proposals")
	if len(proposals) != 1 {
		t.Fatalf("expected 1 proposal, got %d", len(proposals))
	}
	if proposals[0].GetString("doc_number") != "PROP-25-26-001" {
		t.Errorf("proposal doc_number = %q", proposals[0].GetString("doc_number"))
	}

	proformas, _ := app.FindAllRecords("proforma_invoices")
	if len(proformas) != 1 {
		t.Fatalf("expected 1 proforma, got %d", len(proformas))
	}
	if proformas[0].GetString("proposal") != proposals[0].Id {
		t.Errorf("proforma proposal = %q, want %q", proformas[0].GetString("proposal"), proposals[0].Id)
	}

	items, _ := app.FindAllRecords("proposal_items")
	if len(items) != 2 {
		t.Errorf("expected 2 proposal items, got %d", len(items))
	}

	members, _ := app.FindAllRecords("family_members")
	if len(members) != 1 {
		t.Errorf("expected 1 family member, got %d", len(members))
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	customers, _ := app.FindAllRecords("customers")
	if len(customers) != 2 {
		t.Errorf("expected 2 customers after second seed, got %d", len(customers))
	}
}

func TestSeed_AddressesResolve(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	resolver := testhelpers.NewTestResolver(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	customers, _ := app.FindAllRecords("customers")
	for _, c := range customers {
		for _, prefix := range []string{"billing_", "shipping_"} {
			sel := resolver.Resolve(services.AddressStringTriple{
				CountryName: c.GetString(prefix + "country"),
				StateName:   c.GetString(prefix + "state"),
				CityName:    c.GetString(prefix + "city"),
			})
			if sel.City == nil {
				t.Errorf("%s %saddress does not fully resolve", c.GetString("name"), prefix)
			}
		}
	}
}

func TestSeed_ProposalTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	items, _ := app.FindAllRecords("proposal_items")
	var lines []services.LineItem
	for _, it := range items {
		lines = append(lines, services.NewLineItem(it.GetString("description"), it.GetFloat("qty"), it.GetFloat("rate")))
	}
	got := services.ComputeTotals(services.TotalsInput{Items: lines, DiscountPercent: 10, TaxPercent: 18})

	// 12*4500 + 2*12500 = 79000
	if got.Subtotal != 79000 {
		t.Errorf("subtotal = %v, want 79000", got.Subtotal)
	}
	if got.TaxableAmount != 71100 {
		t.Errorf("taxable = %v, want 71100", got.TaxableAmount)
	}
}
