package services

import (
	"strings"
	"testing"
)

func TestFormatValidators(t *testing.T) {
	validators := map[string]func(string) bool{
		"gstin": ValidateGSTIN,
		"pin":   ValidatePINCode,
		"phone": ValidatePhone,
	}
	cases := []struct {
		kind  string
		input string
		want  bool
	}{
		{"gstin", "", true},
		{"gstin", "29ABCDE1234F2Z5", true},
		{"gstin", " 29abcde1234f2z5 ", true},
		{"gstin", "29ABCDE1234F2Y5", false},
		{"gstin", "29ABCDE1234F0Z5", false},
		{"gstin", "29ABCDE1234F2Z", false},
		{"gstin", "X9ABCDE1234F2Z5", false},
		{"pin", "", true},
		{"pin", "575001", true},
		{"pin", " 110011 ", true},
		{"pin", "075001", false},
		{"pin", "57500", false},
		{"pin", "5750011", false},
		{"pin", "57500O", false},
		{"phone", "", true},
		{"phone", "7760012345", true},
		{"phone", "6000000000", true},
		{"phone", "5760012345", false},
		{"phone", "776001234", false},
		{"phone", "+917760012345", false},
	}

	for _, tc := range cases {
		if got := validators[tc.kind](tc.input); got != tc.want {
			t.Errorf("%s(%q) = %v, want %v", tc.kind, tc.input, got, tc.want)
		}
	}
}

func validCustomerDraft(t *testing.T, r *GeoCascadeResolver) CustomerDraft {
	t.Helper()
	d := CustomerDraft{Name: "Acme Pvt Ltd", Email: "ops@acme.in", Phone: "9876543210", GSTIN: "27AAPFU0939F1ZV"}
	d, err := d.SetSameAsBilling(r, true)
	if err != nil {
		t.Fatalf("SetSameAsBilling() error: %v", err)
	}
	d, err = d.UpdateAddress(r, AddressBilling, func(a AddressDraft) (AddressDraft, error) {
		a.PinCode = "400001"
		return a.ApplyCodes(r, "IN", "MH", "Mumbai")
	})
	if err != nil {
		t.Fatalf("UpdateAddress() error: %v", err)
	}
	return d
}

func TestValidateCustomerDraft_Valid(t *testing.T) {
	r := testResolver(t)
	if errs := ValidateCustomerDraft(r, validCustomerDraft(t, r)); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateCustomerDraft_Errors(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		name   string
		mutate func(*CustomerDraft)
		field  string
	}{
		{"missing name", func(d *CustomerDraft) { d.Name = "  " }, "name"},
		{"bad email", func(d *CustomerDraft) { d.Email = "nope" }, "email"},
		{"bad phone", func(d *CustomerDraft) { d.Phone = "12345" }, "phone"},
		{"bad gstin", func(d *CustomerDraft) { d.GSTIN = "INVALID" }, "gstin"},
		{"bad pin", func(d *CustomerDraft) { d.Billing.PinCode = "0123" }, "billing_pin_code"},
		{"missing billing country", func(d *CustomerDraft) { d.Billing = AddressDraft{} }, "billing_country"},
		{"missing state", func(d *CustomerDraft) {
			d.Billing, _ = AddressDraft{}.SetCountry(r, "IN")
		}, "billing_state"},
		{"shipping checked when not mirrored", func(d *CustomerDraft) {
			d.SameAsBilling = false
			d.Shipping = AddressDraft{}
		}, "shipping_country"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validCustomerDraft(t, r)
			tt.mutate(&d)
			errs := ValidateCustomerDraft(r, d)
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("expected error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidateCustomerDraft_StateNotRequiredWithoutOptions(t *testing.T) {
	r := NewGeoCascadeResolver(mustLoad(t, `{"countries":[{"code":"SG","name":"Singapore"}]}`))
	d := CustomerDraft{Name: "Lion City Traders", SameAsBilling: true}
	d.Billing, _ = AddressDraft{}.SetCountry(r, "SG")

	if errs := ValidateCustomerDraft(r, d); len(errs) != 0 {
		t.Errorf("expected no errors for a country without states, got %v", errs)
	}
}

func TestValidateCustomerDraft_UnresolvedStateTextAccepted(t *testing.T) {
	r := testResolver(t)
	d := validCustomerDraft(t, r)
	d.Billing = LoadAddressDraft(r, AddressStringTriple{CountryName: "India", StateName: "Lakshadweep"})

	errs := ValidateCustomerDraft(r, d)
	if _, ok := errs["billing_state"]; ok {
		t.Errorf("free-text state should be accepted, got %v", errs)
	}
}

func TestValidateLeadDraft(t *testing.T) {
	r := testResolver(t)

	ok := LeadDraft{Name: "Priya", Email: "priya@example.com", Status: LeadNew}
	if errs := ValidateLeadDraft(r, ok); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}

	bad := LeadDraft{Status: "archived"}
	errs := ValidateLeadDraft(r, bad)
	for _, field := range []string{"name", "status", "contact"} {
		if _, found := errs[field]; !found {
			t.Errorf("expected error on %q, got %v", field, errs)
		}
	}
}

func mustLoad(t *testing.T, js string) *StaticGeoDataset {
	t.Helper()
	ds, err := LoadGeoDataset(strings.NewReader(js))
	if err != nil {
		t.Fatalf("LoadGeoDataset() error: %v", err)
	}
	return ds
}

func TestValidateDocumentDraft(t *testing.T) {
	tests := []struct {
		name      string
		draft     DocumentDraft
		wantField string
	}{
		{"valid with defaults", DocumentDraft{CustomerID: "abc"}, ""},
		{"valid explicit", DocumentDraft{CustomerID: "abc", TaxPercent: "28", DiscountPercent: "100"}, ""},
		{"tax above 100 allowed", DocumentDraft{CustomerID: "abc", TaxPercent: "150"}, ""},
		{"missing customer", DocumentDraft{}, "customer"},
		{"negative tax", DocumentDraft{CustomerID: "abc", TaxPercent: "-1"}, "tax_percent"},
		{"non-numeric tax", DocumentDraft{CustomerID: "abc", TaxPercent: "abc"}, "tax_percent"},
		{"discount above 100", DocumentDraft{CustomerID: "abc", DiscountPercent: "101"}, "discount_percent"},
		{"negative discount", DocumentDraft{CustomerID: "abc", DiscountPercent: "-5"}, "discount_percent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateDocumentDraft(tt.draft)
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, errs)
			}
		})
	}
}
