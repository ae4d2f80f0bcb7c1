package services

import (
	"errors"
	"testing"
)

func TestLoadAddressDraft_KeepsUnresolvedText(t *testing.T) {
	r := testResolver(t)
	d := LoadAddressDraft(r, AddressStringTriple{CountryName: "India", StateName: " Atlantis ", CityName: "Poseidonia"})

	if d.Selection.Country == nil || d.Selection.State != nil {
		t.Fatalf("selection = %+v", d.Selection)
	}
	if d.Names.StateName != "Atlantis" || d.Names.CityName != "Poseidonia" {
		t.Errorf("names = %+v, want stored text preserved", d.Names)
	}
}

func TestAddressDraft_ApplyCodes(t *testing.T) {
	r := testResolver(t)

	d, err := AddressDraft{}.ApplyCodes(r, "IN", "KA", "Mysuru")
	if err != nil {
		t.Fatalf("ApplyCodes() error: %v", err)
	}
	want := AddressStringTriple{CountryName: "India", StateName: "Karnataka", CityName: "Mysuru"}
	if d.Names != want {
		t.Errorf("names = %+v, want %+v", d.Names, want)
	}

	partial, err := AddressDraft{}.ApplyCodes(r, "IN", "", "Mysuru")
	if err != nil {
		t.Fatalf("ApplyCodes() partial error: %v", err)
	}
	if partial.Selection.State != nil || partial.Selection.City != nil {
		t.Errorf("city without state must be ignored, got %+v", partial.Selection)
	}
}

func TestAddressDraft_ApplyCodes_UnknownOption(t *testing.T) {
	r := testResolver(t)
	start := LoadAddressDraft(r, AddressStringTriple{CountryName: "India"})

	tests := []struct {
		name                 string
		country, state, city string
	}{
		{"unknown country", "ZZ", "", ""},
		{"state of other country", "IN", "CA", ""},
		{"city of other state", "IN", "MH", "Mysuru"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := start.ApplyCodes(r, tt.country, tt.state, tt.city)
			if !errors.Is(err, ErrUnknownOption) {
				t.Fatalf("err = %v, want ErrUnknownOption", err)
			}
			if got.Names != start.Names {
				t.Errorf("failed transition changed the draft: %+v", got.Names)
			}
		})
	}
}

func TestAddressDraft_SetCountryClearsChildren(t *testing.T) {
	r := testResolver(t)
	d, _ := AddressDraft{}.ApplyCodes(r, "IN", "PB", "Ludhiana")

	d, err := d.SetCountry(r, "PK")
	if err != nil {
		t.Fatalf("SetCountry() error: %v", err)
	}
	if d.Selection.State != nil || d.Names.StateName != "" || d.Names.CityName != "" {
		t.Errorf("children not cleared: %+v / %+v", d.Selection, d.Names)
	}
}

func TestCustomerDraft_SameAsBillingMirrors(t *testing.T) {
	r := testResolver(t)
	d := CustomerDraft{Name: "Acme"}

	d, err := d.SetSameAsBilling(r, true)
	if err != nil {
		t.Fatalf("SetSameAsBilling() error: %v", err)
	}
	d, err = d.UpdateAddress(r, AddressBilling, func(a AddressDraft) (AddressDraft, error) {
		return a.ApplyCodes(r, "IN", "MH", "Pune")
	})
	if err != nil {
		t.Fatalf("UpdateAddress(billing) error: %v", err)
	}
	if d.Shipping.Names != d.Billing.Names {
		t.Errorf("shipping %+v should mirror billing %+v", d.Shipping.Names, d.Billing.Names)
	}
	if d.Shipping.Selection.City == d.Billing.Selection.City {
		t.Error("mirrored shipping shares pointers with billing")
	}

	_, err = d.UpdateAddress(r, AddressShipping, func(a AddressDraft) (AddressDraft, error) {
		return a.SetCountry(r, "US")
	})
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("editing mirrored shipping: err = %v, want ErrInvalidOperation", err)
	}
}

func TestCustomerDraft_IndependentShipping(t *testing.T) {
	r := testResolver(t)
	d, _ := CustomerDraft{}.SetSameAsBilling(r, true)
	d, _ = d.UpdateAddress(r, AddressBilling, func(a AddressDraft) (AddressDraft, error) {
		return a.ApplyCodes(r, "US", "CA", "San Francisco")
	})
	d, _ = d.SetSameAsBilling(r, false)

	d, err := d.UpdateAddress(r, AddressShipping, func(a AddressDraft) (AddressDraft, error) {
		return a.ApplyCodes(r, "US", "TX", "Austin")
	})
	if err != nil {
		t.Fatalf("UpdateAddress(shipping) error: %v", err)
	}
	if d.Billing.Names.CityName != "San Francisco" || d.Shipping.Names.CityName != "Austin" {
		t.Errorf("billing %q shipping %q", d.Billing.Names.CityName, d.Shipping.Names.CityName)
	}
}

func TestCustomerDraft_TransitionsDoNotMutateReceiver(t *testing.T) {
	r := testResolver(t)
	before, _ := CustomerDraft{}.UpdateAddress(r, AddressBilling, func(a AddressDraft) (AddressDraft, error) {
		return a.ApplyCodes(r, "IN", "MH", "Mumbai")
	})

	after, _ := before.UpdateAddress(r, AddressBilling, func(a AddressDraft) (AddressDraft, error) {
		return a.SetCity(r, "Pune")
	})
	if before.Billing.Selection.City.Name != "Mumbai" {
		t.Errorf("receiver changed to %q", before.Billing.Selection.City.Name)
	}
	if after.Billing.Selection.City.Name != "Pune" {
		t.Errorf("result city = %q, want Pune", after.Billing.Selection.City.Name)
	}
}

func TestCustomerDraft_Clone(t *testing.T) {
	r := testResolver(t)
	d, _ := CustomerDraft{Name: "Acme"}.UpdateAddress(r, AddressBilling, func(a AddressDraft) (AddressDraft, error) {
		return a.ApplyCodes(r, "IN", "MH", "Mumbai")
	})

	c, err := d.Clone()
	if err != nil {
		t.Fatalf("Clone() error: %v", err)
	}
	c.Billing.Selection.Country.Name = "Mutated"
	if d.Billing.Selection.Country.Name != "India" {
		t.Error("clone shares memory with the original")
	}
}

func TestCustomerDraft_UnknownRole(t *testing.T) {
	r := testResolver(t)
	_, err := CustomerDraft{}.UpdateAddress(r, AddressRole("install_at"), func(a AddressDraft) (AddressDraft, error) {
		return a, nil
	})
	if !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("err = %v, want ErrInvalidOperation", err)
	}
}
