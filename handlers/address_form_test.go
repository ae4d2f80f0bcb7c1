package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"crmforms/services"
	"crmforms/testhelpers"
)

func formRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	_ = req.ParseForm()
	return req
}

func TestAddressFromForm_Codes(t *testing.T) {
	resolver := testhelpers.NewTestResolver(t)
	req := formRequest(url.Values{
		"billing_country":        {"IN"},
		"billing_state":          {"MH"},
		"billing_city":           {"Pune"},
		"billing_address_line_1": {" 1 FC Road "},
		"billing_pin_code":       {"411004"},
	})

	a, err := addressFromForm(resolver, req, "billing_")
	if err != nil {
		t.Fatalf("addressFromForm: %v", err)
	}
	want := services.AddressStringTriple{CountryName: "India", StateName: "Maharashtra", CityName: "Pune"}
	if a.Names != want {
		t.Errorf("Names = %+v, want %+v", a.Names, want)
	}
	if a.Line1 != "1 FC Road" || a.PinCode != "411004" {
		t.Errorf("lines not trimmed/copied: %+v", a)
	}
}

func TestAddressFromForm_UnknownCode(t *testing.T) {
	resolver := testhelpers.NewTestResolver(t)
	req := formRequest(url.Values{"country": {"IN"}, "state": {"CA"}})

	if _, err := addressFromForm(resolver, req, ""); !errors.Is(err, services.ErrUnknownOption) {
		t.Errorf("expected ErrUnknownOption, got %v", err)
	}
}

func TestAddressFromForm_KeepsUnresolvedCityUnderUnchangedState(t *testing.T) {
	resolver := testhelpers.NewTestResolver(t)
	req := formRequest(url.Values{
		"country":      {"IN"},
		"state":        {"MH"},
		"country_name": {"India"},
		"state_name":   {"Maharashtra"},
		"city_name":    {"Lonavala"},
	})

	a, err := addressFromForm(resolver, req, "")
	if err != nil {
		t.Fatalf("addressFromForm: %v", err)
	}
	if a.Names.CityName != "Lonavala" {
		t.Errorf("CityName = %q, want legacy text kept", a.Names.CityName)
	}
	if a.Selection.City != nil {
		t.Error("unresolved city must not become a selection")
	}
}

func TestAddressFromForm_DropsLegacyTextAfterCountryChange(t *testing.T) {
	resolver := testhelpers.NewTestResolver(t)
	req := formRequest(url.Values{
		"country":      {"US"},
		"country_name": {"India"},
		"state_name":   {"Old Province"},
		"city_name":    {"Lonavala"},
	})

	a, err := addressFromForm(resolver, req, "")
	if err != nil {
		t.Fatalf("addressFromForm: %v", err)
	}
	want := services.AddressStringTriple{CountryName: "United States"}
	if a.Names != want {
		t.Errorf("Names = %+v, want %+v", a.Names, want)
	}
}

func TestAddressFromForm_FreeTextCountryUntouched(t *testing.T) {
	resolver := testhelpers.NewTestResolver(t)
	req := formRequest(url.Values{
		"country_name": {"Atlantis"},
		"city_name":    {"Poseidonia"},
	})

	a, err := addressFromForm(resolver, req, "")
	if err != nil {
		t.Fatalf("addressFromForm: %v", err)
	}
	if a.Names.CountryName != "Atlantis" || a.Names.CityName != "Poseidonia" {
		t.Errorf("legacy names lost: %+v", a.Names)
	}
}

func TestAddressFromForm_ClearedCountry(t *testing.T) {
	resolver := testhelpers.NewTestResolver(t)
	req := formRequest(url.Values{
		"country_name": {"India"},
		"state_name":   {"Maharashtra"},
	})

	a, err := addressFromForm(resolver, req, "")
	if err != nil {
		t.Fatalf("addressFromForm: %v", err)
	}
	if a.Names != (services.AddressStringTriple{}) {
		t.Errorf("expected cleared address, got %+v", a.Names)
	}
}

func TestAddressFormData_OptionsFollowSelection(t *testing.T) {
	resolver := testhelpers.NewTestResolver(t)
	a := services.LoadAddressDraft(resolver, services.AddressStringTriple{CountryName: "India", StateName: "Karnataka"})

	data := addressFormData(resolver, "billing_", "BILLING", a, false)
	if len(data.Countries) != 7 {
		t.Errorf("expected all countries, got %d", len(data.Countries))
	}
	if len(data.States) == 0 || data.States[0].Code != "MH" {
		t.Errorf("expected Indian states, got %+v", data.States)
	}
	if len(data.Cities) == 0 || data.Cities[0].Name != "Bengaluru" {
		t.Errorf("expected Karnataka cities, got %+v", data.Cities)
	}
}

func TestLocationLabel(t *testing.T) {
	if got := locationLabel("Pune", " ", "India"); got != "Pune, India" {
		t.Errorf("locationLabel = %q", got)
	}
	if got := locationLabel("", "", ""); got != "" {
		t.Errorf("locationLabel = %q, want empty", got)
	}
}
