package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crmforms/services"
	"crmforms/templates"
	"crmforms/testhelpers"
)

func geoRequest(t *testing.T, level, query string, jsonAccept bool) *httptest.ResponseRecorder {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	handler := HandleGeoOptions(testhelpers.NewTestResolver(t), level)

	req := httptest.NewRequest(http.MethodGet, "/geo/"+level+"?"+query, nil)
	if jsonAccept {
		req.Header.Set("Accept", "application/json")
	} else {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestHandleGeoOptions_StatesJSON(t *testing.T) {
	rec := geoRequest(t, templates.LevelState, "country=IN", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []services.GeoOption
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) == 0 || got[0].Code != "MH" || got[0].Name != "Maharashtra" {
		t.Errorf("unexpected states: %+v", got)
	}
}

func TestHandleGeoOptions_UnknownCountryIsEmptyArray(t *testing.T) {
	rec := geoRequest(t, templates.LevelState, "country=ZZ", true)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty JSON array, got %q", rec.Body.String())
	}
}

func TestHandleGeoOptions_CitiesWithPrefix(t *testing.T) {
	rec := geoRequest(t, templates.LevelCity, "prefix=billing_&billing_country=IN&billing_state=KA", false)
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`id="billing_city"`,
		`<option value="Bengaluru">Bengaluru</option>`,
		`<option value="">Select city</option>`,
	)
	if strings.Contains(rec.Body.String(), "Mumbai") {
		t.Error("cities from another state leaked into the list")
	}
}

func TestHandleGeoOptions_StateChangeResetsCity(t *testing.T) {
	rec := geoRequest(t, templates.LevelState, "prefix=shipping_&shipping_country=US", false)
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		`id="shipping_state"`,
		`hx-get="/geo/cities?prefix=shipping_"`,
		`<option value="CA">California</option>`,
		`id="shipping_city"`,
		`hx-swap-oob="true"`,
	)
}

func TestHandleGeoOptions_Countries(t *testing.T) {
	rec := geoRequest(t, templates.LevelCountry, "", true)
	var got []services.GeoOption
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 7 || got[0].Code != "IN" {
		t.Errorf("unexpected countries: %+v", got)
	}
}
