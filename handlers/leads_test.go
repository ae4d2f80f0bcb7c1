package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"crmforms/testhelpers"
)

func TestHandleLeadSave_Valid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleLeadSave(app, testhelpers.NewTestResolver(t))

	form := url.Values{}
	form.Set("name", "Anita Rao")
	form.Set("company", "Coastal Spices")
	form.Set("email", "anita@coastalspices.in")
	form.Set("status", "contacted")
	form.Set("country", "IN")
	form.Set("state", "KA")
	form.Set("city", "Mangaluru")

	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, postForm("/leads", form, true), rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/leads")

	r, err := app.FindFirstRecordByFilter("leads", "name = 'Anita Rao'")
	if err != nil {
		t.Fatalf("lead not saved: %v", err)
	}
	if r.GetString("status") != "contacted" || r.GetString("state") != "Karnataka" || r.GetString("city") != "Mangaluru" {
		t.Errorf("stored lead = %q/%q/%q", r.GetString("status"), r.GetString("state"), r.GetString("city"))
	}
}

func TestHandleLeadSave_DefaultsStatusAndAllowsNoAddress(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleLeadSave(app, testhelpers.NewTestResolver(t))

	form := url.Values{}
	form.Set("name", "Walk-in")
	form.Set("phone", "9123456789")

	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, postForm("/leads", form, false), rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", rec.Code, rec.Body.String())
	}
	r, err := app.FindFirstRecordByFilter("leads", "name = 'Walk-in'")
	if err != nil {
		t.Fatalf("lead not saved: %v", err)
	}
	if r.GetString("status") != "new" {
		t.Errorf("status = %q, want new", r.GetString("status"))
	}
}

func TestHandleLeadSave_Invalid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleLeadSave(app, testhelpers.NewTestResolver(t))

	form := url.Values{}
	form.Set("name", "No Contact")
	form.Set("status", "archived")

	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, postForm("/leads", form, true), rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Email or phone is required", "Unknown lead status")
	if n, _ := app.CountRecords("leads"); n != 0 {
		t.Errorf("expected no leads saved, got %d", n)
	}
}

func TestHandleLeadEditAndUpdate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	resolver := testhelpers.NewTestResolver(t)
	lead := testhelpers.CreateTestLead(t, app, "Ravi", "india", "TAMIL NADU", "chennai")

	req := httptest.NewRequest(http.MethodGet, "/leads/"+lead.Id+"/edit", nil)
	req.SetPathValue("id", lead.Id)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	if err := HandleLeadEdit(app, resolver)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("edit returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"Edit Lead",
		`<option value="TN" selected>Tamil Nadu</option>`,
		`<option value="Chennai" selected>Chennai</option>`,
	)

	form := url.Values{}
	form.Set("name", "Ravi Kumar")
	form.Set("email", "ravi@example.com")
	form.Set("status", "qualified")
	form.Set("country", "IN")
	form.Set("state", "TN")
	form.Set("city", "Madurai")
	upd := postForm("/leads/"+lead.Id+"/save", form, true)
	upd.SetPathValue("id", lead.Id)
	rec = httptest.NewRecorder()
	if err := HandleLeadUpdate(app, resolver)(newTestRequestEvent(app, upd, rec)); err != nil {
		t.Fatalf("update returned error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/leads")

	updated, err := app.FindRecordById("leads", lead.Id)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if updated.GetString("city") != "Madurai" || updated.GetString("country") != "India" {
		t.Errorf("location = %q, %q", updated.GetString("city"), updated.GetString("country"))
	}
}

func TestHandleLeadList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestLead(t, app, "Meera", "India", "Delhi", "New Delhi")

	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	rec := httptest.NewRecorder()
	if err := HandleLeadList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "<!DOCTYPE html>", "Meera", "New Delhi, Delhi, India")
}
