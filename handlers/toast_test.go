package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pocketbase/pocketbase/core"
)

func toastEvent() (*core.RequestEvent, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Response = rec
	return e, rec
}

func decodeTrigger(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &parsed); err != nil {
		t.Fatalf("HX-Trigger %q is not JSON: %v", rec.Header().Get("HX-Trigger"), err)
	}
	return parsed
}

func TestSetToast(t *testing.T) {
	tests := []struct {
		toastType string
		message   string
	}{
		{"success", "Customer created successfully"},
		{"warning", "Please fix the errors below"},
		{"error", `Quote "A&B" <failed>`},
	}
	for _, tt := range tests {
		t.Run(tt.toastType, func(t *testing.T) {
			e, rec := toastEvent()
			SetToast(e, tt.toastType, tt.message)

			var got toast
			if err := json.Unmarshal(decodeTrigger(t, rec)["showToast"], &got); err != nil {
				t.Fatalf("showToast payload: %v", err)
			}
			if got.Type != tt.toastType || got.Message != tt.message {
				t.Errorf("toast = %+v", got)
			}
		})
	}
}

func TestSetToast_MergesExistingTriggers(t *testing.T) {
	e, rec := toastEvent()
	rec.Header().Set("HX-Trigger", `{"itemsChanged":true}`)

	SetToast(e, "success", "Item added")

	parsed := decodeTrigger(t, rec)
	if string(parsed["itemsChanged"]) != "true" {
		t.Errorf("existing trigger lost: %s", rec.Header().Get("HX-Trigger"))
	}
	if _, ok := parsed["showToast"]; !ok {
		t.Error("showToast missing after merge")
	}
}

func TestSetToast_ReplacesInvalidTrigger(t *testing.T) {
	e, rec := toastEvent()
	rec.Header().Set("HX-Trigger", "refresh")

	SetToast(e, "info", "Saved")

	parsed := decodeTrigger(t, rec)
	if len(parsed) != 1 {
		t.Errorf("expected only showToast, got %v", parsed)
	}
}

func TestSetToast_FlashCookie(t *testing.T) {
	e, rec := toastEvent()
	SetToast(e, "success", "Lead created successfully")

	res := rec.Result()
	var flash *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == "flash_toast" {
			flash = c
		}
	}
	if flash == nil {
		t.Fatal("expected flash_toast cookie")
	}
	raw, err := url.QueryUnescape(flash.Value)
	if err != nil {
		t.Fatalf("unescape cookie: %v", err)
	}
	var got toast
	if err := json.Unmarshal([]byte(raw), &got); err != nil || got.Message != "Lead created successfully" {
		t.Errorf("cookie payload = %q (%v)", raw, err)
	}
	if flash.MaxAge != 10 || flash.Path != "/" {
		t.Errorf("cookie MaxAge/Path = %d/%q", flash.MaxAge, flash.Path)
	}
}

func TestErrorToast(t *testing.T) {
	e, rec := toastEvent()
	e.Request = httptest.NewRequest(http.MethodGet, "/customers/x/edit", nil)

	if err := ErrorToast(e, http.StatusNotFound, "Customer not found"); err != nil {
		t.Fatalf("ErrorToast returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Errorf("HX-Reswap = %q, want none", rec.Header().Get("HX-Reswap"))
	}
	if rec.Body.String() != "Customer not found" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
