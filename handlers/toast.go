package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"

	"crmforms/logging"
)

const (
	toastTrigger = "showToast"
	flashCookie  = "flash_toast"
)

type toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// SetToast queues a client notification. HTMX requests receive it through
// the HX-Trigger header, merged with any triggers already set; full page
// redirects pick it up from a short-lived flash cookie.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	t := toast{Message: message, Type: toastType}

	triggers := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &triggers); err != nil {
			logging.L().Warnf("toast: replacing non-JSON HX-Trigger %q: %v", existing, err)
			triggers = map[string]any{}
		}
	}
	triggers[toastTrigger] = t
	if data, err := json.Marshal(triggers); err != nil {
		logging.L().Warnf("toast: marshal HX-Trigger: %v", err)
	} else {
		e.Response.Header().Set("HX-Trigger", string(data))
	}

	cookie, err := json.Marshal(t)
	if err != nil {
		return
	}
	http.SetCookie(e.Response, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(string(cookie)),
		Path:     "/",
		MaxAge:   10,
		SameSite: http.SameSiteLaxMode,
	})
}

// ErrorToast reports a failed request as an error toast. HX-Reswap: none
// keeps HTMX from swapping the plain-text body into the page.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}
