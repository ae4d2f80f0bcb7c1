package handlers

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"crmforms/collections"
	"crmforms/logging"
	"crmforms/templates"
)

type contextKey string

const RoleKey contextKey = "role"
const NavDataKey contextKey = "navData"

// roleCookie selects the acting role. Without it requests act as admin.
const roleCookie = "crm_role"

const defaultRole = "admin"

// GetRole extracts the acting role from the request context.
func GetRole(r *http.Request) string {
	if val, ok := r.Context().Value(RoleKey).(string); ok && val != "" {
		return val
	}
	return defaultRole
}

// GetNavData extracts the pre-built NavData from the request context.
func GetNavData(r *http.Request) templates.NavData {
	if val, ok := r.Context().Value(NavDataKey).(templates.NavData); ok {
		return val
	}
	return templates.NavData{}
}

// moduleForPath maps a request path to the module guarding it, or "".
func moduleForPath(path string) string {
	for _, m := range []struct{ prefix, module string }{
		{"/customers", "customers"},
		{"/leads", "leads"},
		{"/proposals", "proposals"},
		{"/proformas", "proformas"},
		{"/donors", "donors"},
	} {
		if path == m.prefix || strings.HasPrefix(path, m.prefix+"/") {
			return m.module
		}
	}
	return ""
}

func isReadOnlyMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// ModuleAccessMiddleware resolves the acting role from the "crm_role"
// cookie, rejects requests the role's module_access settings forbid, and
// stores the role and navigation data in the request context.
func ModuleAccessMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		role := defaultRole
		if cookie, err := e.Request.Cookie(roleCookie); err == nil && cookie.Value != "" {
			role = cookie.Value
			if !slices.Contains(collections.Roles, role) {
				logging.L().Warnf("middleware: unknown role %q, clearing cookie", role)
				http.SetCookie(e.Response, &http.Cookie{
					Name:   roleCookie,
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
				return ErrorToast(e, http.StatusForbidden, "Unknown role")
			}
		}

		path := e.Request.URL.Path
		if strings.HasPrefix(path, "/admin") && role != "admin" {
			return ErrorToast(e, http.StatusForbidden, "Admin access required")
		}
		if module := moduleForPath(path); module != "" {
			canView, canEdit := collections.LookupModuleAccess(app, role, module)
			allowed := canView
			if !isReadOnlyMethod(e.Request.Method) {
				allowed = canEdit
			}
			if !allowed {
				logging.L().Infof("middleware: role %s denied %s %s", role, e.Request.Method, path)
				return ErrorToast(e, http.StatusForbidden, "You do not have access to this module")
			}
		}

		ctx := context.WithValue(e.Request.Context(), RoleKey, role)
		e.Request = e.Request.WithContext(ctx)

		navData := BuildNavData(e.Request, app)
		ctx = context.WithValue(e.Request.Context(), NavDataKey, navData)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}
