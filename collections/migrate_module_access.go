package collections

import (
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"crmforms/logging"
)

// Roles is the canonical list of admin roles.
var Roles = []string{"admin", "sales", "accounts", "viewer"}

// Modules is the canonical list of CRM modules access can be granted to.
var Modules = []string{"customers", "leads", "proposals", "proformas", "donors"}

// defaultModuleAccess defines what each role may do when no explicit
// setting exists. Missing modules mean no access.
var defaultModuleAccess = map[string]map[string][2]bool{ // module -> {view, edit}
	"admin": {
		"customers": {true, true},
		"leads":     {true, true},
		"proposals": {true, true},
		"proformas": {true, true},
		"donors":    {true, true},
	},
	"sales": {
		"customers": {true, true},
		"leads":     {true, true},
		"proposals": {true, true},
		"proformas": {true, false},
	},
	"accounts": {
		"customers": {true, false},
		"proposals": {true, false},
		"proformas": {true, true},
	},
	"viewer": {
		"customers": {true, false},
		"leads":     {true, false},
		"proposals": {true, false},
		"proformas": {true, false},
		"donors":    {true, false},
	},
}

// DefaultModuleAccess returns the default {view, edit} pair for a role and module.
func DefaultModuleAccess(role, module string) (canView, canEdit bool) {
	d := defaultModuleAccess[role][module]
	return d[0], d[1]
}

// MigrateDefaultModuleAccess creates module_access records for every
// role/module pair that is missing one. Safe to call on every startup.
func MigrateDefaultModuleAccess(app core.App) error {
	col, err := app.FindCollectionByNameOrId("module_access")
	if err != nil {
		return fmt.Errorf("migrate_access: could not find module_access collection: %w", err)
	}

	for _, role := range Roles {
		for _, module := range Modules {
			existing, _ := app.FindFirstRecordByFilter(
				col,
				"role = {:role} && module = {:module}",
				dbx.Params{"role": role, "module": module},
			)
			if existing != nil {
				continue
			}

			record := core.NewRecord(col)
			record.Set("role", role)
			record.Set("module", module)
			canView, canEdit := DefaultModuleAccess(role, module)
			record.Set("can_view", canView)
			record.Set("can_edit", canEdit)

			if err := app.Save(record); err != nil {
				logging.L().Warnf("migrate_access: failed to create access for %s/%s: %v", role, module, err)
				continue
			}
		}
	}

	return nil
}

// LookupModuleAccess returns the stored {view, edit} pair for a role and
// module, falling back to the defaults when no record exists.
func LookupModuleAccess(app core.App, role, module string) (canView, canEdit bool) {
	rec, err := app.FindFirstRecordByFilter(
		"module_access",
		"role = {:role} && module = {:module}",
		dbx.Params{"role": role, "module": module},
	)
	if err != nil || rec == nil {
		return DefaultModuleAccess(role, module)
	}
	return rec.GetBool("can_view"), rec.GetBool("can_edit")
}

// SaveModuleAccess creates or updates the access record for a role and
// module. Edit access implies view access.
func SaveModuleAccess(app core.App, role, module string, canView, canEdit bool) error {
	rec, err := app.FindFirstRecordByFilter(
		"module_access",
		"role = {:role} && module = {:module}",
		dbx.Params{"role": role, "module": module},
	)
	if err != nil || rec == nil {
		col, err := app.FindCollectionByNameOrId("module_access")
		if err != nil {
			return fmt.Errorf("module_access: collection not found: %w", err)
		}
		rec = core.NewRecord(col)
		rec.Set("role", role)
		rec.Set("module", module)
	}
	rec.Set("can_view", canView || canEdit)
	rec.Set("can_edit", canEdit)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("module_access: save %s/%s: %w", role, module, err)
	}
	return nil
}
