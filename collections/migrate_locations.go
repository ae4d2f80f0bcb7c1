package collections

import (
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"crmforms/logging"
	"crmforms/services"
)

// locationColumns lists, per collection, the address prefixes whose
// country/state/city columns hold display names.
var locationColumns = map[string][]string{
	"customers": {"billing_", "shipping_"},
	"leads":     {""},
	"donors":    {""},
}

// MigrateCanonicalLocations rewrites stored country/state/city names to the
// dataset's canonical spelling wherever they resolve. Levels that do not
// resolve keep their stored text. Safe to call on every startup.
func MigrateCanonicalLocations(app core.App, resolver *services.GeoCascadeResolver) error {
	for name, prefixes := range locationColumns {
		records, err := app.FindAllRecords(name)
		if err != nil {
			return fmt.Errorf("migrate_locations: could not query %s: %w", name, err)
		}

		for _, rec := range records {
			changed := false
			for _, prefix := range prefixes {
				if canonicalizeLocation(resolver, rec, prefix) {
					changed = true
				}
			}
			if !changed {
				continue
			}
			if err := app.Save(rec); err != nil {
				logging.L().Warnf("migrate_locations: failed to save %s/%s: %v", name, rec.Id, err)
			}
		}
	}
	return nil
}

// MigrateLeadStatus backfills an empty lead status with "new".
func MigrateLeadStatus(app core.App) error {
	leads, err := app.FindAllRecords("leads", dbx.HashExp{"status": ""})
	if err != nil {
		return fmt.Errorf("migrate_leads: could not query leads: %w", err)
	}
	if len(leads) == 0 {
		return nil
	}

	logging.L().Infof("migrate_leads: backfilling status on %d lead(s)", len(leads))
	for _, lead := range leads {
		lead.Set("status", string(services.LeadNew))
		if err := app.Save(lead); err != nil {
			logging.L().Warnf("migrate_leads: failed to save lead %s: %v", lead.Id, err)
		}
	}
	return nil
}

func canonicalizeLocation(resolver *services.GeoCascadeResolver, rec *core.Record, prefix string) bool {
	stored := services.AddressStringTriple{
		CountryName: rec.GetString(prefix + "country"),
		StateName:   rec.GetString(prefix + "state"),
		CityName:    rec.GetString(prefix + "city"),
	}
	resolved := resolver.Resolve(stored).Triple()

	changed := false
	set := func(column, before, after string) {
		if after != "" && after != before {
			rec.Set(prefix+column, after)
			changed = true
		}
	}
	set("country", stored.CountryName, resolved.CountryName)
	set("state", stored.StateName, resolved.StateName)
	set("city", stored.CityName, resolved.CityName)
	return changed
}
