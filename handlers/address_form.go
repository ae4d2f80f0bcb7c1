package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"crmforms/services"
	"crmforms/templates"
)

// addressFromRecord loads a stored address block, resolving its location
// names against the dataset.
func addressFromRecord(resolver *services.GeoCascadeResolver, rec *core.Record, prefix string) services.AddressDraft {
	a := services.LoadAddressDraft(resolver, services.AddressStringTriple{
		CountryName: rec.GetString(prefix + "country"),
		StateName:   rec.GetString(prefix + "state"),
		CityName:    rec.GetString(prefix + "city"),
	})
	a.Line1 = rec.GetString(prefix + "address_line_1")
	a.Line2 = rec.GetString(prefix + "address_line_2")
	a.PinCode = rec.GetString(prefix + "pin_code")
	return a
}

// addressFromForm rebuilds an address block from a submitted form. The
// selects post codes; the names loaded with the form are posted back as
// "<level>_name". A level left empty keeps its loaded name only while its
// parent level is unchanged, so unresolved legacy text survives a save but
// never outlives a cascade reset.
func addressFromForm(resolver *services.GeoCascadeResolver, r *http.Request, prefix string) (services.AddressDraft, error) {
	value := func(name string) string { return strings.TrimSpace(r.FormValue(prefix + name)) }

	names := services.AddressStringTriple{
		CountryName: value("country_name"),
		StateName:   value("state_name"),
		CityName:    value("city_name"),
	}
	loaded := services.LoadAddressDraft(resolver, names)
	country, state, city := value("country"), value("state"), value("city")

	var next services.AddressDraft
	switch {
	case country != "":
		applied, err := services.AddressDraft{}.ApplyCodes(resolver, country, state, city)
		if err != nil {
			return loaded, err
		}
		next = applied
		keepState := state == "" && names.StateName != "" && loaded.Selection.State == nil &&
			sameOption(loaded.Selection.Country, next.Selection.Country)
		if keepState {
			next.Names.StateName = names.StateName
		}
		keepCity := city == "" && names.CityName != "" && loaded.Selection.City == nil &&
			(keepState || (state != "" && sameOption(loaded.Selection.State, next.Selection.State)))
		if keepCity {
			next.Names.CityName = names.CityName
		}
	case loaded.Selection.Country == nil:
		// Free-text country from an older record, untouched.
		next = loaded
	}

	next.Line1 = value("address_line_1")
	next.Line2 = value("address_line_2")
	next.PinCode = value("pin_code")
	return next, nil
}

func sameOption(a, b *services.GeoOption) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Code == b.Code
}

// addressError maps a cascade error to a form field message.
func addressError(errs map[string]string, prefix string, err error) {
	msg := "Invalid location"
	if errors.Is(err, services.ErrUnknownOption) {
		msg = "Selected location is not in the list"
	}
	errs[prefix+"country"] = msg
}

// setAddressFields writes an address block onto a record.
func setAddressFields(rec *core.Record, prefix string, a services.AddressDraft) {
	rec.Set(prefix+"address_line_1", a.Line1)
	rec.Set(prefix+"address_line_2", a.Line2)
	rec.Set(prefix+"country", a.Names.CountryName)
	rec.Set(prefix+"state", a.Names.StateName)
	rec.Set(prefix+"city", a.Names.CityName)
	rec.Set(prefix+"pin_code", a.PinCode)
}

// addressFormData builds the option lists for an address block from its
// current selection.
func addressFormData(resolver *services.GeoCascadeResolver, prefix, legend string, a services.AddressDraft, readOnly bool) templates.AddressFormData {
	data := templates.AddressFormData{
		Prefix:    prefix,
		Legend:    legend,
		Draft:     a,
		Countries: resolver.ListCountries(),
		ReadOnly:  readOnly,
	}
	if c := a.Selection.Country; c != nil {
		data.States = resolver.ListStates(c.Code)
		if s := a.Selection.State; s != nil {
			data.Cities = resolver.ListCities(c.Code, s.Code)
		}
	}
	return data
}

// locationLabel joins the non-empty parts of a stored location.
func locationLabel(city, state, country string) string {
	var parts []string
	for _, p := range []string{city, state, country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
