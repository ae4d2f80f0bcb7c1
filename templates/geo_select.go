package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"crmforms/services"
)

// Geo levels, in cascade order.
const (
	LevelCountry = "country"
	LevelState   = "state"
	LevelCity    = "city"
)

// GeoSelectData describes one cascading location select. The select's name
// and id are Prefix+Level, e.g. "billing_state".
type GeoSelectData struct {
	Prefix   string
	Level    string
	Options  []services.GeoOption
	Selected string
	Disabled bool
	// OOB marks the select for an out-of-band swap so a country change can
	// reset the city select in the same response.
	OOB bool
}

var geoPlaceholders = map[string]string{
	LevelCountry: "Select country",
	LevelState:   "Select state",
	LevelCity:    "Select city",
}

// GeoSelect renders a full <select> for one address level. Changing the
// country reloads states; changing the state reloads cities.
func GeoSelect(data GeoSelectData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		id := data.Prefix + data.Level
		h.raw(`<select id="`, attr(id), `" name="`, attr(id), `"`)
		switch data.Level {
		case LevelCountry:
			h.raw(` hx-get="/geo/states?prefix=`, attr(data.Prefix), `" hx-target="#`, attr(data.Prefix+LevelState), `" hx-swap="outerHTML"`)
		case LevelState:
			h.raw(` hx-get="/geo/cities?prefix=`, attr(data.Prefix), `" hx-target="#`, attr(data.Prefix+LevelCity), `" hx-swap="outerHTML"`)
			h.raw(` hx-include="[name='`, attr(data.Prefix+LevelCountry), `']"`)
		}
		if data.OOB {
			h.raw(` hx-swap-oob="true"`)
		}
		h.raw(disabledAttr(data.Disabled), `>`)
		h.component(ctx, OptionList(data.Options, data.Selected, geoPlaceholders[data.Level]))
		h.raw(`</select>`)
		return h.err
	})
}

// AddressFormData is one address block of a form.
type AddressFormData struct {
	Prefix string
	Legend string
	Draft  services.AddressDraft
	// Options for each level given the current selection.
	Countries []services.GeoOption
	States    []services.GeoOption
	Cities    []services.GeoOption
	// ReadOnly is set on the shipping block while it mirrors billing.
	ReadOnly bool
}

// AddressFields renders the street lines, the country/state/city cascade
// and the PIN code. The loaded names are posted back as "<level>_name" so
// text that matched no option survives a save until its parent changes.
func AddressFields(data AddressFormData, errs map[string]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		sel := data.Draft.Selection
		h.raw(`<fieldset class="address" id="`, attr(data.Prefix), `address"`, disabledAttr(data.ReadOnly), `><legend>`)
		h.text(data.Legend)
		h.raw(`</legend>`)
		textInput(h, errs, data.Prefix+"address_line_1", "Address Line 1", data.Draft.Line1, "")
		textInput(h, errs, data.Prefix+"address_line_2", "Address Line 2", data.Draft.Line2, "")

		levels := []struct {
			level    string
			label    string
			options  []services.GeoOption
			selected *services.GeoOption
			stored   string
		}{
			{LevelCountry, "Country", data.Countries, sel.Country, data.Draft.Names.CountryName},
			{LevelState, "State", data.States, sel.State, data.Draft.Names.StateName},
			{LevelCity, "City", data.Cities, sel.City, data.Draft.Names.CityName},
		}
		for _, l := range levels {
			name := data.Prefix + l.level
			h.raw(`<div class="field"><label for="`, attr(name), `">`)
			h.text(l.label)
			h.raw(`</label>`)
			selected := ""
			if l.selected != nil {
				selected = l.selected.Code
			}
			h.component(ctx, GeoSelect(GeoSelectData{
				Prefix:   data.Prefix,
				Level:    l.level,
				Options:  l.options,
				Selected: selected,
			}))
			if l.stored != "" {
				h.raw(`<input type="hidden" name="`, attr(name), `_name" value="`, attr(l.stored), `">`)
			}
			if l.selected == nil && l.stored != "" {
				h.raw(`<p class="hint">Saved as “`)
				h.text(l.stored)
				h.raw(`”, not in the list</p>`)
			}
			fieldError(h, errs, name)
			h.raw(`</div>`)
		}
		textInput(h, errs, data.Prefix+"pin_code", "PIN Code", data.Draft.PinCode, "")
		h.raw(`</fieldset>`)
		return h.err
	})
}
