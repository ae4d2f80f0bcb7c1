package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"crmforms/services"
	"crmforms/templates"
)

// HandleGeoOptions serves the option list for one cascade level. Query
// parameters are read with an optional "prefix" so a form's
// "billing_country" select can drive "billing_state". JSON clients get the
// options array; HTMX gets the replacement <select>, and a country change
// also resets the city select out of band.
func HandleGeoOptions(resolver *services.GeoCascadeResolver, level string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := e.Request.URL.Query()
		prefix := q.Get("prefix")
		country := strings.TrimSpace(q.Get(prefix + "country"))
		state := strings.TrimSpace(q.Get(prefix + "state"))

		var options []services.GeoOption
		switch level {
		case templates.LevelCountry:
			options = resolver.ListCountries()
		case templates.LevelState:
			options = resolver.ListStates(country)
		case templates.LevelCity:
			options = resolver.ListCities(country, state)
		default:
			return e.String(http.StatusNotFound, "Unknown level")
		}
		if options == nil {
			options = []services.GeoOption{}
		}

		if strings.Contains(e.Request.Header.Get("Accept"), "application/json") {
			return e.JSON(http.StatusOK, options)
		}

		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		ctx := e.Request.Context()
		if err := templates.GeoSelect(templates.GeoSelectData{
			Prefix:  prefix,
			Level:   level,
			Options: options,
		}).Render(ctx, e.Response); err != nil {
			return err
		}
		if level == templates.LevelState {
			return templates.GeoSelect(templates.GeoSelectData{
				Prefix: prefix,
				Level:  templates.LevelCity,
				OOB:    true,
			}).Render(ctx, e.Response)
		}
		return nil
	}
}
