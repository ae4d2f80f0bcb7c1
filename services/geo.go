package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidOperation is returned when a dependent address level is changed
// before its parent has been selected.
var ErrInvalidOperation = errors.New("invalid operation")

// GeoOption is a selectable country, state or city. Cities carry their name
// as both code and name.
type GeoOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// AddressSelection holds the canonical country/state/city picked for an
// address. A state is never set without a country, and a city never without
// a state.
type AddressSelection struct {
	Country *GeoOption `json:"country"`
	State   *GeoOption `json:"state"`
	City    *GeoOption `json:"city"`
}

// AddressStringTriple is the persisted, human-readable form of an address
// location as stored on customer, lead and proposal records.
type AddressStringTriple struct {
	CountryName string `json:"country"`
	StateName   string `json:"state"`
	CityName    string `json:"city"`
}

// Valid reports whether the selection has no orphaned child level.
func (s AddressSelection) Valid() bool {
	if s.State != nil && s.Country == nil {
		return false
	}
	if s.City != nil && s.State == nil {
		return false
	}
	return true
}

// Triple returns the display names to submit back to the backend.
func (s AddressSelection) Triple() AddressStringTriple {
	var t AddressStringTriple
	if s.Country != nil {
		t.CountryName = s.Country.Name
	}
	if s.State != nil {
		t.StateName = s.State.Name
	}
	if s.City != nil {
		t.CityName = s.City.Name
	}
	return t
}

// GeoDataset provides the reference geography the resolver cascades over.
// Implementations must be safe for concurrent reads and must not change
// after construction.
type GeoDataset interface {
	Countries() []GeoOption
	States(countryCode string) []GeoOption
	Cities(countryCode, stateCode string) []GeoOption
}

// GeoCascadeResolver keeps country → state → city selections consistent.
// It holds no state beyond the read-only dataset, so every method is a
// pure function of its arguments.
type GeoCascadeResolver struct {
	dataset GeoDataset
}

// NewGeoCascadeResolver returns a resolver over a fully loaded dataset.
func NewGeoCascadeResolver(dataset GeoDataset) *GeoCascadeResolver {
	return &GeoCascadeResolver{dataset: dataset}
}

// ListCountries returns all countries in dataset order.
func (r *GeoCascadeResolver) ListCountries() []GeoOption {
	return cloneOptions(r.dataset.Countries())
}

// ListStates returns the states of a country, or nil when the code is empty
// or unknown.
func (r *GeoCascadeResolver) ListStates(countryCode string) []GeoOption {
	if strings.TrimSpace(countryCode) == "" {
		return nil
	}
	return cloneOptions(r.dataset.States(countryCode))
}

// ListCities returns the cities of a state within a country, or nil when
// either code is empty or unknown.
func (r *GeoCascadeResolver) ListCities(countryCode, stateCode string) []GeoOption {
	if strings.TrimSpace(countryCode) == "" || strings.TrimSpace(stateCode) == "" {
		return nil
	}
	return cloneOptions(r.dataset.Cities(countryCode, stateCode))
}

// Resolve maps stored free-text names onto canonical options. Matching is
// case-insensitive and ignores surrounding whitespace. Resolution stops at
// the first level that has no match; lower levels stay nil even when their
// names are non-empty.
func (r *GeoCascadeResolver) Resolve(t AddressStringTriple) AddressSelection {
	var sel AddressSelection

	country, ok := matchOption(r.ListCountries(), t.CountryName)
	if !ok {
		return sel
	}
	sel.Country = &country

	state, ok := matchOption(r.ListStates(country.Code), t.StateName)
	if !ok {
		return sel
	}
	sel.State = &state

	city, ok := matchOption(r.ListCities(country.Code, state.Code), t.CityName)
	if !ok {
		return sel
	}
	sel.City = &city

	return sel
}

// OnCountryChange sets the country and always clears state and city, even
// when the new country has a state of the same name.
func (r *GeoCascadeResolver) OnCountryChange(sel AddressSelection, country *GeoOption) AddressSelection {
	return AddressSelection{Country: cloneOption(country)}
}

// OnStateChange sets the state and clears the city. It fails with
// ErrInvalidOperation when no country is selected.
func (r *GeoCascadeResolver) OnStateChange(sel AddressSelection, state *GeoOption) (AddressSelection, error) {
	if sel.Country == nil {
		return sel, fmt.Errorf("state change without country: %w", ErrInvalidOperation)
	}
	return AddressSelection{
		Country: cloneOption(sel.Country),
		State:   cloneOption(state),
	}, nil
}

// OnCityChange sets the city. It fails with ErrInvalidOperation when no
// state is selected.
func (r *GeoCascadeResolver) OnCityChange(sel AddressSelection, city *GeoOption) (AddressSelection, error) {
	if sel.State == nil {
		return sel, fmt.Errorf("city change without state: %w", ErrInvalidOperation)
	}
	return AddressSelection{
		Country: cloneOption(sel.Country),
		State:   cloneOption(sel.State),
		City:    cloneOption(city),
	}, nil
}

// Copy returns an independent copy of sel, used when mirroring a billing
// address into shipping.
func (r *GeoCascadeResolver) Copy(sel AddressSelection) AddressSelection {
	return AddressSelection{
		Country: cloneOption(sel.Country),
		State:   cloneOption(sel.State),
		City:    cloneOption(sel.City),
	}
}

// FindCountry looks up a country option by code.
func (r *GeoCascadeResolver) FindCountry(code string) (*GeoOption, bool) {
	return findByCode(r.dataset.Countries(), code)
}

// FindState looks up a state option by code within a country.
func (r *GeoCascadeResolver) FindState(countryCode, stateCode string) (*GeoOption, bool) {
	return findByCode(r.ListStates(countryCode), stateCode)
}

// FindCity looks up a city option by code within a state.
func (r *GeoCascadeResolver) FindCity(countryCode, stateCode, city string) (*GeoOption, bool) {
	return findByCode(r.ListCities(countryCode, stateCode), city)
}

func matchOption(options []GeoOption, name string) (GeoOption, bool) {
	key := foldName(name)
	if key == "" {
		return GeoOption{}, false
	}
	for _, opt := range options {
		if foldName(opt.Name) == key {
			return opt, true
		}
	}
	return GeoOption{}, false
}

func findByCode(options []GeoOption, code string) (*GeoOption, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, false
	}
	for _, opt := range options {
		if opt.Code == code {
			found := opt
			return &found, true
		}
	}
	return nil, false
}

func cloneOption(o *GeoOption) *GeoOption {
	if o == nil {
		return nil
	}
	c := *o
	return &c
}

func cloneOptions(in []GeoOption) []GeoOption {
	if len(in) == 0 {
		return nil
	}
	out := make([]GeoOption, len(in))
	copy(out, in)
	return out
}
