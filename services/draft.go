package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tiendc/go-deepcopy"
)

// ErrUnknownOption is returned when a submitted code is not in the current
// option list for its level.
var ErrUnknownOption = errors.New("unknown option")

// AddressDraft is the in-progress state of one address block on a form.
// Names holds what will be persisted: canonical names for resolved levels,
// and the stored free text for levels that did not resolve.
type AddressDraft struct {
	Selection AddressSelection    `json:"selection"`
	Names     AddressStringTriple `json:"names"`
	Line1     string              `json:"line1"`
	Line2     string              `json:"line2"`
	PinCode   string              `json:"pin_code"`
}

// LoadAddressDraft resolves stored names and keeps the raw text for display.
func LoadAddressDraft(r *GeoCascadeResolver, stored AddressStringTriple) AddressDraft {
	return AddressDraft{
		Selection: r.Resolve(stored),
		Names: AddressStringTriple{
			CountryName: strings.TrimSpace(stored.CountryName),
			StateName:   strings.TrimSpace(stored.StateName),
			CityName:    strings.TrimSpace(stored.CityName),
		},
	}
}

// SetCountry selects a country by code; an empty code clears it. State and
// city are always cleared.
func (a AddressDraft) SetCountry(r *GeoCascadeResolver, code string) (AddressDraft, error) {
	var opt *GeoOption
	if strings.TrimSpace(code) != "" {
		found, ok := r.FindCountry(code)
		if !ok {
			return a, fmt.Errorf("country %q: %w", code, ErrUnknownOption)
		}
		opt = found
	}
	a.Selection = r.OnCountryChange(a.Selection, opt)
	a.Names = a.Selection.Triple()
	return a, nil
}

// SetState selects a state by code within the selected country.
func (a AddressDraft) SetState(r *GeoCascadeResolver, code string) (AddressDraft, error) {
	var opt *GeoOption
	if strings.TrimSpace(code) != "" && a.Selection.Country != nil {
		found, ok := r.FindState(a.Selection.Country.Code, code)
		if !ok {
			return a, fmt.Errorf("state %q: %w", code, ErrUnknownOption)
		}
		opt = found
	}
	sel, err := r.OnStateChange(a.Selection, opt)
	if err != nil {
		return a, err
	}
	a.Selection = sel
	a.Names = sel.Triple()
	return a, nil
}

// SetCity selects a city within the selected state.
func (a AddressDraft) SetCity(r *GeoCascadeResolver, city string) (AddressDraft, error) {
	var opt *GeoOption
	if strings.TrimSpace(city) != "" && a.Selection.State != nil {
		found, ok := r.FindCity(a.Selection.Country.Code, a.Selection.State.Code, city)
		if !ok {
			return a, fmt.Errorf("city %q: %w", city, ErrUnknownOption)
		}
		opt = found
	}
	sel, err := r.OnCityChange(a.Selection, opt)
	if err != nil {
		return a, err
	}
	a.Selection = sel
	a.Names = sel.Triple()
	return a, nil
}

// ApplyCodes replays a full country/state/city submission in cascade order.
// Empty lower levels are left unselected.
func (a AddressDraft) ApplyCodes(r *GeoCascadeResolver, country, state, city string) (AddressDraft, error) {
	out, err := a.SetCountry(r, country)
	if err != nil {
		return a, err
	}
	if strings.TrimSpace(state) == "" {
		return out, nil
	}
	if out, err = out.SetState(r, state); err != nil {
		return a, err
	}
	if strings.TrimSpace(city) == "" {
		return out, nil
	}
	if out, err = out.SetCity(r, city); err != nil {
		return a, err
	}
	return out, nil
}

// copyAddress returns a draft that shares no pointers with a.
func copyAddress(r *GeoCascadeResolver, a AddressDraft) AddressDraft {
	a.Selection = r.Copy(a.Selection)
	return a
}

// AddressRole names which address block of a customer a transition targets.
type AddressRole string

const (
	AddressBilling  AddressRole = "billing"
	AddressShipping AddressRole = "shipping"
)

// CustomerDraft is the aggregate state of the create/edit customer form.
type CustomerDraft struct {
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	Phone         string       `json:"phone"`
	GSTIN         string       `json:"gstin"`
	Currency      CurrencyType `json:"currency"`
	Billing       AddressDraft `json:"billing"`
	Shipping      AddressDraft `json:"shipping"`
	SameAsBilling bool         `json:"same_as_billing"`
}

// Clone returns a deep copy of the draft.
func (d CustomerDraft) Clone() (CustomerDraft, error) {
	var out CustomerDraft
	if err := deepcopy.Copy(&out, d); err != nil {
		return d, fmt.Errorf("clone customer draft: %w", err)
	}
	return out, nil
}

// UpdateAddress applies fn to the billing or shipping block and returns the
// new draft. While SameAsBilling is on, shipping cannot be edited directly
// and follows every billing change.
func (d CustomerDraft) UpdateAddress(r *GeoCascadeResolver, role AddressRole, fn func(AddressDraft) (AddressDraft, error)) (CustomerDraft, error) {
	next, err := d.Clone()
	if err != nil {
		return d, err
	}

	switch role {
	case AddressBilling:
		billing, err := fn(next.Billing)
		if err != nil {
			return d, err
		}
		next.Billing = billing
		if next.SameAsBilling {
			next.Shipping = copyAddress(r, billing)
		}
	case AddressShipping:
		if next.SameAsBilling {
			return d, fmt.Errorf("shipping mirrors billing: %w", ErrInvalidOperation)
		}
		shipping, err := fn(next.Shipping)
		if err != nil {
			return d, err
		}
		next.Shipping = shipping
	default:
		return d, fmt.Errorf("address role %q: %w", role, ErrInvalidOperation)
	}
	return next, nil
}

// SetSameAsBilling toggles mirroring. Turning it on copies billing into
// shipping; turning it off leaves an independent copy in place.
func (d CustomerDraft) SetSameAsBilling(r *GeoCascadeResolver, on bool) (CustomerDraft, error) {
	next, err := d.Clone()
	if err != nil {
		return d, err
	}
	next.SameAsBilling = on
	if on {
		next.Shipping = copyAddress(r, next.Billing)
	}
	return next, nil
}

// LeadStatus is the pipeline stage of a lead.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

// LeadStatusOptions lists lead statuses in pipeline order.
var LeadStatusOptions = []LeadStatus{LeadNew, LeadContacted, LeadQualified, LeadConverted, LeadLost}

// LeadDraft is the aggregate state of the create/edit lead form.
type LeadDraft struct {
	Name    string       `json:"name"`
	Company string       `json:"company"`
	Email   string       `json:"email"`
	Phone   string       `json:"phone"`
	Source  string       `json:"source"`
	Status  LeadStatus   `json:"status"`
	Address AddressDraft `json:"address"`
}
