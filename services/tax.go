package services

import (
	"strings"

	"github.com/spf13/cast"
)

// TaxType is a named tax category with a default rate. The rate actually
// applied can be overridden per document.
type TaxType string

const (
	TaxNone   TaxType = "none"
	TaxGST    TaxType = "gst"
	TaxIGST   TaxType = "igst"
	TaxSGST   TaxType = "sgst"
	TaxCGST   TaxType = "cgst"
	TaxCustom TaxType = "custom"
)

// TaxTypeOption describes one entry of the tax-type select.
type TaxTypeOption struct {
	Type           TaxType
	Label          string
	DefaultPercent float64
}

// TaxTypeOptions is the ordered list offered by the tax-type select.
var TaxTypeOptions = []TaxTypeOption{
	{Type: TaxNone, Label: "No Tax", DefaultPercent: 0},
	{Type: TaxGST, Label: "GST", DefaultPercent: 18},
	{Type: TaxIGST, Label: "IGST", DefaultPercent: 18},
	{Type: TaxSGST, Label: "SGST", DefaultPercent: 9},
	{Type: TaxCGST, Label: "CGST", DefaultPercent: 9},
	{Type: TaxCustom, Label: "Custom", DefaultPercent: 0},
}

// ParseTaxType maps a form value to a tax type. Unknown values are TaxNone.
func ParseTaxType(s string) TaxType {
	t := TaxType(strings.ToLower(strings.TrimSpace(s)))
	for _, opt := range TaxTypeOptions {
		if opt.Type == t {
			return t
		}
	}
	return TaxNone
}

// DefaultTaxPercent returns the default rate for a tax type.
func DefaultTaxPercent(t TaxType) float64 {
	for _, opt := range TaxTypeOptions {
		if opt.Type == t {
			return opt.DefaultPercent
		}
	}
	return 0
}

// ResolveTaxPercent returns the rate to apply: a numeric override wins,
// otherwise the tax type's default. "No Tax" always yields 0.
func ResolveTaxPercent(t TaxType, override string) float64 {
	if t == TaxNone {
		return 0
	}
	override = strings.TrimSpace(override)
	if override != "" {
		if p, err := cast.ToFloat64E(override); err == nil {
			return finiteOrZero(p)
		}
	}
	return DefaultTaxPercent(t)
}

// Label returns the display label for the tax type.
func (t TaxType) Label() string {
	for _, opt := range TaxTypeOptions {
		if opt.Type == t {
			return opt.Label
		}
	}
	return "Tax"
}
