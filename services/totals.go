package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// LineItem is one row of a proposal or proforma invoice. Only Quantity and
// Rate take part in the totals.
type LineItem struct {
	Description string  `json:"description"`
	HSNCode     string  `json:"hsn_code,omitempty"`
	UoM         string  `json:"uom,omitempty"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
}

// Amount returns Quantity * Rate with malformed values treated as zero.
func (li LineItem) Amount() float64 {
	return finiteOrZero(li.Quantity) * finiteOrZero(li.Rate)
}

// TotalsInput is everything the totals engine needs.
type TotalsInput struct {
	Items           []LineItem
	DiscountPercent float64
	TaxPercent      float64
}

// TotalsResult holds full-precision derived amounts. Round with RoundMoney
// or a Format* helper at display time only.
type TotalsResult struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxableAmount  float64 `json:"taxable_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	GrandTotal     float64 `json:"grand_total"`
}

// NewLineItem builds a line item from raw draft values. Strings, numbers and
// nil are accepted; anything that does not parse as a number becomes 0.
func NewLineItem(description string, qty, rate any) LineItem {
	return LineItem{
		Description: description,
		Quantity:    coerceNumber(qty),
		Rate:        coerceNumber(rate),
	}
}

// ComputeTotals derives subtotal, discount, taxable amount, tax and grand
// total. Discount is clamped to [0, 100]; a negative tax percent counts as 0
// and tax has no upper bound. It never fails.
func ComputeTotals(in TotalsInput) TotalsResult {
	var subtotal float64
	for _, item := range in.Items {
		subtotal += item.Amount()
	}

	discountPercent := ClampDiscountPercent(in.DiscountPercent)
	taxPercent := EffectiveTaxPercent(in.TaxPercent)

	discountAmount := subtotal * discountPercent / 100
	taxableAmount := subtotal - discountAmount
	taxAmount := taxableAmount * taxPercent / 100

	return TotalsResult{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxableAmount,
		TaxAmount:      taxAmount,
		GrandTotal:     taxableAmount + taxAmount,
	}
}

// ExcludingTax returns the totals with tax left out of the grand total.
func (r TotalsResult) ExcludingTax() TotalsResult {
	r.GrandTotal = r.TaxableAmount
	return r
}

// ClampDiscountPercent limits a discount percentage to [0, 100].
func ClampDiscountPercent(p float64) float64 {
	p = finiteOrZero(p)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// EffectiveTaxPercent is the tax rate ComputeTotals applies: negative or
// non-finite rates count as zero, and there is no upper bound.
func EffectiveTaxPercent(p float64) float64 {
	return math.Max(finiteOrZero(p), 0)
}

// ValidateLineItems reports rows with a negative quantity or rate, keyed by
// row index.
func ValidateLineItems(items []LineItem) map[int]error {
	errs := make(map[int]error)
	for i, item := range items {
		switch {
		case item.Quantity < 0:
			errs[i] = fmt.Errorf("row %d: quantity must be zero or greater", i+1)
		case item.Rate < 0:
			errs[i] = fmt.Errorf("row %d: rate must be zero or greater", i+1)
		}
	}
	return errs
}

// RoundMoney rounds to 2 decimals, half away from zero.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// calcRoundOff rounds to the nearest rupee with a ±0.50 threshold and
// returns the adjustment.
func calcRoundOff(amount float64) float64 {
	rounded := math.Round(amount)
	return rounded - amount
}

func coerceNumber(v any) float64 {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	return finiteOrZero(cast.ToFloat64(v))
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
