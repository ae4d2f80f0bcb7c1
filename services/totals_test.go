package services

import (
	"math"
	"testing"
)

func floatClose(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeTotals_EmptyItems(t *testing.T) {
	got := ComputeTotals(TotalsInput{DiscountPercent: 10, TaxPercent: 18})
	if got != (TotalsResult{}) {
		t.Errorf("ComputeTotals(empty) = %+v, want all zero", got)
	}
}

func TestComputeTotals_KnownExample(t *testing.T) {
	got := ComputeTotals(TotalsInput{
		Items: []LineItem{
			{Quantity: 2, Rate: 100},
			{Quantity: 1, Rate: 50},
		},
		DiscountPercent: 10,
		TaxPercent:      18,
	})

	want := TotalsResult{Subtotal: 250, DiscountAmount: 25, TaxableAmount: 225, TaxAmount: 40.5, GrandTotal: 265.5}
	if !floatClose(got.Subtotal, want.Subtotal) ||
		!floatClose(got.DiscountAmount, want.DiscountAmount) ||
		!floatClose(got.TaxableAmount, want.TaxableAmount) ||
		!floatClose(got.TaxAmount, want.TaxAmount) ||
		!floatClose(got.GrandTotal, want.GrandTotal) {
		t.Errorf("ComputeTotals() = %+v, want %+v", got, want)
	}
}

func TestComputeTotals_DiscountClamp(t *testing.T) {
	tests := []struct {
		name         string
		discount     float64
		wantDiscount float64
		wantTaxable  float64
	}{
		{"above 100", 150, 100, 0},
		{"negative", -20, 0, 100},
		{"exactly 100", 100, 100, 0},
		{"NaN", math.NaN(), 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(TotalsInput{
				Items:           []LineItem{{Quantity: 1, Rate: 100}},
				DiscountPercent: tt.discount,
			})
			if !floatClose(got.DiscountAmount, tt.wantDiscount) || !floatClose(got.TaxableAmount, tt.wantTaxable) {
				t.Errorf("discount=%v: got discount %v taxable %v, want %v / %v",
					tt.discount, got.DiscountAmount, got.TaxableAmount, tt.wantDiscount, tt.wantTaxable)
			}
		})
	}
}

func TestComputeTotals_TaxBounds(t *testing.T) {
	items := []LineItem{{Quantity: 1, Rate: 100}}

	neg := ComputeTotals(TotalsInput{Items: items, TaxPercent: -5})
	if neg.TaxAmount != 0 || neg.GrandTotal != 100 {
		t.Errorf("negative tax: got %+v", neg)
	}

	high := ComputeTotals(TotalsInput{Items: items, TaxPercent: 250})
	if !floatClose(high.TaxAmount, 250) || !floatClose(high.GrandTotal, 350) {
		t.Errorf("tax above 100 should not be clamped: got %+v", high)
	}
}

func TestEffectiveTaxPercent(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{-5, 0},
		{0, 0},
		{18, 18},
		{250, 250},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, c := range cases {
		if got := EffectiveTaxPercent(c.in); got != c.want {
			t.Errorf("EffectiveTaxPercent(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestComputeTotals_MalformedLineItem(t *testing.T) {
	got := ComputeTotals(TotalsInput{
		Items: []LineItem{NewLineItem("bad", "abc", 10)},
	})
	if got.Subtotal != 0 {
		t.Errorf("subtotal = %v, want 0", got.Subtotal)
	}

	inf := ComputeTotals(TotalsInput{
		Items: []LineItem{{Quantity: math.Inf(1), Rate: 10}, {Quantity: 1, Rate: math.NaN()}, {Quantity: 3, Rate: 5}},
	})
	if inf.Subtotal != 15 {
		t.Errorf("non-finite values should count as 0: subtotal = %v, want 15", inf.Subtotal)
	}
}

func TestComputeTotals_FullPrecision(t *testing.T) {
	got := ComputeTotals(TotalsInput{
		Items:      []LineItem{{Quantity: 1, Rate: 10.005}},
		TaxPercent: 18,
	})
	if floatClose(got.TaxAmount, RoundMoney(got.TaxAmount)) {
		t.Errorf("tax amount %v looks rounded; totals must keep full precision", got.TaxAmount)
	}
}

func TestExcludingTax(t *testing.T) {
	r := ComputeTotals(TotalsInput{
		Items:           []LineItem{{Quantity: 2, Rate: 100}, {Quantity: 1, Rate: 50}},
		DiscountPercent: 10,
		TaxPercent:      18,
	})
	ex := r.ExcludingTax()
	if ex.GrandTotal != ex.TaxableAmount {
		t.Errorf("GrandTotal = %v, want taxable %v", ex.GrandTotal, ex.TaxableAmount)
	}
	if ex.TaxAmount != r.TaxAmount {
		t.Errorf("ExcludingTax should keep the tax amount for display")
	}
}

func TestNewLineItem_Coercion(t *testing.T) {
	tests := []struct {
		name     string
		qty      any
		rate     any
		wantQty  float64
		wantRate float64
	}{
		{"numeric strings", "2", " 100.5 ", 2, 100.5},
		{"ints", 3, 7, 3, 7},
		{"nil", nil, nil, 0, 0},
		{"garbage", "abc", "1e", 0, 0},
		{"empty", "", "", 0, 0},
		{"float", 1.5, float32(2), 1.5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			li := NewLineItem("x", tt.qty, tt.rate)
			if li.Quantity != tt.wantQty || li.Rate != tt.wantRate {
				t.Errorf("NewLineItem(%v, %v) = %v/%v, want %v/%v", tt.qty, tt.rate, li.Quantity, li.Rate, tt.wantQty, tt.wantRate)
			}
		})
	}
}

func TestValidateLineItems(t *testing.T) {
	errs := ValidateLineItems([]LineItem{
		{Quantity: 1, Rate: 10},
		{Quantity: -1, Rate: 10},
		{Quantity: 1, Rate: -10},
	})
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if _, ok := errs[0]; ok {
		t.Error("row 0 should be valid")
	}
}

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{40.5, 40.5},
		{12.3456, 12.35},
		{0.125, 0.13},
		{-0.125, -0.13},
		{0, 0},
	}
	for _, tt := range tests {
		if got := RoundMoney(tt.in); !floatClose(got, tt.want) {
			t.Errorf("RoundMoney(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCalcRoundOff(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		wantRound float64
	}{
		{"exact", 5000.00, 0.00},
		{"round_down", 5000.30, -0.30},
		{"round_up", 5000.70, 0.30},
		{"at_threshold", 5000.50, 0.50}, // math.Round rounds half away from zero
		{"just_below", 5000.49, -0.49},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calcRoundOff(tt.amount)
			if math.Abs(got-tt.wantRound) > 0.001 {
				t.Errorf("calcRoundOff(%f) = %f, want %f", tt.amount, got, tt.wantRound)
			}
		})
	}
}
