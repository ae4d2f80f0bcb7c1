package templates

import (
	"context"
	"io"
	"sort"
	"strconv"

	"github.com/a-h/templ"

	"crmforms/services"
)

// TotalsData is everything the totals summary displays.
type TotalsData struct {
	Currency        services.CurrencyType
	TaxType         services.TaxType
	DiscountPercent float64
	TaxPercent      float64
	Totals          services.TotalsResult
	TaxExclusive    bool
	// Row index -> message for rows with invalid quantity or rate.
	RowErrors map[int]error
}

// TotalsSummary renders the subtotal / discount / tax / grand total block.
// Amounts are rounded only here, for display.
func TotalsSummary(data TotalsData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		money := func(v float64) string { return services.FormatMoney(data.Currency, v) }

		h.raw(`<div id="totals-summary" class="totals-summary">`)
		rows := make([]int, 0, len(data.RowErrors))
		for i := range data.RowErrors {
			rows = append(rows, i)
		}
		sort.Ints(rows)
		for _, i := range rows {
			h.raw(`<p class="field-error" data-row="`, strconv.Itoa(i), `">`)
			h.text(data.RowErrors[i].Error())
			h.raw(`</p>`)
		}
		h.raw(`<table class="totals"><tbody>`)
		totalsRow(h, "Subtotal", "subtotal", money(data.Totals.Subtotal))
		totalsRow(h, "Discount ("+percent(services.ClampDiscountPercent(data.DiscountPercent))+")", "discount", money(data.Totals.DiscountAmount))
		totalsRow(h, "Taxable Amount", "taxable", money(data.Totals.TaxableAmount))
		totalsRow(h, data.TaxType.Label()+" ("+percent(services.EffectiveTaxPercent(data.TaxPercent))+")", "tax", money(data.Totals.TaxAmount))
		label := "Grand Total"
		if data.TaxExclusive {
			label = "Grand Total (excl. tax)"
		}
		totalsRow(h, label, "grand-total", money(data.Totals.GrandTotal))
		h.raw(`</tbody></table></div>`)
		return h.err
	})
}

func totalsRow(h *htmlWriter, label, key, value string) {
	h.raw(`<tr data-total="`, key, `"><th>`)
	h.text(label)
	h.raw(`</th><td>`)
	h.text(value)
	h.raw(`</td></tr>`)
}

func percent(p float64) string {
	return formatNumber(p) + "%"
}
