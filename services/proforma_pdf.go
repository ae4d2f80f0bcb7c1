package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfMuted   = &props.Color{Red: 100, Green: 100, Blue: 100}
	pdfDark    = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfBand    = &props.Color{Red: 245, Green: 243, Blue: 239}
	pdfStripe  = &props.Color{Red: 248, Green: 249, Blue: 250}
	pdfSummary = &props.Color{Red: 245, Green: 245, Blue: 245}
)

func pdfStyle(size float64, style fontstyle.Type, al align.Type, color *props.Color) props.Text {
	return props.Text{Size: size, Style: style, Align: al, Color: color}
}

func shaded(bg *props.Color) *props.Cell { return &props.Cell{BackgroundColor: bg} }

// spacer is the blank row placed between sections.
func spacer(h float64) core.Row { return row.New(h) }

// GenerateProformaPDF renders a proforma invoice as an A4 PDF.
func GenerateProformaPDF(data *ProformaExportData) ([]byte, error) {
	m := maroto.New(config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   pdfMuted,
		}).
		Build())

	sections := []func(core.Maroto, *ProformaExportData){
		addProformaHeader,
		addProformaCustomer,
		addProformaExportLineItems,
		addProformaTotals,
		addProformaAmountInWords,
		addProformaComments,
		addProformaSignature,
	}
	for _, add := range sections {
		add(m, data)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate proforma %s: %w", data.DocNumber, err)
	}
	return doc.GetBytes(), nil
}

func addProformaHeader(m core.Maroto, data *ProformaExportData) {
	title := pdfStyle(14, fontstyle.Bold, align.Left, nil)
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(text.New(data.Company.Name, title)),
			col.New(6).Add(text.New("PROFORMA INVOICE", pdfStyle(14, fontstyle.Bold, align.Right, pdfDark))),
		),
		row.New(8).Add(
			col.New(6).Add(text.New(
				joinNonEmpty([]string{data.Company.Address, data.Company.Email}, " | "),
				pdfStyle(8, fontstyle.Normal, align.Left, pdfMuted),
			)),
			col.New(6).Add(text.New("PI #: "+data.DocNumber, pdfStyle(10, fontstyle.Bold, align.Right, nil))),
		),
		spacer(3),
	)
}

// addProformaCustomer lays out bill-to and ship-to side by side with the
// invoice dates and proposal reference in the right-hand column.
func addProformaCustomer(m core.Maroto, data *ProformaExportData) {
	label := pdfStyle(7, fontstyle.Bold, align.Left, pdfMuted)
	rightLabel := pdfStyle(7, fontstyle.Bold, align.Right, pdfMuted)
	value := pdfStyle(8, fontstyle.Normal, align.Left, nil)
	rightValue := pdfStyle(8, fontstyle.Normal, align.Right, nil)
	name := pdfStyle(9, fontstyle.Bold, align.Left, nil)
	band := shaded(pdfBand)

	lines := 1 + max(strings.Count(data.BillTo.Lines, "\n"), strings.Count(data.ShipTo.Lines, "\n"))

	gstin := ""
	if data.GSTIN != "" {
		gstin = "GSTIN: " + data.GSTIN
	}

	m.AddRows(
		row.New(7).Add(
			col.New(4).Add(text.New("BILL TO", label)).WithStyle(band),
			col.New(4).Add(text.New("SHIP TO", label)).WithStyle(band),
			col.New(4).Add(text.New("INVOICE DETAILS", rightLabel)).WithStyle(band),
		),
		row.New(7).Add(
			col.New(4).Add(text.New(data.CustomerName, name)),
			col.New(4).Add(text.New(data.CustomerName, name)),
			col.New(2).Add(text.New("Date:", rightLabel)),
			col.New(2).Add(text.New(data.IssueDate, rightValue)),
		),
		row.New(float64(4*lines)).Add(
			col.New(4).Add(text.New(data.BillTo.Lines, value)),
			col.New(4).Add(text.New(data.ShipTo.Lines, value)),
			col.New(2).Add(text.New("Due Date:", rightLabel)),
			col.New(2).Add(text.New(data.DueDate, rightValue)),
		),
		row.New(7).Add(
			col.New(8).Add(text.New(gstin, value)),
			col.New(2).Add(text.New("Proposal Ref:", rightLabel)),
			col.New(2).Add(text.New(data.ProposalRef, rightValue)),
		),
		spacer(3),
	)
}

type itemColumn struct {
	header string
	size   int
	align  align.Type
	value  func(ProformaExportLineItem) string
}

func addProformaExportLineItems(m core.Maroto, data *ProformaExportData) {
	columns := []itemColumn{
		{"SI No", 1, align.Center, func(it ProformaExportLineItem) string { return strconv.Itoa(it.SINo) }},
		{"Description", 4, align.Left, func(it ProformaExportLineItem) string { return it.Description }},
		{"HSN", 1, align.Center, func(it ProformaExportLineItem) string { return it.HSNCode }},
		{"Qty", 1, align.Right, func(it ProformaExportLineItem) string { return formatQty(it.Qty) }},
		{"UoM", 1, align.Center, func(it ProformaExportLineItem) string { return it.UoM }},
		{"Rate", 2, align.Right, func(it ProformaExportLineItem) string { return FormatMoney(data.Currency, it.Rate) }},
		{"Amount", 2, align.Right, func(it ProformaExportLineItem) string { return FormatMoney(data.Currency, it.Amount) }},
	}

	head := make([]core.Col, len(columns))
	for i, c := range columns {
		al := align.Center
		if c.align == align.Left {
			al = align.Left
		}
		head[i] = col.New(c.size).Add(text.New(c.header, pdfStyle(7, fontstyle.Bold, al, pdfWhite))).WithStyle(shaded(pdfDark))
	}
	m.AddRows(row.New(8).Add(head...))

	for i, item := range data.LineItems {
		cells := make([]core.Col, len(columns))
		for j, c := range columns {
			cells[j] = col.New(c.size).Add(text.New(c.value(item), pdfStyle(7, fontstyle.Normal, c.align, nil)))
			if i%2 == 1 {
				cells[j] = cells[j].WithStyle(shaded(pdfStripe))
			}
		}
		m.AddRows(row.New(7).Add(cells...))
	}

	m.AddRows(spacer(2))
}

func addProformaTotals(m core.Maroto, data *ProformaExportData) {
	label := pdfStyle(8, fontstyle.Bold, align.Right, nil)
	value := pdfStyle(8, fontstyle.Normal, align.Right, nil)
	summary := shaded(pdfSummary)

	summaryRow := func(l, v string) core.Row {
		return row.New(7).Add(
			col.New(9).Add(text.New(l, label)).WithStyle(summary),
			col.New(3).Add(text.New(v, value)).WithStyle(summary),
		)
	}

	m.AddRows(
		summaryRow("Subtotal", FormatMoney(data.Currency, data.Totals.Subtotal)),
		summaryRow("Discount "+formatPercent(ClampDiscountPercent(data.DiscountPercent))+"%", FormatMoney(data.Currency, -data.Totals.DiscountAmount)),
		summaryRow("Taxable Amount", FormatMoney(data.Currency, data.Totals.TaxableAmount)),
		summaryRow(data.TaxLabel+" "+formatPercent(EffectiveTaxPercent(data.TaxPercent))+"%", FormatMoney(data.Currency, data.Totals.TaxAmount)),
	)

	grandLabel := "Grand Total"
	if data.TaxExclusive {
		grandLabel = "Grand Total (excl. tax)"
	}
	grand := pdfStyle(9, fontstyle.Bold, align.Right, pdfWhite)
	m.AddRows(row.New(8).Add(
		col.New(9).Add(text.New(grandLabel, grand)).WithStyle(shaded(pdfDark)),
		col.New(3).Add(text.New(FormatMoney(data.Currency, data.Totals.GrandTotal), grand)).WithStyle(shaded(pdfDark)),
	))

	// Rounding to whole rupees only applies to INR documents.
	if data.Currency == CurrencyINR {
		m.AddRows(
			summaryRow("Round Off", FormatINR(data.RoundOff)),
			summaryRow("Amount Payable", FormatINR(data.AmountPayable)),
		)
	}

	m.AddRows(spacer(3))
}

func addProformaAmountInWords(m core.Maroto, data *ProformaExportData) {
	if data.AmountInWords == "" {
		return
	}
	m.AddRows(
		row.New(8).Add(col.New(12).Add(text.New(
			"Amount in Words: "+data.AmountInWords,
			pdfStyle(8, fontstyle.BoldItalic, align.Left, nil),
		))),
		spacer(3),
	)
}

func addProformaComments(m core.Maroto, data *ProformaExportData) {
	if data.Comments == "" {
		return
	}
	m.AddRows(
		row.New(6).Add(col.New(12).Add(text.New("COMMENTS", pdfStyle(7, fontstyle.Bold, align.Left, pdfMuted)))),
		row.New(7).Add(col.New(12).Add(text.New(data.Comments, pdfStyle(8, fontstyle.Normal, align.Left, nil)))),
		spacer(3),
	)
}

func addProformaSignature(m core.Maroto, data *ProformaExportData) {
	m.AddRows(
		spacer(10),
		row.New(6).Add(
			col.New(6),
			col.New(6).Add(text.New(strings.Repeat("_", 28), pdfStyle(8, fontstyle.Normal, align.Center, pdfMuted))),
		),
		row.New(7).Add(
			col.New(6),
			col.New(6).Add(text.New(
				"For "+data.Company.Name+" / Authorized Signatory",
				pdfStyle(7, fontstyle.Bold, align.Center, pdfMuted),
			)),
		),
	)
}

// formatQty drops the decimals from whole quantities.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return strconv.FormatFloat(qty, 'f', 0, 64)
	}
	return strconv.FormatFloat(qty, 'f', 2, 64)
}

// formatPercent prints a percentage without trailing zeros.
func formatPercent(p float64) string {
	return strings.TrimSuffix(strings.TrimRight(strconv.FormatFloat(p, 'f', 2, 64), "0"), ".")
}

func joinNonEmpty(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
