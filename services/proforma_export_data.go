package services

import (
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"crmforms/logging"
)

// CompanyInfo is the issuer block printed on exported documents.
type CompanyInfo struct {
	Name    string
	Address string
	Email   string
}

// ProformaExportData holds all data needed to generate a proforma invoice PDF.
type ProformaExportData struct {
	Company CompanyInfo

	DocNumber    string
	IssueDate    string
	DueDate      string
	Status       string
	ProposalRef  string
	CustomerName string
	GSTIN        string

	BillTo ExportAddress
	ShipTo ExportAddress

	Currency  CurrencyType
	LineItems []ProformaExportLineItem

	TaxLabel        string
	DiscountPercent float64
	TaxPercent      float64
	Totals          TotalsResult
	TaxExclusive    bool

	// Only set for INR, where the payable amount is rounded to the rupee.
	RoundOff      float64
	AmountPayable float64
	AmountInWords string

	Comments string
}

// ExportAddress is an address block formatted for print.
type ExportAddress struct {
	Lines string // formatted multi-line
}

// ProformaExportLineItem holds a single line item for PDF export.
type ProformaExportLineItem struct {
	SINo        int
	Description string
	HSNCode     string
	Qty         float64
	UoM         string
	Rate        float64
	Amount      float64
}

// BuildProformaExportData assembles all data needed for PDF generation from PocketBase records.
func BuildProformaExportData(app core.App, id string, company CompanyInfo, opts PricingOptions) (*ProformaExportData, error) {
	doc, pricing, err := LoadDocumentPricing(app, DocProforma, id, opts)
	if err != nil {
		return nil, err
	}

	data := &ProformaExportData{
		Company:         company,
		DocNumber:       doc.GetString("doc_number"),
		DueDate:         doc.GetString("due_date"),
		Status:          doc.GetString("status"),
		Currency:        pricing.Currency,
		TaxLabel:        pricing.TaxType.Label(),
		DiscountPercent: ClampDiscountPercent(pricing.DiscountPercent),
		TaxPercent:      pricing.TaxPercent,
		Totals:          pricing.Totals,
		TaxExclusive:    opts.ProformaTaxExclusive,
		Comments:        doc.GetString("comments"),
	}

	if created := doc.GetDateTime("created"); !created.IsZero() {
		data.IssueDate = created.Time().Format("02-01-2006")
	}

	if proposalID := doc.GetString("proposal"); proposalID != "" {
		if p, err := app.FindRecordById("proposals", proposalID); err == nil {
			data.ProposalRef = p.GetString("doc_number")
		} else {
			logging.L().Warnf("proforma_export: could not find proposal %s: %v", proposalID, err)
		}
	}

	if customerID := doc.GetString("customer"); customerID != "" {
		c, err := app.FindRecordById("customers", customerID)
		if err != nil {
			logging.L().Warnf("proforma_export: could not find customer %s: %v", customerID, err)
		} else {
			data.CustomerName = c.GetString("name")
			data.GSTIN = c.GetString("gstin")
			data.BillTo = formatExportAddress(c, "billing_")
			data.ShipTo = formatExportAddress(c, "shipping_")
		}
	}

	for i, item := range pricing.Items {
		data.LineItems = append(data.LineItems, ProformaExportLineItem{
			SINo:        i + 1,
			Description: item.Description,
			HSNCode:     item.HSNCode,
			Qty:         item.Quantity,
			UoM:         item.UoM,
			Rate:        item.Rate,
			Amount:      item.Amount(),
		})
	}

	if data.Currency == CurrencyINR {
		data.RoundOff = calcRoundOff(data.Totals.GrandTotal)
		data.AmountPayable = data.Totals.GrandTotal + data.RoundOff
		data.AmountInWords = AmountToWords(data.AmountPayable)
	}

	return data, nil
}

// formatExportAddress joins the address columns stored under prefix.
func formatExportAddress(rec *core.Record, prefix string) ExportAddress {
	var lines []string
	for _, f := range []string{"address_line_1", "address_line_2"} {
		if v := rec.GetString(prefix + f); v != "" {
			lines = append(lines, v)
		}
	}
	cityState := joinNonEmpty([]string{
		rec.GetString(prefix + "city"),
		rec.GetString(prefix + "state"),
		rec.GetString(prefix + "pin_code"),
	}, ", ")
	if cityState != "" {
		lines = append(lines, cityState)
	}
	if country := rec.GetString(prefix + "country"); country != "" {
		lines = append(lines, country)
	}
	return ExportAddress{Lines: strings.Join(lines, "\n")}
}
