package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// docItems maps a document kind to its item collection and parent relation.
var docItems = map[DocKind]struct{ collection, parentField string }{
	DocProposal: {"proposal_items", "proposal"},
	DocProforma: {"proforma_items", "proforma"},
}

// ItemCollection returns the item collection and parent relation field for kind.
func ItemCollection(kind DocKind) (collection, parentField string) {
	d := docItems[kind]
	return d.collection, d.parentField
}

// DocumentCollection returns the collection that stores documents of kind.
func DocumentCollection(kind DocKind) string {
	return docCollections[kind]
}

// PricingOptions carries the deployment switches that affect totals.
type PricingOptions struct {
	// ProformaTaxExclusive leaves tax out of the proforma grand total.
	ProformaTaxExclusive bool
}

// DocumentPricing is a proposal or proforma with its items and derived totals.
type DocumentPricing struct {
	Currency        CurrencyType
	TaxType         TaxType
	TaxPercent      float64
	DiscountPercent float64
	Items           []LineItem
	Totals          TotalsResult
}

// LoadDocumentPricing reads a document and its items in sort order and
// computes the totals.
func LoadDocumentPricing(app core.App, kind DocKind, id string, opts PricingOptions) (*core.Record, DocumentPricing, error) {
	collection, ok := docCollections[kind]
	if !ok {
		return nil, DocumentPricing{}, fmt.Errorf("unknown document kind %q", kind)
	}
	doc, err := app.FindRecordById(collection, id)
	if err != nil {
		return nil, DocumentPricing{}, fmt.Errorf("%s not found: %w", kind, err)
	}

	itemCollection, parentField := ItemCollection(kind)
	records, err := app.FindRecordsByFilter(
		itemCollection,
		parentField+" = {:id}",
		"sort_order",
		0,
		0,
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, DocumentPricing{}, fmt.Errorf("fetch %s items: %w", kind, err)
	}

	p := DocumentPricing{
		Currency:        ParseCurrencyType(doc.GetString("currency")),
		TaxType:         ParseTaxType(doc.GetString("tax_type")),
		DiscountPercent: doc.GetFloat("discount_percent"),
	}
	if p.TaxType != TaxNone {
		p.TaxPercent = doc.GetFloat("tax_percent")
	}
	for _, r := range records {
		p.Items = append(p.Items, LineItem{
			Description: r.GetString("description"),
			HSNCode:     r.GetString("hsn_code"),
			UoM:         r.GetString("uom"),
			Quantity:    r.GetFloat("qty"),
			Rate:        r.GetFloat("rate"),
		})
	}

	p.Totals = ComputeTotals(TotalsInput{
		Items:           p.Items,
		DiscountPercent: p.DiscountPercent,
		TaxPercent:      p.TaxPercent,
	})
	if kind == DocProforma && opts.ProformaTaxExclusive {
		p.Totals = p.Totals.ExcludingTax()
	}
	return doc, p, nil
}
