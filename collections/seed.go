package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"crmforms/logging"
)

// ── Definition structs ───────────────────────────────────────────────────

type addressDef struct {
	line1   string
	city    string
	state   string
	country string
	pinCode string
}

type customerDef struct {
	name     string
	email    string
	phone    string
	gstin    string
	currency string
	billing  addressDef
	shipping addressDef
	sameAs   bool
}

type itemDef struct {
	description string
	hsnCode     string
	uom         string
	qty         float64
	rate        float64
}

type docDef struct {
	docNumber       string
	title           string
	currency        string
	taxType         string
	taxPercent      float64
	discountPercent float64
	status          string
	items           []itemDef
}

var seedCustomers = []customerDef{
	{
		name:     "Sunrise Textiles Pvt. Ltd.",
		email:    "accounts@sunrisetextiles.in",
		phone:    "9820012345",
		gstin:    "27AAPFU0939F1ZV",
		currency: "INR",
		billing:  addressDef{"12 Linking Road, Bandra West", "Mumbai", "Maharashtra", "India", "400050"},
		sameAs:   true,
	},
	{
		name:     "Harbor Analytics LLC",
		email:    "ops@harboranalytics.com",
		currency: "USD",
		billing:  addressDef{"500 Market Street", "San Francisco", "California", "United States", ""},
		shipping: addressDef{"77 Congress Avenue", "Austin", "Texas", "United States", ""},
	},
}

var seedProposal = docDef{
	docNumber:       "PROP-25-26-001",
	title:           "Annual maintenance contract",
	currency:        "INR",
	taxType:         "gst",
	taxPercent:      18,
	discountPercent: 10,
	status:          "sent",
	items: []itemDef{
		{"Preventive maintenance visit", "998719", "Nos", 12, 4500},
		{"Spare parts kit", "8504", "Set", 2, 12500},
	},
}

var seedProforma = docDef{
	docNumber:       "PI-25-26-001",
	currency:        "INR",
	taxType:         "igst",
	taxPercent:      18,
	discountPercent: 5,
	status:          "issued",
	items: []itemDef{
		{"Preventive maintenance visit", "998719", "Nos", 12, 4500},
	},
}

// Seed populates the CRM collections with a small demo dataset. It is safe
// to call on every startup because it returns early if any customer
// records already exist.
func Seed(app core.App) error {
	customersCol, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		return fmt.Errorf("seed: could not find customers collection: %w", err)
	}
	count, err := app.CountRecords(customersCol)
	if err != nil {
		return fmt.Errorf("seed: could not count customers: %w", err)
	}
	if count > 0 {
		return nil // already seeded
	}

	logging.L().Info("seed: customers collection is empty – inserting seed data …")

	var customerIDs []string
	for _, d := range seedCustomers {
		r := core.NewRecord(customersCol)
		r.Set("name", d.name)
		r.Set("email", d.email)
		r.Set("phone", d.phone)
		r.Set("gstin", d.gstin)
		r.Set("currency", d.currency)
		setAddress(r, "billing_", d.billing)
		if d.sameAs {
			setAddress(r, "shipping_", d.billing)
		} else {
			setAddress(r, "shipping_", d.shipping)
		}
		r.Set("same_as_billing", d.sameAs)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: could not save customer %q: %w", d.name, err)
		}
		customerIDs = append(customerIDs, r.Id)
	}

	leadsCol, err := app.FindCollectionByNameOrId("leads")
	if err != nil {
		return fmt.Errorf("seed: could not find leads collection: %w", err)
	}
	lead := core.NewRecord(leadsCol)
	lead.Set("name", "Priya Nair")
	lead.Set("company", "Backwater Resorts")
	lead.Set("email", "priya@backwaterresorts.in")
	lead.Set("source", "website")
	lead.Set("status", "new")
	setAddress(lead, "", addressDef{city: "Kochi", state: "Kerala", country: "India"})
	if err := app.Save(lead); err != nil {
		return fmt.Errorf("seed: could not save lead: %w", err)
	}

	proposalID, err := seedDocument(app, "proposals", "proposal_items", "proposal", customerIDs[0], "", seedProposal)
	if err != nil {
		return err
	}
	if _, err := seedDocument(app, "proforma_invoices", "proforma_items", "proforma", customerIDs[0], proposalID, seedProforma); err != nil {
		return err
	}

	donorsCol, err := app.FindCollectionByNameOrId("donors")
	if err != nil {
		return fmt.Errorf("seed: could not find donors collection: %w", err)
	}
	donor := core.NewRecord(donorsCol)
	donor.Set("name", "Ramesh Iyer")
	donor.Set("phone", "9840098400")
	setAddress(donor, "", addressDef{city: "Chennai", state: "Tamil Nadu", country: "India"})
	if err := app.Save(donor); err != nil {
		return fmt.Errorf("seed: could not save donor: %w", err)
	}

	membersCol, err := app.FindCollectionByNameOrId("family_members")
	if err != nil {
		return fmt.Errorf("seed: could not find family_members collection: %w", err)
	}
	member := core.NewRecord(membersCol)
	member.Set("donor", donor.Id)
	member.Set("name", "Lakshmi Iyer")
	member.Set("relation", "Spouse")
	member.Set("blood_group", "B+")
	if err := app.Save(member); err != nil {
		return fmt.Errorf("seed: could not save family member: %w", err)
	}

	logging.L().Info("seed: done")
	return nil
}

func seedDocument(app core.App, docCollection, itemCollection, parentField, customerID, proposalID string, d docDef) (string, error) {
	docCol, err := app.FindCollectionByNameOrId(docCollection)
	if err != nil {
		return "", fmt.Errorf("seed: could not find %s collection: %w", docCollection, err)
	}
	itemsCol, err := app.FindCollectionByNameOrId(itemCollection)
	if err != nil {
		return "", fmt.Errorf("seed: could not find %s collection: %w", itemCollection, err)
	}

	doc := core.NewRecord(docCol)
	doc.Set("doc_number", d.docNumber)
	doc.Set("customer", customerID)
	if d.title != "" {
		doc.Set("title", d.title)
	}
	if proposalID != "" {
		doc.Set("proposal", proposalID)
	}
	doc.Set("currency", d.currency)
	doc.Set("tax_type", d.taxType)
	doc.Set("tax_percent", d.taxPercent)
	doc.Set("discount_percent", d.discountPercent)
	doc.Set("status", d.status)
	if err := app.Save(doc); err != nil {
		return "", fmt.Errorf("seed: could not save %s %q: %w", docCollection, d.docNumber, err)
	}

	for i, it := range d.items {
		r := core.NewRecord(itemsCol)
		r.Set(parentField, doc.Id)
		r.Set("sort_order", i+1)
		r.Set("description", it.description)
		r.Set("hsn_code", it.hsnCode)
		r.Set("uom", it.uom)
		r.Set("qty", it.qty)
		r.Set("rate", it.rate)
		if err := app.Save(r); err != nil {
			return "", fmt.Errorf("seed: could not save %s item %d: %w", docCollection, i+1, err)
		}
	}
	return doc.Id, nil
}

func setAddress(r *core.Record, prefix string, a addressDef) {
	r.Set(prefix+"address_line_1", a.line1)
	r.Set(prefix+"city", a.city)
	r.Set(prefix+"state", a.state)
	r.Set(prefix+"country", a.country)
	r.Set(prefix+"pin_code", a.pinCode)
}
