package collections

import (
	"github.com/pocketbase/pocketbase/core"

	"crmforms/logging"
)

// addressFieldNames are the per-address columns stored with a prefix
// ("billing_", "shipping_") or none. Location columns hold display names.
var addressFieldNames = []string{"address_line_1", "address_line_2", "city", "state", "country", "pin_code"}

// Setup programmatically creates/ensures every CRM collection exists.
func Setup(app core.App) {
	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "gstin"})
		c.Fields.Add(&core.TextField{Name: "currency"})
		addAddressFields(c, "billing_")
		addAddressFields(c, "shipping_")
		c.Fields.Add(&core.BoolField{Name: "same_as_billing"})
		addTimestamps(c)
	})

	ensureCollection(app, "leads", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "company"})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "source"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"new", "contacted", "qualified", "converted", "lost"},
			MaxSelect: 1,
		})
		addAddressFields(c, "")
		addTimestamps(c)
	})

	proposals := ensureCollection(app, "proposals", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "doc_number", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			Required:     true,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "title"})
		addPricingFields(c)
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"draft", "sent", "accepted", "rejected"},
			MaxSelect: 1,
		})
		addTimestamps(c)
	})
	ensureUniqueIndex(app, proposals, "idx_proposals_doc_number", "doc_number", "")
	ensureCollection(app, "proposal_items", func(c *core.Collection) {
		addItemFields(c, "proposal", proposals.Id)
	})

	proformas := ensureCollection(app, "proforma_invoices", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "doc_number", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			Required:     true,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "proposal",
			CollectionId: proposals.Id,
			MaxSelect:    1,
		})
		addPricingFields(c)
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Values:    []string{"draft", "issued", "paid", "cancelled"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "due_date"})
		c.Fields.Add(&core.TextField{Name: "comments", Max: 2000})
		addTimestamps(c)
	})
	ensureUniqueIndex(app, proformas, "idx_proforma_invoices_doc_number", "doc_number", "")
	// At most one proforma per proposal; standalone proformas leave it blank.
	ensureUniqueIndex(app, proformas, "idx_proforma_invoices_proposal", "proposal", "proposal != ''")
	ensureCollection(app, "proforma_items", func(c *core.Collection) {
		addItemFields(c, "proforma", proformas.Id)
	})

	donors := ensureCollection(app, "donors", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		addAddressFields(c, "")
		addTimestamps(c)
	})
	ensureCollection(app, "family_members", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "donor",
			Required:      true,
			CollectionId:  donors.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "date_of_birth"})
		c.Fields.Add(&core.TextField{Name: "relation"})
		c.Fields.Add(&core.TextField{Name: "blood_group"})
		c.Fields.Add(&core.TextField{Name: "skin_color"})
		c.Fields.Add(&core.TextField{Name: "eye_color"})
		// base64 data URI of the preview thumbnail
		c.Fields.Add(&core.TextField{Name: "photo", Max: 4 << 20})
	})

	ensureCollection(app, "module_access", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "role", Required: true})
		c.Fields.Add(&core.TextField{Name: "module", Required: true})
		c.Fields.Add(&core.BoolField{Name: "can_view"})
		c.Fields.Add(&core.BoolField{Name: "can_edit"})
		c.AddIndex("idx_module_access_role_module", true, "role, module", "")
	})
}

// ensureUniqueIndex adds a unique index to an existing collection when it
// is missing. Existing duplicate rows make the save fail; that is logged and
// the collection is left as it was.
func ensureUniqueIndex(app core.App, c *core.Collection, name, columns, where string) {
	if c.GetIndex(name) != "" {
		return
	}
	c.AddIndex(name, true, columns, where)
	if err := app.Save(c); err != nil {
		c.RemoveIndex(name)
		logging.L().Warnw("could not add unique index", "collection", c.Name, "index", name, "error", err)
	}
}

func addAddressFields(c *core.Collection, prefix string) {
	for _, name := range addressFieldNames {
		c.Fields.Add(&core.TextField{Name: prefix + name})
	}
}

func addPricingFields(c *core.Collection) {
	c.Fields.Add(&core.TextField{Name: "currency"})
	c.Fields.Add(&core.TextField{Name: "tax_type"})
	c.Fields.Add(&core.NumberField{Name: "tax_percent"})
	c.Fields.Add(&core.NumberField{Name: "discount_percent"})
}

func addItemFields(c *core.Collection, parent, parentID string) {
	c.Fields.Add(&core.RelationField{
		Name:          parent,
		Required:      true,
		CollectionId:  parentID,
		CascadeDelete: true,
		MaxSelect:     1,
	})
	c.Fields.Add(&core.NumberField{Name: "sort_order"})
	c.Fields.Add(&core.TextField{Name: "description", Required: true})
	c.Fields.Add(&core.TextField{Name: "hsn_code"})
	c.Fields.Add(&core.TextField{Name: "uom"})
	c.Fields.Add(&core.NumberField{Name: "qty"})
	c.Fields.Add(&core.NumberField{Name: "rate"})
}

func addTimestamps(c *core.Collection) {
	c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		logging.L().Debugf("collection %q already exists, skipping creation", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		logging.L().Fatalf("failed to create collection %q: %v", name, err)
	}

	logging.L().Infof("created collection %q (id=%s)", name, collection.Id)
	return collection
}
