package services

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/cast"
)

// Validation regex patterns
var (
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	pinPattern   = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	phonePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)
)

// matchFormat trims the value, optionally upper-cases it, and reports
// whether it is empty or matches re.
func matchFormat(re *regexp.Regexp, value string, upper bool) bool {
	value = strings.TrimSpace(value)
	if upper {
		value = strings.ToUpper(value)
	}
	return value == "" || re.MatchString(value)
}

// ValidateGSTIN checks a 15-character GST identification number.
func ValidateGSTIN(gstin string) bool { return matchFormat(gstinPattern, gstin, true) }

// ValidatePINCode checks a six-digit postal code that does not start with 0.
func ValidatePINCode(pin string) bool { return matchFormat(pinPattern, pin, false) }

// ValidatePhone checks a ten-digit mobile number starting with 6-9.
func ValidatePhone(phone string) bool { return matchFormat(phonePattern, phone, false) }

// formatRule adapts one of the bool validators above to an ozzo rule.
func formatRule(check func(string) bool, message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if !check(s) {
			return errors.New(message)
		}
		return nil
	})
}

var (
	gstinRule = formatRule(ValidateGSTIN, "Invalid GSTIN format (expected: 15-character, e.g., 27AAPFU0939F1ZV)")
	phoneRule = formatRule(ValidatePhone, "Invalid phone number (expected: 10 digits starting with 6-9)")
	pinRule   = formatRule(ValidatePINCode, "Invalid PIN Code (expected: 6 digits, e.g., 400001)")
)

// ValidateCustomerDraft checks a customer form and returns field -> message
// for every violation. Address fields are prefixed with "billing_" or
// "shipping_".
func ValidateCustomerDraft(r *GeoCascadeResolver, d CustomerDraft) map[string]string {
	errs := validation.Errors{
		"name":  validation.Validate(strings.TrimSpace(d.Name), validation.Required.Error("Name is required"), validation.Length(0, 200)),
		"email": validation.Validate(strings.TrimSpace(d.Email), is.EmailFormat.Error("Invalid email format")),
		"phone": validation.Validate(d.Phone, phoneRule),
		"gstin": validation.Validate(d.GSTIN, gstinRule),
	}
	addAddressErrors(errs, r, "billing_", d.Billing)
	if !d.SameAsBilling {
		addAddressErrors(errs, r, "shipping_", d.Shipping)
	}
	return flattenErrors(errs)
}

// ValidateLeadDraft checks a lead form.
func ValidateLeadDraft(r *GeoCascadeResolver, d LeadDraft) map[string]string {
	errs := validation.Errors{
		"name":   validation.Validate(strings.TrimSpace(d.Name), validation.Required.Error("Name is required")),
		"email":  validation.Validate(strings.TrimSpace(d.Email), is.EmailFormat.Error("Invalid email format")),
		"phone":  validation.Validate(d.Phone, phoneRule),
		"status": validation.Validate(string(d.Status), validation.In(leadStatusValues()...).Error("Unknown lead status")),
	}
	if d.Email == "" && d.Phone == "" {
		errs["contact"] = errors.New("Email or phone is required")
	}
	if d.Address.Names.CountryName != "" {
		addAddressErrors(errs, r, "", d.Address)
	}
	return flattenErrors(errs)
}

// addAddressErrors requires a country, and a state whenever the selected
// country has states to choose from. Names that did not resolve are kept
// as free text and are not errors.
func addAddressErrors(errs validation.Errors, r *GeoCascadeResolver, prefix string, a AddressDraft) {
	if !a.Selection.Valid() {
		errs[prefix+"state"] = errors.New("State selected without a country")
	}
	if strings.TrimSpace(a.Names.CountryName) == "" {
		errs[prefix+"country"] = errors.New("Country is required")
		return
	}
	if c := a.Selection.Country; c != nil && a.Selection.State == nil &&
		strings.TrimSpace(a.Names.StateName) == "" && len(r.ListStates(c.Code)) > 0 {
		errs[prefix+"state"] = errors.New("State is required")
	}
	if err := validation.Validate(a.PinCode, pinRule); err != nil {
		errs[prefix+"pin_code"] = err
	}
}

func leadStatusValues() []interface{} {
	out := make([]interface{}, len(LeadStatusOptions))
	for i, s := range LeadStatusOptions {
		out[i] = string(s)
	}
	return out
}

func flattenErrors(errs validation.Errors) map[string]string {
	out := make(map[string]string)
	filtered, _ := errs.Filter().(validation.Errors)
	for field, err := range filtered {
		out[field] = err.Error()
	}
	return out
}

// DocumentDraft is the submitted new proposal / proforma form. Percentages
// are kept as text so an empty field can fall back to its default.
type DocumentDraft struct {
	CustomerID      string
	Title           string
	Currency        CurrencyType
	TaxType         TaxType
	TaxPercent      string
	DiscountPercent string
}

// percentRule accepts an empty value or a number within [min, max]. A max
// below zero means unbounded.
func percentRule(min, max float64, message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return nil
		}
		p, err := cast.ToFloat64E(strings.TrimSpace(s))
		if err != nil || p < min || (max >= 0 && p > max) {
			return errors.New(message)
		}
		return nil
	})
}

// ValidateDocumentDraft checks the new document form.
func ValidateDocumentDraft(d DocumentDraft) map[string]string {
	errs := validation.Errors{
		"customer":         validation.Validate(strings.TrimSpace(d.CustomerID), validation.Required.Error("Customer is required")),
		"tax_percent":      validation.Validate(d.TaxPercent, percentRule(0, -1, "Tax % must be a number, zero or greater")),
		"discount_percent": validation.Validate(d.DiscountPercent, percentRule(0, 100, "Discount % must be between 0 and 100")),
	}
	return flattenErrors(errs)
}
