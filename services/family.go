package services

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FamilySelectField identifies one of the select inputs on the family member
// form. Each field writes only to its own slot of FamilyMemberDraft.
type FamilySelectField string

const (
	FieldRelation   FamilySelectField = "relation"
	FieldBloodGroup FamilySelectField = "blood_group"
	FieldSkinColor  FamilySelectField = "skin_color"
	FieldEyeColor   FamilySelectField = "eye_color"
)

var familySelectOptions = map[FamilySelectField][]string{
	FieldRelation:   {"Self", "Spouse", "Son", "Daughter", "Father", "Mother", "Brother", "Sister", "Other"},
	FieldBloodGroup: {"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"},
	FieldSkinColor:  {"Fair", "Wheatish", "Medium", "Olive", "Brown", "Dark"},
	FieldEyeColor:   {"Black", "Brown", "Hazel", "Blue", "Green", "Grey"},
}

// FamilySelectOptions returns the allowed values for a select field.
func FamilySelectOptions(field FamilySelectField) []string {
	return append([]string(nil), familySelectOptions[field]...)
}

// FamilyMemberDraft is the aggregate state of the donor family member form.
type FamilyMemberDraft struct {
	Name        string
	DateOfBirth string
	Relation    string
	BloodGroup  string
	SkinColor   string
	EyeColor    string
	Photo       []byte
}

// SetSelect assigns value to the named select field. Empty clears it.
func (d FamilyMemberDraft) SetSelect(field FamilySelectField, value string) (FamilyMemberDraft, error) {
	value = strings.TrimSpace(value)
	options, ok := familySelectOptions[field]
	if !ok {
		return d, fmt.Errorf("select field %q: %w", field, ErrInvalidOperation)
	}
	if value != "" && !containsString(options, value) {
		return d, fmt.Errorf("%s %q: %w", field, value, ErrUnknownOption)
	}

	switch field {
	case FieldRelation:
		d.Relation = value
	case FieldBloodGroup:
		d.BloodGroup = value
	case FieldSkinColor:
		d.SkinColor = value
	case FieldEyeColor:
		d.EyeColor = value
	}
	return d, nil
}

// ValidateFamilyMember returns field -> message for a family member draft.
func ValidateFamilyMember(d FamilyMemberDraft, now time.Time) map[string]string {
	var photoErr error
	if len(d.Photo) > 0 {
		_, photoErr = ValidateImageUpload(d.Photo)
	}
	errs := validation.Errors{
		"name":     validation.Validate(strings.TrimSpace(d.Name), validation.Required.Error("Name is required")),
		"relation": validation.Validate(d.Relation, validation.Required.Error("Relation is required")),
		"date_of_birth": validation.Validate(d.DateOfBirth,
			validation.Date(time.DateOnly).
				Error("Invalid date (expected YYYY-MM-DD)").
				Max(now).
				RangeError("Date of birth cannot be in the future"),
		),
		"photo": photoErr,
	}
	for field, value := range map[FamilySelectField]string{
		FieldRelation:   d.Relation,
		FieldBloodGroup: d.BloodGroup,
		FieldSkinColor:  d.SkinColor,
		FieldEyeColor:   d.EyeColor,
	} {
		if errs[string(field)] != nil {
			continue
		}
		errs[string(field)] = validation.Validate(value, validation.In(stringsToAny(familySelectOptions[field])...).Error("Unknown option"))
	}
	return flattenErrors(errs)
}

func stringsToAny(list []string) []interface{} {
	out := make([]interface{}, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
