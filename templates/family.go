package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"crmforms/services"
)

// FamilyMemberRow is a saved family member shown under the form.
type FamilyMemberRow struct {
	Name        string
	Relation    string
	DateOfBirth string
	BloodGroup  string
	PhotoURI    string
}

// FamilyFormData holds the donor's family page.
type FamilyFormData struct {
	DonorID   string
	DonorName string
	Draft     services.FamilyMemberDraft
	// PhotoURI previews the uploaded photo when the form is re-rendered.
	PhotoURI string
	Members  []FamilyMemberRow
	Errors   map[string]string
}

var familySelects = []struct {
	field services.FamilySelectField
	label string
}{
	{services.FieldRelation, "Relation"},
	{services.FieldBloodGroup, "Blood Group"},
	{services.FieldSkinColor, "Skin Color"},
	{services.FieldEyeColor, "Eye Color"},
}

func familySelectValue(d services.FamilyMemberDraft, field services.FamilySelectField) string {
	switch field {
	case services.FieldRelation:
		return d.Relation
	case services.FieldBloodGroup:
		return d.BloodGroup
	case services.FieldSkinColor:
		return d.SkinColor
	case services.FieldEyeColor:
		return d.EyeColor
	}
	return ""
}

// FamilyContent renders the family member form and the saved members.
func FamilyContent(data FamilyFormData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		action := "/donors/" + data.DonorID + "/family"
		h.raw(`<section id="family"><h1>Family of `)
		h.text(data.DonorName)
		h.raw(`</h1>`)
		h.component(ctx, FormErrors(data.Errors))
		h.raw(`<form method="post" enctype="multipart/form-data" action="`, attr(action), `" hx-post="`, attr(action), `" hx-encoding="multipart/form-data" hx-target="#family" hx-swap="outerHTML">`)
		textInput(h, data.Errors, "name", "Name", data.Draft.Name, "")
		textInput(h, data.Errors, "date_of_birth", "Date of Birth", data.Draft.DateOfBirth, "date")
		for _, s := range familySelects {
			name := string(s.field)
			h.raw(`<div class="field"><label for="`, name, `">`)
			h.text(s.label)
			h.raw(`</label><select id="`, name, `" name="`, name, `">`)
			h.component(ctx, StringOptionList(services.FamilySelectOptions(s.field), familySelectValue(data.Draft, s.field), "Select"))
			h.raw(`</select>`)
			fieldError(h, data.Errors, name)
			h.raw(`</div>`)
		}
		h.raw(`<div class="field"><label for="photo">Photo</label><input type="file" id="photo" name="photo" accept="image/*">`)
		if data.PhotoURI != "" {
			h.raw(`<img class="preview" alt="Photo preview" src="`, attr(data.PhotoURI), `">`)
		}
		fieldError(h, data.Errors, "photo")
		h.raw(`</div><div class="actions"><button type="submit">Add Member</button></div></form>`)

		h.raw(`<table class="members"><thead><tr><th></th><th>Name</th><th>Relation</th><th>Date of Birth</th><th>Blood Group</th></tr></thead><tbody>`)
		for _, m := range data.Members {
			h.raw(`<tr><td>`)
			if m.PhotoURI != "" {
				h.raw(`<img class="thumb" alt="" src="`, attr(m.PhotoURI), `">`)
			}
			h.raw(`</td>`)
			for _, v := range []string{m.Name, m.Relation, m.DateOfBirth, m.BloodGroup} {
				h.raw(`<td>`)
				h.text(v)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></section>`)
		return h.err
	})
}

// FamilyPage renders the family page as a full page.
func FamilyPage(data FamilyFormData, nav NavData) templ.Component {
	return Page("Family of "+data.DonorName, nav, FamilyContent(data))
}

// DonorListItem is one row of the donor list.
type DonorListItem struct {
	ID       string
	Name     string
	Phone    string
	Location string
	Members  int
}

// DonorListPage renders the donor list.
func DonorListPage(items []DonorListItem, nav NavData) templ.Component {
	return Page("Donors", nav, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<section id="donor-list"><h1>Donors</h1><table><thead><tr><th>Name</th><th>Phone</th><th>Location</th><th>Family</th></tr></thead><tbody>`)
		for _, d := range items {
			h.raw(`<tr><td><a href="/donors/`, attr(d.ID), `/family">`)
			h.text(d.Name)
			h.raw(`</a></td><td>`)
			h.text(d.Phone)
			h.raw(`</td><td>`)
			h.text(d.Location)
			h.rawf(`</td><td>%d</td></tr>`, d.Members)
		}
		h.raw(`</tbody></table></section>`)
		return h.err
	}))
}
