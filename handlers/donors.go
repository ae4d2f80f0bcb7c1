package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"crmforms/logging"
	"crmforms/services"
	"crmforms/templates"
)

// photoPreviewSide is the longest side of stored family member thumbnails.
const photoPreviewSide = 256

var familyFields = []services.FamilySelectField{
	services.FieldRelation,
	services.FieldBloodGroup,
	services.FieldSkinColor,
	services.FieldEyeColor,
}

// HandleDonorList renders all donors with their family sizes.
func HandleDonorList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var records []*core.Record
		if err := app.RecordQuery("donors").OrderBy("name ASC").All(&records); err != nil {
			logging.L().Errorf("donor_list: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		items := make([]templates.DonorListItem, 0, len(records))
		for _, r := range records {
			members, err := app.FindRecordsByFilter("family_members", "donor = {:id}", "", 0, 0, map[string]any{"id": r.Id})
			if err != nil {
				members = nil
			}
			items = append(items, templates.DonorListItem{
				ID:       r.Id,
				Name:     r.GetString("name"),
				Phone:    r.GetString("phone"),
				Location: locationLabel(r.GetString("city"), r.GetString("state"), r.GetString("country")),
				Members:  len(members),
			})
		}
		return templates.DonorListPage(items, GetNavData(e.Request)).Render(e.Request.Context(), e.Response)
	}
}

func buildFamilyData(app *pocketbase.PocketBase, donor *core.Record) templates.FamilyFormData {
	data := templates.FamilyFormData{
		DonorID:   donor.Id,
		DonorName: donor.GetString("name"),
		Errors:    map[string]string{},
	}
	members, err := app.FindRecordsByFilter("family_members", "donor = {:id}", "name", 0, 0, map[string]any{"id": donor.Id})
	if err != nil {
		return data
	}
	for _, m := range members {
		data.Members = append(data.Members, templates.FamilyMemberRow{
			Name:        m.GetString("name"),
			Relation:    m.GetString("relation"),
			DateOfBirth: m.GetString("date_of_birth"),
			BloodGroup:  m.GetString("blood_group"),
			PhotoURI:    m.GetString("photo"),
		})
	}
	return data
}

func renderFamily(e *core.RequestEvent, data templates.FamilyFormData) error {
	var component templ.Component
	if e.Request.Header.Get("HX-Request") == "true" {
		component = templates.FamilyContent(data)
	} else {
		component = templates.FamilyPage(data, GetNavData(e.Request))
	}
	return component.Render(e.Request.Context(), e.Response)
}

// HandleFamilyView renders a donor's family members and the add form.
func HandleFamilyView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		donorID := e.Request.PathValue("id")
		donor, err := app.FindRecordById("donors", donorID)
		if err != nil {
			logging.L().Warnf("family_view: donor %s not found: %v", donorID, err)
			return ErrorToast(e, http.StatusNotFound, "Donor not found")
		}
		return renderFamily(e, buildFamilyData(app, donor))
	}
}

// readPhoto returns the uploaded photo bytes, or nil when none was sent.
// Reading stops one byte past the size limit so oversize uploads are still
// rejected by validation.
func readPhoto(r *http.Request) ([]byte, error) {
	f, _, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, services.MaxImageUploadBytes+1))
}

// HandleFamilyMemberSave validates and adds a family member. Each select
// writes only its own field; the photo is validated by content and stored
// as a thumbnail data URI.
func HandleFamilyMemberSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		donorID := e.Request.PathValue("id")
		donor, err := app.FindRecordById("donors", donorID)
		if err != nil {
			logging.L().Warnf("family_save: donor %s not found: %v", donorID, err)
			return ErrorToast(e, http.StatusNotFound, "Donor not found")
		}
		if err := e.Request.ParseMultipartForm(services.MaxImageUploadBytes + 1<<20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		errs := map[string]string{}
		draft := services.FamilyMemberDraft{
			Name:        strings.TrimSpace(e.Request.FormValue("name")),
			DateOfBirth: strings.TrimSpace(e.Request.FormValue("date_of_birth")),
		}
		for _, field := range familyFields {
			next, err := draft.SetSelect(field, e.Request.FormValue(string(field)))
			if err != nil {
				errs[string(field)] = "Unknown option"
				continue
			}
			draft = next
		}

		photo, err := readPhoto(e.Request)
		if err != nil {
			logging.L().Warnf("family_save: reading photo: %v", err)
			errs["photo"] = "Could not read photo"
		}
		draft.Photo = photo
		for k, v := range services.ValidateFamilyMember(draft, time.Now()) {
			if _, ok := errs[k]; !ok {
				errs[k] = v
			}
		}

		var photoURI string
		if _, bad := errs["photo"]; !bad && len(photo) > 0 {
			thumb, err := services.ImagePreview(photo, photoPreviewSide)
			if err == nil {
				photoURI, err = services.ImageDataURI(thumb)
			}
			if err != nil {
				logging.L().Warnf("family_save: preview: %v", err)
				errs["photo"] = "Could not process photo"
			}
		}

		if len(errs) > 0 {
			data := buildFamilyData(app, donor)
			data.Draft = draft
			data.PhotoURI = photoURI
			data.Errors = errs
			SetToast(e, "warning", "Please fix the errors below")
			return renderFamily(e, data)
		}

		col, err := app.FindCollectionByNameOrId("family_members")
		if err != nil {
			logging.L().Errorf("family_save: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		record := core.NewRecord(col)
		record.Set("donor", donor.Id)
		record.Set("name", draft.Name)
		record.Set("date_of_birth", draft.DateOfBirth)
		record.Set("relation", draft.Relation)
		record.Set("blood_group", draft.BloodGroup)
		record.Set("skin_color", draft.SkinColor)
		record.Set("eye_color", draft.EyeColor)
		record.Set("photo", photoURI)
		if err := app.Save(record); err != nil {
			logging.L().Errorf("family_save: could not save member: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Family member added")
		if e.Request.Header.Get("HX-Request") == "true" {
			return renderFamily(e, buildFamilyData(app, donor))
		}
		return e.Redirect(http.StatusFound, "/donors/"+donor.Id+"/family")
	}
}
