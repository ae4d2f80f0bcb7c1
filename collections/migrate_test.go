package collections_test

import (
	"testing"

	"crmforms/collections"
	"crmforms/testhelpers"
)

func TestMigrateDefaultModuleAccess_CreatesDefaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.MigrateDefaultModuleAccess(app); err != nil {
		t.Fatalf("MigrateDefaultModuleAccess() error: %v", err)
	}

	all, err := app.FindAllRecords("module_access")
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	want := len(collections.Roles) * len(collections.Modules)
	if len(all) != want {
		t.Fatalf("expected %d access records, got %d", want, len(all))
	}

	for _, r := range all {
		canView, canEdit := collections.DefaultModuleAccess(r.GetString("role"), r.GetString("module"))
		if r.GetBool("can_view") != canView || r.GetBool("can_edit") != canEdit {
			t.Errorf("%s/%s = (%v,%v), want (%v,%v)",
				r.GetString("role"), r.GetString("module"),
				r.GetBool("can_view"), r.GetBool("can_edit"), canView, canEdit)
		}
	}
}

func TestMigrateDefaultModuleAccess_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.MigrateDefaultModuleAccess(app); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	if err := collections.MigrateDefaultModuleAccess(app); err != nil {
		t.Fatalf("second run error: %v", err)
	}

	all, _ := app.FindAllRecords("module_access")
	want := len(collections.Roles) * len(collections.Modules)
	if len(all) != want {
		t.Errorf("expected %d access records, got %d", want, len(all))
	}
}

func TestMigrateDefaultModuleAccess_PreservesExisting(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if err := collections.MigrateDefaultModuleAccess(app); err != nil {
		t.Fatalf("first run error: %v", err)
	}

	rec, err := app.FindFirstRecordByFilter("module_access", "role = 'viewer' && module = 'donors'")
	if err != nil {
		t.Fatalf("find viewer/donors: %v", err)
	}
	rec.Set("can_view", false)
	if err := app.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := collections.MigrateDefaultModuleAccess(app); err != nil {
		t.Fatalf("second run error: %v", err)
	}
	rec, _ = app.FindRecordById("module_access", rec.Id)
	if rec.GetBool("can_view") {
		t.Error("migration overwrote an explicit setting")
	}
}

func TestDefaultModuleAccess_UnknownRole(t *testing.T) {
	view, edit := collections.DefaultModuleAccess("guest", "customers")
	if view || edit {
		t.Errorf("unknown role should have no access, got (%v,%v)", view, edit)
	}
}

func TestMigrateLeadStatus_BackfillsEmpty(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "No Status", "India", "Kerala", "Kochi")

	if err := collections.MigrateLeadStatus(app); err != nil {
		t.Fatalf("MigrateLeadStatus() error: %v", err)
	}

	got, _ := app.FindRecordById("leads", lead.Id)
	if got.GetString("status") != "new" {
		t.Errorf("status = %q, want %q", got.GetString("status"), "new")
	}
}

func TestMigrateLeadStatus_KeepsExisting(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Qualified", "India", "", "")
	lead.Set("status", "qualified")
	if err := app.Save(lead); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := collections.MigrateLeadStatus(app); err != nil {
		t.Fatalf("MigrateLeadStatus() error: %v", err)
	}
	got, _ := app.FindRecordById("leads", lead.Id)
	if got.GetString("status") != "qualified" {
		t.Errorf("status = %q, want %q", got.GetString("status"), "qualified")
	}
}

func TestMigrateCanonicalLocations(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	resolver := testhelpers.NewTestResolver(t)

	lead := testhelpers.CreateTestLead(t, app, "Casing", "  india ", "MAHARASHTRA", "pune")
	unresolved := testhelpers.CreateTestLead(t, app, "Unknown", "India", "Atlantis", "Poseidonia")

	if err := collections.MigrateCanonicalLocations(app, resolver); err != nil {
		t.Fatalf("MigrateCanonicalLocations() error: %v", err)
	}

	got, _ := app.FindRecordById("leads", lead.Id)
	if got.GetString("country") != "India" || got.GetString("state") != "Maharashtra" || got.GetString("city") != "Pune" {
		t.Errorf("canonical names = %q/%q/%q, want India/Maharashtra/Pune",
			got.GetString("country"), got.GetString("state"), got.GetString("city"))
	}

	got, _ = app.FindRecordById("leads", unresolved.Id)
	if got.GetString("state") != "Atlantis" || got.GetString("city") != "Poseidonia" {
		t.Errorf("unresolved levels should keep stored text, got %q/%q",
			got.GetString("state"), got.GetString("city"))
	}
}

func TestLookupModuleAccess_FallsBackToDefaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	view, edit := collections.LookupModuleAccess(app, "accounts", "proformas")
	if !view || !edit {
		t.Errorf("accounts/proformas = (%v, %v), want (true, true)", view, edit)
	}
	view, edit = collections.LookupModuleAccess(app, "accounts", "donors")
	if view || edit {
		t.Errorf("accounts/donors = (%v, %v), want no access", view, edit)
	}
}

func TestSaveModuleAccess_UpsertsAndImpliesView(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.SaveModuleAccess(app, "viewer", "donors", false, true); err != nil {
		t.Fatalf("SaveModuleAccess: %v", err)
	}
	view, edit := collections.LookupModuleAccess(app, "viewer", "donors")
	if !view || !edit {
		t.Errorf("after save = (%v, %v), want (true, true)", view, edit)
	}

	if err := collections.SaveModuleAccess(app, "viewer", "donors", false, false); err != nil {
		t.Fatalf("SaveModuleAccess: %v", err)
	}
	records, err := app.FindAllRecords("module_access")
	if err != nil {
		t.Fatalf("FindAllRecords: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected a single record after two saves, got %d", len(records))
	}
	view, edit = collections.LookupModuleAccess(app, "viewer", "donors")
	if view || edit {
		t.Errorf("after revoke = (%v, %v), want (false, false)", view, edit)
	}
}
