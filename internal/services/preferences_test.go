package services

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/GregMSThompson/owms-dashboard/internal/errs"
	"github.com/GregMSThompson/owms-dashboard/internal/models"
	"github.com/GregMSThompson/owms-dashboard/internal/widgets"
	"github.com/GregMSThompson/owms-dashboard/pkg/helpers"
)

// --- Fakes ---

// fakePreferenceStore mirrors the Firestore store's version semantics.
type fakePreferenceStore struct {
	doc          *models.DashboardPreferences
	getErr       error
	replaceErr   error
	deleteErr    error
	replaceCalls int
	writes       int
	deleteCalls  int
	lastExpected *int64
}

func (f *fakePreferenceStore) Get(_ context.Context, _ string) (*models.DashboardPreferences, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.doc == nil {
		return nil, errs.NewNotFoundError("dashboard preferences not found")
	}
	cp := *f.doc
	cp.Layout = slices.Clone(f.doc.Layout)
	return &cp, nil
}

func (f *fakePreferenceStore) Replace(_ context.Context, _ string, layout []models.WidgetPreference, expectedVersion *int64) (*models.DashboardPreferences, bool, error) {
	f.replaceCalls++
	f.lastExpected = expectedVersion
	if f.replaceErr != nil {
		return nil, false, f.replaceErr
	}
	var actual int64
	if f.doc != nil {
		actual = f.doc.Version
	}
	if expectedVersion != nil && *expectedVersion != actual {
		return nil, false, errs.NewConflictError(*expectedVersion, actual)
	}
	if f.doc != nil && slices.Equal(f.doc.Layout, layout) {
		cp := *f.doc
		return &cp, false, nil
	}
	f.writes++
	f.doc = &models.DashboardPreferences{
		Layout:    slices.Clone(layout),
		Version:   actual + 1,
		UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	cp := *f.doc
	return &cp, true, nil
}

func (f *fakePreferenceStore) Delete(_ context.Context, _ string) error {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.doc = nil
	return nil
}

func newPrefService(store *fakePreferenceStore) *preferenceService {
	return NewPreferenceService(store, widgets.NewRegistry(widgets.Builtin()))
}

func enabledIDs(layout []models.WidgetPreference) []string {
	enabled := make([]models.WidgetPreference, 0, len(layout))
	for _, p := range layout {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	slices.SortStableFunc(enabled, func(a, b models.WidgetPreference) int { return a.Order - b.Order })
	ids := make([]string, len(enabled))
	for i, p := range enabled {
		ids[i] = p.ID
	}
	return ids
}

// --- Tests ---

func TestGetLayout_AbsentReturnsPreset(t *testing.T) {
	svc := newPrefService(&fakePreferenceStore{})
	resp, err := svc.GetLayout(helpers.TestCtx(), "uid1", widgets.RoleMember)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsDefault || resp.Version != 0 {
		t.Fatalf("expected default preset at version 0, got isDefault=%v version=%d", resp.IsDefault, resp.Version)
	}
	if got, want := enabledIDs(resp.Layout), widgets.PresetIDs(widgets.RoleMember); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected preset %v, got %v", want, got)
	}
}

func TestGetLayout_StoreErrorSurfaces(t *testing.T) {
	store := &fakePreferenceStore{getErr: errs.NewDatabaseError("read", "boom", errors.New("unavailable"))}
	_, err := newPrefService(store).GetLayout(helpers.TestCtx(), "uid1", widgets.RoleMember)
	var dbErr *errs.DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError, got %v", err)
	}
}

func TestLoad_SwallowsStoreError(t *testing.T) {
	store := &fakePreferenceStore{getErr: errors.New("unavailable")}
	layout, version := newPrefService(store).Load(helpers.TestCtx(), "uid1", widgets.RoleMember)
	if layout == nil || len(layout) != 0 || version != 0 {
		t.Fatalf("expected empty layout at version 0, got %v / %d", layout, version)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	store := &fakePreferenceStore{}
	svc := newPrefService(store)
	layout := []models.WidgetPreference{
		{ID: widgets.WidgetNoticeBoard, Enabled: true, Order: 0, Size: "large"},
		{ID: "retired-widget", Enabled: true, Order: 1},
	}

	saved, err := svc.Save(helpers.TestCtx(), "uid1", widgets.RoleMember, layout, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Version != 1 {
		t.Fatalf("expected version 1, got %d", saved.Version)
	}
	if store.lastExpected != nil {
		t.Fatalf("expected last-write-wins save without version")
	}

	got, _ := svc.Load(helpers.TestCtx(), "uid1", widgets.RoleMember)
	if !reflect.DeepEqual(got, layout) {
		t.Fatalf("expected %v, got %v", layout, got)
	}
}

func TestSave_OfLoadIsIdempotent(t *testing.T) {
	store := &fakePreferenceStore{}
	svc := newPrefService(store)
	ctx := helpers.TestCtx()

	if _, err := svc.Save(ctx, "uid1", widgets.RoleMember, widgets.Preset(svc.registry, widgets.RoleTeamLeader), nil); err != nil {
		t.Fatalf("seed save: %v", err)
	}
	before := *store.doc

	layout, _ := svc.Load(ctx, "uid1", widgets.RoleTeamLeader)
	resp, err := svc.Save(ctx, "uid1", widgets.RoleTeamLeader, layout, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.writes != 1 {
		t.Fatalf("expected no second write, got %d writes", store.writes)
	}
	if resp.Version != before.Version || !reflect.DeepEqual(store.doc.Layout, before.Layout) || !store.doc.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatalf("stored state changed: before=%+v after=%+v", before, *store.doc)
	}
}

func TestSave_OfPresetForNewUserWritesNothing(t *testing.T) {
	for _, version := range []*int64{nil, helpers.Ptr(int64(0))} {
		store := &fakePreferenceStore{}
		svc := newPrefService(store)
		ctx := helpers.TestCtx()

		before, err := svc.GetLayout(ctx, "uid1", widgets.RoleDeptHead)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		layout, _ := svc.Load(ctx, "uid1", widgets.RoleDeptHead)

		resp, err := svc.Save(ctx, "uid1", widgets.RoleDeptHead, layout, version)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		after, err := svc.GetLayout(ctx, "uid1", widgets.RoleDeptHead)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if store.replaceCalls != 0 || store.doc != nil {
			t.Fatalf("expected no write, got %d replace calls, doc=%+v", store.replaceCalls, store.doc)
		}
		if !resp.IsDefault || resp.Version != 0 {
			t.Fatalf("expected preset response, got %+v", resp)
		}
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("state changed: before=%+v after=%+v", before, after)
		}
	}
}

func TestSave_OfPresetWithStoredLayoutIsWritten(t *testing.T) {
	store := &fakePreferenceStore{doc: &models.DashboardPreferences{Layout: []models.WidgetPreference{{ID: widgets.WidgetNoticeBoard, Enabled: true}}, Version: 2}}
	svc := newPrefService(store)

	resp, err := svc.Save(helpers.TestCtx(), "uid1", widgets.RoleMember, widgets.Preset(svc.registry, widgets.RoleMember), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.writes != 1 || resp.Version != 3 || resp.IsDefault {
		t.Fatalf("expected preset stored over the custom layout, got writes=%d resp=%+v", store.writes, resp)
	}
}

func TestSave_PresetLookupErrorSurfaces(t *testing.T) {
	store := &fakePreferenceStore{getErr: errs.NewDatabaseError("read", "boom", errors.New("unavailable"))}
	svc := newPrefService(store)

	_, err := svc.Save(helpers.TestCtx(), "uid1", widgets.RoleMember, widgets.Preset(svc.registry, widgets.RoleMember), nil)
	var dbErr *errs.DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError, got %v", err)
	}
	if store.replaceCalls != 0 {
		t.Fatal("store should not be written after a failed read")
	}
}

func TestSave_Validation(t *testing.T) {
	tooMany := make([]models.WidgetPreference, MaxLayoutEntries+1)
	for i := range tooMany {
		tooMany[i] = models.WidgetPreference{ID: string(rune('a'+i%26)) + string(rune('0'+i/26)), Order: i}
	}
	cases := map[string][]models.WidgetPreference{
		"empty id":     {{ID: "", Enabled: true}},
		"bad size":     {{ID: "a", Size: "huge"}},
		"duplicate id": {{ID: "a"}, {ID: "a", Order: 1}},
		"too many":     tooMany,
	}
	for name, layout := range cases {
		t.Run(name, func(t *testing.T) {
			store := &fakePreferenceStore{}
			_, err := newPrefService(store).Save(helpers.TestCtx(), "uid1", widgets.RoleMember, layout, nil)
			var vErr *errs.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if store.replaceCalls != 0 {
				t.Fatal("store should not be called for invalid layout")
			}
		})
	}
}

func TestSave_VersionConflict(t *testing.T) {
	store := &fakePreferenceStore{doc: &models.DashboardPreferences{Layout: []models.WidgetPreference{{ID: "a"}}, Version: 3}}
	_, err := newPrefService(store).Save(helpers.TestCtx(), "uid1", widgets.RoleMember, []models.WidgetPreference{{ID: "b"}}, helpers.Ptr(int64(2)))
	var conflict *errs.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Expected != 2 || conflict.Actual != 3 {
		t.Fatalf("unexpected conflict versions: %+v", conflict)
	}
	if store.doc.Layout[0].ID != "a" {
		t.Fatal("conflicting save must not change stored layout")
	}
}

func TestReset_ReturnsPresetAndLoadMatches(t *testing.T) {
	for _, role := range widgets.Roles() {
		store := &fakePreferenceStore{doc: &models.DashboardPreferences{
			Layout:  []models.WidgetPreference{{ID: widgets.WidgetNoticeBoard, Enabled: false}},
			Version: 5,
		}}
		svc := newPrefService(store)

		resp, err := svc.Reset(helpers.TestCtx(), "uid1", role)
		if err != nil {
			t.Fatalf("reset error: %v", err)
		}
		if store.deleteCalls != 1 || store.doc != nil {
			t.Fatalf("expected stored document deleted")
		}
		if !resp.IsDefault || resp.Version != 0 {
			t.Fatalf("expected default preset, got %+v", resp)
		}

		loaded, _ := svc.Load(helpers.TestCtx(), "uid1", role)
		if got, want := enabledIDs(loaded), widgets.PresetIDs(role); !reflect.DeepEqual(got, want) {
			t.Fatalf("role %s: expected %v, got %v", role, want, got)
		}
	}
}

func TestReset_DeleteErrorSurfaces(t *testing.T) {
	store := &fakePreferenceStore{deleteErr: errs.NewDatabaseError("delete", "boom", nil)}
	if _, err := newPrefService(store).Reset(helpers.TestCtx(), "uid1", widgets.RoleMember); err == nil {
		t.Fatal("expected error")
	}
}
