package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/GregMSThompson/owms-dashboard/internal/dto"
	"github.com/GregMSThompson/owms-dashboard/internal/errs"
	"github.com/GregMSThompson/owms-dashboard/internal/metrics"
	"github.com/GregMSThompson/owms-dashboard/internal/models"
	"github.com/GregMSThompson/owms-dashboard/internal/widgets"
	"github.com/GregMSThompson/owms-dashboard/pkg/logger"
)

// MaxLayoutEntries bounds a saved layout.
const MaxLayoutEntries = 100

// preferenceStore is the Firestore storage interface for dashboard layouts.
type preferenceStore interface {
	Get(ctx context.Context, uid string) (*models.DashboardPreferences, error)
	Replace(ctx context.Context, uid string, layout []models.WidgetPreference, expectedVersion *int64) (*models.DashboardPreferences, bool, error)
	Delete(ctx context.Context, uid string) error
}

type preferenceService struct {
	store    preferenceStore
	registry *widgets.Registry
}

func NewPreferenceService(store preferenceStore, registry *widgets.Registry) *preferenceService {
	return &preferenceService{store: store, registry: registry}
}

// GetLayout returns the stored layout, or the role preset when the user has
// never saved one. Store failures are returned.
func (s *preferenceService) GetLayout(ctx context.Context, uid string, role widgets.Role) (dto.PreferencesResponse, error) {
	p, err := s.store.Get(ctx, uid)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			return s.preset(role), nil
		}
		return dto.PreferencesResponse{}, err
	}
	return toPreferencesResponse(p), nil
}

// Load is the lenient read used to compose the grid: it never fails. A
// missing document yields the role preset; any other failure is logged and
// yields an empty layout.
func (s *preferenceService) Load(ctx context.Context, uid string, role widgets.Role) ([]models.WidgetPreference, int64) {
	resp, err := s.GetLayout(ctx, uid, role)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load dashboard preferences", "error", err)
		return []models.WidgetPreference{}, 0
	}
	return resp.Layout, resp.Version
}

// Current is the strict read used by layout commands.
func (s *preferenceService) Current(ctx context.Context, uid string, role widgets.Role) ([]models.WidgetPreference, int64, error) {
	resp, err := s.GetLayout(ctx, uid, role)
	if err != nil {
		return nil, 0, err
	}
	return resp.Layout, resp.Version, nil
}

// Save replaces the whole layout. A nil expectedVersion is last-write-wins.
// Saving the role preset back for a user with no stored layout writes
// nothing, so the user keeps following the preset.
func (s *preferenceService) Save(ctx context.Context, uid string, role widgets.Role, layout []models.WidgetPreference, expectedVersion *int64) (dto.PreferencesResponse, error) {
	if err := validateLayout(layout); err != nil {
		return dto.PreferencesResponse{}, err
	}
	if expectedVersion == nil || *expectedVersion == 0 {
		if resp, ok, err := s.unsavedPreset(ctx, uid, role, layout); err != nil || ok {
			return resp, err
		}
	}
	p, _, err := s.commit(ctx, "save", uid, layout, expectedVersion)
	if err != nil {
		return dto.PreferencesResponse{}, err
	}
	return toPreferencesResponse(p), nil
}

// Commit writes a layout computed by a command against the version it was
// read at.
func (s *preferenceService) Commit(ctx context.Context, uid string, layout []models.WidgetPreference, version int64) (*models.DashboardPreferences, bool, error) {
	if err := validateLayout(layout); err != nil {
		return nil, false, err
	}
	return s.commit(ctx, "command", uid, layout, &version)
}

// Reset deletes the stored layout and returns the role preset.
func (s *preferenceService) Reset(ctx context.Context, uid string, role widgets.Role) (dto.PreferencesResponse, error) {
	if err := s.store.Delete(ctx, uid); err != nil {
		metrics.PreferenceSaves.WithLabelValues("reset", "error").Inc()
		return dto.PreferencesResponse{}, err
	}
	metrics.PreferenceSaves.WithLabelValues("reset", "ok").Inc()
	logger.FromContext(ctx).Info("dashboard preferences reset")
	return s.preset(role), nil
}

func (s *preferenceService) commit(ctx context.Context, op, uid string, layout []models.WidgetPreference, expectedVersion *int64) (*models.DashboardPreferences, bool, error) {
	p, changed, err := s.store.Replace(ctx, uid, layout, expectedVersion)
	if err != nil {
		var conflict *errs.ConflictError
		if errors.As(err, &conflict) {
			metrics.PreferenceSaves.WithLabelValues(op, "conflict").Inc()
		} else {
			metrics.PreferenceSaves.WithLabelValues(op, "error").Inc()
		}
		return nil, false, err
	}
	outcome := "noop"
	if changed {
		outcome = "ok"
	}
	metrics.PreferenceSaves.WithLabelValues(op, outcome).Inc()
	if logger.IsDebugEnabled(ctx) {
		logger.FromContext(ctx).Debug("dashboard preferences committed", "op", op, "version", p.Version, "changed", changed)
	}
	return p, changed, nil
}

// unsavedPreset reports whether layout is the role preset and the user has
// no stored document, returning the preset response when it is.
func (s *preferenceService) unsavedPreset(ctx context.Context, uid string, role widgets.Role, layout []models.WidgetPreference) (dto.PreferencesResponse, bool, error) {
	preset := s.preset(role)
	if !slices.Equal(layout, preset.Layout) {
		return dto.PreferencesResponse{}, false, nil
	}
	_, err := s.store.Get(ctx, uid)
	var nf *errs.NotFoundError
	switch {
	case errors.As(err, &nf):
		metrics.PreferenceSaves.WithLabelValues("save", "noop").Inc()
		return preset, true, nil
	case err != nil:
		return dto.PreferencesResponse{}, false, err
	}
	return dto.PreferencesResponse{}, false, nil
}

func (s *preferenceService) preset(role widgets.Role) dto.PreferencesResponse {
	return dto.PreferencesResponse{
		Layout:    widgets.Preset(s.registry, role),
		Version:   0,
		IsDefault: true,
	}
}

// --- Helpers ---

func toPreferencesResponse(p *models.DashboardPreferences) dto.PreferencesResponse {
	layout := p.Layout
	if layout == nil {
		layout = []models.WidgetPreference{}
	}
	resp := dto.PreferencesResponse{Layout: layout, Version: p.Version}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

// validateLayout rejects layouts the grid could not interpret. Ids are not
// checked against the registry.
func validateLayout(layout []models.WidgetPreference) error {
	if len(layout) > MaxLayoutEntries {
		return errs.NewValidationError(fmt.Sprintf("layout has %d entries, at most %d allowed", len(layout), MaxLayoutEntries))
	}
	seen := make(map[string]bool, len(layout))
	for i, p := range layout {
		if p.ID == "" {
			return errs.NewValidationError(fmt.Sprintf("layout[%d]: id is required", i))
		}
		if seen[p.ID] {
			return errs.NewValidationError(fmt.Sprintf("layout[%d]: duplicate id %q", i, p.ID))
		}
		seen[p.ID] = true
		if p.Size != "" && !widgets.Size(p.Size).Valid() {
			return errs.NewValidationError(fmt.Sprintf("layout[%d]: invalid size %q", i, p.Size))
		}
	}
	return nil
}
