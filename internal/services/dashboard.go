package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/owms-dashboard/internal/dto"
	"github.com/GregMSThompson/owms-dashboard/internal/errs"
	"github.com/GregMSThompson/owms-dashboard/internal/metrics"
	"github.com/GregMSThompson/owms-dashboard/internal/models"
	"github.com/GregMSThompson/owms-dashboard/internal/widgets"
	"github.com/GregMSThompson/owms-dashboard/pkg/logger"
)

// layoutSource is the preference access the dashboard needs.
type layoutSource interface {
	Load(ctx context.Context, uid string, role widgets.Role) ([]models.WidgetPreference, int64)
	Current(ctx context.Context, uid string, role widgets.Role) ([]models.WidgetPreference, int64, error)
	Commit(ctx context.Context, uid string, layout []models.WidgetPreference, version int64) (*models.DashboardPreferences, bool, error)
}

type widgetFetcher interface {
	Fetch(ctx context.Context, caller dto.Caller, def widgets.Definition, revalidate bool) (dto.WidgetData, error)
	RefreshAfter() time.Duration
}

type widgetRenderer interface {
	Render(ctx context.Context, def widgets.Definition, data any) dto.WidgetBody
}

type dashboardService struct {
	registry *widgets.Registry
	layouts  layoutSource
	data     widgetFetcher
	renderer widgetRenderer
	locks    *keyedMutex
	clockNow func() time.Time
}

func NewDashboardService(registry *widgets.Registry, layouts layoutSource, data widgetFetcher, renderer widgetRenderer) *dashboardService {
	return &dashboardService{
		registry: registry,
		layouts:  layouts,
		data:     data,
		renderer: renderer,
		locks:    newKeyedMutex(),
		clockNow: time.Now,
	}
}

// --- Public service methods ---

// Grid returns the caller's visible widgets in display order. Preference
// failures degrade to an empty grid.
func (s *dashboardService) Grid(ctx context.Context, caller dto.Caller) (dto.DashboardResponse, error) {
	role := widgets.ParseRole(caller.Role)
	prefs, version := s.layouts.Load(ctx, caller.UID, role)
	return dto.DashboardResponse{
		Role:    string(role),
		Version: version,
		Widgets: toGridWidgets(widgets.BuildGrid(s.registry, prefs, role)),
	}, nil
}

// Catalog lists every widget the caller may add, flagged with whether it
// is currently enabled.
func (s *dashboardService) Catalog(ctx context.Context, caller dto.Caller) ([]dto.CatalogEntry, error) {
	role := widgets.ParseRole(caller.Role)
	prefs, _ := s.layouts.Load(ctx, caller.UID, role)
	enabled := make(map[string]bool, len(prefs))
	for _, p := range prefs {
		if p.Enabled {
			enabled[p.ID] = true
		}
	}

	defs := s.registry.VisibleTo(role)
	out := make([]dto.CatalogEntry, 0, len(defs))
	for _, d := range defs {
		out = append(out, dto.CatalogEntry{
			ID:           d.ID,
			Title:        d.Title,
			Description:  d.Description,
			Category:     string(d.Category),
			MinRole:      string(d.MinRole),
			DefaultSize:  string(d.Size),
			RendererType: string(d.RendererType),
			Enabled:      enabled[d.ID],
		})
	}
	return out, nil
}

func (s *dashboardService) Reorder(ctx context.Context, caller dto.Caller, req dto.ReorderRequest) (dto.LayoutCommandResult, error) {
	if req.ActiveID == "" || req.OverID == "" {
		return dto.LayoutCommandResult{}, errs.NewValidationError("activeId and overId are required")
	}
	return s.runCommand(ctx, caller, "reorder", func(role widgets.Role, prefs []models.WidgetPreference) ([]models.WidgetPreference, bool, error) {
		out, changed := widgets.Reorder(s.registry, prefs, role, req.ActiveID, req.OverID)
		return out, changed, nil
	})
}

func (s *dashboardService) Resize(ctx context.Context, caller dto.Caller, widgetID string) (dto.LayoutCommandResult, error) {
	return s.runCommand(ctx, caller, "resize", func(role widgets.Role, prefs []models.WidgetPreference) ([]models.WidgetPreference, bool, error) {
		out, _, err := widgets.Resize(s.registry, prefs, role, widgetID)
		return out, err == nil, err
	})
}

func (s *dashboardService) SetEnabled(ctx context.Context, caller dto.Caller, widgetID string, enabled bool) (dto.LayoutCommandResult, error) {
	return s.runCommand(ctx, caller, "set_enabled", func(role widgets.Role, prefs []models.WidgetPreference) ([]models.WidgetPreference, bool, error) {
		return widgets.SetEnabled(s.registry, prefs, role, widgetID, enabled)
	})
}

// RenderWidget renders one widget. Unknown ids are NotFound and widgets
// above the caller's role are Forbidden; fetch and render failures come
// back as an error card, not an error.
func (s *dashboardService) RenderWidget(ctx context.Context, caller dto.Caller, widgetID string, revalidate bool) (dto.WidgetView, error) {
	role := widgets.ParseRole(caller.Role)
	def, ok := s.registry.Get(widgetID)
	if !ok {
		return dto.WidgetView{}, errs.NewNotFoundError("unknown widget: " + widgetID)
	}
	if !widgets.HasPermission(role, def.MinRole) {
		return dto.WidgetView{}, errs.NewForbiddenError("widget requires role " + string(def.MinRole))
	}

	size := def.Size
	prefs, _ := s.layouts.Load(ctx, caller.UID, role)
	for _, p := range prefs {
		if p.ID == widgetID {
			size = widgets.EffectiveSize(def, p)
			break
		}
	}
	return s.renderEntry(ctx, caller, widgets.GridEntry{Definition: def, Size: size}, revalidate), nil
}

// RenderDashboard renders every visible widget concurrently. Each widget
// is isolated: its failure becomes its own error card and never cancels or
// fails the others.
func (s *dashboardService) RenderDashboard(ctx context.Context, caller dto.Caller, revalidate bool) (dto.RenderedDashboard, error) {
	role := widgets.ParseRole(caller.Role)
	prefs, version := s.layouts.Load(ctx, caller.UID, role)
	grid := widgets.BuildGrid(s.registry, prefs, role)

	views := make([]dto.WidgetView, len(grid))
	var g errgroup.Group
	for i, entry := range grid {
		g.Go(func() error {
			views[i] = s.renderEntry(ctx, caller, entry, revalidate)
			return nil
		})
	}
	_ = g.Wait()

	return dto.RenderedDashboard{
		Role:       string(role),
		Version:    version,
		Widgets:    views,
		RenderedAt: s.clockNow(),
	}, nil
}

// --- Helpers ---

type layoutCommand func(role widgets.Role, prefs []models.WidgetPreference) ([]models.WidgetPreference, bool, error)

// runCommand serialises read-modify-write per user and commits against the
// version it read. A no-op command writes nothing.
func (s *dashboardService) runCommand(ctx context.Context, caller dto.Caller, name string, cmd layoutCommand) (dto.LayoutCommandResult, error) {
	unlock := s.locks.Lock(caller.UID)
	defer unlock()

	log := logger.FromContext(ctx)
	role := widgets.ParseRole(caller.Role)
	prefs, version, err := s.layouts.Current(ctx, caller.UID, role)
	if err != nil {
		return dto.LayoutCommandResult{}, err
	}

	next, changed, err := cmd(role, prefs)
	if err != nil {
		return dto.LayoutCommandResult{}, err
	}
	if !changed {
		return commandResult(s.registry, role, prefs, version, false), nil
	}

	saved, written, err := s.layouts.Commit(ctx, caller.UID, next, version)
	if err != nil {
		log.Warn("layout command not saved", "command", name, "error", err)
		return dto.LayoutCommandResult{}, err
	}
	log.Info("layout command applied", "command", name, "version", saved.Version)
	return commandResult(s.registry, role, saved.Layout, saved.Version, written), nil
}

func commandResult(reg *widgets.Registry, role widgets.Role, prefs []models.WidgetPreference, version int64, changed bool) dto.LayoutCommandResult {
	if prefs == nil {
		prefs = []models.WidgetPreference{}
	}
	return dto.LayoutCommandResult{
		Changed: changed,
		Version: version,
		Layout:  prefs,
		Widgets: toGridWidgets(widgets.BuildGrid(reg, prefs, role)),
	}
}

func (s *dashboardService) renderEntry(ctx context.Context, caller dto.Caller, entry widgets.GridEntry, revalidate bool) (view dto.WidgetView) {
	def := entry.Definition
	view = dto.WidgetView{
		ID:              def.ID,
		Title:           def.Title,
		Size:            string(entry.Size),
		RendererType:    string(def.RendererType),
		RefreshAfterSec: int(s.data.RefreshAfter() / time.Second),
	}

	defer func() {
		if r := recover(); r != nil {
			view = s.errorView(ctx, view, dto.WidgetErrRenderFailed, "위젯을 표시하지 못했습니다", fmt.Errorf("panic: %v", r))
		}
	}()

	data, err := s.data.Fetch(ctx, caller, def, revalidate)
	if err != nil {
		return s.errorView(ctx, view, dto.WidgetErrFetchFailed, fetchMessage(err), err)
	}

	body := s.renderer.Render(ctx, def, data.Payload)
	view.State = dto.WidgetStateOK
	view.Body = &body
	view.Stale = data.Stale
	if !data.FetchedAt.IsZero() {
		fetched := data.FetchedAt
		view.FetchedAt = &fetched
	}
	return view
}

func (s *dashboardService) errorView(ctx context.Context, view dto.WidgetView, code, message string, cause error) dto.WidgetView {
	errorID := uuid.NewString()
	logger.FromContext(ctx).Error("widget failed",
		"widget_id", view.ID,
		"code", code,
		"error_id", errorID,
		"error", cause)
	metrics.RenderFailures.WithLabelValues(view.ID, code).Inc()

	view.State = dto.WidgetStateError
	view.Body = nil
	view.Stale = false
	view.FetchedAt = nil
	view.Error = &dto.WidgetError{Code: code, Message: message, ErrorID: errorID}
	return view
}

func fetchMessage(err error) string {
	var ext *errs.ExternalServiceError
	if errors.As(err, &ext) && ext.Transient {
		return "일시적으로 데이터를 불러올 수 없습니다"
	}
	return "데이터를 불러오지 못했습니다"
}

func toGridWidgets(grid []widgets.GridEntry) []dto.GridWidget {
	out := make([]dto.GridWidget, len(grid))
	for i, e := range grid {
		out[i] = dto.GridWidget{
			ID:           e.Definition.ID,
			Title:        e.Definition.Title,
			Description:  e.Definition.Description,
			Category:     string(e.Definition.Category),
			Size:         string(e.Size),
			RendererType: string(e.Definition.RendererType),
			Order:        e.Preference.Order,
		}
	}
	return out
}

// keyedMutex hands out one mutex per key and drops it when the last holder
// unlocks.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.mu.Lock()
	return func() {
		m.mu.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
