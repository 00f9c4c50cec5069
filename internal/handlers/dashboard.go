package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/owms-dashboard/internal/dto"
	"github.com/GregMSThompson/owms-dashboard/internal/errs"
	"github.com/GregMSThompson/owms-dashboard/internal/middleware"
	"github.com/GregMSThompson/owms-dashboard/internal/response"
)

type DashboardService interface {
	Grid(ctx context.Context, caller dto.Caller) (dto.DashboardResponse, error)
	Catalog(ctx context.Context, caller dto.Caller) ([]dto.CatalogEntry, error)
	Reorder(ctx context.Context, caller dto.Caller, req dto.ReorderRequest) (dto.LayoutCommandResult, error)
	Resize(ctx context.Context, caller dto.Caller, widgetID string) (dto.LayoutCommandResult, error)
	SetEnabled(ctx context.Context, caller dto.Caller, widgetID string, enabled bool) (dto.LayoutCommandResult, error)
	RenderWidget(ctx context.Context, caller dto.Caller, widgetID string, revalidate bool) (dto.WidgetView, error)
	RenderDashboard(ctx context.Context, caller dto.Caller, revalidate bool) (dto.RenderedDashboard, error)
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetDashboard)
	r.Get("/render", h.RenderDashboard)
	r.Get("/widget-catalog", h.GetCatalog)
	r.Post("/reorder", h.Reorder)
	r.Get("/widgets/{widgetId}/render", h.RenderWidget)
	r.Post("/widgets/{widgetId}/resize", h.Resize)
	r.Put("/widgets/{widgetId}/enabled", h.SetEnabled)
	return r
}

func (h *dashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.DashboardSvc.Grid(r.Context(), middleware.Caller(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *dashboardHandlers) RenderDashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.DashboardSvc.RenderDashboard(r.Context(), middleware.Caller(r.Context()), revalidate(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *dashboardHandlers) RenderWidget(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	view, err := h.DashboardSvc.RenderWidget(r.Context(), middleware.Caller(r.Context()), widgetID, revalidate(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, view)
}

// GetCatalog lists the widgets the caller's role may add.
func (h *dashboardHandlers) GetCatalog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.DashboardSvc.Catalog(r.Context(), middleware.Caller(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, entries)
}

func (h *dashboardHandlers) Reorder(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	res, err := h.DashboardSvc.Reorder(r.Context(), middleware.Caller(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *dashboardHandlers) Resize(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	res, err := h.DashboardSvc.Resize(r.Context(), middleware.Caller(r.Context()), widgetID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *dashboardHandlers) SetEnabled(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	var req dto.SetEnabledRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if req.Enabled == nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("enabled is required"))
		return
	}
	res, err := h.DashboardSvc.SetEnabled(r.Context(), middleware.Caller(r.Context()), widgetID, *req.Enabled)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}
