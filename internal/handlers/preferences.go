package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/owms-dashboard/internal/dto"
	"github.com/GregMSThompson/owms-dashboard/internal/errs"
	"github.com/GregMSThompson/owms-dashboard/internal/middleware"
	"github.com/GregMSThompson/owms-dashboard/internal/models"
	"github.com/GregMSThompson/owms-dashboard/internal/response"
	"github.com/GregMSThompson/owms-dashboard/internal/widgets"
)

type PreferenceService interface {
	GetLayout(ctx context.Context, uid string, role widgets.Role) (dto.PreferencesResponse, error)
	Save(ctx context.Context, uid string, role widgets.Role, layout []models.WidgetPreference, expectedVersion *int64) (dto.PreferencesResponse, error)
	Reset(ctx context.Context, uid string, role widgets.Role) (dto.PreferencesResponse, error)
}

type preferenceHandlers struct {
	ResponseHandler response.ResponseHandler
	PreferenceSvc   PreferenceService
}

func NewPreferenceHandlers(deps *Deps) *preferenceHandlers {
	return &preferenceHandlers{
		ResponseHandler: deps.ResponseHandler,
		PreferenceSvc:   deps.PreferenceSvc,
	}
}

func (h *preferenceHandlers) PreferenceRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetPreferences)
	r.Put("/", h.SavePreferences)
	r.Delete("/", h.ResetPreferences)
	return r
}

func (h *preferenceHandlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	caller := middleware.Caller(r.Context())
	resp, err := h.PreferenceSvc.GetLayout(r.Context(), caller.UID, widgets.ParseRole(caller.Role))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(resp.Version, 10)))
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

// SavePreferences replaces the whole layout. A version in the body or an
// If-Match header turns on the conflict check; the body wins when both
// are present.
func (h *preferenceHandlers) SavePreferences(w http.ResponseWriter, r *http.Request) {
	var req dto.SavePreferencesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if req.Layout == nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("layout is required"))
		return
	}

	expected := req.Version
	if expected == nil {
		v, err := ifMatchVersion(r)
		if err != nil {
			h.ResponseHandler.HandleError(w, r, err)
			return
		}
		expected = v
	}

	caller := middleware.Caller(r.Context())
	resp, err := h.PreferenceSvc.Save(r.Context(), caller.UID, widgets.ParseRole(caller.Role), req.Layout, expected)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("ETag", strconv.Quote(strconv.FormatInt(resp.Version, 10)))
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}

func (h *preferenceHandlers) ResetPreferences(w http.ResponseWriter, r *http.Request) {
	caller := middleware.Caller(r.Context())
	resp, err := h.PreferenceSvc.Reset(r.Context(), caller.UID, widgets.ParseRole(caller.Role))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, resp)
}
