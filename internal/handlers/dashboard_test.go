package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/owms-dashboard/internal/dto"
	"github.com/GregMSThompson/owms-dashboard/internal/errs"
)

// --- Stub service ---

type stubDashboardService struct {
	gridResp       dto.DashboardResponse
	gridErr        error
	catalogResp    []dto.CatalogEntry
	commandResp    dto.LayoutCommandResult
	commandErr     error
	viewResp       dto.WidgetView
	viewErr        error
	renderResp     dto.RenderedDashboard
	lastCaller     dto.Caller
	lastWidgetID   string
	lastReorder    dto.ReorderRequest
	lastEnabled    *bool
	lastRevalidate bool
	called         string
}

func (s *stubDashboardService) Grid(_ context.Context, caller dto.Caller) (dto.DashboardResponse, error) {
	s.called, s.lastCaller = "grid", caller
	return s.gridResp, s.gridErr
}

func (s *stubDashboardService) Catalog(_ context.Context, caller dto.Caller) ([]dto.CatalogEntry, error) {
	s.called, s.lastCaller = "catalog", caller
	return s.catalogResp, nil
}

func (s *stubDashboardService) Reorder(_ context.Context, caller dto.Caller, req dto.ReorderRequest) (dto.LayoutCommandResult, error) {
	s.called, s.lastCaller, s.lastReorder = "reorder", caller, req
	return s.commandResp, s.commandErr
}

func (s *stubDashboardService) Resize(_ context.Context, caller dto.Caller, widgetID string) (dto.LayoutCommandResult, error) {
	s.called, s.lastCaller, s.lastWidgetID = "resize", caller, widgetID
	return s.commandResp, s.commandErr
}

func (s *stubDashboardService) SetEnabled(_ context.Context, caller dto.Caller, widgetID string, enabled bool) (dto.LayoutCommandResult, error) {
	s.called, s.lastCaller, s.lastWidgetID, s.lastEnabled = "enabled", caller, widgetID, &enabled
	return s.commandResp, s.commandErr
}

func (s *stubDashboardService) RenderWidget(_ context.Context, caller dto.Caller, widgetID string, revalidate bool) (dto.WidgetView, error) {
	s.called, s.lastCaller, s.lastWidgetID, s.lastRevalidate = "render-widget", caller, widgetID, revalidate
	return s.viewResp, s.viewErr
}

func (s *stubDashboardService) RenderDashboard(_ context.Context, caller dto.Caller, revalidate bool) (dto.RenderedDashboard, error) {
	s.called, s.lastCaller, s.lastRevalidate = "render", caller, revalidate
	return s.renderResp, nil
}

func newDashHandlers(svc *stubDashboardService, resp *stubResponseHandler) *dashboardHandlers {
	return NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})
}

// --- Tests ---

func TestGetDashboard_OK(t *testing.T) {
	svc := &stubDashboardService{gridResp: dto.DashboardResponse{Widgets: []dto.GridWidget{{ID: "notice-board"}}}}
	resp := &stubResponseHandler{}

	req := withCaller(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "uid1", "MEMBER")
	newDashHandlers(svc, resp).GetDashboard(httptest.NewRecorder(), req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess with 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	want := dto.Caller{UID: "uid1", Role: "MEMBER", Token: "tok-uid1"}
	if svc.lastCaller != want {
		t.Errorf("expected caller %+v, got %+v", want, svc.lastCaller)
	}
}

func TestGetDashboard_ServiceError(t *testing.T) {
	svc := &stubDashboardService{gridErr: errors.New("boom")}
	resp := &stubResponseHandler{}

	req := withCaller(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "uid1", "MEMBER")
	newDashHandlers(svc, resp).GetDashboard(httptest.NewRecorder(), req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError to be called")
	}
}

func TestRenderDashboard_Revalidate(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}

	req := withCaller(httptest.NewRequest(http.MethodGet, "/dashboard/render?revalidate=true", nil), "uid1", "MEMBER")
	newDashHandlers(svc, resp).RenderDashboard(httptest.NewRecorder(), req)

	if svc.called != "render" || !svc.lastRevalidate {
		t.Fatalf("expected revalidating render, got %s revalidate=%v", svc.called, svc.lastRevalidate)
	}
}

func TestRenderWidget_PassesID(t *testing.T) {
	svc := &stubDashboardService{viewErr: errs.NewForbiddenError("no")}
	resp := &stubResponseHandler{}

	req := withCaller(httptest.NewRequest(http.MethodGet, "/dashboard/widgets/executive-brief/render", nil), "uid1", "MEMBER")
	req = withChiParam(req, "widgetId", "executive-brief")
	newDashHandlers(svc, resp).RenderWidget(httptest.NewRecorder(), req)

	if svc.lastWidgetID != "executive-brief" || svc.lastRevalidate {
		t.Fatalf("unexpected service args: %q revalidate=%v", svc.lastWidgetID, svc.lastRevalidate)
	}
	var fb *errs.ForbiddenError
	if !errors.As(resp.handleError, &fb) {
		t.Fatalf("expected ForbiddenError passed to HandleError, got %v", resp.handleError)
	}
}

func TestReorder_OK(t *testing.T) {
	svc := &stubDashboardService{commandResp: dto.LayoutCommandResult{Changed: true, Version: 2}}
	resp := &stubResponseHandler{}

	body := `{"activeId":"C","overId":"A"}`
	req := withCaller(httptest.NewRequest(http.MethodPost, "/dashboard/reorder", strings.NewReader(body)), "uid1", "MEMBER")
	newDashHandlers(svc, resp).Reorder(httptest.NewRecorder(), req)

	if !resp.writeSuccessCalled {
		t.Fatalf("expected WriteSuccess, got %v", resp.handleError)
	}
	if svc.lastReorder != (dto.ReorderRequest{ActiveID: "C", OverID: "A"}) {
		t.Errorf("unexpected reorder request: %+v", svc.lastReorder)
	}
}

func TestReorder_BadBody(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}

	req := withCaller(httptest.NewRequest(http.MethodPost, "/dashboard/reorder", strings.NewReader(`nope`)), "uid1", "MEMBER")
	newDashHandlers(svc, resp).Reorder(httptest.NewRecorder(), req)

	var vErr *errs.ValidationError
	if !errors.As(resp.handleError, &vErr) || svc.called != "" {
		t.Fatalf("expected ValidationError without service call, got %v called=%q", resp.handleError, svc.called)
	}
}

func TestResize_CommandError(t *testing.T) {
	svc := &stubDashboardService{commandErr: errs.NewConflictError(1, 2)}
	resp := &stubResponseHandler{}

	req := withCaller(httptest.NewRequest(http.MethodPost, "/dashboard/widgets/a/resize", nil), "uid1", "MEMBER")
	req = withChiParam(req, "widgetId", "a")
	newDashHandlers(svc, resp).Resize(httptest.NewRecorder(), req)

	if svc.lastWidgetID != "a" || !resp.handleErrorCalled {
		t.Fatalf("expected error for widget a, got id=%q handled=%v", svc.lastWidgetID, resp.handleErrorCalled)
	}
}

func TestSetEnabled(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}

	req := withCaller(httptest.NewRequest(http.MethodPut, "/dashboard/widgets/a/enabled", strings.NewReader(`{"enabled":false}`)), "uid1", "MEMBER")
	req = withChiParam(req, "widgetId", "a")
	newDashHandlers(svc, resp).SetEnabled(httptest.NewRecorder(), req)

	if svc.lastEnabled == nil || *svc.lastEnabled {
		t.Fatalf("expected enabled=false passed to service, got %v", svc.lastEnabled)
	}

	svc = &stubDashboardService{}
	resp = &stubResponseHandler{}
	req = withCaller(httptest.NewRequest(http.MethodPut, "/dashboard/widgets/a/enabled", strings.NewReader(`{}`)), "uid1", "MEMBER")
	req = withChiParam(req, "widgetId", "a")
	newDashHandlers(svc, resp).SetEnabled(httptest.NewRecorder(), req)

	var vErr *errs.ValidationError
	if !errors.As(resp.handleError, &vErr) || svc.called != "" {
		t.Fatalf("expected ValidationError for missing enabled, got %v", resp.handleError)
	}
}

func TestDashboardRoutes(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}
	router := newDashHandlers(svc, resp).DashboardRoutes()

	cases := []struct {
		method, path, body, want string
	}{
		{http.MethodGet, "/", "", "grid"},
		{http.MethodGet, "/render", "", "render"},
		{http.MethodGet, "/widget-catalog", "", "catalog"},
		{http.MethodPost, "/reorder", `{"activeId":"a","overId":"b"}`, "reorder"},
		{http.MethodGet, "/widgets/a/render", "", "render-widget"},
		{http.MethodPost, "/widgets/a/resize", "", "resize"},
		{http.MethodPut, "/widgets/a/enabled", `{"enabled":true}`, "enabled"},
	}
	for _, tc := range cases {
		svc.called = ""
		req := withCaller(httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)), "uid1", "MEMBER")
		router.ServeHTTP(httptest.NewRecorder(), req)
		if svc.called != tc.want {
			t.Errorf("%s %s: expected %s, got %q", tc.method, tc.path, tc.want, svc.called)
		}
	}
}
