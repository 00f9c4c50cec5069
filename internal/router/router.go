package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GregMSThompson/owms-dashboard/internal/handlers"
	"github.com/GregMSThompson/owms-dashboard/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(lm.LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	ph := handlers.NewPreferenceHandlers(deps)
	dh := handlers.NewDashboardHandlers(deps)
	am := middleware.NewMiddleware(deps.Firebase)

	r.Group(func(r chi.Router) {
		r.Use(am.FirebaseAuth)
		r.Mount("/dashboard-preferences", ph.PreferenceRoutes())
		r.Mount("/dashboard", dh.DashboardRoutes())
	})
	return r
}
