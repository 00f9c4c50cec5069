package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/GregMSThompson/owms-dashboard/internal/bootstrap"
	owmsclient "github.com/GregMSThompson/owms-dashboard/internal/client/owms"
	"github.com/GregMSThompson/owms-dashboard/internal/config"
	"github.com/GregMSThompson/owms-dashboard/internal/handlers"
	"github.com/GregMSThompson/owms-dashboard/internal/render"
	"github.com/GregMSThompson/owms-dashboard/internal/response"
	"github.com/GregMSThompson/owms-dashboard/internal/router"
	"github.com/GregMSThompson/owms-dashboard/internal/services"
	"github.com/GregMSThompson/owms-dashboard/internal/store"
	"github.com/GregMSThompson/owms-dashboard/internal/widgets"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// widget catalog
	registry := widgets.NewRegistry(widgets.Builtin())
	renderer := render.New(bs.Location, render.BuiltinCustom())
	err = registry.Validate(renderer.HasCustom)
	exitOnError("widget registry invalid", err, bs.Log)

	// stores
	pstore := store.NewPreferenceStore(bs.Firestore)

	// services
	owms := owmsclient.NewAdapter(cfg.OWMSAPIBaseURL, cfg.OWMSAPITimeout, cfg.OWMSAPIRateLimit)
	pserv := services.NewPreferenceService(pstore, registry)
	wserv := services.NewWidgetDataService(bs.Cache, owms, cfg.WidgetDedupeWindow, cfg.WidgetRefresh)
	dserv := services.NewDashboardService(registry, pserv, wserv, renderer)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.PreferenceSvc = pserv
	deps.DashboardSvc = dserv

	// router
	r := router.NewRouter(deps)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	bs.Log.Info("listening", "port", cfg.Port, "widgets", len(registry.All()))
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	exitOnError("server start failed", err, bs.Log)
}
