package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/activity-roster/internal/config"
	"github.com/pkordes/activity-roster/internal/handler"
	"github.com/pkordes/activity-roster/internal/middleware"
)

// newRouter wraps the API routes in the production middleware stack:
// escaped-path routing → RequestID → RealIP → SlogLogger → Recoverer → CORS → body limit.
//
// RouteOnEscapedPath must run on this outer router. Mount hands the inner
// router a path built from whatever the outer one matched on, so an
// activity name sent as "%25" or "%2F" is only preserved if the outer
// router routes on the escaped path too.
func newRouter(cfg config.APIConfig, logger *slog.Logger, srv *handler.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RouteOnEscapedPath)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Mount("/", srv.Routes())
	return r
}
