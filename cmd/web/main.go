// Package main is the entry point for the roster web server. It renders the
// activity roster view as HTML and talks to the activities API over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/activity-roster/internal/apiclient"
	"github.com/pkordes/activity-roster/internal/config"
	"github.com/pkordes/activity-roster/internal/middleware"
	"github.com/pkordes/activity-roster/internal/observability"
	"github.com/pkordes/activity-roster/internal/view"
	"github.com/pkordes/activity-roster/internal/web"
)

// maxFormBytes caps the signup and unregister form posts.
const maxFormBytes = 64 << 10

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.LoadWeb()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// --- View -------------------------------------------------------------
	api, err := apiclient.New(cfg.APIBaseURL, apiclient.WithTimeout(cfg.APITimeout))
	if err != nil {
		slog.Error("invalid API_BASE_URL", "error", err)
		os.Exit(1)
	}
	v := view.New(api, view.NewStore(cfg.DiscardStale), view.Options{
		HideAfter: cfg.MessageHideAfter,
		Logger:    logger,
		Metrics:   observability.NewMetrics(prometheus.DefaultRegisterer),
	})

	// --- Router -----------------------------------------------------------
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewMaxBodySizeHandler(maxFormBytes))

	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", web.NewHandler(v, logger).Routes())

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout is left unset when API_TIMEOUT is zero: a page render
	// waits on the backend with no deadline of its own.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	if cfg.APITimeout > 0 {
		// A signup performs two backend calls: the action and the refresh.
		srv.WriteTimeout = 2*cfg.APITimeout + 5*time.Second
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "api", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
