// Package main is the entry point for the activities API server.
// It only wires dependencies together and starts the server.
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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/pkordes/activity-roster/internal/config"
	"github.com/pkordes/activity-roster/internal/domain"
	"github.com/pkordes/activity-roster/internal/handler"
	"github.com/pkordes/activity-roster/internal/repo"
	"github.com/pkordes/activity-roster/internal/service"
	"github.com/pkordes/activity-roster/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.LoadAPI()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	// --- Storage ----------------------------------------------------------
	activities, closeStore, err := openActivityRepo(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// --- Router -----------------------------------------------------------
	srv := handler.NewServer(service.NewActivityService(activities), logger)
	r := newRouter(cfg, logger, srv)

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openActivityRepo picks the storage backend. Without DATABASE_URL the seed
// roster is served from memory and lost on restart.
func openActivityRepo(ctx context.Context, cfg config.APIConfig) (repo.ActivityRepo, func(), error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set; using in-memory activities")
		return repo.NewMemoryActivityRepo(domain.SeedActivities()), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		// goose drives database/sql. The wrapper borrows pool connections
		// and keeps none idle, so it is left for the collector.
		applied, err := migrations.Up(ctx, stdlib.OpenDBFromPool(pool))
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("migrations applied", "count", applied)
	}

	return repo.NewActivityRepo(pool), pool.Close, nil
}
