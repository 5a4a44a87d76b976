// Package handler implements the HTTP handlers of the activities API.
// All handlers are methods on Server and are split by resource into
// health.go and activities.go.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/activity-roster/internal/domain"
	"github.com/pkordes/activity-roster/internal/middleware"
	"github.com/pkordes/activity-roster/openapi"
)

// ActivityServicer is the business surface the activity handlers depend on.
// Handler tests inject a mock in place of service.ActivityService.
type ActivityServicer interface {
	List(ctx context.Context) (domain.Roster, error)
	Signup(ctx context.Context, name, email string) error
	Unregister(ctx context.Context, name, email string) error
}

// Server serves every API endpoint.
type Server struct {
	activities ActivityServicer
	log        *slog.Logger
}

// NewServer constructs the Server. A nil log falls back to slog.Default.
func NewServer(activities ActivityServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{activities: activities, log: log}
}

// Routes returns a router with every API endpoint mounted. Activity names
// are matched on the escaped path so names containing "/" route correctly.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RouteOnEscapedPath)

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", openapi.Handler)
	r.Get("/activities", s.ListActivities)
	r.Post("/activities/{activity_name}/signup", s.Signup)
	r.Post("/activities/{activity_name}/unregister", s.Unregister)
	return r
}
