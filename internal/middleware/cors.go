// Package middleware provides the HTTP middleware shared by the activities
// API and the roster web server.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler lets the listed browser origins call the activities API.
// Each origin is scheme plus host with no trailing slash. The API only
// serves GET and POST, and the roster client may forward X-Request-Id.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	})
	return c.Handler
}
