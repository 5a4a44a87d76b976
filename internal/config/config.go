// Package config loads the configuration of both binaries from environment
// variables using caarlos0/env.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// APIConfig holds the activities API settings.
type APIConfig struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"8000"`

	// DatabaseURL is the Postgres connection string. When empty the API
	// serves the seed roster from memory.
	DatabaseURL string `env:"DATABASE_URL"`

	// LogLevel accepts debug, info, warn or error, in any case.
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:8080" envSeparator:","`

	// MigrateOnStart applies pending goose migrations before serving.
	// Ignored without DatabaseURL.
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`
}

// WebConfig holds the roster web server settings.
type WebConfig struct {
	Port string `env:"PORT" envDefault:"8080"`

	// APIBaseURL is the activities API root, e.g. http://localhost:8000.
	APIBaseURL string `env:"API_BASE_URL,required,notEmpty"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	// MessageHideAfter is how long a banner message stays visible.
	MessageHideAfter time.Duration `env:"MESSAGE_HIDE_AFTER" envDefault:"5s"`

	// DiscardStale drops a roster fetch that finishes after a newer one
	// was already shown. false restores last-response-wins.
	DiscardStale bool `env:"ROSTER_DISCARD_STALE" envDefault:"true"`

	// APITimeout bounds each backend call. Zero means no timeout.
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"0s"`
}

// LoadAPI reads APIConfig from the environment.
func LoadAPI() (APIConfig, error) {
	cfg, err := env.ParseAs[APIConfig]()
	if err != nil {
		return APIConfig{}, fmt.Errorf("config.LoadAPI: %w", err)
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	if cfg.MaxBodyBytes <= 0 {
		return APIConfig{}, fmt.Errorf("config.LoadAPI: MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}
	return cfg, nil
}

// LoadWeb reads WebConfig from the environment. The error names any
// required variable that is not set.
func LoadWeb() (WebConfig, error) {
	cfg, err := env.ParseAs[WebConfig]()
	if err != nil {
		return WebConfig{}, fmt.Errorf("config.LoadWeb: %w", err)
	}
	if cfg.MessageHideAfter <= 0 {
		return WebConfig{}, fmt.Errorf("config.LoadWeb: MESSAGE_HIDE_AFTER must be positive, got %s", cfg.MessageHideAfter)
	}
	if cfg.APITimeout < 0 {
		return WebConfig{}, fmt.Errorf("config.LoadWeb: API_TIMEOUT must not be negative, got %s", cfg.APITimeout)
	}
	return cfg, nil
}

// trimAll trims each entry and drops the empty ones, so
// "a, b," yields [a b].
func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
