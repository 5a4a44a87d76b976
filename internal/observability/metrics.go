// Package observability exposes prometheus counters for the roster view.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts roster fetches and user actions.
type Metrics struct {
	fetches *prometheus.CounterVec
	actions *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roster_view",
			Subsystem: "roster",
			Name:      "fetches_total",
			Help:      "Roster fetches grouped by result (success, failure, stale).",
		}, []string{"result"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roster_view",
			Subsystem: "actions",
			Name:      "completed_total",
			Help:      "Signup and unregister actions grouped by outcome.",
		}, []string{"action", "outcome"}),
	}
	reg.MustRegister(m.fetches, m.actions)
	return m
}

// FetchCompleted counts one roster fetch.
func (m *Metrics) FetchCompleted(result string) {
	m.fetches.WithLabelValues(result).Inc()
}

// ActionCompleted counts one signup or unregister.
func (m *Metrics) ActionCompleted(action, outcome string) {
	m.actions.WithLabelValues(action, outcome).Inc()
}
