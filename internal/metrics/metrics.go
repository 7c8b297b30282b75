package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters shared by the auth client and the session guard.
type Metrics struct {
	registry *prometheus.Registry

	AuthCalls   *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Activity    *prometheus.CounterVec
}

// New creates the counters on a private registry so independent instances
// (one per test, one per process) never collide.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		AuthCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ebenconta_auth_calls_total",
				Help: "Total number of login and renew calls by outcome",
			},
			[]string{"operation", "status"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ebenconta_session_transitions_total",
				Help: "Total number of session guard state transitions",
			},
			[]string{"from", "to", "reason"},
		),
		Activity: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ebenconta_session_activity_total",
				Help: "Total number of qualifying user activity events",
			},
			[]string{"kind"},
		),
	}
	m.registry.MustRegister(m.AuthCalls, m.Transitions, m.Activity)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
