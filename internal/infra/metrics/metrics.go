// Package metrics holds the Prometheus collectors owned by the auth core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	LoginsTotal      *prometheus.CounterVec
	ResolvesTotal    *prometheus.CounterVec
	CacheErrorsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg skips
// registration, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skeleton_auth_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		ResolvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skeleton_auth_resolves_total",
				Help: "Bearer token resolutions by outcome",
			},
			[]string{"outcome"},
		),
		CacheErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skeleton_session_cache_errors_total",
				Help: "Swallowed session cache failures by operation",
			},
			[]string{"op"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.LoginsTotal, m.ResolvesTotal, m.CacheErrorsTotal)
	}
	return m
}

func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Resolve(outcome string) {
	if m == nil {
		return
	}
	m.ResolvesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CacheError(op string) {
	if m == nil {
		return
	}
	m.CacheErrorsTotal.WithLabelValues(op).Inc()
}
