// Package metrics records authentication attempts in a private Prometheus
// registry and optionally pushes them to a Pushgateway when the attempt ends.
//
// The bridge runs once per process, so there is no scrape endpoint: the
// registry is pushed exactly once, after the decision is made.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/authbridge/pkg/auth"
)

// Label constants for metrics.
const (
	LabelBackend = "backend"
	LabelOutcome = "outcome"
)

const namespace = "authbridge"

// Metrics implements auth.Metrics on top of a Prometheus registry.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	attemptsTotal   *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	lastAttempt     *prometheus.GaugeVec
}

// New creates Metrics backed by a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	return &Metrics{
		registry: reg,
		attemptsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attempts_total",
				Help:      "Total number of authentication attempts by backend and outcome",
			},
			[]string{LabelBackend, LabelOutcome},
		),
		attemptDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "attempt_duration_seconds",
				Help:      "Duration of authentication attempts including upstream calls",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{LabelBackend},
		),
		lastAttempt: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_attempt_timestamp_seconds",
				Help:      "Unix time of the last authentication attempt by backend and outcome",
			},
			[]string{LabelBackend, LabelOutcome},
		),
	}
}

// ObserveAttempt records one finished attempt.
func (m *Metrics) ObserveAttempt(backend string, outcome auth.Outcome, duration time.Duration) {
	if m == nil {
		return
	}
	m.attemptsTotal.WithLabelValues(backend, string(outcome)).Inc()
	m.attemptDuration.WithLabelValues(backend).Observe(duration.Seconds())
	m.lastAttempt.WithLabelValues(backend, string(outcome)).SetToCurrentTime()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

var _ auth.Metrics = (*Metrics)(nil)
