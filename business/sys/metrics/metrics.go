// Package metrics constructs the metrics the application will track.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/ardanlabs/minesim/foundation/blockchain/consensus"
	"github.com/ardanlabs/minesim/foundation/blockchain/state"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "minesim"

// Outcomes of a simulation run.
const (
	OutcomeCompleted = "completed"
	OutcomeViolation = "violation"
	OutcomeCancelled = "cancelled"
	OutcomeError     = "error"
)

// Metrics represents the set of metrics we gather. These fields are safe to
// be accessed concurrently.
type Metrics struct {
	Requests    prometheus.Counter
	Errors      prometheus.Counter
	Panics      prometheus.Counter
	CacheHits   prometheus.Counter
	Runs        *prometheus.CounterVec
	Violations  *prometheus.CounterVec
	RunDuration prometheus.Histogram
}

// New constructs the metrics and registers them with the registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := Metrics{
		Requests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Number of web requests handled.",
		}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Number of web requests that returned an error.",
		}),
		Panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "panics_total",
			Help:      "Number of panics recovered while handling requests.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Number of runs served from the result cache.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of simulation runs by outcome.",
		}, []string{"outcome"}),
		Violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_total",
			Help:      "Number of protocol violations by rule and strategy.",
		}, []string{"rule", "strategy"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall clock time of a simulation run.",
			Buckets:   prometheus.ExponentialBuckets(.005, 2, 12),
		}),
	}

	reg.MustRegister(m.Requests, m.Errors, m.Panics, m.CacheHits, m.Runs, m.Violations, m.RunDuration)

	return &m
}

// ObserveRun records the duration and the outcome of a simulation run.
func (m *Metrics) ObserveRun(d time.Duration, err error) {
	m.RunDuration.Observe(d.Seconds())
	m.CountRun(err)
}

// CountRun records the outcome of a simulation run.
func (m *Metrics) CountRun(err error) {
	var ve *state.ViolationError
	switch {
	case err == nil:
		m.Runs.WithLabelValues(OutcomeCompleted).Inc()

	case errors.As(err, &ve):
		m.Runs.WithLabelValues(OutcomeViolation).Inc()
		m.Violations.WithLabelValues(Rule(err), ve.Strategy).Inc()

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		m.Runs.WithLabelValues(OutcomeCancelled).Inc()

	default:
		m.Runs.WithLabelValues(OutcomeError).Inc()
	}
}

// Rule names the protocol rule a violation broke.
func Rule(err error) string {
	switch {
	case errors.Is(err, consensus.ErrTooDeep):
		return "too_deep"
	case errors.Is(err, consensus.ErrDoubleSpend):
		return "double_spend"
	case errors.Is(err, state.ErrOutOfOrder):
		return "out_of_order"
	case errors.Is(err, state.ErrForeignOwner):
		return "foreign_owner"
	case errors.Is(err, state.ErrDuplicateBlock):
		return "duplicate_block"
	}
	return "unknown"
}
