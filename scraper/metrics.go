package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the standings pipeline.
type Metrics struct {
	Registry            *prometheus.Registry
	AttemptsTotal       prometheus.Counter
	AttemptDuration     prometheus.Histogram
	RetriesTotal        prometheus.Counter
	ErrorsTotal         *prometheus.CounterVec
	LeaguesTotal        *prometheus.CounterVec
	TeamsExtractedTotal prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	attempts := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "standings_attempts_total",
			Help: "Total fetch+extract attempts issued.",
		},
	)
	attemptDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name: "standings_attempt_duration_seconds",
			Help: "Latency of single fetch+extract attempts.",
			// Attempts include a model round trip, so the range runs well
			// past the default 10s ceiling.
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)
	retries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "standings_retries_total",
			Help: "Total backoff waits taken between failed attempts.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "standings_errors_total",
			Help: "Total attempt errors by type.",
		},
		[]string{"error_type"},
	)
	leaguesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "standings_leagues_total",
			Help: "Leagues processed, by final status.",
		},
		[]string{"status"},
	)
	teamsExtracted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "standings_teams_extracted_total",
			Help: "Teams persisted across all successful extractions.",
		},
	)

	registry.MustRegister(attempts, attemptDuration, retries, errorsTotal, leaguesTotal, teamsExtracted)

	return &Metrics{
		Registry:            registry,
		AttemptsTotal:       attempts,
		AttemptDuration:     attemptDuration,
		RetriesTotal:        retries,
		ErrorsTotal:         errorsTotal,
		LeaguesTotal:        leaguesTotal,
		TeamsExtractedTotal: teamsExtracted,
	}
}

// IncAttempt increments the attempts counter.
func (m *Metrics) IncAttempt() {
	if m == nil {
		return
	}
	m.AttemptsTotal.Inc()
}

// ObserveAttempt records the duration of one attempt.
func (m *Metrics) ObserveAttempt(d time.Duration) {
	if m == nil {
		return
	}
	m.AttemptDuration.Observe(d.Seconds())
}

// IncRetries increments the retries counter.
func (m *Metrics) IncRetries() {
	if m == nil {
		return
	}
	m.RetriesTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncLeague increments the per-status league counter.
func (m *Metrics) IncLeague(status string) {
	if m == nil {
		return
	}
	m.LeaguesTotal.WithLabelValues(status).Inc()
}

// AddTeams adds to the extracted teams counter.
func (m *Metrics) AddTeams(n int) {
	if m == nil {
		return
	}
	m.TeamsExtractedTotal.Add(float64(n))
}
