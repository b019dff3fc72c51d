package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics bundles Prometheus collectors for pipeline runs.
type Metrics struct {
	Registry       *prometheus.Registry
	RunsTotal      *prometheus.CounterVec
	FetchDuration  prometheus.Histogram
	ErrorsTotal    *prometheus.CounterVec
	BossesReported prometheus.Gauge
	LastRun        prometheus.Gauge
}

// New constructs and registers all metrics on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bossposter_runs_total",
			Help: "Completed pipeline runs by outcome.",
		},
		[]string{"outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bossposter_fetch_duration_seconds",
			Help:    "Latency of the tracker page fetch.",
			Buckets: prometheus.DefBuckets,
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bossposter_errors_total",
			Help: "Failed runs by error type.",
		},
		[]string{"error_type"},
	)
	bosses := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bossposter_bosses_reported",
			Help: "Number of bosses in the last reported ranking.",
		},
	)
	lastRun := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bossposter_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run.",
		},
	)

	registry.MustRegister(runs, fetchDuration, errorsTotal, bosses, lastRun)

	return &Metrics{
		Registry:       registry,
		RunsTotal:      runs,
		FetchDuration:  fetchDuration,
		ErrorsTotal:    errorsTotal,
		BossesReported: bosses,
		LastRun:        lastRun,
	}
}

// ObserveFetch records a tracker fetch duration.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// ObserveRun records a finished run and, for reported rankings, its size.
func (m *Metrics) ObserveRun(outcome string, bosses int, at time.Time) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.BossesReported.Set(float64(bosses))
	m.LastRun.Set(float64(at.Unix()))
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// Push sends the registry to a Prometheus Pushgateway under job. One-shot
// runs exit before any scrape could reach them.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if m == nil {
		return nil
	}
	return push.New(url, job).Gatherer(m.Registry).PushContext(ctx)
}
