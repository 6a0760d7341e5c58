package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds the Prometheus metrics for one sync run. A batch job has
// nothing to scrape, so the registry is pushed once at end of run when a
// Pushgateway is configured; the same counters also feed the final summary.
type Metrics struct {
	// DatesSynced counts dates for which a destination page was created.
	DatesSynced prometheus.Counter
	// DatesSkipped counts window dates already present downstream.
	DatesSkipped prometheus.Counter
	// TokenRefreshes counts successful access token mints.
	TokenRefreshes prometheus.Counter
	// FetchFailures counts category fetches that errored, by category.
	FetchFailures *prometheus.CounterVec
	// QueryFailures counts destination existence queries that failed open.
	QueryFailures prometheus.Counter
	// WriteFailures counts destination page creations that failed.
	WriteFailures prometheus.Counter
	// RunDuration records the wall time of the whole run in seconds.
	RunDuration prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		DatesSynced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dates_synced_total",
			Help:      "Dates for which a destination record was created",
		}),
		DatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dates_skipped_total",
			Help:      "Window dates already recorded downstream",
		}),
		TokenRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refreshes_total",
			Help:      "Successful access token refreshes",
		}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Category fetches that returned an error",
		}, []string{"category"}),
		QueryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_failures_total",
			Help:      "Destination existence queries that failed open",
		}),
		WriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_failures_total",
			Help:      "Destination record writes that failed",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the sync run",
		}),
	}

	registry.MustRegister(
		m.DatesSynced,
		m.DatesSkipped,
		m.TokenRefreshes,
		m.FetchFailures,
		m.QueryFailures,
		m.WriteFailures,
		m.RunDuration,
	)

	return m
}

// ObserveRunDuration sets the run duration gauge.
func (m *Metrics) ObserveRunDuration(d time.Duration) {
	m.RunDuration.Set(d.Seconds())
}

// Push sends the registry to a Pushgateway under the given job name,
// replacing any previous push for that job.
func (m *Metrics) Push(gatewayURL, job string) error {
	return push.New(gatewayURL, job).Gatherer(m.registry).Push()
}

// Gather returns the current metric families, for tests and the summary log.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	return m.registry.Gather()
}
