package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync runs
	SyncRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_sync_run_duration_seconds",
			Help:    "Duration of catalog synchronization runs",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 900},
		},
		[]string{"resource", "mode"},
	)

	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Total number of synchronization runs by outcome",
		},
		[]string{"resource", "mode", "outcome"}, // "success", "failed", "locked"
	)

	SyncRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_records_total",
			Help: "Records handled by synchronization runs",
		},
		[]string{"resource", "result"}, // "imported", "updated", "skipped", "error", "unresolved"
	)

	SyncLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_sync_last_success_timestamp",
			Help: "Unix timestamp of the last successful run",
		},
		[]string{"resource"},
	)

	// Remote API
	RemotePagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_remote_pages_fetched_total",
			Help: "Remote API pages fetched",
		},
		[]string{"resource"},
	)

	RemoteRequestRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_remote_request_retries_total",
			Help: "Remote API page requests that were retried",
		},
		[]string{"resource"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "catalog_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordRun records the counters of a finished run.
func RecordRun(resource, mode string, duration time.Duration, imported, updated, skipped, errs, unresolved int, err error) {
	SyncRunDuration.WithLabelValues(resource, mode).Observe(duration.Seconds())

	if err != nil {
		SyncRunsTotal.WithLabelValues(resource, mode, "failed").Inc()
		return
	}

	SyncRunsTotal.WithLabelValues(resource, mode, "success").Inc()
	SyncLastSuccess.WithLabelValues(resource).SetToCurrentTime()

	SyncRecordsTotal.WithLabelValues(resource, "imported").Add(float64(imported))
	SyncRecordsTotal.WithLabelValues(resource, "updated").Add(float64(updated))
	SyncRecordsTotal.WithLabelValues(resource, "skipped").Add(float64(skipped))
	SyncRecordsTotal.WithLabelValues(resource, "error").Add(float64(errs))
	SyncRecordsTotal.WithLabelValues(resource, "unresolved").Add(float64(unresolved))
}

// RecordLocked counts a run refused because another one held the lock.
func RecordLocked(resource, mode string) {
	SyncRunsTotal.WithLabelValues(resource, mode, "locked").Inc()
}
