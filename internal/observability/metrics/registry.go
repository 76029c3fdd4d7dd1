// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source metrics track fetching text from configured sources
var (
	// SourceFetchTotal counts source loads by kind and result
	SourceFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetch_total",
			Help: "Total number of source text loads",
		},
		[]string{"kind", "result"}, // result: success, failure
	)

	// SourceFetchDuration measures time to load a source
	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Time taken to load text from a source",
			Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
		[]string{"kind"},
	)

	// SourceFetchSize measures loaded text size in bytes
	SourceFetchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "source_fetch_size_bytes",
			Help: "Loaded source text size in bytes",
			Buckets: []float64{
				100, 400, 1600, 6400, 25600, 102400, 409600,
				1638400, 6553600, 26214400, // up to 25MB
			},
		},
		[]string{"kind"},
	)

	// SourcesConfigured tracks the number of sources in the sources file
	SourcesConfigured = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sources_configured",
			Help: "Number of sources listed in the sources file",
		},
	)
)

// Tally metrics track scheduled counting runs
var (
	// TallyRunsTotal counts tally runs by status
	TallyRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tally_runs_total",
			Help: "Total number of tally runs",
		},
		[]string{"status"}, // status: success, failure
	)

	// TallyRunDuration measures the wall time of one tally run
	TallyRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tally_run_duration_seconds",
			Help:    "Time taken by one tally run over all sources",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	// TallySourcesTotal counts per-source outcomes
	TallySourcesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tally_sources_total",
			Help: "Total number of sources processed by tally runs",
		},
		[]string{"result"}, // result: counted, skipped, failed
	)

	// TallyLastSuccess records the time of the last successful run
	TallyLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tally_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful tally run",
		},
	)

	// SnapshotsStoredTotal counts snapshots written to the database
	SnapshotsStoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshots_stored_total",
			Help: "Total number of frequency snapshots stored",
		},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "save_snapshot", "search_similar").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
