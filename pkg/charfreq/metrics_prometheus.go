package charfreq

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements Metrics using Prometheus collectors registered
// on a private registry.
//
// A private registry keeps several counters (and tests) from colliding on
// metric names. Expose it with promhttp.HandlerFor(m.Registry(), ...) or add
// it to a prometheus.Gatherers list next to the default registry.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	// operationsTotal counts finished operations.
	// Labels: path (sequential, parallel), mode, status (ErrorKind)
	operationsTotal *prometheus.CounterVec

	// operationDuration tracks operation wall time.
	// Labels: path
	operationDuration *prometheus.HistogramVec

	// charactersTotal counts characters processed.
	// Labels: mode
	charactersTotal *prometheus.CounterVec

	// tasksTotal counts spawned goroutines.
	// Labels: task (count, merge)
	tasksTotal *prometheus.CounterVec

	// taskFailuresTotal counts goroutines that panicked.
	// Labels: task (count, merge)
	taskFailuresTotal *prometheus.CounterVec
}

// NewPrometheusMetrics creates a PrometheusMetrics with its own registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()

	operationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "charfreq_operations_total",
			Help: "Total character frequency operations by path, case mode and status",
		},
		[]string{"path", "mode", "status"},
	)

	operationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "charfreq_operation_duration_seconds",
			Help:    "Duration of character frequency operations",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs .. ~26s
		},
		[]string{"path"},
	)

	charactersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "charfreq_characters_total",
			Help: "Total characters counted by case mode",
		},
		[]string{"mode"},
	)

	tasksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "charfreq_tasks_total",
			Help: "Total counting and merging goroutines spawned",
		},
		[]string{"task"},
	)

	taskFailuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "charfreq_task_failures_total",
			Help: "Total counting and merging goroutines that terminated abnormally",
		},
		[]string{"task"},
	)

	registry.MustRegister(
		operationsTotal,
		operationDuration,
		charactersTotal,
		tasksTotal,
		taskFailuresTotal,
	)

	return &PrometheusMetrics{
		registry:          registry,
		operationsTotal:   operationsTotal,
		operationDuration: operationDuration,
		charactersTotal:   charactersTotal,
		tasksTotal:        tasksTotal,
		taskFailuresTotal: taskFailuresTotal,
	}
}

// Registry returns the registry holding the counter metrics.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordOperation implements Metrics.
func (m *PrometheusMetrics) RecordOperation(path string, mode CaseMode, status string, duration time.Duration) {
	m.operationsTotal.WithLabelValues(path, mode.String(), status).Inc()
	m.operationDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordCharacters implements Metrics.
func (m *PrometheusMetrics) RecordCharacters(mode CaseMode, n int) {
	m.charactersTotal.WithLabelValues(mode.String()).Add(float64(n))
}

// RecordTask implements Metrics.
func (m *PrometheusMetrics) RecordTask(task string) {
	m.tasksTotal.WithLabelValues(task).Inc()
}

// RecordTaskFailure implements Metrics.
func (m *PrometheusMetrics) RecordTaskFailure(task string) {
	m.taskFailuresTotal.WithLabelValues(task).Inc()
}
