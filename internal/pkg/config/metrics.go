package config

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics provides parameterized Prometheus metrics for configuration
// loading of one component.
//
// Metrics generated (parameterized by component name):
//   - {component}_config_load_timestamp: Unix timestamp of last configuration load
//   - {component}_config_validation_errors_total: Validation errors by field
//   - {component}_config_fallbacks_total: Fallbacks applied by field and reason
//   - {component}_config_fallback_active: 1 if any fallback is active, 0 otherwise
//
// Example usage:
//
//	metrics := config.NewConfigMetrics("worker")
//	metrics.RecordLoadTimestamp()
//	metrics.RecordFallback("case_mode", "invalid_value")
//	metrics.SetFallbackActive(true)
type ConfigMetrics struct {
	// LoadTimestamp records the Unix timestamp of the last configuration load.
	LoadTimestamp prometheus.Gauge

	// ValidationErrorsTotal counts validation errors.
	// Labels: field (e.g., "cron_schedule", "threads")
	ValidationErrorsTotal *prometheus.CounterVec

	// FallbacksTotal counts fallback operations.
	// Labels: field, reason (e.g., "invalid_value", "validation_failed")
	FallbacksTotal *prometheus.CounterVec

	// FallbackActive is 1 while any field uses a fallback value.
	FallbackActive prometheus.Gauge

	componentName string
}

// NewConfigMetrics creates ConfigMetrics registered on the Prometheus
// default registry. Creating two instances with the same component name
// panics; use unique names.
func NewConfigMetrics(componentName string) *ConfigMetrics {
	return NewConfigMetricsWith(prometheus.DefaultRegisterer, componentName)
}

// NewConfigMetricsWith creates ConfigMetrics registered on reg.
// Tests pass a fresh prometheus.NewRegistry() to avoid name clashes.
func NewConfigMetricsWith(reg prometheus.Registerer, componentName string) *ConfigMetrics {
	factory := promauto.With(reg)
	return &ConfigMetrics{
		LoadTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_load_timestamp", componentName),
			Help: fmt.Sprintf("Unix timestamp of last %s configuration load", componentName),
		}),

		ValidationErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_validation_errors_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration validation errors", componentName),
		}, []string{"field"}),

		FallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_fallbacks_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration fallback operations", componentName),
		}, []string{"field", "reason"}),

		FallbackActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_fallback_active", componentName),
			Help: fmt.Sprintf("1 if any %s configuration fallback is active, 0 otherwise", componentName),
		}),

		componentName: componentName,
	}
}

// Component returns the component name used as metric prefix.
func (m *ConfigMetrics) Component() string {
	return m.componentName
}

// RecordLoadTimestamp records the current time as the configuration load timestamp.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// RecordValidationError increments the validation error counter for field.
func (m *ConfigMetrics) RecordValidationError(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
}

// RecordFallback increments the fallback counter for field.
func (m *ConfigMetrics) RecordFallback(field, reason string) {
	m.FallbacksTotal.WithLabelValues(field, reason).Inc()
}

// SetFallbackActive sets the fallback active gauge.
func (m *ConfigMetrics) SetFallbackActive(active bool) {
	if active {
		m.FallbackActive.Set(1)
		return
	}
	m.FallbackActive.Set(0)
}

// Apply records the outcome of one ConfigLoadResult for field and returns
// its warnings.
func (m *ConfigMetrics) Apply(field string, result ConfigLoadResult) []string {
	if result.FallbackApplied {
		m.RecordValidationError(field)
		m.RecordFallback(field, "invalid_value")
	}
	return result.Warnings
}
