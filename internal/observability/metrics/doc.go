// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the worker's application metrics:
//   - Source load metrics (count, duration, size)
//   - Tally run metrics (runs, per-source results, last success)
//   - Database query and pool metrics
//
// All metrics are registered with the Prometheus default registry and exposed
// via the worker's /metrics endpoint. Counting metrics of pkg/charfreq live on
// their own registry and are served next to these.
//
// Example usage:
//
//	import "charfreq/internal/observability/metrics"
//
//	func tally(ctx context.Context) {
//	    start := time.Now()
//	    // ... count every source ...
//	    metrics.RecordTallyRun(err == nil, time.Since(start))
//	}
package metrics
