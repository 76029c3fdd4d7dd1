// Package observability provides the logging, metrics and tracing
// infrastructure shared by the worker and the CLI.
//
// Subpackages:
//   - logging: Structured logging utilities with slog and operation IDs
//   - metrics: Prometheus metrics registry and recorders
//   - tracing: OpenTelemetry tracer setup, spans and HTTP middleware
//
// Example usage:
//
//	import (
//	    "charfreq/internal/observability/logging"
//	    "charfreq/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("worker started")
//
//	    metrics.UpdateSourcesConfigured(len(sources))
//	}
package observability
