// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for the logging patterns used by the worker and the CLI.
//
// Key features:
//   - JSON and text output formats, to stdout or any writer
//   - Operation ID generation and propagation
//   - Context-aware logging
//   - Configurable log levels (LOG_LEVEL)
//
// Example usage:
//
//	import "charfreq/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("worker started", slog.String("version", "1.0"))
//	}
//
//	func tally(ctx context.Context) {
//	    ctx, _ = logging.NewOperationContext(ctx)
//	    logger := logging.WithOperationID(ctx, slog.Default())
//	    logger.Info("tally started")
//	}
package logging
