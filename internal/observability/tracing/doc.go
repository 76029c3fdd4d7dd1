// Package tracing provides OpenTelemetry tracing integration.
//
// The worker installs an SDK tracer provider with InitTracer. Tally runs and
// counting operations open spans through GetTracer or StartSpan, and the
// operational HTTP endpoints are wrapped with Middleware.
//
// Example usage:
//
//	import "charfreq/internal/observability/tracing"
//
//	func main() {
//	    shutdown := tracing.InitTracer("charfreq-worker")
//	    defer shutdown(context.Background())
//	}
//
//	func tally(ctx context.Context) (err error) {
//	    ctx, span := tracing.StartSpan(ctx, "tally.source")
//	    defer func() { tracing.EndSpan(span, err) }()
//	    // ... count ...
//	}
package tracing
