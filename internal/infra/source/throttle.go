package source

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle limits the rate of outgoing fetches with a token bucket.
// It is safe for concurrent use.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle allows burst fetches at once, then requestsPerSecond on average.
// A non-positive rate disables the limit.
//
// Example:
//
//	throttle := NewThrottle(2.0, 1) // one fetch every 500ms
func NewThrottle(requestsPerSecond float64, burst int) *Throttle {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	return &Throttle{limiter: rate.NewLimiter(limit, max(burst, 1))}
}

// Wait blocks until a fetch may start or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}
