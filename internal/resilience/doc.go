// Package resilience groups the fault tolerance helpers used around
// network source fetches and snapshot writes.
//
// Subpackages:
//   - circuitbreaker: gobreaker-based breakers with per-use presets
//   - retry: exponential backoff with jitter
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.SourceFetchConfig("url"))
//	err := retry.WithBackoff(ctx, retry.SourceFetchConfig(3, time.Second), func() error {
//	    return cb.Run(fetch)
//	})
package resilience
