package charfreq

import "time"

// Metrics records counting activity.
//
// Implementations must be safe for concurrent use: task methods are called
// from the counting and merging goroutines.
type Metrics interface {
	// RecordOperation records one finished counting operation.
	//
	// Parameters:
	//   - path: "sequential" or "parallel"
	//   - mode: Case mode of the operation
	//   - status: ErrorKind of the returned error ("ok" on success)
	//   - duration: Wall time of the operation
	RecordOperation(path string, mode CaseMode, status string, duration time.Duration)

	// RecordCharacters adds n counted characters.
	RecordCharacters(mode CaseMode, n int)

	// RecordTask records a spawned goroutine ("count" or "merge").
	RecordTask(task string)

	// RecordTaskFailure records a goroutine that panicked.
	RecordTaskFailure(task string)
}

// NoOpMetrics implements Metrics by discarding everything.
type NoOpMetrics struct{}

// NewNoOpMetrics creates a new NoOpMetrics instance.
func NewNoOpMetrics() *NoOpMetrics {
	return &NoOpMetrics{}
}

// RecordOperation is a no-op implementation.
func (m *NoOpMetrics) RecordOperation(path string, mode CaseMode, status string, duration time.Duration) {
}

// RecordCharacters is a no-op implementation.
func (m *NoOpMetrics) RecordCharacters(mode CaseMode, n int) {}

// RecordTask is a no-op implementation.
func (m *NoOpMetrics) RecordTask(task string) {}

// RecordTaskFailure is a no-op implementation.
func (m *NoOpMetrics) RecordTaskFailure(task string) {}
