package metrics

import (
	"time"
)

// Tally source results.
const (
	ResultCounted = "counted"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

// RecordSourceFetch records one source load.
//
// Parameters:
//   - kind: Source kind (file, url, html, feed)
//   - duration: Time taken by the load, including retries
//   - size: Loaded text size in bytes (ignored on failure)
//   - err: Load error, nil on success
//
// Example:
//
//	start := time.Now()
//	text, err := loader.Load(ctx, src)
//	metrics.RecordSourceFetch(string(src.Kind), time.Since(start), len(text), err)
func RecordSourceFetch(kind string, duration time.Duration, size int, err error) {
	SourceFetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if err != nil {
		SourceFetchTotal.WithLabelValues(kind, "failure").Inc()
		return
	}
	SourceFetchTotal.WithLabelValues(kind, "success").Inc()
	SourceFetchSize.WithLabelValues(kind).Observe(float64(size))
}

// UpdateSourcesConfigured updates the number of configured sources.
func UpdateSourcesConfigured(count int) {
	SourcesConfigured.Set(float64(count))
}

// RecordTallySource records the outcome for one source of a tally run.
// Result should be ResultCounted, ResultSkipped or ResultFailed.
func RecordTallySource(result string) {
	TallySourcesTotal.WithLabelValues(result).Inc()
}

// RecordTallyRun records a finished tally run.
// A successful run also updates the last-success timestamp.
func RecordTallyRun(success bool, duration time.Duration) {
	TallyRunDuration.Observe(duration.Seconds())
	if !success {
		TallyRunsTotal.WithLabelValues("failure").Inc()
		return
	}
	TallyRunsTotal.WithLabelValues("success").Inc()
	TallyLastSuccess.SetToCurrentTime()
}

// RecordSnapshotStored records one snapshot written to the database.
func RecordSnapshotStored() {
	SnapshotsStoredTotal.Inc()
}
