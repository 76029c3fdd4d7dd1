package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSourceFetch(t *testing.T) {
	successBefore := testutil.ToFloat64(SourceFetchTotal.WithLabelValues("html", "success"))
	failureBefore := testutil.ToFloat64(SourceFetchTotal.WithLabelValues("html", "failure"))

	RecordSourceFetch("html", 120*time.Millisecond, 2048, nil)
	RecordSourceFetch("html", 3*time.Second, 0, errors.New("timeout"))

	assert.Equal(t, successBefore+1, testutil.ToFloat64(SourceFetchTotal.WithLabelValues("html", "success")))
	assert.Equal(t, failureBefore+1, testutil.ToFloat64(SourceFetchTotal.WithLabelValues("html", "failure")))
}

func TestUpdateSourcesConfigured(t *testing.T) {
	UpdateSourcesConfigured(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(SourcesConfigured))

	UpdateSourcesConfigured(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(SourcesConfigured))
}

func TestRecordTallySource(t *testing.T) {
	for _, result := range []string{ResultCounted, ResultSkipped, ResultFailed} {
		t.Run(result, func(t *testing.T) {
			before := testutil.ToFloat64(TallySourcesTotal.WithLabelValues(result))
			RecordTallySource(result)
			assert.Equal(t, before+1, testutil.ToFloat64(TallySourcesTotal.WithLabelValues(result)))
		})
	}
}

func TestRecordTallyRun(t *testing.T) {
	failuresBefore := testutil.ToFloat64(TallyRunsTotal.WithLabelValues("failure"))
	RecordTallyRun(false, time.Second)
	assert.Equal(t, failuresBefore+1, testutil.ToFloat64(TallyRunsTotal.WithLabelValues("failure")))

	start := float64(time.Now().Unix())
	successBefore := testutil.ToFloat64(TallyRunsTotal.WithLabelValues("success"))
	RecordTallyRun(true, 2*time.Second)
	assert.Equal(t, successBefore+1, testutil.ToFloat64(TallyRunsTotal.WithLabelValues("success")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(TallyLastSuccess), start)
}

func TestRecordSnapshotStored(t *testing.T) {
	before := testutil.ToFloat64(SnapshotsStoredTotal)
	RecordSnapshotStored()
	RecordSnapshotStored()
	assert.Equal(t, before+2, testutil.ToFloat64(SnapshotsStoredTotal))
}

func TestDBMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordDBQuery("save_snapshot", 5*time.Millisecond)
	})

	UpdateDBConnectionStats(3, 7)
	assert.Equal(t, 3.0, testutil.ToFloat64(DBConnectionsActive))
	assert.Equal(t, 7.0, testutil.ToFloat64(DBConnectionsIdle))
}
