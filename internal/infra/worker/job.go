package worker

import (
	"context"
	"log/slog"
	"time"

	"charfreq/internal/domain/entity"
	"charfreq/internal/observability/logging"
	"charfreq/internal/usecase/tally"
)

// TallyRunner runs one tally pass over a list of sources.
type TallyRunner interface {
	TallyAll(ctx context.Context, srcs []entity.Source) (*tally.TallyStats, error)
}

// TallyJob is the unit of work scheduled by the worker's cron.
type TallyJob struct {
	Runner  TallyRunner
	Sources []entity.Source
	Timeout time.Duration
	Metrics *WorkerMetrics
	Logger  *slog.Logger
}

// Run executes one tally pass bounded by Timeout and records its outcome.
func (j *TallyJob) Run(ctx context.Context) error {
	start := time.Now()
	j.Logger.Info("tally started", slog.Int("sources", len(j.Sources)))

	ctx, cancel := context.WithTimeout(logging.WithLogger(ctx, j.Logger), j.Timeout)
	defer cancel()

	stats, err := j.Runner.TallyAll(ctx, j.Sources)
	j.Metrics.RecordJobDuration(time.Since(start).Seconds())
	if err != nil {
		attrs := []any{slog.String("error", logging.SanitizeError(err))}
		if stats != nil {
			attrs = append(attrs, slog.Int("counted", stats.Counted))
		}
		j.Logger.Error("tally failed", attrs...)
		j.Metrics.RecordJobRun("failure")
		return err
	}

	j.Metrics.RecordJobRun("success")
	j.Metrics.RecordSourcesProcessed(stats.Counted)
	j.Metrics.RecordLastSuccess()
	return nil
}
