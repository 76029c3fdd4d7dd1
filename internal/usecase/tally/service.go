// Package tally counts the characters of configured sources and records the
// results as snapshots.
package tally

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"charfreq/internal/domain/entity"
	"charfreq/internal/observability/logging"
	"charfreq/internal/observability/metrics"
	"charfreq/internal/observability/tracing"
	"charfreq/internal/repository"
	"charfreq/internal/resilience/circuitbreaker"
	"charfreq/internal/resilience/retry"
	"charfreq/pkg/charfreq"
)

// TextLoader returns the text of a source.
type TextLoader interface {
	Load(ctx context.Context, src entity.Source) (string, error)
}

// Counter counts the characters of a text. *charfreq.Counter implements it.
type Counter interface {
	CountText(ctx context.Context, text charfreq.Text, threads int, mode charfreq.CaseMode) (charfreq.Frequencies, error)
}

// Service runs tallies.
//
// Threads and Mode are the defaults for sources that do not set their own.
// Threads 0 means the available parallelism. Repo may be nil, in which case
// snapshots are built but not stored.
type Service struct {
	Loader  TextLoader
	Counter Counter
	Repo    repository.SnapshotRepository
	Threads int
	Mode    charfreq.CaseMode

	now         func() time.Time
	saveRetry   retry.Config
	saveBreaker *circuitbreaker.CircuitBreaker
}

// NewService creates a tally Service.
func NewService(loader TextLoader, counter Counter, repo repository.SnapshotRepository, threads int, mode charfreq.CaseMode) *Service {
	return &Service{
		Loader:      loader,
		Counter:     counter,
		Repo:        repo,
		Threads:     threads,
		Mode:        mode,
		now:         time.Now,
		saveRetry:   retry.DBConfig(),
		saveBreaker: circuitbreaker.New(circuitbreaker.DBConfig()),
	}
}

// TallyStats summarizes one TallyAll run.
type TallyStats struct {
	Sources    int
	Counted    int
	Skipped    int
	Stored     int
	Characters int64
	Duration   time.Duration
}

// TallySource loads, counts and stores one source under a new operation ID.
//
// Errors wrap ErrLoadFailed, ErrCountFailed or ErrStoreFailed according to
// the step that failed.
func (s *Service) TallySource(ctx context.Context, src entity.Source) (snap *entity.Snapshot, err error) {
	ctx, opID := logging.NewOperationContext(ctx)
	logger := logging.WithOperationID(ctx, logging.FromContext(ctx)).With(
		slog.String("source", src.Name),
		slog.String("kind", string(src.Kind)))
	ctx = logging.WithLogger(ctx, logger)

	threads := src.ThreadCount(s.Threads)
	if threads <= 0 {
		threads = charfreq.DefaultThreads()
	}
	mode := src.Mode(s.Mode)

	ctx, span := tracing.StartSpan(ctx, "tally.source",
		attribute.String("tally.source", src.Name),
		attribute.String("tally.kind", string(src.Kind)),
		attribute.String("tally.operation_id", opID),
		attribute.Int("charfreq.threads", threads),
		attribute.String("charfreq.case_mode", mode.String()))
	defer func() { tracing.EndSpan(span, err) }()

	start := time.Now()

	raw, err := s.Loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	text := charfreq.NewText(raw)
	freqs, err := s.Counter.CountText(ctx, text, threads, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: source %q: %w", ErrCountFailed, src.Name, err)
	}

	snap = entity.NewSnapshot(opID, src.Name, mode, threads, freqs, s.now().UTC())
	span.SetAttributes(
		attribute.Int("charfreq.length", snap.Length),
		attribute.Int("charfreq.distinct", snap.Distinct))

	if s.Repo != nil {
		if err := s.store(ctx, snap); err != nil {
			return nil, fmt.Errorf("%w: source %q: %w", ErrStoreFailed, src.Name, err)
		}
		metrics.RecordSnapshotStored()
	}

	logger.Info("source tallied",
		slog.Int("length", snap.Length),
		slog.Int("distinct", snap.Distinct),
		slog.Int("threads", threads),
		slog.String("case_mode", snap.CaseMode),
		slog.Bool("stored", s.Repo != nil),
		slog.Duration("duration", time.Since(start)))
	return snap, nil
}

func (s *Service) store(ctx context.Context, snap *entity.Snapshot) error {
	return retry.WithBackoff(ctx, s.saveRetry, func() error {
		return s.saveBreaker.Run(func() error {
			return s.Repo.Save(ctx, snap)
		})
	})
}

// TallyAll tallies srcs in order.
//
// Sources that fail to load are logged and skipped. A counting or storage
// failure, or the end of ctx, aborts the run; the stats gathered so far are
// returned with the error.
func (s *Service) TallyAll(ctx context.Context, srcs []entity.Source) (stats *TallyStats, err error) {
	logger := logging.FromContext(ctx)
	startAll := time.Now()
	stats = &TallyStats{Sources: len(srcs)}

	ctx, span := tracing.StartSpan(ctx, "tally.run", attribute.Int("tally.sources", len(srcs)))
	defer func() {
		stats.Duration = time.Since(startAll)
		metrics.RecordTallyRun(err == nil, stats.Duration)
		tracing.EndSpan(span, err)
	}()

	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("tally aborted: %w", err)
		}

		snap, err := s.TallySource(ctx, src)
		switch {
		case err == nil:
			stats.Counted++
			stats.Characters += int64(snap.Length)
			if s.Repo != nil {
				stats.Stored++
			}
			metrics.RecordTallySource(metrics.ResultCounted)
		case errors.Is(err, ErrLoadFailed) && ctx.Err() == nil:
			stats.Skipped++
			metrics.RecordTallySource(metrics.ResultSkipped)
			logger.Warn("source skipped",
				slog.String("source", src.Name),
				slog.String("error", logging.SanitizeError(err)))
		default:
			metrics.RecordTallySource(metrics.ResultFailed)
			return stats, err
		}
	}

	logger.Info("tally completed",
		slog.Int("sources", stats.Sources),
		slog.Int("counted", stats.Counted),
		slog.Int("skipped", stats.Skipped),
		slog.Int("stored", stats.Stored),
		slog.Int64("characters", stats.Characters),
		slog.Duration("duration", time.Since(startAll)))
	return stats, nil
}
