package charfreq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Task and path labels used in errors, logs and metrics.
const (
	taskCount = "count"
	taskMerge = "merge"

	pathSequential = "sequential"
	pathParallel   = "parallel"
)

// tracerName is the instrumentation name used when no tracer is injected.
const tracerName = "charfreq"

// rangeCounter counts one range. Tests replace it to inject failures.
type rangeCounter func(ctx context.Context, text Text, r Range, mode CaseMode) (Frequencies, error)

// Counter computes character frequencies, splitting large texts across
// goroutines.
//
// A Counter is safe for concurrent use. Its configuration is fixed at
// construction.
type Counter struct {
	threads int
	mode    CaseMode
	metrics Metrics
	logger  *slog.Logger
	tracer  trace.Tracer

	countRange rangeCounter
}

// Option configures a Counter.
type Option func(*Counter)

// WithThreads sets the default number of counting goroutines used by Count.
// Values below 1 select DefaultThreads().
func WithThreads(n int) Option {
	return func(c *Counter) {
		if n < 1 {
			n = DefaultThreads()
		}
		c.threads = n
	}
}

// WithCaseMode sets the case mode used by Count.
func WithCaseMode(mode CaseMode) Option {
	return func(c *Counter) {
		c.mode = mode
	}
}

// WithMetrics sets the metrics recorder. A nil value disables metrics.
func WithMetrics(m Metrics) Option {
	return func(c *Counter) {
		if m == nil {
			m = NewNoOpMetrics()
		}
		c.metrics = m
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Counter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Counter) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// NewCounter creates a Counter.
//
// Defaults: DefaultThreads() goroutines, DefaultCaseMode, no metrics,
// slog.Default() and the global OpenTelemetry tracer provider.
func NewCounter(opts ...Option) *Counter {
	c := &Counter{
		threads:    DefaultThreads(),
		mode:       DefaultCaseMode,
		metrics:    NewNoOpMetrics(),
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
		countRange: countRange,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Threads returns the default number of counting goroutines.
func (c *Counter) Threads() int {
	return c.threads
}

// CaseMode returns the default case mode.
func (c *Counter) CaseMode() CaseMode {
	return c.mode
}

// Count counts the characters of s with the counter's threads and case mode.
func (c *Counter) Count(ctx context.Context, s string) (Frequencies, error) {
	return c.CountText(ctx, NewText(s), c.threads, c.mode)
}

// Sequential counts text in a single pass on the calling goroutine.
func (c *Counter) Sequential(ctx context.Context, text Text, mode CaseMode) (Frequencies, error) {
	return c.CountText(ctx, text, 1, mode)
}

// CountText counts text using up to threads goroutines under mode.
//
// With threads <= 1, or when the text is too short to split, the text is
// counted in one pass on the calling goroutine. Otherwise the text is split
// by Plan, each range is counted on its own goroutine, and partial results
// are merged pairwise as they complete. Both paths return the same mapping.
//
// An empty text returns an empty mapping without starting any goroutine.
// The first failing task cancels the others; its error is returned and no
// partial mapping is produced. Cancelling ctx stops the counting goroutines
// and returns the context error.
func (c *Counter) CountText(ctx context.Context, text Text, threads int, mode CaseMode) (Frequencies, error) {
	start := time.Now()

	var ranges []Range
	if threads > 1 {
		ranges = Plan(text.Len(), threads)
	}
	path := pathParallel
	if len(ranges) <= 1 {
		path = pathSequential
	}

	ctx, span := c.tracer.Start(ctx, "charfreq.Count",
		trace.WithAttributes(
			attribute.Int("charfreq.length", text.Len()),
			attribute.Int("charfreq.threads", threads),
			attribute.Int("charfreq.ranges", len(ranges)),
			attribute.String("charfreq.case_mode", mode.String()),
			attribute.String("charfreq.path", path),
		),
	)
	defer span.End()

	var (
		freqs Frequencies
		err   error
	)
	switch {
	case !mode.Valid():
		err = fmt.Errorf("%w: %d", ErrInvalidCaseMode, int(mode))
	case path == pathSequential:
		freqs, err = c.countRange(ctx, text, Range{From: 0, To: text.Len() - 1}, mode)
	default:
		freqs, err = c.parallel(ctx, text, ranges, mode)
	}

	duration := time.Since(start)
	status := ErrorKind(err)
	c.metrics.RecordOperation(path, mode, status, duration)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.DebugContext(ctx, "character count failed",
			slog.String("path", path),
			slog.String("case_mode", mode.String()),
			slog.Int("length", text.Len()),
			slog.Int("ranges", len(ranges)),
			slog.String("status", status),
			slog.Any("error", err))
		return nil, err
	}

	c.metrics.RecordCharacters(mode, text.Len())
	span.SetAttributes(attribute.Int("charfreq.distinct", len(freqs)))
	c.logger.DebugContext(ctx, "character count completed",
		slog.String("path", path),
		slog.String("case_mode", mode.String()),
		slog.Int("length", text.Len()),
		slog.Int("ranges", len(ranges)),
		slog.Int("distinct", len(freqs)),
		slog.Duration("duration", duration))
	return freqs, nil
}

// parallel counts each range on its own goroutine and reduces the partial
// results through a single completion channel.
//
// The collector holds at most one unpaired partial. When a second one
// arrives both are handed to a merge goroutine whose result comes back on
// the same channel. pending is the number of results still expected: it
// drops by one per receive and grows by one per spawned merge. The
// operation ends when a result arrives with nothing held and nothing
// pending. len(ranges) counts plus len(ranges)-1 merges never exceed the
// channel capacity, so no sender blocks.
func (c *Counter) parallel(ctx context.Context, text Text, ranges []Range, mode CaseMode) (Frequencies, error) {
	g, gctx := errgroup.WithContext(ctx)
	results := make(chan Frequencies, 2*len(ranges))

	for _, r := range ranges {
		c.spawn(g, results, taskCount, r, func() (Frequencies, error) {
			return c.countRange(gctx, text, r, mode)
		})
	}

	var (
		held    Frequencies
		result  Frequencies
		done    bool
		pending = len(ranges)
	)
collect:
	for {
		select {
		case freqs := <-results:
			pending--
			if held == nil {
				if pending == 0 {
					result, done = freqs, true
					break collect
				}
				held = freqs
				continue
			}
			a, b := held, freqs
			held = nil
			pending++
			c.spawn(g, results, taskMerge, Range{}, func() (Frequencies, error) {
				return mergeInto(a, b), nil
			})
		case <-gctx.Done():
			break collect
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !done {
		return nil, fmt.Errorf("collect partial counts: %w", ctx.Err())
	}
	return result, nil
}

// spawn runs fn on g and sends its result to results. A panic in fn is
// reported as *TaskFailureError.
func (c *Counter) spawn(g *errgroup.Group, results chan<- Frequencies, task string, r Range, fn func() (Frequencies, error)) {
	c.metrics.RecordTask(task)
	g.Go(func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				c.metrics.RecordTaskFailure(task)
				err = &TaskFailureError{Task: task, Range: r, Cause: fmt.Errorf("panic: %v", p)}
			}
		}()

		freqs, err := fn()
		if err != nil {
			return err
		}
		results <- freqs
		return nil
	})
}
