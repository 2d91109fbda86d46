package observability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/unformat/pkg/unformat"
)

// Batch operation names used for spans, metrics and logs.
const (
	OpUnformatAll    = "unformat_all"
	OpUnformatToDict = "unformat_to_dict"
	OpUnformatEach   = "unformat_each"
)

// Instrumented wraps a compiled pattern with context-aware matching and
// opt-in logging, metrics, and tracing. The wrapped pattern is never
// modified; an Instrumented is safe for concurrent use when its logger,
// recorder and span manager are.
type Instrumented struct {
	pattern unformat.Unformatter
	logger  *slog.Logger
	metrics MetricsRecorder
	spans   SpanManager
}

// Option configures an Instrumented.
type Option func(*Instrumented)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Instrumented) {
		i.logger = logger
	}
}

// WithMetrics enables OTel metrics via NewMetricsRecorder.
func WithMetrics(enabled bool) Option {
	return func(i *Instrumented) {
		if enabled {
			i.metrics = NewMetricsRecorder()
		} else {
			i.metrics = NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom recorder. nil restores the no-op.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(i *Instrumented) {
		if m == nil {
			m = NoopMetrics{}
		}
		i.metrics = m
	}
}

// WithTracing enables OTel spans for batch operations via NewSpanManager.
func WithTracing(enabled bool) Option {
	return func(i *Instrumented) {
		if enabled {
			i.spans = NewSpanManager()
		} else {
			i.spans = NoopSpanManager{}
		}
	}
}

// Instrument wraps p. With no options it behaves like p plus context
// cancellation between candidates.
func Instrument(p unformat.Unformatter, opts ...Option) *Instrumented {
	i := &Instrumented{
		pattern: p,
		metrics: NoopMetrics{},
		spans:   NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Pattern returns the wrapped pattern.
func (i *Instrumented) Pattern() unformat.Unformatter {
	return i.pattern
}

// Unformat matches one candidate. It returns ctx.Err() without matching if
// ctx is already done.
func (i *Instrumented) Unformat(ctx context.Context, s string) (unformat.Values, error) {
	if err := ctx.Err(); err != nil {
		return unformat.Values{}, err
	}
	return i.unformat(ctx, -1, s)
}

// Matches reports whether s matches. A done context never matches.
// Misses are counted in metrics but not logged.
func (i *Instrumented) Matches(ctx context.Context, s string) bool {
	if ctx.Err() != nil {
		return false
	}
	_, err := i.match(ctx, s)
	return err == nil
}

// UnformatAll is the context-aware form of Unformatter.UnformatAll.
// Cancellation is checked before each candidate.
func (i *Instrumented) UnformatAll(ctx context.Context, candidates []string) (index unformat.NameIndex, rows [][]string, err error) {
	ctx, finish := i.startBatch(ctx, OpUnformatAll, len(candidates))
	defer func() { finish(err) }()

	rows, err = i.collect(ctx, candidates)
	if err != nil {
		return nil, nil, err
	}
	return i.pattern.Index(), rows, nil
}

// UnformatToDict is the context-aware form of Unformatter.UnformatToDict.
// When identifiers repeat, the last placeholder carrying a label owns its
// column.
func (i *Instrumented) UnformatToDict(ctx context.Context, candidates []string) (index unformat.NameIndex, cols map[string][]string, err error) {
	ctx, finish := i.startBatch(ctx, OpUnformatToDict, len(candidates))
	defer func() { finish(err) }()

	rows, err := i.collect(ctx, candidates)
	if err != nil {
		return nil, nil, err
	}
	return i.pattern.Index(), pivot(i.pattern.Identifiers(), rows), nil
}

// UnformatEach matches every candidate independently. Once ctx is done the
// remaining outcomes carry ctx.Err().
func (i *Instrumented) UnformatEach(ctx context.Context, candidates []string) []unformat.Outcome {
	ctx, finish := i.startBatch(ctx, OpUnformatEach, len(candidates))

	out := make([]unformat.Outcome, len(candidates))
	failed := 0
	for n, s := range candidates {
		if err := ctx.Err(); err != nil {
			for m := n; m < len(candidates); m++ {
				out[m].Err = err
			}
			failed += len(candidates) - n
			break
		}
		v, err := i.unformat(ctx, n, s)
		out[n] = unformat.Outcome{Values: v, Err: err}
		if err != nil {
			failed++
		}
	}

	i.spans.AddSpanEvent(ctx, "unformat.batch.outcomes",
		attribute.Int("matched", len(candidates)-failed),
		attribute.Int("failed", failed),
	)
	finish(nil)
	return out
}

// unformat matches one candidate and records it. n is the batch position or
// -1.
func (i *Instrumented) unformat(ctx context.Context, n int, s string) (unformat.Values, error) {
	v, err := i.match(ctx, s)
	if err != nil {
		LogMatchFailure(i.logger, i.pattern.Template(), n, err)
	}
	return v, err
}

// match matches one candidate and records metrics only.
func (i *Instrumented) match(ctx context.Context, s string) (unformat.Values, error) {
	start := time.Now()
	v, err := i.pattern.Unformat(s)
	i.metrics.RecordMatch(ctx, i.pattern.Discipline().String(), time.Since(start), err)
	return v, err
}

// collect matches every candidate, failing fast with a *unformat.BatchError.
func (i *Instrumented) collect(ctx context.Context, candidates []string) ([][]string, error) {
	rows := make([][]string, 0, len(candidates))
	for n, s := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("unformat: batch stopped before candidate %d: %w", n, err)
		}
		v, err := i.unformat(ctx, n, s)
		if err != nil {
			return nil, &unformat.BatchError{Index: n, Err: err}
		}
		rows = append(rows, v.Slice())
	}
	return rows, nil
}

// startBatch opens the span for a batch and returns a function that closes
// it and records metrics and logs.
func (i *Instrumented) startBatch(ctx context.Context, op string, size int) (context.Context, func(error)) {
	template := i.pattern.Template()
	done := TimedOperation()
	start := time.Now()
	ctx, span := i.spans.StartBatchSpan(ctx, op, template, size)

	return ctx, func(err error) {
		i.metrics.RecordBatch(ctx, op, size, time.Since(start), err)
		i.spans.EndSpanWithError(span, err)
		if err != nil {
			LogBatchError(i.logger, op, template, err, done())
			return
		}
		LogBatch(i.logger, op, template, size, done())
	}
}

// pivot turns rows into columns keyed by identifier.
func pivot(ids []string, rows [][]string) map[string][]string {
	owner := unformat.ColumnOwners(ids)
	cols := make(map[string][]string, len(owner))
	for id, n := range owner {
		col := make([]string, len(rows))
		for r, row := range rows {
			col[r] = row[n]
		}
		cols[id] = col
	}
	return cols
}
