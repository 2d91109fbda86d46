package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records unformat metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordMatch records one match attempt with its duration and error status.
	RecordMatch(ctx context.Context, discipline string, duration time.Duration, err error)

	// RecordBatch records a completed batch operation over size candidates.
	RecordBatch(ctx context.Context, op string, size int, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	matchAttempts metric.Int64Counter
	matchFailures metric.Int64Counter
	matchLatency  metric.Float64Histogram
	batchRuns     metric.Int64Counter
	batchSize     metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("unformat")

	matchAttempts, err := meter.Int64Counter("unformat.match.attempts",
		metric.WithDescription("Number of match attempts"),
	)
	if err != nil {
		return nil, err
	}

	matchFailures, err := meter.Int64Counter("unformat.match.failures",
		metric.WithDescription("Number of candidates that did not match"),
	)
	if err != nil {
		return nil, err
	}

	matchLatency, err := meter.Float64Histogram("unformat.match.latency_ms",
		metric.WithDescription("Match latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	batchRuns, err := meter.Int64Counter("unformat.batch.runs",
		metric.WithDescription("Number of batch operations"),
	)
	if err != nil {
		return nil, err
	}

	batchSize, err := meter.Int64Histogram("unformat.batch.size",
		metric.WithDescription("Candidates per batch operation"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		matchAttempts: matchAttempts,
		matchFailures: matchFailures,
		matchLatency:  matchLatency,
		batchRuns:     batchRuns,
		batchSize:     batchSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordMatch records a match attempt.
func (m *otelMetrics) RecordMatch(ctx context.Context, discipline string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("discipline", discipline))

	m.matchAttempts.Add(ctx, 1, attrs)
	m.matchLatency.Record(ctx, millis(duration), attrs)

	if err != nil {
		m.matchFailures.Add(ctx, 1, attrs)
	}
}

// RecordBatch records a batch operation.
func (m *otelMetrics) RecordBatch(ctx context.Context, op string, size int, _ time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.Bool("success", err == nil),
	)
	m.batchRuns.Add(ctx, 1, attrs)
	m.batchSize.Record(ctx, int64(size), attrs)
}
