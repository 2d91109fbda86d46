// Package observability provides structured logging, metrics, and tracing
// around compiled unformat patterns.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// The unformat core performs no I/O. Everything here is opt-in and has
// no-op implementations when disabled; see Instrumented for the wrapper that
// ties them together.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds pattern context to a logger.
// Returns a new logger with run_id and pattern fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "run-123", "{month}_{day}")
//	enriched.Info("extracting") // includes run_id, pattern
func EnrichLogger(logger *slog.Logger, runID, template string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("run_id", runID),
		slog.String("pattern", template),
	)
}

// LogCompile logs a successful pattern compilation.
func LogCompile(logger *slog.Logger, template, discipline string, placeholders int) {
	if logger == nil {
		return
	}
	logger.Debug("pattern compiled",
		slog.String("pattern", template),
		slog.String("discipline", discipline),
		slog.Int("placeholders", placeholders),
	)
}

// LogCompileError logs a template that failed to compile.
func LogCompileError(logger *slog.Logger, template string, err error) {
	if logger == nil {
		return
	}
	logger.Error("pattern compile failed",
		slog.String("pattern", template),
		slog.String("error", err.Error()),
	)
}

// LogMatchFailure logs a candidate that did not match. index is the
// candidate's position in its batch, or -1 for single matches.
func LogMatchFailure(logger *slog.Logger, template string, index int, err error) {
	if logger == nil {
		return
	}
	logger.Debug("candidate did not match",
		slog.String("pattern", template),
		slog.Int("index", index),
		slog.String("error", err.Error()),
	)
}

// LogBatch logs a completed batch operation.
func LogBatch(logger *slog.Logger, op, template string, size int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("batch completed",
		slog.String("operation", op),
		slog.String("pattern", template),
		slog.Int("size", size),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogBatchError logs a failed batch operation.
func LogBatchError(logger *slog.Logger, op, template string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("batch failed",
		slog.String("operation", op),
		slog.String("pattern", template),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStoreError logs a store failure (non-fatal).
func LogStoreError(logger *slog.Logger, runID, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("store operation failed",
		slog.String("run_id", runID),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return millis(time.Since(start))
	}
}

// millis converts d to fractional milliseconds. Matches routinely finish in
// well under a millisecond.
func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
