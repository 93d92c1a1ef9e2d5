// Package observability provides logging, metrics and tracing helpers for
// the dispatcher.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// EnrichLogger adds correlation context to a logger.
// Returns a new logger with a token field.
//
// Example:
//
//	enriched := EnrichLogger(logger, "7")
//	enriched.Info("entry received") // includes token
func EnrichLogger(logger *slog.Logger, token string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("token", token))
}

// LogCorrelationOpened logs a new correlated request.
func LogCorrelationOpened(logger *slog.Logger, token string, terminators []string, timeout time.Duration) {
	if logger == nil {
		return
	}
	logger.Debug("correlation opened",
		slog.String("token", token),
		slog.String("terminators", strings.Join(terminators, ",")),
		slog.Duration("timeout", timeout),
	)
}

// LogCorrelationFinalized logs the end of a correlation.
// Completed correlations log at debug, everything else at warn.
func LogCorrelationFinalized(logger *slog.Logger, token, status string, entries int, durationMs float64) {
	if logger == nil {
		return
	}
	level := slog.LevelWarn
	if status == "completed" {
		level = slog.LevelDebug
	}
	logger.Log(context.Background(), level, "correlation finalized",
		slog.String("token", token),
		slog.String("status", status),
		slog.Int("entries", entries),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogLateEntry logs a record that arrived after its correlation finished.
func LogLateEntry(logger *slog.Logger, token, eventName, status string) {
	if logger == nil {
		return
	}
	logger.Info("late entry for finished correlation",
		slog.String("token", token),
		slog.String("event", eventName),
		slog.String("finished_as", status),
	)
}

// LogUnknownEvent logs an event name missing from the taxonomy.
func LogUnknownEvent(logger *slog.Logger, eventName, category, policy string) {
	if logger == nil {
		return
	}
	logger.Warn("unknown event",
		slog.String("event", eventName),
		slog.String("category", category),
		slog.String("policy", policy),
	)
}

// LogDrop logs a record dropped because a subscriber's mailbox was full.
func LogDrop(logger *slog.Logger, subscriber, eventName string) {
	if logger == nil {
		return
	}
	logger.Warn("subscriber mailbox full, record dropped",
		slog.String("subscriber", subscriber),
		slog.String("event", eventName),
	)
}

// LogHandlerError logs a handler failure after retries.
func LogHandlerError(logger *slog.Logger, subscriber, eventName string, err error) {
	if logger == nil {
		return
	}
	logger.Error("subscriber handler failed",
		slog.String("subscriber", subscriber),
		slog.String("event", eventName),
		slog.String("error", err.Error()),
	)
}

// LogSourceError logs the failure that ended a record source.
func LogSourceError(logger *slog.Logger, err error, flushed int) {
	if logger == nil {
		return
	}
	logger.Error("record source failed",
		slog.String("error", err.Error()),
		slog.Int("flushed", flushed),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
