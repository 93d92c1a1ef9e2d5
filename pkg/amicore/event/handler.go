package event

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/randalmurphal/amicore/pkg/amicore/errors"
)

// Handler receives fanned-out records. Handlers must not retain or modify
// the record beyond the call; Record is immutable, so sharing is safe.
type Handler interface {
	Handle(ctx context.Context, rec *Record) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, rec *Record) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, rec *Record) error {
	return f(ctx, rec)
}

// MiddlewareFunc wraps handlers to add cross-cutting concerns.
type MiddlewareFunc func(next Handler) Handler

// ChainMiddleware applies middleware in order, with first middleware outermost.
func ChainMiddleware(handler Handler, middleware ...MiddlewareFunc) Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		handler = middleware[i](handler)
	}
	return handler
}

// LoggingMiddleware logs each record handled at debug level and each
// failure at warn level.
func LoggingMiddleware(logger *slog.Logger) MiddlewareFunc {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, rec *Record) error {
			if logger == nil {
				return next.Handle(ctx, rec)
			}
			start := time.Now()
			err := next.Handle(ctx, rec)
			attrs := []any{
				slog.String("event", rec.Name()),
				slog.String("category", rec.Category().String()),
				slog.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Warn("handler failed", append(attrs, slog.String("error", err.Error()))...)
			} else {
				logger.Debug("handler completed", attrs...)
			}
			return err
		})
	}
}

// FilterMiddleware skips records that do not match f.
func FilterMiddleware(f Filter) MiddlewareFunc {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, rec *Record) error {
			if !f.Match(rec) {
				return nil
			}
			return next.Handle(ctx, rec)
		})
	}
}

// TimeoutMiddleware bounds each handler call with a context deadline. A
// failure after the deadline passed is reported as *errors.TimeoutError,
// which delivery retries treat as transient.
func TimeoutMiddleware(timeout time.Duration) MiddlewareFunc {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, rec *Record) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			err := next.Handle(ctx, rec)
			if err != nil && stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %w", &errors.TimeoutError{Event: rec.Name(), After: timeout}, err)
			}
			return err
		})
	}
}
