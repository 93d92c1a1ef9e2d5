package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

func (NoopMetrics) RecordIngest(context.Context, string, string) {}
func (NoopMetrics) RecordCorrelation(context.Context, string, time.Duration, int) {}
func (NoopMetrics) RecordLateEntry(context.Context, string) {}
func (NoopMetrics) RecordDrop(context.Context, string, string) {}
func (NoopMetrics) RecordDeliveryError(context.Context, string, string) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartCorrelationSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartCorrelationSpan(ctx context.Context, _ string, _ []string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndCorrelationSpan does nothing.
func (NoopSpanManager) EndCorrelationSpan(trace.Span, string, int, error) {}

// MarkUnknownEvent does nothing.
func (NoopSpanManager) MarkUnknownEvent(context.Context, string, string) {}
