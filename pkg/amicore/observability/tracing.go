package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("amicore")

// Span and attribute names.
const (
	spanCorrelation   = "amicore.correlation"
	eventUnknown      = "amicore.unknown_event"
	attrActionID      = "ami.action_id"
	attrTerminators   = "ami.terminators"
	attrStatus        = "ami.status"
	attrEntries       = "ami.entries"
	attrEvent         = "ami.event"
	attrUnknownPolicy = "ami.unknown_policy"
)

// SpanManager traces correlated requests.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartCorrelationSpan starts a span covering one correlated request,
	// from issue to finalization.
	StartCorrelationSpan(ctx context.Context, token string, terminators []string) (context.Context, trace.Span)

	// EndCorrelationSpan records the outcome on span and ends it. A nil err
	// marks the span Ok.
	EndCorrelationSpan(span trace.Span, status string, entries int, err error)

	// MarkUnknownEvent adds an event to the span in ctx, if any.
	MarkUnknownEvent(ctx context.Context, name, policy string)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager on the global tracer provider.
// Call otel.SetTracerProvider before creating the dispatcher.
func NewSpanManager() SpanManager {
	return otelSpanManager{}
}

func (otelSpanManager) StartCorrelationSpan(ctx context.Context, token string, terminators []string) (context.Context, trace.Span) {
	return tracer.Start(ctx, spanCorrelation,
		trace.WithAttributes(
			attribute.String(attrActionID, token),
			attribute.StringSlice(attrTerminators, terminators),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func (otelSpanManager) EndCorrelationSpan(span trace.Span, status string, entries int, err error) {
	if span == nil {
		return
	}
	span.SetAttributes(
		attribute.String(attrStatus, status),
		attribute.Int(attrEntries, entries),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func (otelSpanManager) MarkUnknownEvent(ctx context.Context, name, policy string) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(eventUnknown, trace.WithAttributes(
		attribute.String(attrEvent, name),
		attribute.String(attrUnknownPolicy, policy),
	))
}
