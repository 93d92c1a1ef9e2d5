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

// MetricsRecorder records dispatcher metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordIngest records one ingested record and the route it took.
	RecordIngest(ctx context.Context, route, category string)

	// RecordCorrelation records a finalized correlation.
	RecordCorrelation(ctx context.Context, status string, duration time.Duration, entries int)

	// RecordLateEntry records a list record for an already finished correlation.
	RecordLateEntry(ctx context.Context, category string)

	// RecordDrop records a record dropped at a full subscriber mailbox.
	RecordDrop(ctx context.Context, subscriber, category string)

	// RecordDeliveryError records a handler failure after retries.
	RecordDeliveryError(ctx context.Context, subscriber, category string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	ingested           metric.Int64Counter
	correlations       metric.Int64Counter
	correlationLatency metric.Float64Histogram
	correlationEntries metric.Int64Histogram
	lateEntries        metric.Int64Counter
	dropped            metric.Int64Counter
	deliveryErrors     metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the default OTel metrics instance.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("amicore")

	ingested, err := meter.Int64Counter("amicore.records.ingested",
		metric.WithDescription("Number of records ingested, by route"),
	)
	if err != nil {
		return nil, err
	}

	correlations, err := meter.Int64Counter("amicore.correlations",
		metric.WithDescription("Number of finalized correlations, by status"),
	)
	if err != nil {
		return nil, err
	}

	correlationLatency, err := meter.Float64Histogram("amicore.correlation.latency_ms",
		metric.WithDescription("Time from issue to finalization in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	correlationEntries, err := meter.Int64Histogram("amicore.correlation.entries",
		metric.WithDescription("List entries collected per correlation"),
	)
	if err != nil {
		return nil, err
	}

	lateEntries, err := meter.Int64Counter("amicore.late_entries",
		metric.WithDescription("List records arriving after their correlation finished"),
	)
	if err != nil {
		return nil, err
	}

	dropped, err := meter.Int64Counter("amicore.delivery.dropped",
		metric.WithDescription("Records dropped at full subscriber mailboxes"),
	)
	if err != nil {
		return nil, err
	}

	deliveryErrors, err := meter.Int64Counter("amicore.delivery.errors",
		metric.WithDescription("Subscriber handler failures after retries"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		ingested:           ingested,
		correlations:       correlations,
		correlationLatency: correlationLatency,
		correlationEntries: correlationEntries,
		lateEntries:        lateEntries,
		dropped:            dropped,
		deliveryErrors:     deliveryErrors,
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

func (m *otelMetrics) RecordIngest(ctx context.Context, route, category string) {
	m.ingested.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("category", category),
	))
}

func (m *otelMetrics) RecordCorrelation(ctx context.Context, status string, duration time.Duration, entries int) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.correlations.Add(ctx, 1, attrs)
	m.correlationLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	m.correlationEntries.Record(ctx, int64(entries), attrs)
}

func (m *otelMetrics) RecordLateEntry(ctx context.Context, category string) {
	m.lateEntries.Add(ctx, 1, metric.WithAttributes(attribute.String("category", category)))
}

func (m *otelMetrics) RecordDrop(ctx context.Context, subscriber, category string) {
	m.dropped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("subscriber", subscriber),
		attribute.String("category", category),
	))
}

func (m *otelMetrics) RecordDeliveryError(ctx context.Context, subscriber, category string) {
	m.deliveryErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("subscriber", subscriber),
		attribute.String("category", category),
	))
}
