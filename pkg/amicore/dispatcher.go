package amicore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/randalmurphal/amicore/pkg/amicore/correlate"
	"github.com/randalmurphal/amicore/pkg/amicore/deadletter"
	"github.com/randalmurphal/amicore/pkg/amicore/event"
	"github.com/randalmurphal/amicore/pkg/amicore/observability"
	"github.com/randalmurphal/amicore/pkg/amicore/subscription"
	"github.com/randalmurphal/amicore/pkg/amicore/taxonomy"
)

// Unknown-event warnings are limited to this rate, with a small burst.
const (
	unknownWarnEvery = time.Second
	unknownWarnBurst = 5
)

// Dispatcher routes the records of one AMI connection.
//
// Ingest is serialized: records are processed one at a time in the order
// they are ingested, and every subscriber sees its records in that order.
// All methods are safe for concurrent use.
type Dispatcher struct {
	taxonomy *taxonomy.Registry
	settings Settings
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	tracing  bool
	dlq      deadletter.Queue

	tracker *correlate.Tracker
	subs    *subscription.Registry

	unknownWarn *rate.Limiter

	ingestMu sync.Mutex
	closed   atomic.Bool
}

// New creates a Dispatcher.
func New(opts ...Option) (*Dispatcher, error) {
	cfg := defaultDispatcherConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.settings.Validate(); err != nil {
		return nil, err
	}

	d := &Dispatcher{
		taxonomy:    cfg.taxonomy,
		settings:    cfg.settings,
		logger:      cfg.logger,
		metrics:     observability.NoopMetrics{},
		spans:       observability.NoopSpanManager{},
		tracing:     cfg.tracing,
		dlq:         cfg.deadLetter,
		unknownWarn: rate.NewLimiter(rate.Every(unknownWarnEvery), unknownWarnBurst),
	}
	if cfg.metrics {
		d.metrics = observability.NewMetricsRecorder()
	}
	if cfg.tracing {
		d.spans = observability.NewSpanManager()
	}
	if d.dlq == nil {
		d.dlq = deadletter.NewMemoryQueue(deadletter.DefaultMemoryConfig)
	}

	d.tracker = correlate.NewTracker(correlate.Config{
		LateEntryMemory: cfg.settings.LateEntryMemory,
		OnFinalize:      d.onFinalize,
		OnLateEntry:     d.onLateEntry,
	})

	subCfg := cfg.subscriptions
	if subCfg.BufferSize <= 0 {
		subCfg.BufferSize = cfg.settings.SubscriberBuffer
	}
	userDrop, userError := subCfg.OnDrop, subCfg.OnError
	subCfg.OnDrop = func(rec *event.Record, sub *subscription.Subscription) {
		d.onDrop(rec, sub)
		if userDrop != nil {
			userDrop(rec, sub)
		}
	}
	subCfg.OnError = func(rec *event.Record, sub *subscription.Subscription, err error) {
		d.onHandlerError(rec, sub, err)
		if userError != nil {
			userError(rec, sub, err)
		}
	}
	d.subs = subscription.NewRegistry(subCfg)

	return d, nil
}

// Taxonomy returns the event catalogue in use.
func (d *Dispatcher) Taxonomy() *taxonomy.Registry { return d.taxonomy }

// Settings returns the dispatcher settings.
func (d *Dispatcher) Settings() Settings { return d.settings }

// DeadLetters returns the dead letter queue.
func (d *Dispatcher) DeadLetters() deadletter.Queue { return d.dlq }

// Ingest routes one record.
//
// A record carrying the token of an open correlation, and being one of its
// entries or its terminator, is consumed by that correlation. Everything
// else is fanned out to the subscribers of the record's category and to
// wildcard subscribers; fan-out never waits on a subscriber.
//
// Unknown events follow the configured policy. Tolerated ones are fanned
// out under taxonomy.CategoryUnknown. Rejected ones are parked and the
// returned error wraps ErrUnknownEvent; the dispatcher stays usable.
func (d *Dispatcher) Ingest(ctx context.Context, rec *event.Record) (Route, error) {
	if rec == nil {
		return RouteRejected, ErrNilRecord
	}
	if d.closed.Load() {
		return RouteRejected, ErrClosed
	}

	d.ingestMu.Lock()
	defer d.ingestMu.Unlock()

	if !rec.Kind().Known() {
		return d.ingestUnknown(ctx, rec)
	}

	if d.tracker.Feed(rec) == correlate.Consumed {
		d.metrics.RecordIngest(ctx, RouteCorrelated.String(), rec.Category().String())
		return RouteCorrelated, nil
	}

	d.subs.Publish(rec)
	d.metrics.RecordIngest(ctx, RouteFanout.String(), rec.Category().String())
	return RouteFanout, nil
}

// IngestFields classifies a raw header block and ingests it.
func (d *Dispatcher) IngestFields(ctx context.Context, fields event.Fields) (Route, error) {
	rec, err := event.Parse(d.taxonomy, fields)
	if rec == nil {
		return RouteRejected, err
	}
	return d.Ingest(ctx, rec)
}

func (d *Dispatcher) ingestUnknown(ctx context.Context, rec *event.Record) (Route, error) {
	hint, hinted := taxonomy.CategoryFromPrivilege(rec.Value(event.FieldPrivilege))
	policy := d.settings.DefaultUnknownPolicy
	if hinted {
		policy = d.settings.PolicyFor(hint)
	}

	d.spans.MarkUnknownEvent(ctx, rec.Name(), policy.String())
	if d.unknownWarn.Allow() {
		observability.LogUnknownEvent(d.logger, rec.Name(), hint.String(), policy.String())
	}

	if policy == PolicyReject {
		err := &taxonomy.UnknownEventError{Name: rec.Name()}
		d.park(ctx, deadletter.NewLetter(rec, deadletter.ReasonUnknownRejected, "", err))
		d.metrics.RecordIngest(ctx, RouteRejected.String(), hint.String())
		return RouteRejected, err
	}

	d.subs.Publish(rec)
	d.metrics.RecordIngest(ctx, RouteFanout.String(), taxonomy.CategoryUnknown.String())
	return RouteFanout, nil
}

// IssueCorrelated opens a correlation and returns its handle. Send the
// action with the handle's Token as ActionID after this returns, so no
// response can arrive before the correlation exists.
//
// terminators names the event kinds that close the request; empty accepts
// any list terminator. Cancelling ctx cancels the correlation.
func (d *Dispatcher) IssueCorrelated(ctx context.Context, terminators []string, opts ...IssueOption) (*correlate.Pending, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := issueConfig{timeout: d.settings.DefaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.token == "" {
		cfg.token = uuid.NewString()
	}

	corrCtx := ctx
	var span trace.Span
	if d.tracing {
		corrCtx, span = d.spans.StartCorrelationSpan(ctx, cfg.token, terminators)
	}

	// Close flushes under ingestMu after marking closed, so a correlation
	// opened here is either flushed by it or refused.
	d.ingestMu.Lock()
	if d.closed.Load() {
		d.ingestMu.Unlock()
		if span != nil {
			d.spans.EndCorrelationSpan(span, "not_opened", 0, ErrClosed)
		}
		return nil, ErrClosed
	}
	p, err := d.tracker.Open(corrCtx, cfg.token, terminators, cfg.timeout)
	d.ingestMu.Unlock()
	if err != nil {
		if span != nil {
			d.spans.EndCorrelationSpan(span, "not_opened", 0, err)
		}
		return nil, fmt.Errorf("issue correlated request: %w", err)
	}

	observability.LogCorrelationOpened(d.logger, cfg.token, terminators, cfg.timeout)
	return p, nil
}

// Cancel ends the correlation for token as Cancelled. Unknown or finished
// tokens are ignored.
func (d *Dispatcher) Cancel(token string) {
	d.tracker.Cancel(token)
}

// FlushAll ends every open correlation as Disconnected with reason and
// returns how many were open. Call it when the connection is lost.
func (d *Dispatcher) FlushAll(reason error) int {
	return d.tracker.FlushAll(reason)
}

// OpenCorrelations returns the number of open correlations.
func (d *Dispatcher) OpenCorrelations() int {
	return d.tracker.Len()
}

// Subscribe registers handler for records of category. Use
// taxonomy.CategoryAny for every fanned-out record and
// taxonomy.CategoryUnknown for tolerated unknown events.
func (d *Dispatcher) Subscribe(category taxonomy.Category, handler event.Handler, opts ...subscription.Option) (*subscription.Subscription, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	return d.subs.Subscribe(category, handler, opts...)
}

// Unsubscribe removes sub. Once it returns, sub starts no new deliveries.
func (d *Dispatcher) Unsubscribe(sub *subscription.Subscription) {
	d.subs.Unsubscribe(sub)
}

// Subscribers returns the number of live subscriptions.
func (d *Dispatcher) Subscribers() int {
	return d.subs.Len()
}

// Close flushes open correlations with ErrClosed and stops every
// subscription, waiting for their goroutines. Records still queued for
// subscribers are discarded. The dead letter queue is left open.
func (d *Dispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}

	d.ingestMu.Lock()
	d.tracker.FlushAll(ErrClosed)
	d.ingestMu.Unlock()

	return d.subs.Close()
}

func (d *Dispatcher) onFinalize(p *correlate.Pending, res *correlate.Result) {
	status := res.Status.String()
	d.metrics.RecordCorrelation(context.Background(), status, res.Duration(), len(res.Entries))
	observability.LogCorrelationFinalized(d.logger, res.Token, status, len(res.Entries),
		float64(res.Duration().Milliseconds()))

	if d.tracing {
		d.spans.EndCorrelationSpan(trace.SpanFromContext(p.Context()), status, len(res.Entries), res.Err())
	}
}

func (d *Dispatcher) onLateEntry(rec *event.Record, last correlate.Status) {
	d.metrics.RecordLateEntry(context.Background(), rec.Category().String())
	observability.LogLateEntry(d.logger, rec.Token(), rec.Name(), last.String())
}

func (d *Dispatcher) onDrop(rec *event.Record, sub *subscription.Subscription) {
	d.metrics.RecordDrop(context.Background(), sub.Name(), rec.Category().String())
	observability.LogDrop(d.logger, sub.Name(), rec.Name())
	d.park(context.Background(), deadletter.NewLetter(rec, deadletter.ReasonMailboxFull, sub.Name(), nil))
}

func (d *Dispatcher) onHandlerError(rec *event.Record, sub *subscription.Subscription, err error) {
	d.metrics.RecordDeliveryError(context.Background(), sub.Name(), rec.Category().String())
	observability.LogHandlerError(d.logger, sub.Name(), rec.Name(), err)
	d.park(context.Background(), deadletter.NewLetter(rec, deadletter.ReasonHandlerError, sub.Name(), err))
}

// park stores a letter. Failures are logged, never returned: losing a
// letter must not stop routing.
func (d *Dispatcher) park(ctx context.Context, l *deadletter.Letter) {
	if err := d.dlq.Park(ctx, l); err != nil {
		d.logger.Warn("dead letter park failed",
			slog.String("reason", string(l.Reason)),
			slog.String("event", l.Event),
			slog.String("error", err.Error()),
		)
	}
}
