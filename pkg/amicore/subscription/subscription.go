package subscription

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/panics"

	"github.com/randalmurphal/amicore/pkg/amicore/errors"
	"github.com/randalmurphal/amicore/pkg/amicore/event"
	"github.com/randalmurphal/amicore/pkg/amicore/taxonomy"
)

// Subscription is a live handler registration.
type Subscription struct {
	id       uint64
	name     string
	category taxonomy.Category
	handler  event.Handler
	filter   event.Filter
	retry    errors.RetryConfig
	mailbox  chan *event.Record
	reg      *Registry

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	stop   chan struct{}
	done   chan struct{}

	// handling is held from admission until the handler returns, so
	// shutdown can wait out an in-flight call.
	handling sync.Mutex

	paused    atomic.Bool
	delivered atomic.Uint64
	dropped   atomic.Uint64
	failed    atomic.Uint64
}

// Stats reports delivery counters for a subscription.
type Stats struct {
	Delivered uint64
	Dropped   uint64
	Failed    uint64
	Queued    int
}

// ID returns the registry-unique subscription id.
func (s *Subscription) ID() uint64 { return s.id }

// Name returns the subscription label.
func (s *Subscription) Name() string { return s.name }

// Category returns the subscribed category.
func (s *Subscription) Category() taxonomy.Category { return s.category }

// Unsubscribe removes the subscription from its registry.
func (s *Subscription) Unsubscribe() { s.reg.Unsubscribe(s) }

// Done is closed when the subscription's goroutine has exited.
// Waiting on it from inside the handler deadlocks.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Active reports whether the subscription still admits records.
func (s *Subscription) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Pause temporarily stops delivery. Records offered while paused are
// skipped, not queued.
func (s *Subscription) Pause() { s.paused.Store(true) }

// Resume continues delivery after pause.
func (s *Subscription) Resume() { s.paused.Store(false) }

// IsPaused returns true if the subscription is paused.
func (s *Subscription) IsPaused() bool { return s.paused.Load() }

// Stats returns a snapshot of the delivery counters.
func (s *Subscription) Stats() Stats {
	return Stats{
		Delivered: s.delivered.Load(),
		Dropped:   s.dropped.Load(),
		Failed:    s.failed.Load(),
		Queued:    len(s.mailbox),
	}
}

// shutdown marks the subscription closed and stops its goroutine.
// It reports false when the subscription was already closed.
func (s *Subscription) shutdown() bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	close(s.stop)
	// Wait out the in-flight call.
	s.handling.Lock()
	s.handling.Unlock()
	return true
}

// admit reports whether a dequeued record may be handed to the handler.
func (s *Subscription) admit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

func (s *Subscription) offer(rec *event.Record) bool {
	if s.paused.Load() || !s.Active() {
		return false
	}
	if s.filter != nil && !s.filter.Match(rec) {
		return false
	}

	select {
	case s.mailbox <- rec:
		return true
	default:
		s.dropped.Add(1)
		if s.reg.cfg.OnDrop != nil {
			s.reg.cfg.OnDrop(rec, s)
		}
		return false
	}
}

func (s *Subscription) run() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case rec := <-s.mailbox:
			if s.paused.Load() {
				continue
			}
			if !s.deliver(rec) {
				return
			}
		}
	}
}

// deliver hands rec to the handler. It reports false when the
// subscription closed before rec was admitted.
func (s *Subscription) deliver(rec *event.Record) bool {
	s.handling.Lock()
	if !s.admit() {
		s.handling.Unlock()
		return false
	}
	result := errors.Retry(s.ctx, s.retry, func(ctx context.Context) error {
		return s.invoke(ctx, rec)
	})
	s.handling.Unlock()

	switch {
	case result.Err == nil:
		s.delivered.Add(1)
	case stderrors.Is(result.Err, ErrUnsubscribe):
		s.delivered.Add(1)
		s.reg.Unsubscribe(s)
	case s.ctx.Err() != nil && (result.Attempts == 0 || stderrors.Is(result.Err, context.Canceled)):
		// Unsubscribe cancelled the context; not a handler failure.
	default:
		s.failed.Add(1)
		if s.reg.cfg.OnError != nil {
			s.reg.cfg.OnError(rec, s, result.Err)
		}
	}
	return true
}

// invoke calls the handler, turning a panic into a permanent error.
func (s *Subscription) invoke(ctx context.Context, rec *event.Record) error {
	var (
		pc  panics.Catcher
		err error
	)
	pc.Try(func() {
		err = s.handler.Handle(ctx, rec)
	})
	if r := pc.Recovered(); r != nil {
		return errors.Permanent(&errors.PanicError{Value: r.Value, Stack: r.Stack}, "")
	}
	return err
}
