// Package subscription fans records out to long-lived category subscribers.
//
// Each subscription owns a bounded mailbox drained by its own goroutine, so
// a slow or failing handler never blocks publishing or other subscribers.
// Publish never waits: when a mailbox is full the record is dropped for that
// subscriber and reported through Config.OnDrop.
package subscription

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc"

	"github.com/randalmurphal/amicore/pkg/amicore/errors"
	"github.com/randalmurphal/amicore/pkg/amicore/event"
	"github.com/randalmurphal/amicore/pkg/amicore/taxonomy"
)

// Config configures a Registry.
type Config struct {
	// BufferSize is the mailbox size per subscription.
	// Default: 256
	BufferSize int

	// MaxSubscribers limits live subscriptions.
	// Default: 0 (unlimited)
	MaxSubscribers int

	// Retry is the default handler retry policy.
	// Default: errors.NoRetry
	Retry errors.RetryConfig

	// OnDrop is called when a record is dropped because a mailbox is full.
	// It runs on the publishing goroutine and must not block.
	OnDrop func(rec *event.Record, sub *Subscription)

	// OnError is called when a handler fails after retries, or panics.
	// It runs on the subscription's goroutine.
	OnError func(rec *event.Record, sub *Subscription, err error)
}

// DefaultConfig provides reasonable defaults.
var DefaultConfig = Config{
	BufferSize: 256,
	Retry:      errors.NoRetry,
}

// Registry maps categories to live subscriptions.
type Registry struct {
	cfg Config

	mu sync.RWMutex
	// byCategory slices are replaced, never mutated, so a published
	// snapshot stays valid after the lock is released.
	byCategory map[taxonomy.Category][]*Subscription
	count      int

	nextID atomic.Uint64
	closed atomic.Bool

	ctx     context.Context
	cancel  context.CancelFunc
	workers conc.WaitGroup
}

// NewRegistry creates a registry.
func NewRegistry(cfg Config) *Registry {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultConfig.BufferSize
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultConfig.Retry
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		cfg:        cfg,
		byCategory: make(map[taxonomy.Category][]*Subscription),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Subscribe registers handler for records of category. Use
// taxonomy.CategoryAny to receive every fanned-out record and
// taxonomy.CategoryUnknown for tolerated unclassified events.
func (r *Registry) Subscribe(category taxonomy.Category, handler event.Handler, opts ...Option) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}

	cfg := subscribeConfig{bufferSize: r.cfg.BufferSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.bufferSize <= 0 {
		cfg.bufferSize = r.cfg.BufferSize
	}
	retry := r.cfg.Retry
	if cfg.retry != nil {
		retry = *cfg.retry
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Load() {
		return nil, ErrClosed
	}
	if r.cfg.MaxSubscribers > 0 && r.count >= r.cfg.MaxSubscribers {
		return nil, ErrTooManySubscribers
	}

	id := r.nextID.Add(1)
	name := cfg.name
	if name == "" {
		name = fmt.Sprintf("sub-%d", id)
	}

	ctx, cancel := context.WithCancel(r.ctx)
	sub := &Subscription{
		id:       id,
		name:     name,
		category: category,
		handler:  handler,
		filter:   cfg.filter,
		retry:    retry,
		mailbox:  make(chan *event.Record, cfg.bufferSize),
		reg:      r,
		ctx:      ctx,
		cancel:   cancel,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	list := r.byCategory[category]
	r.byCategory[category] = append(slices.Clip(list), sub)
	r.count++

	r.workers.Go(sub.run)
	return sub, nil
}

// Unsubscribe removes sub. It is idempotent. It cancels the context of an
// in-flight handler call and waits for that call to return, so once it
// returns the handler is not running and receives nothing more. Other
// subscriptions are unaffected.
//
// Calling it from inside sub's own handler deadlocks; the handler returns
// ErrUnsubscribe instead.
func (r *Registry) Unsubscribe(sub *Subscription) {
	if sub == nil || sub.reg != r {
		return
	}
	if !sub.shutdown() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byCategory[sub.category]
	idx := slices.Index(list, sub)
	if idx < 0 {
		return
	}
	next := slices.Delete(slices.Clone(list), idx, idx+1)
	if len(next) == 0 {
		delete(r.byCategory, sub.category)
	} else {
		r.byCategory[sub.category] = next
	}
	r.count--
}

// Publish offers rec to every subscription of its category and to the
// wildcard subscriptions. It never blocks and returns how many mailboxes
// accepted the record.
func (r *Registry) Publish(rec *event.Record) int {
	if rec == nil || r.closed.Load() {
		return 0
	}

	accepted := 0
	for _, sub := range r.Snapshot(rec.Category()) {
		if sub.offer(rec) {
			accepted++
		}
	}
	return accepted
}

// Snapshot returns the subscriptions that receive records of category:
// exact matches first, then wildcards, each in subscription order.
func (r *Registry) Snapshot(category taxonomy.Category) []*Subscription {
	r.mu.RLock()
	exact := r.byCategory[category]
	var wildcard []*Subscription
	if category != taxonomy.CategoryAny {
		wildcard = r.byCategory[taxonomy.CategoryAny]
	}
	r.mu.RUnlock()

	out := make([]*Subscription, 0, len(exact)+len(wildcard))
	out = append(out, exact...)
	return append(out, wildcard...)
}

// Len returns the number of live subscriptions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Close stops every subscription and waits for their goroutines to exit.
// Records still queued are discarded.
func (r *Registry) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}

	r.mu.Lock()
	var all []*Subscription
	for _, list := range r.byCategory {
		all = append(all, list...)
	}
	r.byCategory = make(map[taxonomy.Category][]*Subscription)
	r.count = 0
	r.mu.Unlock()

	for _, sub := range all {
		sub.shutdown()
	}
	r.cancel()
	r.workers.Wait()
	return nil
}
