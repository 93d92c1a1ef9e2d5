// Package correlate pairs multi-event list responses with the request that
// asked for them.
//
// A request initiator opens a correlation under a token. Records echoing
// that token are fed in arrival order: list entries are collected, and a
// matching terminator completes the correlation. Every correlation ends
// exactly once, as Completed, TimedOut, Cancelled or Disconnected, and its
// deadline timer is stopped the moment it ends.
package correlate

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/randalmurphal/amicore/pkg/amicore/event"
	"github.com/randalmurphal/amicore/pkg/amicore/taxonomy"
)

// DefaultLateEntryMemory is the number of finished tokens remembered for
// late entry detection.
const DefaultLateEntryMemory = 1024

// Config configures a Tracker.
type Config struct {
	// LateEntryMemory bounds how many finished tokens are remembered.
	// Zero uses DefaultLateEntryMemory; a negative value disables late
	// entry detection.
	LateEntryMemory int

	// OnFinalize is called once per correlation after its result is set.
	// It runs outside the tracker lock.
	OnFinalize func(p *Pending, res *Result)

	// OnLateEntry is called for list records that arrive for a token that
	// already finished. It runs outside the tracker lock.
	OnLateEntry func(rec *event.Record, last Status)
}

// Tracker holds the open correlations of one connection.
// All methods are safe for concurrent use.
type Tracker struct {
	cfg Config

	mu       sync.Mutex
	open     map[string]*Pending
	finished *lru.Cache[string, Status]
}

// NewTracker creates a tracker.
func NewTracker(cfg Config) *Tracker {
	t := &Tracker{
		cfg:  cfg,
		open: make(map[string]*Pending),
	}

	size := cfg.LateEntryMemory
	if size == 0 {
		size = DefaultLateEntryMemory
	}
	if size > 0 {
		// lru.New fails only for non-positive sizes.
		t.finished, _ = lru.New[string, Status](size)
	}
	return t
}

// Open registers a correlation for token.
//
// The correlation times out after timeout; a timeout of zero or less
// expires it immediately with no entries. Cancelling ctx cancels the
// correlation. Opening a token that is already open fails with
// ErrDuplicateToken and leaves the existing correlation untouched.
func (t *Tracker) Open(ctx context.Context, token string, terminators []string, timeout time.Duration) (*Pending, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout < 0 {
		timeout = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.open[token]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateToken, token)
	}

	p := newPending(ctx, token, terminators, timeout)
	t.open[token] = p
	if t.finished != nil {
		t.finished.Remove(token)
	}

	p.timer = time.AfterFunc(timeout, func() {
		t.finish(p, StatusTimedOut, nil, nil)
	})
	p.stopCtx = context.AfterFunc(ctx, func() {
		t.finish(p, StatusCancelled, nil, context.Cause(ctx))
	})

	return p, nil
}

// Feed offers a record to the open correlations.
//
// A list entry whose token is open is collected. A terminator for an open
// token completes that correlation. Anything else, including records
// without a token and unsolicited kinds, is NotMine.
func (t *Tracker) Feed(rec *event.Record) Verdict {
	if rec == nil || !rec.HasToken() {
		return NotMine
	}

	t.mu.Lock()
	p, ok := t.open[rec.Token()]
	if !ok {
		last, late := t.lateLocked(rec)
		t.mu.Unlock()
		if late && t.cfg.OnLateEntry != nil {
			t.cfg.OnLateEntry(rec, last)
		}
		return NotMine
	}

	if p.terminates(rec.Kind()) {
		res := t.finishLocked(p, StatusCompleted, rec, nil)
		t.mu.Unlock()
		t.notify(p, res)
		return Consumed
	}

	if rec.Role() == taxonomy.RoleListEntry {
		p.entries = append(p.entries, rec)
		t.mu.Unlock()
		return Consumed
	}

	t.mu.Unlock()
	return NotMine
}

// Cancel ends the correlation for token as Cancelled.
// Cancelling an unknown or finished token does nothing.
func (t *Tracker) Cancel(token string) {
	t.mu.Lock()
	p, ok := t.open[token]
	if !ok {
		t.mu.Unlock()
		return
	}
	res := t.finishLocked(p, StatusCancelled, nil, nil)
	t.mu.Unlock()
	t.notify(p, res)
}

// FlushAll ends every open correlation as Disconnected with reason and
// returns how many were ended.
func (t *Tracker) FlushAll(reason error) int {
	if reason == nil {
		reason = ErrDisconnected
	}

	t.mu.Lock()
	flushed := make([]*Pending, 0, len(t.open))
	results := make([]*Result, 0, len(t.open))
	for _, p := range t.open {
		flushed = append(flushed, p)
	}
	sort.Slice(flushed, func(i, j int) bool {
		return flushed[i].openedAt.Before(flushed[j].openedAt)
	})
	for _, p := range flushed {
		results = append(results, t.finishLocked(p, StatusDisconnected, nil, reason))
	}
	t.mu.Unlock()

	for i, p := range flushed {
		t.notify(p, results[i])
	}
	return len(flushed)
}

// Len returns the number of open correlations.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.open)
}

// Tokens returns the open tokens sorted.
func (t *Tracker) Tokens() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.open))
	for token := range t.open {
		out = append(out, token)
	}
	sort.Strings(out)
	return out
}

// IsOpen reports whether token has an open correlation.
func (t *Tracker) IsOpen(token string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.open[token]
	return ok
}

func (t *Tracker) finish(p *Pending, status Status, terminator *event.Record, reason error) {
	t.mu.Lock()
	res := t.finishLocked(p, status, terminator, reason)
	t.mu.Unlock()
	t.notify(p, res)
}

// finishLocked ends p and returns its result, or nil when p already ended.
// Identity is checked by pointer so a stale timer cannot end a newer
// correlation that reused the token.
func (t *Tracker) finishLocked(p *Pending, status Status, terminator *event.Record, reason error) *Result {
	if t.open[p.token] != p {
		return nil
	}
	delete(t.open, p.token)

	p.timer.Stop()
	p.stopCtx()

	if t.finished != nil {
		t.finished.Add(p.token, status)
	}

	res := &Result{
		Token:      p.token,
		Status:     status,
		Entries:    p.entries,
		Terminator: terminator,
		Reason:     reason,
		OpenedAt:   p.openedAt,
		FinishedAt: time.Now(),
	}
	p.entries = nil
	p.result = res
	close(p.done)
	return res
}

func (t *Tracker) notify(p *Pending, res *Result) {
	if res == nil || t.cfg.OnFinalize == nil {
		return
	}
	t.cfg.OnFinalize(p, res)
}

// lateLocked reports whether rec is a list record for a finished token.
func (t *Tracker) lateLocked(rec *event.Record) (Status, bool) {
	if t.finished == nil {
		return 0, false
	}
	switch rec.Role() {
	case taxonomy.RoleListEntry, taxonomy.RoleListTerminator:
	default:
		return 0, false
	}
	return t.finished.Get(rec.Token())
}
