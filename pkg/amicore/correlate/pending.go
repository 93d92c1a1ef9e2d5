package correlate

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/randalmurphal/amicore/pkg/amicore/event"
	"github.com/randalmurphal/amicore/pkg/amicore/taxonomy"
)

// Pending is one open correlation. Its result slot is filled exactly once.
type Pending struct {
	token       string
	terminators map[string]struct{}
	ctx         context.Context
	openedAt    time.Time
	deadline    time.Time

	// Guarded by the owning Tracker's mutex.
	entries []*event.Record
	timer   *time.Timer
	stopCtx func() bool

	done   chan struct{}
	result *Result
}

func newPending(ctx context.Context, token string, terminators []string, timeout time.Duration) *Pending {
	now := time.Now()
	set := make(map[string]struct{}, len(terminators))
	for _, name := range terminators {
		set[strings.ToLower(name)] = struct{}{}
	}
	return &Pending{
		token:       token,
		terminators: set,
		ctx:         ctx,
		openedAt:    now,
		deadline:    now.Add(timeout),
		done:        make(chan struct{}),
	}
}

// Token returns the correlation token.
func (p *Pending) Token() string { return p.token }

// Context returns the context the correlation was opened with.
func (p *Pending) Context() context.Context { return p.ctx }

// OpenedAt returns when the correlation was opened.
func (p *Pending) OpenedAt() time.Time { return p.openedAt }

// Deadline returns when the correlation times out.
func (p *Pending) Deadline() time.Time { return p.deadline }

// Terminators returns the expected terminator names, lowercased and sorted.
// An empty list means any list terminator closes the correlation.
func (p *Pending) Terminators() []string {
	out := make([]string, 0, len(p.terminators))
	for name := range p.terminators {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Done is closed once the result is available.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Result returns the result without blocking.
func (p *Pending) Result() (*Result, bool) {
	select {
	case <-p.done:
		return p.result, true
	default:
		return nil, false
	}
}

// Wait blocks until the correlation finishes or ctx is done.
// Giving up on ctx does not cancel the correlation.
func (p *Pending) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-p.done:
		return p.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// terminates reports whether a record of kind closes this correlation.
// A list terminator closes it when no terminators were named or when it is
// named. A standalone kind closes it only when named.
func (p *Pending) terminates(kind taxonomy.Kind) bool {
	_, named := p.terminators[strings.ToLower(kind.Name)]
	switch kind.Role {
	case taxonomy.RoleListTerminator:
		return len(p.terminators) == 0 || named
	case taxonomy.RoleStandalone:
		return named
	default:
		return false
	}
}
