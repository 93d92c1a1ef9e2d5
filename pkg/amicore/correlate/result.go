package correlate

import (
	"fmt"
	"time"

	"github.com/randalmurphal/amicore/pkg/amicore/event"
)

// Status is the outcome of a correlation.
type Status uint8

const (
	StatusCompleted Status = iota + 1
	StatusTimedOut
	StatusCancelled
	StatusDisconnected
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusTimedOut:
		return "timed_out"
	case StatusCancelled:
		return "cancelled"
	case StatusDisconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Verdict is the answer of Feed.
type Verdict uint8

const (
	// NotMine means the record belongs to no open correlation and must be
	// fanned out.
	NotMine Verdict = iota

	// Consumed means the record was taken by a correlation.
	Consumed
)

// String returns the verdict name.
func (v Verdict) String() string {
	if v == Consumed {
		return "consumed"
	}
	return "not_mine"
}

// Result is delivered exactly once per correlation.
type Result struct {
	Token  string
	Status Status

	// Entries holds the collected list entries in arrival order. A timed
	// out, cancelled or disconnected correlation keeps its partial entries.
	Entries []*event.Record

	// Terminator is the closing record. Set only for StatusCompleted.
	Terminator *event.Record

	// Reason explains cancellation or disconnection, when known.
	Reason error

	OpenedAt   time.Time
	FinishedAt time.Time
}

// Completed reports whether the correlation ended with its terminator.
func (r *Result) Completed() bool {
	return r.Status == StatusCompleted
}

// Duration returns how long the correlation was open.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.OpenedAt)
}

// Err maps non-completed outcomes to errors.
// It returns nil for StatusCompleted.
func (r *Result) Err() error {
	switch r.Status {
	case StatusCompleted:
		return nil
	case StatusTimedOut:
		return fmt.Errorf("%w: token %q after %d entries", ErrTimedOut, r.Token, len(r.Entries))
	case StatusCancelled:
		if r.Reason != nil {
			return fmt.Errorf("%w: token %q: %w", ErrCancelled, r.Token, r.Reason)
		}
		return fmt.Errorf("%w: token %q", ErrCancelled, r.Token)
	case StatusDisconnected:
		return &DisconnectedError{Token: r.Token, Reason: r.Reason}
	default:
		return fmt.Errorf("correlation %q ended with %s", r.Token, r.Status)
	}
}
