// Package deadletter parks records that could not be delivered.
//
// A letter is written when a subscriber's handler fails for good, when a
// subscriber's mailbox is full, or when an unknown event is rejected by
// policy. Letters are for inspection and replay tooling; this is not an
// event history store.
package deadletter

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	delivery "github.com/randalmurphal/amicore/pkg/amicore/errors"
	"github.com/randalmurphal/amicore/pkg/amicore/event"
)

// Reason says why a record was parked.
type Reason string

const (
	ReasonHandlerError    Reason = "handler_error"
	ReasonMailboxFull     Reason = "mailbox_full"
	ReasonUnknownRejected Reason = "unknown_rejected"
)

// Sentinel errors for queues.
var (
	// ErrNotFound is returned when a letter ID does not exist.
	ErrNotFound = stderrors.New("letter not found")

	// ErrQueueClosed is returned when operating on a closed queue.
	ErrQueueClosed = stderrors.New("dead letter queue closed")

	// ErrFull is returned when a bounded queue is at capacity.
	ErrFull = stderrors.New("dead letter queue full")
)

// Letter is one parked record.
type Letter struct {
	ID         string       `json:"id"`
	Reason     Reason       `json:"reason"`
	Subscriber string       `json:"subscriber,omitempty"`
	Event      string       `json:"event"`
	Category   string       `json:"category"`
	Token      string       `json:"token,omitempty"`
	Fields     event.Fields `json:"fields"`
	Error      string       `json:"error,omitempty"`
	Attempts   int          `json:"attempts,omitempty"`
	ParkedAt   time.Time    `json:"parked_at"`
}

// NewLetter builds a letter for rec. subscriber and err may be empty.
// A *errors.DeliveryError is unwrapped: Error holds the handler's own
// message and Attempts the number of calls made.
func NewLetter(rec *event.Record, reason Reason, subscriber string, err error) *Letter {
	l := &Letter{
		ID:         uuid.NewString(),
		Reason:     reason,
		Subscriber: subscriber,
		Event:      rec.Name(),
		Category:   rec.Category().String(),
		Token:      rec.Token(),
		Fields:     rec.Fields(),
		ParkedAt:   time.Now().UTC(),
	}
	var de *delivery.DeliveryError
	if stderrors.As(err, &de) {
		l.Attempts = de.Attempts
		err = de.Err
	}
	if err != nil {
		l.Error = err.Error()
	}
	return l
}

// Queue stores parked letters.
type Queue interface {
	// Park stores a letter. A letter without an ID is given one.
	Park(ctx context.Context, l *Letter) error

	// List returns up to limit letters, oldest first. A limit of zero or
	// less returns all letters.
	List(ctx context.Context, limit int) ([]*Letter, error)

	// Get returns one letter.
	Get(ctx context.Context, id string) (*Letter, error)

	// Delete removes a letter. Deleting a missing letter is not an error.
	Delete(ctx context.Context, id string) error

	// Count returns the number of parked letters.
	Count(ctx context.Context) (int, error)

	// CountByReason returns counts grouped by reason.
	CountByReason(ctx context.Context) (map[Reason]int, error)

	// Close releases resources.
	Close() error
}
