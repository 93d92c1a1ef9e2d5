package subscription

import "errors"

var (
	// ErrClosed is returned when subscribing to a closed registry.
	ErrClosed = errors.New("subscription registry closed")

	// ErrNilHandler is returned when subscribing without a handler.
	ErrNilHandler = errors.New("nil handler")

	// ErrTooManySubscribers is returned when MaxSubscribers is reached.
	ErrTooManySubscribers = errors.New("too many subscribers")

	// ErrInvalidCategory is returned for categories outside the taxonomy.
	ErrInvalidCategory = errors.New("invalid subscription category")

	// ErrUnsubscribe is returned by a handler, possibly wrapped, to end its
	// own subscription after the current record. It is not a failure.
	ErrUnsubscribe = errors.New("unsubscribe")
)
