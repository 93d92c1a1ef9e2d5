package correlate

import (
	"errors"
	"fmt"
)

// Sentinel errors for correlation.
var (
	// ErrDuplicateToken is returned by Open when the token is already open.
	ErrDuplicateToken = errors.New("duplicate correlation token")

	// ErrEmptyToken is returned by Open for an empty token.
	ErrEmptyToken = errors.New("empty correlation token")

	// ErrTimedOut is reported by Result.Err when the deadline expired.
	ErrTimedOut = errors.New("correlation timed out")

	// ErrCancelled is reported by Result.Err when the initiator gave up.
	ErrCancelled = errors.New("correlation cancelled")

	// ErrDisconnected is reported by Result.Err when the tracker was flushed.
	ErrDisconnected = errors.New("correlation disconnected")
)

// DisconnectedError carries the flush reason of a disconnected correlation.
type DisconnectedError struct {
	Token  string
	Reason error
}

// Error implements error.
func (e *DisconnectedError) Error() string {
	if e.Reason == nil {
		return fmt.Sprintf("correlation %q disconnected", e.Token)
	}
	return fmt.Sprintf("correlation %q disconnected: %v", e.Token, e.Reason)
}

// Is matches ErrDisconnected.
func (e *DisconnectedError) Is(target error) bool {
	return target == ErrDisconnected
}

// Unwrap returns the flush reason.
func (e *DisconnectedError) Unwrap() error {
	return e.Reason
}
