package errors

import (
	"fmt"
	"time"
)

// TimeoutError is a handler call that ran past its deadline.
type TimeoutError struct {
	// Event is the name of the record being handled.
	Event string
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("handling %s timed out after %s", e.Event, e.After)
}

// PanicError is a recovered handler panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic: %v", e.Value)
}
