// Package errors classifies subscriber handler failures and retries the
// transient ones.
//
// A handler marks a failure as Transient when a later attempt may succeed,
// such as a busy downstream. Anything it does not mark is permanent, unless
// it is a timeout or reports itself as temporary. The delivery loop retries
// only transient failures, and only when the subscription has a retry
// config with more than one attempt.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Class says whether a failure is worth retrying.
type Class int

const (
	// ClassPermanent failures are reported without retrying.
	ClassPermanent Class = iota

	// ClassTransient failures may succeed on a later attempt.
	ClassTransient
)

func (c Class) String() string {
	switch c {
	case ClassPermanent:
		return "permanent"
	case ClassTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// DeliveryError is a classified handler failure.
type DeliveryError struct {
	Err   error
	Class Class

	// Op names what was being done, e.g. "write cdr".
	Op string

	// Attempts is set by Retry to the number of calls made.
	Attempts int
}

func (e *DeliveryError) Error() string {
	msg := e.Err.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	switch e.Attempts {
	case 0:
	case 1:
		return fmt.Sprintf("%s (%s, 1 attempt)", msg, e.Class)
	default:
		return fmt.Sprintf("%s (%s, %d attempts)", msg, e.Class, e.Attempts)
	}
	return fmt.Sprintf("%s (%s)", msg, e.Class)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Transient marks err as retryable.
func Transient(err error, op string) *DeliveryError {
	return &DeliveryError{Err: err, Class: ClassTransient, Op: op}
}

// Permanent marks err as not retryable.
func Permanent(err error, op string) *DeliveryError {
	return &DeliveryError{Err: err, Class: ClassPermanent, Op: op}
}

// Classify returns the class of err. The outermost DeliveryError wins;
// timeouts and errors reporting Temporary() are transient.
func Classify(err error) Class {
	if err == nil {
		return ClassPermanent
	}

	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Class
	}

	var te *TimeoutError
	if errors.As(err, &te) || errors.Is(err, context.DeadlineExceeded) {
		return ClassTransient
	}

	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) && temp.Temporary() {
		return ClassTransient
	}
	return ClassPermanent
}

// IsRetryable reports whether err is transient.
func IsRetryable(err error) bool {
	return Classify(err) == ClassTransient
}
