package taxonomy

import (
	"errors"
	"fmt"
)

// Sentinel errors for taxonomy lookups and construction.
var (
	// ErrUnknownEvent is returned by Classify for names missing from the table.
	ErrUnknownEvent = errors.New("unknown event")

	// ErrDuplicateKind is returned when two kinds share a name.
	ErrDuplicateKind = errors.New("duplicate event kind")

	// ErrInvalidKind is returned for kinds with an empty name or a
	// non-concrete category.
	ErrInvalidKind = errors.New("invalid event kind")

	// ErrInvalidCategory is returned when a category name cannot be parsed.
	ErrInvalidCategory = errors.New("invalid category")
)

// UnknownEventError carries the name that failed classification.
type UnknownEventError struct {
	Name string
}

// Error implements error.
func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown event %q", e.Name)
}

// Unwrap returns ErrUnknownEvent.
func (e *UnknownEventError) Unwrap() error {
	return ErrUnknownEvent
}
