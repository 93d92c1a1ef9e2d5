package amicore

import (
	"errors"

	"github.com/randalmurphal/amicore/pkg/amicore/taxonomy"
)

var (
	// ErrClosed is returned by operations on a closed Dispatcher. It is
	// also the reason given to correlations still open at Close.
	ErrClosed = errors.New("dispatcher closed")

	// ErrSourceClosed is the reason given to correlations still open when
	// a Run source reaches its end.
	ErrSourceClosed = errors.New("record source closed")

	// ErrNilRecord is returned when Ingest receives nil.
	ErrNilRecord = errors.New("nil record")

	// ErrUnknownEvent is returned for unknown events rejected by policy.
	ErrUnknownEvent = taxonomy.ErrUnknownEvent

	// ErrInvalidSettings wraps settings validation failures.
	ErrInvalidSettings = errors.New("invalid settings")
)
