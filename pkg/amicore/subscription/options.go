package subscription

import (
	"github.com/randalmurphal/amicore/pkg/amicore/errors"
	"github.com/randalmurphal/amicore/pkg/amicore/event"
)

// Option configures a single subscription.
type Option func(*subscribeConfig)

type subscribeConfig struct {
	name       string
	filter     event.Filter
	retry      *errors.RetryConfig
	bufferSize int
}

// WithName labels the subscription in logs, metrics and dead letters.
func WithName(name string) Option {
	return func(cfg *subscribeConfig) {
		cfg.name = name
	}
}

// WithFilter delivers only records matching f. Records that do not match
// are never queued.
func WithFilter(f event.Filter) Option {
	return func(cfg *subscribeConfig) {
		cfg.filter = f
	}
}

// WithRetry overrides the registry retry policy for this subscription.
func WithRetry(retry errors.RetryConfig) Option {
	return func(cfg *subscribeConfig) {
		cfg.retry = &retry
	}
}

// WithBufferSize overrides the mailbox size for this subscription.
func WithBufferSize(n int) Option {
	return func(cfg *subscribeConfig) {
		cfg.bufferSize = n
	}
}
