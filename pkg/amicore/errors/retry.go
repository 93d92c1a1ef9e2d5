package errors

import (
	"context"
	"math/rand/v2"
	"time"
)

// RetryConfig controls redelivery of one record to one handler.
type RetryConfig struct {
	// MaxAttempts counts the first call. Values below one mean one.
	MaxAttempts int

	// InitialBackoff is the wait before the second attempt.
	InitialBackoff time.Duration

	// MaxBackoff caps the wait. Zero means no cap.
	MaxBackoff time.Duration

	// Multiplier grows the wait after each attempt. Values below one keep
	// the wait constant.
	Multiplier float64

	// Jitter spreads each wait by up to this fraction either way.
	Jitter float64

	// Retryable overrides IsRetryable.
	Retryable func(error) bool
}

// DefaultRetry suits handlers that write to a flaky downstream.
// Waits are short because a retrying handler holds up its own mailbox.
var DefaultRetry = RetryConfig{
	MaxAttempts:    3,
	InitialBackoff: 50 * time.Millisecond,
	MaxBackoff:     time.Second,
	Multiplier:     2,
	Jitter:         0.1,
}

// NoRetry calls the handler once.
var NoRetry = RetryConfig{MaxAttempts: 1}

// RetryOption adjusts a RetryConfig.
type RetryOption func(*RetryConfig)

func WithMaxAttempts(n int) RetryOption {
	return func(c *RetryConfig) { c.MaxAttempts = n }
}

// WithBackoff sets the first wait and its cap.
func WithBackoff(initial, maxWait time.Duration) RetryOption {
	return func(c *RetryConfig) {
		c.InitialBackoff = initial
		c.MaxBackoff = maxWait
	}
}

func WithMultiplier(m float64) RetryOption {
	return func(c *RetryConfig) { c.Multiplier = m }
}

func WithJitter(j float64) RetryOption {
	return func(c *RetryConfig) { c.Jitter = j }
}

func WithRetryable(fn func(error) bool) RetryOption {
	return func(c *RetryConfig) { c.Retryable = fn }
}

// NewRetryConfig starts from DefaultRetry and applies opts.
func NewRetryConfig(opts ...RetryOption) RetryConfig {
	cfg := DefaultRetry
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// wait returns the pause after the given failed attempt (1-based).
func (c RetryConfig) wait(attempt int) time.Duration {
	d := float64(c.InitialBackoff)
	if c.Multiplier > 1 {
		for i := 1; i < attempt; i++ {
			d *= c.Multiplier
			if c.MaxBackoff > 0 && d >= float64(c.MaxBackoff) {
				break
			}
		}
	}
	if c.MaxBackoff > 0 && d > float64(c.MaxBackoff) {
		d = float64(c.MaxBackoff)
	}
	if c.Jitter > 0 {
		d += d * c.Jitter * (rand.Float64()*2 - 1)
	}
	return time.Duration(d)
}

// Outcome reports how a Retry ended.
type Outcome struct {
	// Err is nil on success, otherwise a *DeliveryError. A DeliveryError
	// returned by fn is passed through with Attempts set.
	Err error

	// Attempts is zero when ctx was done before the first call.
	Attempts int

	Elapsed time.Duration
}

// Retry calls fn until it succeeds, fails permanently, runs out of
// attempts, or ctx is done.
func Retry(ctx context.Context, cfg RetryConfig, fn func(context.Context) error) Outcome {
	start := time.Now()
	attempts := max(cfg.MaxAttempts, 1)
	retryable := cfg.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}

	fail := func(err error, n int, op string) Outcome {
		de, ok := err.(*DeliveryError)
		if !ok {
			de = &DeliveryError{Err: err, Class: Classify(err), Op: op}
		}
		de.Attempts = n
		return Outcome{Err: de, Attempts: n, Elapsed: time.Since(start)}
	}

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return fail(err, n-1, "cancelled")
		}

		err := fn(ctx)
		if err == nil {
			return Outcome{Attempts: n, Elapsed: time.Since(start)}
		}
		if !retryable(err) {
			return fail(err, n, "")
		}
		if n == attempts {
			return fail(err, n, "attempts exhausted")
		}

		timer := time.NewTimer(cfg.wait(n))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fail(ctx.Err(), n, "cancelled during backoff")
		case <-timer.C:
		}
	}
}
