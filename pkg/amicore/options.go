package amicore

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/amicore/pkg/amicore/deadletter"
	"github.com/randalmurphal/amicore/pkg/amicore/subscription"
	"github.com/randalmurphal/amicore/pkg/amicore/taxonomy"
)

// dispatcherConfig holds construction options.
type dispatcherConfig struct {
	taxonomy      *taxonomy.Registry
	settings      Settings
	logger        *slog.Logger
	metrics       bool
	tracing       bool
	deadLetter    deadletter.Queue
	subscriptions subscription.Config
}

func defaultDispatcherConfig() dispatcherConfig {
	return dispatcherConfig{
		taxonomy: taxonomy.Default(),
		settings: DefaultSettings(),
		logger:   slog.Default(),
	}
}

// Option configures a Dispatcher.
type Option func(*dispatcherConfig)

// WithTaxonomy replaces the built-in event catalogue.
func WithTaxonomy(reg *taxonomy.Registry) Option {
	return func(c *dispatcherConfig) {
		if reg != nil {
			c.taxonomy = reg
		}
	}
}

// WithSettings sets the dispatcher tunables. New validates them.
func WithSettings(s Settings) Option {
	return func(c *dispatcherConfig) {
		c.settings = s
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *dispatcherConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables OpenTelemetry metrics.
// Metrics are recorded through the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(c *dispatcherConfig) {
		c.metrics = enabled
	}
}

// WithTracing enables OpenTelemetry spans for correlated requests.
// Spans are created through the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(c *dispatcherConfig) {
		c.tracing = enabled
	}
}

// WithDeadLetter sets where undeliverable records are parked. Default: a
// bounded in-memory queue. The Dispatcher never closes it.
func WithDeadLetter(q deadletter.Queue) Option {
	return func(c *dispatcherConfig) {
		c.deadLetter = q
	}
}

// WithSubscriptionConfig sets the subscription registry configuration.
// A zero BufferSize takes Settings.SubscriberBuffer. OnDrop and OnError
// run after the dispatcher's own accounting.
func WithSubscriptionConfig(cfg subscription.Config) Option {
	return func(c *dispatcherConfig) {
		c.subscriptions = cfg
	}
}

// issueConfig holds per-request options.
type issueConfig struct {
	timeout    time.Duration
	timeoutSet bool
	token      string
}

// IssueOption configures IssueCorrelated.
type IssueOption func(*issueConfig)

// WithTimeout sets the correlation deadline. Zero or less expires the
// correlation immediately.
func WithTimeout(d time.Duration) IssueOption {
	return func(c *issueConfig) {
		c.timeout = d
		c.timeoutSet = true
	}
}

// WithToken sets the correlation token (the ActionID the action is sent
// with). Default: a random UUID.
func WithToken(token string) IssueOption {
	return func(c *issueConfig) {
		c.token = token
	}
}
