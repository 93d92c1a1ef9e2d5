package amicore

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/randalmurphal/amicore/pkg/amicore/config"
	"github.com/randalmurphal/amicore/pkg/amicore/correlate"
	"github.com/randalmurphal/amicore/pkg/amicore/taxonomy"
)

// DefaultCorrelationTimeout applies when IssueCorrelated gets no WithTimeout.
const DefaultCorrelationTimeout = 10 * time.Second

// Policy decides what happens to events missing from the taxonomy.
type Policy uint8

const (
	// PolicyTolerate logs the event and fans it out as Unknown.
	PolicyTolerate Policy = iota

	// PolicyReject parks the event in the dead letter queue.
	PolicyReject
)

func (p Policy) String() string {
	switch p {
	case PolicyTolerate:
		return "tolerate"
	case PolicyReject:
		return "reject"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// ParsePolicy accepts "tolerate" or "reject", ignoring case.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tolerate":
		return PolicyTolerate, nil
	case "reject":
		return PolicyReject, nil
	}
	return 0, fmt.Errorf("%w: unknown policy %q", ErrInvalidSettings, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Settings are the tunables of a Dispatcher.
type Settings struct {
	// DefaultTimeout is the correlation timeout when none is given.
	DefaultTimeout time.Duration

	// DefaultUnknownPolicy applies to unknown events whose category
	// cannot be inferred or has no entry in UnknownPolicy.
	DefaultUnknownPolicy Policy

	// UnknownPolicy overrides the policy per category. The category of an
	// unknown event is inferred from its Privilege header.
	UnknownPolicy map[taxonomy.Category]Policy

	// SubscriberBuffer is the mailbox size of each subscription.
	SubscriberBuffer int

	// LateEntryMemory bounds how many finished tokens are remembered to
	// recognise late entries. Negative disables late entry detection.
	LateEntryMemory int
}

// DefaultSettings returns the settings used when none are supplied.
func DefaultSettings() Settings {
	return Settings{
		DefaultTimeout:       DefaultCorrelationTimeout,
		DefaultUnknownPolicy: PolicyTolerate,
		SubscriberBuffer:     256,
		LateEntryMemory:      correlate.DefaultLateEntryMemory,
	}
}

// PolicyFor returns the unknown-event policy for category.
func (s Settings) PolicyFor(category taxonomy.Category) Policy {
	if p, ok := s.UnknownPolicy[category]; ok {
		return p
	}
	return s.DefaultUnknownPolicy
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	if s.DefaultTimeout < 0 {
		return fmt.Errorf("%w: negative correlation timeout %s", ErrInvalidSettings, s.DefaultTimeout)
	}
	if s.SubscriberBuffer <= 0 {
		return fmt.Errorf("%w: subscriber buffer must be positive, got %d", ErrInvalidSettings, s.SubscriberBuffer)
	}
	if s.DefaultUnknownPolicy > PolicyReject {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, s.DefaultUnknownPolicy)
	}
	for c, p := range s.UnknownPolicy {
		if !c.Valid() || c == taxonomy.CategoryAny {
			return fmt.Errorf("%w: no unknown-event policy for category %s", ErrInvalidSettings, c)
		}
		if p > PolicyReject {
			return fmt.Errorf("%w: %s for category %s", ErrInvalidSettings, p, c)
		}
	}
	return nil
}

// Settings keys.
const (
	keyCorrelationTimeout = "correlation_timeout"
	keySubscriberBuffer   = "subscriber_buffer"
	keyLateEntryMemory    = "late_entry_memory"
	keyUnknownEvents      = "unknown_events"
	keyDefaultPolicy      = "default"
)

// SettingsFromConfig reads settings from cfg, starting from DefaultSettings.
//
//	correlation_timeout: 5s
//	subscriber_buffer: 512
//	late_entry_memory: 2048
//	unknown_events:
//	  default: tolerate
//	  call: reject
//
// Present keys with values of the wrong shape are errors.
func SettingsFromConfig(cfg config.Config) (Settings, error) {
	s := DefaultSettings()

	if v, ok := cfg.Lookup(keyCorrelationTimeout); ok {
		d, ok := config.AsDuration(v)
		if !ok {
			return s, fmt.Errorf("%w: %s: not a duration: %v", ErrInvalidSettings, keyCorrelationTimeout, v)
		}
		s.DefaultTimeout = d
	}
	if v, ok := cfg.Lookup(keySubscriberBuffer); ok {
		n, ok := config.AsInt(v)
		if !ok {
			return s, fmt.Errorf("%w: %s: not an integer: %v", ErrInvalidSettings, keySubscriberBuffer, v)
		}
		s.SubscriberBuffer = n
	}
	if v, ok := cfg.Lookup(keyLateEntryMemory); ok {
		n, ok := config.AsInt(v)
		if !ok || n > math.MaxInt32 {
			return s, fmt.Errorf("%w: %s: not an integer: %v", ErrInvalidSettings, keyLateEntryMemory, v)
		}
		s.LateEntryMemory = n
	}

	if cfg.Has(keyUnknownEvents) {
		policies := cfg.StringMap(keyUnknownEvents)
		if policies == nil {
			return s, fmt.Errorf("%w: %s must be a mapping", ErrInvalidSettings, keyUnknownEvents)
		}
		for key, value := range policies {
			p, err := ParsePolicy(value)
			if err != nil {
				return s, fmt.Errorf("%s.%s: %w", keyUnknownEvents, key, err)
			}
			if strings.EqualFold(key, keyDefaultPolicy) {
				s.DefaultUnknownPolicy = p
				continue
			}
			c, err := taxonomy.ParseCategory(key)
			if err != nil {
				return s, fmt.Errorf("%w: %s.%s: %w", ErrInvalidSettings, keyUnknownEvents, key, err)
			}
			if s.UnknownPolicy == nil {
				s.UnknownPolicy = make(map[taxonomy.Category]Policy)
			}
			s.UnknownPolicy[c] = p
		}
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// LoadSettings reads settings from a YAML or JSON file. When the document
// has a top-level "amicore" section, settings are read from it.
func LoadSettings(path string) (Settings, error) {
	cfg, err := config.FromFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if cfg.Has("amicore") {
		cfg = cfg.Sub("amicore")
	}
	return SettingsFromConfig(cfg)
}
