package config

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Config wraps a decoded document for typed value extraction.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// A nil map yields an empty Config.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// Lookup returns the raw value for key.
func (c Config) Lookup(key string) (any, bool) {
	v, ok := c.data[key]
	return v, ok
}

// Has reports whether key is present.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Keys returns the top-level keys, sorted.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Raw returns the underlying map. Callers must not modify it.
func (c Config) Raw() map[string]any {
	return c.data
}

// String returns the string at key, or defaultVal.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the bool at key, or defaultVal.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer at key, or defaultVal.
func (c Config) Int(key string, defaultVal int) int {
	if n, ok := AsInt(c.data[key]); ok {
		return n
	}
	return defaultVal
}

// Duration returns the duration at key, or defaultVal.
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	if d, ok := AsDuration(c.data[key]); ok {
		return d
	}
	return defaultVal
}

// StringSlice returns the list of strings at key, or defaultVal when the
// value is not a list or any element is not a string.
func (c Config) StringSlice(key string, defaultVal []string) []string {
	switch val := c.data[key].(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return defaultVal
			}
			out = append(out, s)
		}
		return out
	}
	return defaultVal
}

// StringMap returns the mapping at key with every value rendered as a
// string. Nested maps and lists are skipped. It returns nil when key is
// missing or not a mapping.
func (c Config) StringMap(key string) map[string]string {
	m, ok := asMap(c.data[key])
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch v.(type) {
		case map[string]any, map[any]any, []any:
			continue
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

// Sub returns the nested section at key. A missing or non-mapping value
// yields an empty Config.
func (c Config) Sub(key string) Config {
	m, _ := asMap(c.data[key])
	return New(m)
}

// AsInt converts a decoded scalar to int. Floats convert only when whole.
func AsInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case uint64:
		if val <= math.MaxInt {
			return int(val), true
		}
	case float64:
		if val == math.Trunc(val) && val >= math.MinInt && val <= math.MaxInt {
			return int(val), true
		}
	}
	return 0, false
}

// AsDuration converts a decoded scalar to a duration. Strings use
// time.ParseDuration; numbers are seconds.
func AsDuration(v any) (time.Duration, bool) {
	switch val := v.(type) {
	case string:
		d, err := time.ParseDuration(val)
		return d, err == nil
	case time.Duration:
		return val, true
	case int:
		return time.Duration(val) * time.Second, true
	case int64:
		return time.Duration(val) * time.Second, true
	case float64:
		return time.Duration(val * float64(time.Second)), true
	}
	return 0, false
}

// asMap accepts both decoder shapes for a mapping.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}
