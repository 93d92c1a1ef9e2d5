/*
Package config reads dispatcher settings from YAML or JSON documents.

A Config wraps a decoded map and offers typed accessors that fall back to a
default when a key is missing or holds the wrong type:

	cfg, err := config.FromFile("amicore.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	timeout := cfg.Duration("correlation_timeout", 10*time.Second)
	policies := cfg.StringMap("unknown_events")

Durations accept Go duration strings ("30s", "1m30s") or a number of seconds.
Integers accept float values only when they have no fractional part, which
is how JSON decodes every number.

FromFile expands ${VAR} references from the environment, so credentials
and per-host values can stay out of the file.

Nested sections are reached with Sub. Lookup returns the raw value for
callers that need to tell "missing" from "invalid".

Config is safe for concurrent reads. It never modifies the map it wraps.
*/
package config
