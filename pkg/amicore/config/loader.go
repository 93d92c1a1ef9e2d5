package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type decoder func(data []byte, v any) error

// decoders maps file extensions to document decoders.
var decoders = map[string]decoder{
	".yaml": yaml.Unmarshal,
	".yml":  yaml.Unmarshal,
	".json": json.Unmarshal,
}

// FromFile loads a .yaml, .yml or .json file. ${VAR} references in the
// document are replaced from the environment before decoding; unset
// variables become empty.
func FromFile(path string) (Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	dec, ok := decoders[ext]
	if !ok {
		return Config{}, fmt.Errorf("unsupported config file extension %q", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return decode(dec, strings.TrimPrefix(ext, "."), []byte(os.ExpandEnv(string(data))))
}

// FromYAML decodes a YAML document. Environment references are not expanded.
func FromYAML(data []byte) (Config, error) {
	return decode(yaml.Unmarshal, "yaml", data)
}

// FromJSON decodes a JSON document. Environment references are not expanded.
func FromJSON(data []byte) (Config, error) {
	return decode(json.Unmarshal, "json", data)
}

func decode(dec decoder, format string, data []byte) (Config, error) {
	var m map[string]any
	if err := dec(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", format, err)
	}
	return New(m), nil
}
