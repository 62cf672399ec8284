package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads a settings document, choosing the decoder by extension:
// .yaml and .yml are YAML, .json is JSON. Errors name the file.
func FromFile(path string) (Config, error) {
	var decode func([]byte) (Config, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		decode = FromYAML
	case ".json":
		decode = FromJSON
	default:
		return Config{}, fmt.Errorf("%w: %s: unsupported extension %q (want .yaml, .yml or .json)", ErrInvalidSettings, path, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read settings: %w", err)
	}
	c, err := decode(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FromYAML decodes a YAML settings document. An empty document yields an
// empty Config; any other top-level value must be a mapping.
func FromYAML(data []byte) (Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return fromDocument(doc)
}

// FromJSON decodes a JSON settings document. Blank input and null yield an
// empty Config; any other top-level value must be an object.
func FromJSON(data []byte) (Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return New(nil), nil
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc any) (Config, error) {
	switch m := doc.(type) {
	case nil:
		return New(nil), nil
	case map[string]any:
		return New(m), nil
	default:
		return Config{}, fmt.Errorf("%w: top-level value is %T, want a mapping of settings keys", ErrInvalidSettings, doc)
	}
}
