package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile reads engine settings from a file, picking the parser by
// extension. YAML (.yaml, .yml) and JSON (.json) are accepted.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read settings file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported settings extension %q (want .yaml, .yml, or .json)", ext)
	}
}

// FromYAML parses YAML settings.
func FromYAML(data []byte) (Config, error) {
	m := map[string]any{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml settings: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON settings.
func FromJSON(data []byte) (Config, error) {
	m := map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json settings: %w", err)
	}
	return New(m), nil
}
