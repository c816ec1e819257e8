/*
Package config provides type-safe configuration extraction from map[string]any.

# Overview

config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
It is used to load temporal-decorator settings (TTLs, windows, intervals,
delays) from YAML/JSON structures without verbose type assertions and nil
checks; see temporal.SettingsFromConfig.

# Basic Usage

Create a Config from any map and extract values with defaults:

	cfg := config.New(map[string]any{
	    "cache_ttl": "30s",
	    "max_calls": 3,
	    "bypass":    true,
	})

	ttl := cfg.Duration("cache_ttl", 10*time.Second) // 30s
	max := cfg.Int("max_calls", 5)                   // 3
	byp := cfg.Bool("bypass", false)                 // true
	missing := cfg.String("missing", "default")      // "default"

# Type Coercion

Duration handles multiple input types:
  - string: parsed with time.ParseDuration ("30s", "1h30m")
  - int/float64: interpreted as seconds
  - time.Duration: used directly

All methods return the default value if:
  - The key is missing
  - The value cannot be converted to the requested type
  - The conversion would lose precision (e.g., float to int with fraction)

# File Loading

Load configuration from YAML or JSON files:

	cfg, err := config.FromFile("limits.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	// Or load from bytes
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)

Nested sections are reached with Section:

	window := cfg.Section("ratelimit").Duration("window", time.Minute)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation. However, if the original map is modified
externally, behavior is undefined.
*/
package config
