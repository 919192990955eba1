// Package config loads and builds the session-level configuration an
// editablecircuit.Circuit runs under: grid bounds, default wire delay
// per unit distance, and the autosave interval a CLI/UI host consults.
// It uses a yaml.v3-backed load function and a fluent value-receiver
// builder idiom.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SessionConfig holds the settings an editor session needs beyond what
// the core itself tracks (the core has no notion of "seconds" or
// "file paths" — those are this package's job).
type SessionConfig struct {
	GridMin              int32
	GridMax              int32
	WireDelayPerDistance time.Duration
	AutosaveInterval     time.Duration
	AutosaveDirectory    string
}

// Default returns the configuration a brand new session starts with
// absent a config file: the vocab package's own grid bounds, a nominal
// 1ns/grid-unit wire delay, and a 30s autosave cadence.
func Default() SessionConfig {
	return SessionConfig{
		GridMin:              -32768,
		GridMax:              32767,
		WireDelayPerDistance: time.Nanosecond,
		AutosaveInterval:     30 * time.Second,
		AutosaveDirectory:    ".",
	}
}

// yamlConfig mirrors the on-disk shape; durations round-trip as
// human-readable strings rather than raw nanosecond counts.
type yamlConfig struct {
	GridMin              int32  `yaml:"grid_min"`
	GridMax              int32  `yaml:"grid_max"`
	WireDelayPerDistance string `yaml:"wire_delay_per_distance"`
	AutosaveInterval     string `yaml:"autosave_interval"`
	AutosaveDirectory    string `yaml:"autosave_directory"`
}

// LoadFile reads and parses a SessionConfig YAML file, panicking on a
// read or parse failure: a malformed config file is a
// programmer/operator error at startup, not a recoverable domain
// error.
func LoadFile(path string) SessionConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to read %s: %v", path, err))
	}
	return LoadBytes(data)
}

// LoadBytes parses a SessionConfig from raw YAML bytes, starting from
// Default() so a config file only needs to override what it cares
// about.
func LoadBytes(data []byte) SessionConfig {
	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		panic(fmt.Sprintf("config: failed to parse YAML: %v", err))
	}

	b := NewBuilder()
	if raw.GridMin != 0 || raw.GridMax != 0 {
		lo, hi := Default().GridMin, Default().GridMax
		if raw.GridMin != 0 {
			lo = raw.GridMin
		}
		if raw.GridMax != 0 {
			hi = raw.GridMax
		}
		b = b.WithGridRange(lo, hi)
	}
	if raw.WireDelayPerDistance != "" {
		d, err := time.ParseDuration(raw.WireDelayPerDistance)
		if err != nil {
			panic(fmt.Sprintf("config: invalid wire_delay_per_distance %q: %v", raw.WireDelayPerDistance, err))
		}
		b = b.WithWireDelayPerDistance(d)
	}
	if raw.AutosaveInterval != "" {
		d, err := time.ParseDuration(raw.AutosaveInterval)
		if err != nil {
			panic(fmt.Sprintf("config: invalid autosave_interval %q: %v", raw.AutosaveInterval, err))
		}
		b = b.WithAutosaveInterval(d)
	}
	if raw.AutosaveDirectory != "" {
		b = b.WithAutosaveDirectory(raw.AutosaveDirectory)
	}
	return b.Build()
}

// Builder assembles a SessionConfig field by field, the same fluent
// value-receiver shape as editablecircuit.Builder: each With* returns
// a modified copy.
type Builder struct {
	cfg SessionConfig
}

// NewBuilder starts from Default().
func NewBuilder() Builder {
	return Builder{cfg: Default()}
}

// WithGridRange overrides the representable grid bounds.
func (b Builder) WithGridRange(min, max int32) Builder {
	b.cfg.GridMin = min
	b.cfg.GridMax = max
	return b
}

// WithWireDelayPerDistance overrides the nominal propagation delay
// simrunner attaches to a wire per unit of grid distance.
func (b Builder) WithWireDelayPerDistance(d time.Duration) Builder {
	b.cfg.WireDelayPerDistance = d
	return b
}

// WithAutosaveInterval overrides how often a CLI/UI host should write
// an autosave envelope via circuitio.
func (b Builder) WithAutosaveInterval(d time.Duration) Builder {
	b.cfg.AutosaveInterval = d
	return b
}

// WithAutosaveDirectory overrides where autosave envelopes are
// written.
func (b Builder) WithAutosaveDirectory(dir string) Builder {
	b.cfg.AutosaveDirectory = dir
	return b
}

// Build returns the assembled SessionConfig.
func (b Builder) Build() SessionConfig {
	return b.cfg
}
