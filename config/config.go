// Package config handles detsched run configuration.
//
// Config is stored at $XDG_CONFIG_HOME/detsched/config.yaml (defaults to
// ~/.config/detsched/config.yaml), following the same Path()/Load()/Save()
// shape the teacher's CLI config uses for its own on-disk settings: a
// single YAML document, tolerant of a missing file, written back with
// os.MkdirAll + os.WriteFile.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Decider configures how the external SMT/LIA decider is invoked (C4).
type Decider struct {
	// Binary is the decider executable path. Empty makes decider.Gateway
	// fall back to the DETSCHED_DECIDER_BIN environment variable, and fail
	// if that is unset too; Gateway does not read BinaryEnv.
	Binary    string `yaml:"binary,omitempty"`
	BinaryEnv string `yaml:"binary_env,omitempty"`
	// TimeoutMs is the per-round wall-clock budget in milliseconds. Zero
	// means "no timeout", matching spec.md §5: "no timeouts are defined
	// by the core; if the decider hangs, the kernel hangs."
	TimeoutMs int64 `yaml:"timeout_ms"`
	// CacheSize bounds the in-process LRU of identical formula payloads
	// (C11). Zero disables the cache.
	CacheSize int `yaml:"cache_size"`
}

// Strategy configures the default parameters of the three scheduling
// modes (C5), overridable per invocation via CLI flags.
type Strategy struct {
	IncrementalStep   int   `yaml:"incremental_step"`
	SegmentedWindowNs int64 `yaml:"segmented_window_ns"`
}

// Audit configures the durable decider-round record (C10). An empty Path
// disables audit persistence entirely.
type Audit struct {
	Path string `yaml:"path,omitempty"`
}

// Config is the full run configuration for the detsched CLI.
type Config struct {
	Decider  Decider  `yaml:"decider"`
	Strategy Strategy `yaml:"strategy"`
	LogLevel string   `yaml:"log_level"`
	Audit    Audit    `yaml:"audit"`
}

// Default returns the configuration a fresh install starts from.
func Default() *Config {
	return &Config{
		Decider: Decider{
			BinaryEnv: "DETSCHED_DECIDER_BIN",
			CacheSize: 64,
		},
		Strategy: Strategy{
			IncrementalStep:   5,
			SegmentedWindowNs: 1_000_000,
		},
		LogLevel: "info",
	}
}

// Path returns the config file location. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/detsched/config.yaml.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "detsched", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "detsched", "config.yaml")
}

// Load reads the config file. If the file does not exist, Default() is
// returned (not an error).
func Load() (*Config, error) {
	data, err := os.ReadFile(Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk, creating directories as needed.
func (c *Config) Save() error {
	p := Path()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
