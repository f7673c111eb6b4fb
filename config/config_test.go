package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Strategy.IncrementalStep != Default().Strategy.IncrementalStep {
		t.Fatalf("expected default incremental step, got %d", cfg.Strategy.IncrementalStep)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Decider.Binary = "/usr/local/bin/z3"
	cfg.Strategy.SegmentedWindowNs = 2_000_000
	cfg.LogLevel = "debug"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Decider.Binary != cfg.Decider.Binary {
		t.Fatalf("Decider.Binary = %q, want %q", got.Decider.Binary, cfg.Decider.Binary)
	}
	if got.Strategy.SegmentedWindowNs != cfg.Strategy.SegmentedWindowNs {
		t.Fatalf("Strategy.SegmentedWindowNs = %d, want %d", got.Strategy.SegmentedWindowNs, cfg.Strategy.SegmentedWindowNs)
	}
	if got.LogLevel != cfg.LogLevel {
		t.Fatalf("LogLevel = %q, want %q", got.LogLevel, cfg.LogLevel)
	}
}

func TestPathJoinsDetschedSubdir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	want := filepath.Join("/tmp/xdg", "detsched", "config.yaml")
	if got := Path(); got != want {
		t.Fatalf("Path() = %q, want %q", got, want)
	}
}
