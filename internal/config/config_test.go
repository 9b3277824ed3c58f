package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// --- Effective* tests ---

func TestEffectiveDefaults(t *testing.T) {
	var s SyncConfig

	if got := s.EffectiveInterval(); got != 5*time.Minute {
		t.Errorf("EffectiveInterval = %v, want 5m", got)
	}
	if got := s.EffectivePoll(); got != 15*time.Second {
		t.Errorf("EffectivePoll = %v, want 15s", got)
	}
	if got := s.EffectiveMaxAttempts(); got != 3 {
		t.Errorf("EffectiveMaxAttempts = %d, want 3", got)
	}
	if got := s.EffectiveRetryDelay(); got != time.Second {
		t.Errorf("EffectiveRetryDelay = %v, want 1s", got)
	}
}

func TestEffectiveOverrides(t *testing.T) {
	s := SyncConfig{IntervalSec: 60, PollSec: 5, MaxAttempts: 10, RetryDelayMS: 250}

	if got := s.EffectiveInterval(); got != time.Minute {
		t.Errorf("EffectiveInterval = %v, want 1m", got)
	}
	if got := s.EffectivePoll(); got != 5*time.Second {
		t.Errorf("EffectivePoll = %v, want 5s", got)
	}
	if got := s.EffectiveMaxAttempts(); got != 10 {
		t.Errorf("EffectiveMaxAttempts = %d, want 10", got)
	}
	if got := s.EffectiveRetryDelay(); got != 250*time.Millisecond {
		t.Errorf("EffectiveRetryDelay = %v, want 250ms", got)
	}
}

// --- Load/Save tests ---

func TestSaveAndLoad_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Sync.Endpoint = "https://sync.example.com/api"
	cfg.Sync.IntervalSec = 120

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Version != 1 {
		t.Errorf("version = %d, want 1", got.Version)
	}
	if got.Sync.Endpoint != "https://sync.example.com/api" {
		t.Errorf("endpoint = %q", got.Sync.Endpoint)
	}
	if got.Sync.IntervalSec != 120 {
		t.Errorf("interval_sec = %d, want 120", got.Sync.IntervalSec)
	}
	if got.Sync.ProbeAddr != "1.1.1.1:443" {
		t.Errorf("probe_addr = %q", got.Sync.ProbeAddr)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want wrapped os.ErrNotExist", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("sync: [not a map"), 0644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoad_RejectsNegativeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("version: 1\nsync:\n  max_attempts: -1\n"), 0644)

	if _, err := Load(path); err == nil {
		t.Fatal("expected a validation error")
	}
}
