package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a tasktrack project.
type Config struct {
	Version int        `yaml:"version"`
	Sync    SyncConfig `yaml:"sync"`
}

// SyncConfig controls the sync queue and connectivity monitor.
type SyncConfig struct {
	IntervalSec   int    `yaml:"interval_sec,omitempty"`    // drain cadence while online (0 = default 300)
	PollSec       int    `yaml:"poll_sec,omitempty"`        // connectivity probe cadence (0 = default 15)
	MaxAttempts   int    `yaml:"max_attempts,omitempty"`    // drain failures before an intent is dropped (0 = default 3)
	RetryDelayMS  int    `yaml:"retry_delay_ms,omitempty"`  // pause between dispatches (0 = default 1000)
	ProbeAddr     string `yaml:"probe_addr,omitempty"`      // host:port dialed to check connectivity
	Endpoint      string `yaml:"endpoint,omitempty"`        // remote sync endpoint; empty = log-only dispatch
	WatchLogFile  string `yaml:"watch_log_file,omitempty"`  // rotating log for the watch daemon; empty = stderr
}

// EffectiveInterval returns the drain cadence.
func (s SyncConfig) EffectiveInterval() time.Duration {
	if s.IntervalSec > 0 {
		return time.Duration(s.IntervalSec) * time.Second
	}
	return 5 * time.Minute
}

// EffectivePoll returns the connectivity probe cadence.
func (s SyncConfig) EffectivePoll() time.Duration {
	if s.PollSec > 0 {
		return time.Duration(s.PollSec) * time.Second
	}
	return 15 * time.Second
}

// EffectiveMaxAttempts returns the retry bound.
func (s SyncConfig) EffectiveMaxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return 3
}

// EffectiveRetryDelay returns the inter-dispatch pause.
func (s SyncConfig) EffectiveRetryDelay() time.Duration {
	if s.RetryDelayMS > 0 {
		return time.Duration(s.RetryDelayMS) * time.Millisecond
	}
	return time.Second
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to the given path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a starter config.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Sync: SyncConfig{
			ProbeAddr: "1.1.1.1:443",
		},
	}
}

func (c *Config) validate() error {
	if c.Sync.IntervalSec < 0 {
		return fmt.Errorf("sync.interval_sec must be non-negative, got %d", c.Sync.IntervalSec)
	}
	if c.Sync.PollSec < 0 {
		return fmt.Errorf("sync.poll_sec must be non-negative, got %d", c.Sync.PollSec)
	}
	if c.Sync.MaxAttempts < 0 {
		return fmt.Errorf("sync.max_attempts must be non-negative, got %d", c.Sync.MaxAttempts)
	}
	if c.Sync.RetryDelayMS < 0 {
		return fmt.Errorf("sync.retry_delay_ms must be non-negative, got %d", c.Sync.RetryDelayMS)
	}
	return nil
}
