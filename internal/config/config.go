// SPDX-License-Identifier: MIT

// Package config loads runtime configuration. Precedence is environment
// variables over an optional YAML file over built-in defaults; the whole
// config is validated before use.
package config

import (
	"fmt"
	"time"

	"github.com/YuQing-Ding/IPTV-Editor/internal/probe"
)

// Config is the resolved runtime configuration.
type Config struct {
	// Listen is the HTTP listen address of the editor API.
	Listen string `yaml:"listen"`
	// DataDir is where project files and language preference live.
	DataDir string `yaml:"data_dir"`

	// DefaultGroup is assigned to bulk-imported channels without a group.
	DefaultGroup string `yaml:"default_group"`
	// Language is the startup UI message language (zh_CN, zh_TW, en).
	Language string `yaml:"language"`

	StreamTimeout time.Duration `yaml:"stream_timeout"`
	LogoTimeout   time.Duration `yaml:"logo_timeout"`
	DebounceDelay time.Duration `yaml:"debounce_delay"`

	ProbeWorkers   int     `yaml:"probe_workers"`
	ProbeQueueSize int     `yaml:"probe_queue_size"`
	ProbeRPS       float64 `yaml:"probe_rps"`

	// RateLimitRPM caps probe-dispatch API requests per client per minute.
	// Zero disables the limiter.
	RateLimitRPM int `yaml:"rate_limit_rpm"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Listen:         ":8080",
		DataDir:        "./data",
		DefaultGroup:   "",
		Language:       "",
		StreamTimeout:  probe.DefaultStreamTimeout,
		LogoTimeout:    probe.DefaultLogoTimeout,
		DebounceDelay:  probe.DefaultDebounceDelay,
		ProbeWorkers:   0, // 0 = NumCPU
		ProbeQueueSize: 512,
		ProbeRPS:       0,
		RateLimitRPM:   0,
		LogLevel:       "info",
	}
}

// Validate rejects configurations the server cannot run with.
func Validate(cfg Config) error {
	if cfg.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if cfg.StreamTimeout <= 0 {
		return fmt.Errorf("stream_timeout must be positive, got %s", cfg.StreamTimeout)
	}
	if cfg.LogoTimeout <= 0 {
		return fmt.Errorf("logo_timeout must be positive, got %s", cfg.LogoTimeout)
	}
	if cfg.DebounceDelay < 0 {
		return fmt.Errorf("debounce_delay must not be negative, got %s", cfg.DebounceDelay)
	}
	if cfg.ProbeWorkers < 0 {
		return fmt.Errorf("probe_workers must not be negative, got %d", cfg.ProbeWorkers)
	}
	if cfg.ProbeQueueSize <= 0 {
		return fmt.Errorf("probe_queue_size must be positive, got %d", cfg.ProbeQueueSize)
	}
	if cfg.ProbeRPS < 0 {
		return fmt.Errorf("probe_rps must not be negative, got %g", cfg.ProbeRPS)
	}
	if cfg.RateLimitRPM < 0 {
		return fmt.Errorf("rate_limit_rpm must not be negative, got %d", cfg.RateLimitRPM)
	}
	switch cfg.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return nil
}
