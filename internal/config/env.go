// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/YuQing-Ding/IPTV-Editor/internal/log"
)

// parseString reads a string from an environment variable or returns the
// given value unchanged. Empty variables count as unset.
func parseString(key, current string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		logger := log.WithComponent("config")
		logger.Debug().
			Str("key", key).
			Str("source", "environment").
			Msg("using environment variable")
		return v
	}
	return current
}

// parseInt reads an integer, falling back on parse errors with a warning.
func parseInt(key string, current int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return current
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		logger := log.WithComponent("config")
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Int("default", current).
			Msg("invalid integer in environment variable, using default")
		return current
	}
	return i
}

// parseFloat reads a float64, falling back on parse errors with a warning.
func parseFloat(key string, current float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return current
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger := log.WithComponent("config")
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Float64("default", current).
			Msg("invalid float in environment variable, using default")
		return current
	}
	return f
}

// parseDuration reads a Go duration string such as "5s" or "500ms".
func parseDuration(key string, current time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return current
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger := log.WithComponent("config")
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Dur("default", current).
			Msg("invalid duration in environment variable, using default")
		return current
	}
	return d
}

// applyEnv overlays IPTVED_* environment variables on cfg.
func applyEnv(cfg Config) Config {
	cfg.Listen = parseString("IPTVED_LISTEN", cfg.Listen)
	cfg.DataDir = parseString("IPTVED_DATA_DIR", cfg.DataDir)
	cfg.DefaultGroup = parseString("IPTVED_DEFAULT_GROUP", cfg.DefaultGroup)
	cfg.Language = parseString("IPTVED_LANGUAGE", cfg.Language)
	cfg.StreamTimeout = parseDuration("IPTVED_STREAM_TIMEOUT", cfg.StreamTimeout)
	cfg.LogoTimeout = parseDuration("IPTVED_LOGO_TIMEOUT", cfg.LogoTimeout)
	cfg.DebounceDelay = parseDuration("IPTVED_DEBOUNCE_DELAY", cfg.DebounceDelay)
	cfg.ProbeWorkers = parseInt("IPTVED_PROBE_WORKERS", cfg.ProbeWorkers)
	cfg.ProbeQueueSize = parseInt("IPTVED_PROBE_QUEUE_SIZE", cfg.ProbeQueueSize)
	cfg.ProbeRPS = parseFloat("IPTVED_PROBE_RPS", cfg.ProbeRPS)
	cfg.RateLimitRPM = parseInt("IPTVED_RATE_LIMIT_RPM", cfg.RateLimitRPM)
	cfg.LogLevel = strings.ToLower(parseString("IPTVED_LOG_LEVEL", cfg.LogLevel))
	return cfg
}
