// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsOnly(t *testing.T) {
	l := &Loader{}
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, 512, cfg.ProbeQueueSize)
	assert.Equal(t, 6*time.Second, cfg.StreamTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceDelay)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9090"
default_group: "央视"
stream_timeout: 10s
probe_workers: 4
probe_rps: 2.5
log_level: debug
`), 0o644))

	l := &Loader{Path: path}
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "央视", cfg.DefaultGroup)
	assert.Equal(t, 10*time.Second, cfg.StreamTimeout)
	assert.Equal(t, 4, cfg.ProbeWorkers)
	assert.Equal(t, 2.5, cfg.ProbeRPS)
	assert.Equal(t, "debug", cfg.LogLevel)
	// untouched fields keep their defaults
	assert.Equal(t, 512, cfg.ProbeQueueSize)
}

func TestLoadUnknownYAMLKeyRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listne: \":9090\"\n"), 0o644))

	_, err := (&Loader{Path: path}).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoadMissingFileIsError(t *testing.T) {
	_, err := (&Loader{Path: filepath.Join(t.TempDir(), "absent.yaml")}).Load()
	require.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9090\"\n"), 0o644))

	t.Setenv("IPTVED_LISTEN", ":7070")
	t.Setenv("IPTVED_STREAM_TIMEOUT", "3s")
	t.Setenv("IPTVED_RATE_LIMIT_RPM", "60")

	cfg, err := (&Loader{Path: path}).Load()
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Listen)
	assert.Equal(t, 3*time.Second, cfg.StreamTimeout)
	assert.Equal(t, 60, cfg.RateLimitRPM)
}

func TestEnvInvalidValueFallsBack(t *testing.T) {
	t.Setenv("IPTVED_PROBE_WORKERS", "many")
	t.Setenv("IPTVED_PROBE_RPS", "fast")

	cfg, err := (&Loader{}).Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.ProbeWorkers)
	assert.Equal(t, 0.0, cfg.ProbeRPS)
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen", func(c *Config) { c.Listen = "" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"zero stream timeout", func(c *Config) { c.StreamTimeout = 0 }},
		{"negative workers", func(c *Config) { c.ProbeWorkers = -1 }},
		{"zero queue", func(c *Config) { c.ProbeQueueSize = 0 }},
		{"negative rps", func(c *Config) { c.ProbeRPS = -1 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestHolderReloadSwapsAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9090\"\n"), 0o644))

	loader := &Loader{Path: path}
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewHolder(initial, loader)
	assert.Equal(t, ":9090", h.Get().Listen)

	require.NoError(t, os.WriteFile(path, []byte("listen: \":6060\"\nprobe_workers: 2\n"), 0o644))
	require.NoError(t, h.Reload(context.Background()))
	assert.Equal(t, ":6060", h.Get().Listen)
	assert.Equal(t, 2, h.Get().ProbeWorkers)
}

func TestHolderReloadKeepsOldOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9090\"\n"), 0o644))

	loader := &Loader{Path: path}
	initial, err := loader.Load()
	require.NoError(t, err)
	h := NewHolder(initial, loader)

	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o644))
	require.Error(t, h.Reload(context.Background()))
	assert.Equal(t, ":9090", h.Get().Listen)
}

func TestHolderListenerNotified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9090\"\n"), 0o644))

	loader := &Loader{Path: path}
	initial, err := loader.Load()
	require.NoError(t, err)
	h := NewHolder(initial, loader)

	ch := make(chan Config, 1)
	h.RegisterListener(ch)

	require.NoError(t, os.WriteFile(path, []byte("listen: \":6060\"\n"), 0o644))
	require.NoError(t, h.Reload(context.Background()))

	select {
	case got := <-ch:
		assert.Equal(t, ":6060", got.Listen)
	case <-time.After(time.Second):
		t.Fatal("listener was not notified")
	}
}
