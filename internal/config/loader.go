// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader resolves a full Config from defaults, an optional YAML file and
// the process environment, in that order.
type Loader struct {
	// Path is the YAML config file. Empty means ENV-only.
	Path string
}

// Load resolves and validates the configuration. A missing file at Path
// is an error; an empty Path skips the file layer entirely.
func (l *Loader) Load() (Config, error) {
	cfg := Default()

	if l.Path != "" {
		raw, err := os.ReadFile(l.Path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		// an empty file decodes to io.EOF, which just means "all defaults"
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config file %s: %w", l.Path, err)
		}
	}

	cfg = applyEnv(cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
