// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultDebounce is how long watch mode waits for the source tree to settle
const DefaultDebounce = 500 * time.Millisecond

// ErrNoParser is returned for a config file with an unrecognised extension
var ErrNoParser = errors.Base("no parser for config file")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config holds the settings that can be kept in a file instead of passed
// on every invocation. Zero values mean "not set".
type Config struct {
	Threads  int      `json:"threads,omitempty" yaml:"threads,omitempty" hcl:"threads,optional"`
	Exclude  []string `json:"exclude,omitempty" yaml:"exclude,omitempty" hcl:"exclude,optional"`
	Checksum bool     `json:"checksum,omitempty" yaml:"checksum,omitempty" hcl:"checksum,optional"`
	NoDelete bool     `json:"nodelete,omitempty" yaml:"nodelete,omitempty" hcl:"nodelete,optional"`
	Secure   bool     `json:"secure,omitempty" yaml:"secure,omitempty" hcl:"secure,optional"`
	Verbose  bool     `json:"verbose,omitempty" yaml:"verbose,omitempty" hcl:"verbose,optional"`
	Copy     bool     `json:"copy,omitempty" yaml:"copy,omitempty" hcl:"copy,optional"`
	// Debounce is a Go duration string, e.g. "250ms"
	Debounce string `json:"debounce,omitempty" yaml:"debounce,omitempty" hcl:"debounce,optional"`
}

// 🎯 Load reads, parses and validates a config file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("%s: %w", path, ErrNoParser)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")
	return cfg, nil
}

// 🔍 Validate checks every field that can be wrong on its own
func (cfg *Config) Validate() error {
	if cfg.Threads < 0 {
		return errors.Errorf("threads must not be negative, got %d", cfg.Threads)
	}

	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	if cfg.Debounce != "" {
		d, err := time.ParseDuration(cfg.Debounce)
		if err != nil {
			return errors.Errorf("parsing debounce: %w", err)
		}
		if d < 0 {
			return errors.Errorf("debounce must not be negative, got %s", d)
		}
	}

	return nil
}

// DebounceDuration returns the parsed debounce, or DefaultDebounce when unset.
// Call Validate first.
func (cfg *Config) DebounceDuration() time.Duration {
	if cfg.Debounce == "" {
		return DefaultDebounce
	}
	d, err := time.ParseDuration(cfg.Debounce)
	if err != nil {
		return DefaultDebounce
	}
	return d
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	var flags []string
	for _, f := range []struct {
		set  bool
		name string
	}{
		{cfg.Copy, "copy"},
		{cfg.NoDelete, "nodelete"},
		{cfg.Secure, "secure"},
		{cfg.Verbose, "verbose"},
		{cfg.Checksum, "checksum"},
	} {
		if f.set {
			flags = append(flags, f.name)
		}
	}
	return fmt.Sprintf("threads=%d exclude=[%s] flags=[%s]", cfg.Threads, strings.Join(cfg.Exclude, ","), strings.Join(flags, ","))
}

// defaultNames are tried in order by Discover
var defaultNames = []string{"config.yaml", "config.yml", "config.json", "config.hcl"}

// 🔎 Discover returns the first config file found under the user config
// directory (lumins/config.{yaml,yml,json,hcl}), or "" when there is none.
func Discover() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Errorf("locating user config directory: %w", err)
	}

	for _, name := range defaultNames {
		path := filepath.Join(base, "lumins", name)
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", errors.Errorf("checking %s: %w", path, err)
		}
	}
	return "", nil
}
