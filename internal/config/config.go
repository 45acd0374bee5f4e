// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for jsonstream with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Input-format specific configuration
//  4. Configuration file
//  5. Built-in defaults
//
// Flags are applied by the command itself; this package handles the rest.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sirseerhq/jsonstream/internal/output"
	"github.com/sirseerhq/jsonstream/internal/sink"
)

// LoadConfig loads configuration from the file at configPath, or when that
// is empty from the first file found among:
//   - .jsonstream.yaml (current directory)
//   - .jsonstream.yml (current directory)
//   - ~/.jsonstream/config.yaml
//
// Environment variables are applied on top. A missing file in the standard
// locations is not an error; a missing explicit file is.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".jsonstream.yaml",
			".jsonstream.yml",
			filepath.Join(homeDir(), ".jsonstream", "config.yaml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.MetadataDir = expandPath(cfg.MetadataDir)

	return cfg, nil
}

// LoadConfigForInput loads configuration and applies the overrides
// configured for the given input format name.
func LoadConfigForInput(configPath, format string) (*Config, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyInput(format)
	return cfg, nil
}

// ApplyInput folds the overrides for format into the global settings.
func (c *Config) ApplyInput(format string) {
	in, ok := c.Inputs[format]
	if !ok {
		return
	}
	if in.Indent != nil {
		c.Format.Indent = *in.Indent
	}
	if in.TopLevel != nil {
		c.Format.TopLevel = *in.TopLevel
	}
}

func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if indent := os.Getenv("JSONSTREAM_INDENT"); indent != "" {
		n, err := parseNonNegativeInt(indent)
		if err != nil {
			return fmt.Errorf("invalid JSONSTREAM_INDENT: %w", err)
		}
		cfg.Format.Indent = n
	}
	if policy := os.Getenv("JSONSTREAM_NON_FINITE"); policy != "" {
		cfg.Format.NonFinite = policy
	}
	if policy := os.Getenv("JSONSTREAM_TOP_LEVEL"); policy != "" {
		cfg.Format.TopLevel = policy
	}
	if newline := os.Getenv("JSONSTREAM_FINAL_NEWLINE"); newline != "" {
		cfg.Format.FinalNewline = parseBool(newline)
	}

	if compression := os.Getenv("JSONSTREAM_COMPRESSION"); compression != "" {
		cfg.Output.Compression = compression
	}
	if color := os.Getenv("JSONSTREAM_COLOR"); color != "" {
		cfg.Output.Color = strings.ToLower(color)
	}
	if dir := os.Getenv("JSONSTREAM_METADATA_DIR"); dir != "" {
		cfg.MetadataDir = dir
	}
	return nil
}

func homeDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE") // Windows
	}
	return home
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir(), path[2:])
	}
	return os.ExpandEnv(path)
}

func parseNonNegativeInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i < 0 {
		return 0, fmt.Errorf("value must not be negative, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// Validate checks that every setting names something jsonstream supports.
// Call it after all sources, flags included, have been applied.
func (c *Config) Validate() error {
	if c.Format.Indent < 0 {
		return fmt.Errorf("indent must not be negative, got: %d", c.Format.Indent)
	}
	if _, err := output.ParseNonFinitePolicy(c.Format.NonFinite); err != nil {
		return err
	}
	if _, err := output.ParseTopLevelPolicy(c.Format.TopLevel); err != nil {
		return err
	}
	if _, err := sink.ParseCompression(c.Output.Compression); err != nil {
		return err
	}
	switch c.Output.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q (must be auto, always or never)", c.Output.Color)
	}
	return nil
}

// WriterOptions converts the format section to writer options. Colors are
// left unset; the caller decides whether the destination is a terminal.
func (c *Config) WriterOptions() (output.Options, error) {
	nonFinite, err := output.ParseNonFinitePolicy(c.Format.NonFinite)
	if err != nil {
		return output.Options{}, err
	}
	topLevel, err := output.ParseTopLevelPolicy(c.Format.TopLevel)
	if err != nil {
		return output.Options{}, err
	}
	return output.Options{
		Indent:          c.Format.Indent,
		SpaceAfterColon: c.Format.SpaceAfterColon,
		SpaceAfterComma: c.Format.SpaceAfterComma,
		NonFinite:       nonFinite,
		TopLevel:        topLevel,
		FinalNewline:    c.Format.FinalNewline,
	}, nil
}
