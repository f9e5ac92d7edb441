// Package config handles reading and writing ~/.staffwatch/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	// DatabasePath overrides the default sqlite location.
	DatabasePath string `yaml:"database_path"`

	// ReportingUTCOffsetMin is the fixed reporting timezone as an offset
	// from UTC in minutes. All date bucketing and hour extraction uses this
	// offset, never the host zone.
	ReportingUTCOffsetMin int `yaml:"reporting_utc_offset_min"`

	// MinTickSeconds / MaxTickSeconds bound accepted interval durations.
	// MaxTickSeconds 0 disables the cap.
	MinTickSeconds int `yaml:"min_tick_seconds"`
	MaxTickSeconds int `yaml:"max_tick_seconds"`

	// Browsers lists extra application names treated as browsers for URL
	// derivation, on top of the built-in set.
	Browsers []string `yaml:"browsers"`

	// Debug raises database logging from silent to info.
	Debug bool `yaml:"debug"`
}

const configDir = ".staffwatch"
const configFile = "config.yaml"

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportingUTCOffsetMin: 0,
		MinTickSeconds:        1,
		MaxTickSeconds:        3600,
	}
}

// Load reads config.yaml from the user's home directory, falling back to
// defaults when the file does not exist.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return Read(homeDir)
}

// Read reads <dir>/.staffwatch/config.yaml. A missing file yields the
// default config, malformed YAML is an error.
func Read(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Write writes cfg to <dir>/.staffwatch/config.yaml, creating the directory
// if needed.
func Write(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ReportingLocation builds the fixed reporting zone from the configured
// offset.
func (c *Config) ReportingLocation() *time.Location {
	if c.ReportingUTCOffsetMin == 0 {
		return time.UTC
	}
	return time.FixedZone("reporting", c.ReportingUTCOffsetMin*60)
}

// TickBounds returns the configured interval duration bounds.
func (c *Config) TickBounds() (min, max time.Duration) {
	return time.Duration(c.MinTickSeconds) * time.Second,
		time.Duration(c.MaxTickSeconds) * time.Second
}
