// Package config loads bibtidy's configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the per-project config file.
const FileName = ".bibtidy.yaml"

// Config holds the bibtidy configuration.
type Config struct {
	// Macros are added to the default month macros, overriding them on
	// conflict.
	Macros map[string]string `yaml:"macros,omitempty"`
	// WarnMacros reports references to undefined macros.
	WarnMacros bool `yaml:"warn_macros"`
	// Sort is one of date, type or none.
	Sort string `yaml:"sort,omitempty"`
	// BackupSuffix is appended to a file name to keep the original when a
	// file is rewritten.
	BackupSuffix string `yaml:"backup_suffix,omitempty"`
	// Jobs bounds how many files are processed at once.
	Jobs int `yaml:"jobs,omitempty"`
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		Sort:         "date",
		BackupSuffix: ".untidy",
		Jobs:         4,
	}
}

// Validate checks that the values are usable.
func (c *Config) Validate() error {
	switch c.Sort {
	case "", "date", "type", "none":
	default:
		return fmt.Errorf("sort must be date, type or none, not %q", c.Sort)
	}
	if c.Jobs < 0 {
		return errors.New("jobs must not be negative")
	}
	return nil
}

// DefaultConfigPath returns the user-wide configuration file path.
func DefaultConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "bibtidy", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", FileName)
	}
	return filepath.Join(home, ".config", "bibtidy", "config.yaml")
}

// Load reads the configuration from path. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Find looks for FileName in dir, then for the user-wide file. It returns
// "" if neither exists.
func Find(dir string) string {
	for _, p := range []string{filepath.Join(dir, FileName), DefaultConfigPath()} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadOrDefault loads path, or the file Find locates in dir when path is
// empty. No file at all is not an error.
func LoadOrDefault(path, dir string) (*Config, error) {
	if path == "" {
		path = Find(dir)
	}
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file %s does not exist", path)
	}
	return cfg, err
}
