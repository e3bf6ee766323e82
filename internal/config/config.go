// Package config handles loading and saving user configuration for transcheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all user configuration for the transcheck client.
type Config struct {
	ServerURL  string `yaml:"server_url"`
	TesterName string `yaml:"tester_name"`

	// Timeouts in seconds; zero falls back to the built-in defaults.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
	ListTimeoutSeconds    int `yaml:"list_timeout_seconds"`

	// HistoryLimit caps the local translation history; older entries
	// are pruned past this count.
	HistoryLimit int `yaml:"history_limit"`

	// ExportDir is where spreadsheet exports are written. Empty means
	// the current directory.
	ExportDir string `yaml:"export_dir"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		ServerURL:             "http://localhost:5000",
		RequestTimeoutSeconds: 30,
		ListTimeoutSeconds:    10,
		HistoryLimit:          200,
	}
}

// RequestTimeout returns the per-request timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ListTimeout returns the deadline applied to test-result listings.
func (c *Config) ListTimeout() time.Duration {
	if c.ListTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ListTimeoutSeconds) * time.Second
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to a YAML file.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// LoadOrInit loads the config from dir, writing the defaults on first run.
func LoadOrInit(dir string) (*Config, error) {
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config dir: %w", err)
		}
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return Load(path)
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "transcheck"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "transcheck"), nil
}

// HistoryPath returns the translation-history database path under dir.
func HistoryPath(dir string) string {
	return filepath.Join(dir, "history.db")
}
