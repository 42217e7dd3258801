package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/gerunddev/blockdown/internal/block"
)

// Config represents the blockdown configuration
type Config struct {
	DocumentFile  string        `json:"document_file"`
	SnapshotFile  string        `json:"snapshot_file"`
	BootstrapFile string        `json:"bootstrap_file,omitempty"`
	LogFile       string        `json:"log_file"`
	Interval      time.Duration `json:"-"` // Custom JSON handling below
	OutputFormat  block.Format  `json:"output_format,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DocumentFile: filepath.Join(home, "Documents", "blockdown", "document.md"),
		SnapshotFile: filepath.Join(xdg.DataHome, "blockdown", "snapshot.json"),
		LogFile:      "/tmp/blockdown.log",
		Interval:     2 * time.Second,
		OutputFormat: block.FormatJSON,
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "blockdown", "config.json")
	}
	return filepath.Join(home, ".config", "blockdown", "config.json")
}

// StateFilePath returns the path to the state file
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, "blockdown", "state.json")
}

// PIDFilePath returns the path to the background watcher's PID file
// Can be overridden for testing
var PIDFilePath = func() string {
	return filepath.Join(filepath.Dir(ConfigPath()), "watch.pid")
}

type rawConfig struct {
	DocumentFile  string `json:"document_file"`
	SnapshotFile  string `json:"snapshot_file"`
	BootstrapFile string `json:"bootstrap_file,omitempty"`
	LogFile       string `json:"log_file"`
	Interval      string `json:"interval"`
	OutputFormat  string `json:"output_format,omitempty"`
}

// Load reads configuration from the config directory
func Load() (*Config, error) {
	configPath := ConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	defaults := DefaultConfig()
	cfg := &Config{
		DocumentFile:  raw.DocumentFile,
		SnapshotFile:  raw.SnapshotFile,
		BootstrapFile: raw.BootstrapFile,
		LogFile:       raw.LogFile,
		Interval:      defaults.Interval,
		OutputFormat:  block.Format(raw.OutputFormat),
	}

	if raw.Interval != "" {
		interval, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval format '%s': %w", raw.Interval, err)
		}
		cfg.Interval = interval
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = defaults.OutputFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the config directory
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw := rawConfig{
		DocumentFile:  c.DocumentFile,
		SnapshotFile:  c.SnapshotFile,
		BootstrapFile: c.BootstrapFile,
		LogFile:       c.LogFile,
		Interval:      c.Interval.String(),
		OutputFormat:  string(c.OutputFormat),
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DocumentFile == "" {
		return fmt.Errorf("document_file cannot be empty")
	}
	if c.SnapshotFile == "" {
		return fmt.Errorf("snapshot_file cannot be empty")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if !c.OutputFormat.Valid() {
		return fmt.Errorf("invalid output_format '%s': must be one of: json, yaml, dump", c.OutputFormat)
	}
	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.DocumentFile, err = expandPath(c.DocumentFile)
	if err != nil {
		return fmt.Errorf("failed to expand document_file: %w", err)
	}

	c.SnapshotFile, err = expandPath(c.SnapshotFile)
	if err != nil {
		return fmt.Errorf("failed to expand snapshot_file: %w", err)
	}

	c.BootstrapFile, err = expandPath(c.BootstrapFile)
	if err != nil {
		return fmt.Errorf("failed to expand bootstrap_file: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
