// Package config provides configuration loading and validation for
// the jobtrack service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config is the service configuration, loadable from a JSON file.
// All fields are optional; missing values use defaults or environment
// overrides.
type Config struct {
	// Paths
	DBPath     string `json:"db_path,omitempty"`     // SQLite database file
	DocsDir    string `json:"docs_dir,omitempty"`    // Output folder for generated materials
	BaseResume string `json:"base_resume,omitempty"` // Base resume markdown file
	Profile    string `json:"profile,omitempty"`     // Skills profile JSON for the scorer

	// Server
	Port int `json:"port,omitempty"`

	// Behavior
	EnforceTransitions bool `json:"enforce_transitions,omitempty"` // Reject off-chain status moves
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DBPath:  "jobs.db",
		DocsDir: "docs",
		Port:    8080,
	}
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv overlays environment variables onto the config:
// JOBTRACK_DB, JOBTRACK_DOCS, JOBTRACK_PROFILE, JOBTRACK_BASE_RESUME
// and PORT.
func (c *Config) FromEnv() {
	if v := os.Getenv("JOBTRACK_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("JOBTRACK_DOCS"); v != "" {
		c.DocsDir = v
	}
	if v := os.Getenv("JOBTRACK_PROFILE"); v != "" {
		c.Profile = v
	}
	if v := os.Getenv("JOBTRACK_BASE_RESUME"); v != "" {
		c.BaseResume = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
}

// MergeWithDefaults fills empty fields from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c
	if result.DBPath == "" {
		result.DBPath = defaults.DBPath
	}
	if result.DocsDir == "" {
		result.DocsDir = defaults.DocsDir
	}
	if result.BaseResume == "" {
		result.BaseResume = defaults.BaseResume
	}
	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	return result
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	if c.Profile != "" {
		if _, err := os.Stat(c.Profile); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.Profile)
		}
	}
	if c.BaseResume != "" {
		if _, err := os.Stat(c.BaseResume); os.IsNotExist(err) {
			return fmt.Errorf("config error: base resume file not found: %s", c.BaseResume)
		}
	}
	return nil
}
