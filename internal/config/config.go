// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/swiftblocks/internal/types"
)

// Config represents the export settings that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or come from CLI flags.
type Config struct {
	// Project
	ProjectName  string `json:"project_name,omitempty"`  // Xcode project and target name
	User         string `json:"user,omitempty"`          // Account name for xcuserdata
	BundlePrefix string `json:"bundle_prefix,omitempty"` // Reverse-DNS bundle identifier prefix

	// Output
	OutputDir string `json:"output_dir,omitempty"` // Directory the archive is written to
	Store     string `json:"store,omitempty"`      // memory, postgres or s3

	// Behavior
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	Jobs        int    `json:"jobs,omitempty"`         // Files translated concurrently
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
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

// Validate checks that the configuration has valid values.
// Required fields are checked by the CLI after merging with flags.
func (c *Config) Validate() error {
	if c.ProjectName != "" && !types.ValidProjectName(c.ProjectName) {
		return fmt.Errorf("config error: 'project_name' must be a Swift identifier, got %q", c.ProjectName)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("config error: 'jobs' must be non-negative")
	}
	switch c.Store {
	case "", BackendMemory, BackendPostgres, BackendS3:
	default:
		return fmt.Errorf("config error: unknown store %q", c.Store)
	}
	if c.OutputDir != "" {
		if info, err := os.Stat(c.OutputDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: output_dir is not a directory: %s", c.OutputDir)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ProjectName == "" {
		result.ProjectName = defaults.ProjectName
	}
	if result.User == "" {
		result.User = defaults.User
	}
	if result.BundlePrefix == "" {
		result.BundlePrefix = defaults.BundlePrefix
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Jobs == 0 {
		result.Jobs = defaults.Jobs
	}

	// Bool fields: true wins
	if !result.Verbose && defaults.Verbose {
		result.Verbose = true
	}

	return result
}
