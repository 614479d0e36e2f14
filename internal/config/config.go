// Package config loads the optional per-project scanner configuration.
// Loading is best-effort: an absent or malformed file yields the zero
// config, never an error, matching how the checks treat unreadable input.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is looked up in the scanned project's root.
const FileName = ".railcheck.yaml"

// Config tunes a scan for one project.
type Config struct {
	// Ignore adds directory names to the built-in skip list.
	Ignore []string `yaml:"ignore"`

	// Checks restricts the scan to the named checks (same names as the
	// --checks flag). Empty means all.
	Checks []string `yaml:"checks"`

	// MaxFiles overrides the per-check file cap.
	MaxFiles int `yaml:"max_files"`
}

// Load reads the project's scanner configuration, if any.
func Load(root string) Config {
	var cfg Config

	data, err := os.ReadFile(filepath.Join(root, FileName)) //nolint:gosec // project-local config
	if err != nil {
		return cfg
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}
