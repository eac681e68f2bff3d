// Package config loads the optional lep.yaml defaults file.
//
// The config supplies caller defaults only; precedence is always
// flags > config file > document defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up inside the repository root when no
// --config flag is given.
const DefaultFileName = "lep.yaml"

// Config holds caller defaults for applying edit documents.
type Config struct {
	// EOL is the default line-ending policy (preserve|lf|crlf).
	EOL string `yaml:"eol,omitempty"`

	// Encoding is the default text encoding name.
	Encoding string `yaml:"encoding,omitempty"`

	// Journal is a SQLite path to record transactions into.
	Journal string `yaml:"journal,omitempty"`

	// Quiet suppresses the status stream.
	Quiet bool `yaml:"quiet,omitempty"`
}

// Load reads and parses a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Discover loads the config for a repository root. An explicit path wins;
// otherwise lep.yaml inside the root is used when present. A missing
// default file is not an error - the zero config applies.
func Discover(explicit, root string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path := filepath.Join(root, DefaultFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	return Load(path)
}
