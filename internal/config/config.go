// Package config loads the demo application's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/atinylittleshell/typeahead/internal/sources"
)

// Config is the demo application's configuration surface.
type Config struct {
	// MinChar suppresses suggestion sessions until the token run is longer
	// than this many characters.
	MinChar int `yaml:"minChar"`

	// SelectionHistoryLimit caps how many stored selections a history
	// source returns per fetch.
	SelectionHistoryLimit int `yaml:"selectionHistoryLimit"`

	// LLMEnabled turns the language-model-backed source on.
	LLMEnabled bool `yaml:"llmEnabled"`

	LLM sources.LLMConfig `yaml:"llm"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		MinChar:               1,
		SelectionHistoryLimit: 5,
	}
}

// Load reads the configuration file at path, falling back to defaults when
// the file does not exist. A malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if cfg.MinChar < 0 {
		return cfg, fmt.Errorf("config file %s: minChar must be >= 0", path)
	}

	return cfg, nil
}

var dataDir string

// DataDir returns the directory holding the selection history database and
// log file, creating it on first use.
func DataDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(homeDir, ".local", "share", "typeahead")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	dataDir = dir
	return dataDir, nil
}

// ConfigFile returns the default config file location.
func ConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "typeahead", "config.yaml"), nil
}
