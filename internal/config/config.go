// Package config loads the optional YAML config file and environment
// overrides for the CLI.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries everything the CLI needs beyond its flags.
type Config struct {
	// StorePath is where the collection blob lives. A .sqlite3/.db suffix
	// selects the SQLite backend, anything else a plain JSON file.
	StorePath string `yaml:"store_path"`

	// GeminiAPIKey authenticates the image-analysis call. The
	// GEMINI_API_KEY environment variable takes precedence.
	GeminiAPIKey string `yaml:"gemini_api_key"`

	// ServiceAccountKey is the path to a Google service-account JSON key,
	// used instead of the API key when set.
	ServiceAccountKey string `yaml:"service_account_key"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		StorePath: "inventory_local_data.json",
		LogLevel:  "info",
	}
}

// Load reads the config file at path (skipped when empty) on top of the
// defaults, then applies environment overrides. Unknown keys in the file
// are an error, so typos surface instead of silently doing nothing.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.GeminiAPIKey = key
	}

	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level maps LogLevel onto a slog level.
func (c Config) Level() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}
