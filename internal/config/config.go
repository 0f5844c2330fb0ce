// Package config resolves medstore settings from defaults, an optional YAML
// file and MEDSTORE_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig   = "MEDSTORE_CONFIG"
	EnvDB       = "MEDSTORE_DB"
	EnvSeed     = "MEDSTORE_SEED"
	EnvLogLevel = "MEDSTORE_LOG_LEVEL"
)

// DefaultDBPath is used when neither the config file nor the environment
// names a database.
var DefaultDBPath = filepath.Join(".", "data", "medicines.db")

// ValidLogLevels lists the accepted log_level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Config holds medstore settings.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db"`

	// Seed inserts the sample records when the store is empty.
	Seed bool `yaml:"seed"`

	// LogLevel is one of ValidLogLevels.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DBPath:   DefaultDBPath,
		Seed:     true,
		LogLevel: "info",
	}
}

// Load builds a Config from defaults, then the YAML file at path, then the
// environment. An empty path falls back to $MEDSTORE_CONFIG; when that is
// empty too, no file is read. A named file that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decode overlays YAML onto c. Unknown keys are rejected; an empty document
// leaves c unchanged.
func (c *Config) decode(data []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if path := os.Getenv(EnvDB); path != "" {
		c.DBPath = path
	}
	if raw := os.Getenv(EnvSeed); raw != "" {
		seed, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSeed, raw, err)
		}
		c.Seed = seed
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.LogLevel = level
	}
	return nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("db path must not be empty")
	}

	level := strings.ToLower(c.LogLevel)
	for _, l := range ValidLogLevels {
		if level == l {
			return nil
		}
	}
	return fmt.Errorf("invalid log_level %q (valid: %v)", c.LogLevel, ValidLogLevels)
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values map to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// EnsureDataDir creates the directory that will hold DBPath.
func (c *Config) EnsureDataDir() error {
	dir := filepath.Dir(c.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}
