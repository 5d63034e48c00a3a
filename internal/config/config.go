// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all contacts configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Output  Output  `yaml:"output"`
	Log     Log     `yaml:"log"`
}

// Storage holds contact file settings.
type Storage struct {
	File     string `yaml:"file"`     // Default contact file, loaded at startup.
	Autosave bool   `yaml:"autosave"` // Write the store back after changes.
}

// Output holds rendering settings for list-style commands.
type Output struct {
	Format string `yaml:"format"` // "table" | "yaml"
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `yaml:"format"` // "text" | "json"
	File   string `yaml:"file"`   // Empty for stderr.
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			File:     "contact_storage.txt",
			Autosave: true,
		},
		Output: Output{
			Format: "table",
		},
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files and empty paths are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Storage.File == "" {
		return errors.New("config: storage.file cannot be empty")
	}
	switch c.Output.Format {
	case "table", "yaml":
		// valid
	default:
		return fmt.Errorf("config: output.format must be \"table\" or \"yaml\", got %q", c.Output.Format)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: CONTACTS_FILE, CONTACTS_AUTOSAVE, CONTACTS_OUTPUT, CONTACTS_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	setIf(&c.Storage.File, ov.File)
	setIf(&c.Storage.Autosave, ov.Autosave)
	setIf(&c.Output.Format, ov.Output)
	setIf(&c.Log.Level, ov.LogLevel)
	return nil
}

// envOverrides holds the variables ApplyEnv reads; unset ones stay nil.
type envOverrides struct {
	File     *string `env:"CONTACTS_FILE"`
	Autosave *bool   `env:"CONTACTS_AUTOSAVE"`
	Output   *string `env:"CONTACTS_OUTPUT"`
	LogLevel *string `env:"CONTACTS_LOG_LEVEL"`
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage *rawStorage `yaml:"storage"`
	Output  *rawOutput  `yaml:"output"`
	Log     *rawLog     `yaml:"log"`
}

type rawStorage struct {
	File     *string `yaml:"file"`
	Autosave *bool   `yaml:"autosave"`
}

type rawOutput struct {
	Format *string `yaml:"format"`
}

type rawLog struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
	File   *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Storage != nil {
		setIf(&c.Storage.File, layer.Storage.File)
		setIf(&c.Storage.Autosave, layer.Storage.Autosave)
	}
	if layer.Output != nil {
		setIf(&c.Output.Format, layer.Output.Format)
	}
	if layer.Log != nil {
		setIf(&c.Log.Level, layer.Log.Level)
		setIf(&c.Log.Format, layer.Log.Format)
		setIf(&c.Log.File, layer.Log.File)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
