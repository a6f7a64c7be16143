// Package config loads rule files (baseline.toml or baseline.yaml), resolves
// presets and plugins into rule specs, and reads runtime settings.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// SettingsDir holds per-repository runtime settings.
const SettingsDir = ".baseline"

// Settings are runtime options that are not part of the rule file. They are
// read from .baseline/settings.json and BASELINE_* environment variables.
type Settings struct {
	Version  int    `json:"version" mapstructure:"version"`
	Config   string `json:"config" mapstructure:"config"`
	Format   string `json:"format" mapstructure:"format"`
	LogLevel string `json:"logLevel" mapstructure:"logLevel"`
	Workers  int    `json:"workers" mapstructure:"workers"`
	Baseline string `json:"baseline" mapstructure:"baseline"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() *Settings {
	return &Settings{
		Version:  1,
		Config:   DefaultConfigFile,
		Format:   "pretty",
		LogLevel: "warn",
		Workers:  0,
		Baseline: filepath.Join(SettingsDir, "baseline.json"),
	}
}

// LoadSettings reads settings for repoRoot. Missing files yield defaults;
// environment variables override both.
func LoadSettings(repoRoot string) (*Settings, error) {
	def := DefaultSettings()

	v := viper.New()
	v.SetDefault("version", def.Version)
	v.SetDefault("config", def.Config)
	v.SetDefault("format", def.Format)
	v.SetDefault("logLevel", def.LogLevel)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("baseline", def.Baseline)

	v.SetEnvPrefix("BASELINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// camelCase keys do not map onto BASELINE_LOG_LEVEL by themselves
	_ = v.BindEnv("logLevel", "BASELINE_LOG_LEVEL")

	v.SetConfigName("settings")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, SettingsDir))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	return &s, s.Validate()
}

// Save writes the settings to .baseline/settings.json.
func (s *Settings) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, SettingsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "settings.json"), data, 0644)
}

// Validate checks the settings.
func (s *Settings) Validate() error {
	if s.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported settings version"}
	}
	if s.Workers < 0 {
		return &ConfigError{Field: "workers", Message: "must not be negative"}
	}
	switch s.Format {
	case "pretty", "json", "compact", "github", "sarif", "markdown":
	default:
		return &ConfigError{Field: "format", Message: "unknown output format '" + s.Format + "'"}
	}
	return nil
}

// ConfigError represents a settings error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
