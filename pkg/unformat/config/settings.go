package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. UNFORMAT_OUTPUT.
const EnvPrefix = "UNFORMAT"

// Settings holds the CLI configuration.
type Settings struct {
	// Output is the result encoding.
	Output string `mapstructure:"output" yaml:"output" validate:"oneof=text json yaml"`
	// LogLevel is the minimum slog level.
	LogLevel string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	// LogFormat selects the slog handler.
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
	// Color enables colored text output.
	Color bool `mapstructure:"color" yaml:"color"`
	// Store is a SQLite path for recording extraction runs; empty disables
	// recording.
	Store string `mapstructure:"store" yaml:"store"`
	// FailFast stops a batch at the first candidate that does not match.
	FailFast bool `mapstructure:"fail_fast" yaml:"fail_fast"`
	// Typed converts captures using their format hints.
	Typed bool `mapstructure:"typed" yaml:"typed"`
	// Metrics enables OpenTelemetry metrics.
	Metrics bool `mapstructure:"metrics" yaml:"metrics"`
	// Tracing enables OpenTelemetry spans.
	Tracing bool `mapstructure:"tracing" yaml:"tracing"`
	// Catalog is the path of a pattern catalog for @name references.
	Catalog string `mapstructure:"catalog" yaml:"catalog"`
}

// DefaultSettings returns Settings with default values.
func DefaultSettings() Settings {
	return Settings{
		Output:    "text",
		LogLevel:  "warn",
		LogFormat: "text",
		Color:     true,
		FailFast:  true,
	}
}

// NewViper returns a viper instance preloaded with the defaults and bound to
// UNFORMAT_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	d := DefaultSettings()
	v.SetDefault("output", d.Output)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("color", d.Color)
	v.SetDefault("store", d.Store)
	v.SetDefault("fail_fast", d.FailFast)
	v.SetDefault("typed", d.Typed)
	v.SetDefault("metrics", d.Metrics)
	v.SetDefault("tracing", d.Tracing)
	v.SetDefault("catalog", d.Catalog)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings reads the optional settings file at path into v, then
// unmarshals and validates the merged result. Files without a recognized
// extension are read as YAML.
func LoadSettings(v *viper.Viper, path string) (Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		if !hasConfigExt(path) {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks field values.
func (s Settings) Validate() error {
	return validateStruct("settings", s)
}

// SlogLevel returns the slog level for LogLevel.
func (s Settings) SlogLevel() slog.Level {
	switch s.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func hasConfigExt(path string) bool {
	for _, ext := range viper.SupportedExts {
		if strings.HasSuffix(strings.ToLower(path), "."+ext) {
			return true
		}
	}
	return false
}
