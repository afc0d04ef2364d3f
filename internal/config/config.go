// Package config loads probe configuration from PROBE_* environment variables.
package config

import (
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key to form its environment variable.
const EnvPrefix = "PROBE"

const (
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
)

// Defaults keep stderr free of log lines unless something is wrong.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

var logFormats = map[string]bool{"text": true, "json": true, "logfmt": true}

// ProbeConfig holds configuration for a probe invocation.
type ProbeConfig struct {
	LogLevel  string
	LogFormat string
}

// Loader resolves configuration from the environment and optional flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader reading PROBE_* environment variables.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	return &Loader{v: v}
}

// BindFlag lets a command-line flag override the environment for key.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	return l.v.BindPFlag(key, flag)
}

// Load returns the resolved configuration. Invalid values fall back to the defaults.
func (l *Loader) Load() *ProbeConfig {
	cfg := &ProbeConfig{
		LogLevel:  strings.ToLower(strings.TrimSpace(l.v.GetString(KeyLogLevel))),
		LogFormat: strings.ToLower(strings.TrimSpace(l.v.GetString(KeyLogFormat))),
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if !logFormats[cfg.LogFormat] {
		slog.Warn("unknown log format, using default", "format", cfg.LogFormat, "default", DefaultLogFormat)
		cfg.LogFormat = DefaultLogFormat
	}
	return cfg
}

// Load resolves configuration from the environment only.
func Load() *ProbeConfig {
	return NewLoader().Load()
}
