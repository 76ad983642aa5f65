// Package config provides configuration types and defaults for API Scout.
// No config file is required; everything here has a working default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"apiscout/internal/log"
)

// Config holds all configuration options for API Scout.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Theme   ThemeConfig   `mapstructure:"theme"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is the minimum severity written to the log.
	// Valid values: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`

	// File is the log file path.
	// Default: ~/.local/state/apiscout/apiscout.log
	File string `mapstructure:"file"`

	// BufferSize is how many recent records the in-app log overlay retains.
	BufferSize int `mapstructure:"buffer_size"`
}

// CacheConfig holds process-metadata cache configuration.
type CacheConfig struct {
	// Enabled controls whether pid metadata lookups are cached between
	// discovery passes.
	Enabled bool `mapstructure:"enabled"`

	// TTL bounds how long a cached name/command line may be served before
	// the process table is consulted again.
	TTL time.Duration `mapstructure:"ttl"`
}

// TracingConfig holds discovery-cycle tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for the "file" exporter.
	// Default: ~/.config/apiscout/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for the "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// 1.0 = all cycles, 0.1 = 10% of cycles
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate"`
}

// ThemeConfig overrides individual UI color tokens. Values are anything
// lipgloss accepts: hex strings ("#FF8787") or ANSI palette numbers ("212").
// Empty values keep the built-in adaptive defaults.
type ThemeConfig struct {
	Highlight string `mapstructure:"highlight"`
	Subtle    string `mapstructure:"subtle"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`

	// MarkdownStyle selects the glamour style used by the inspect overlay.
	// Options: "dark", "light". Default: "dark".
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// DefaultLogFilePath returns the default log location, or empty string if
// the home directory is unavailable.
func DefaultLogFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "apiscout", "apiscout.log")
}

// DefaultTracesFilePath returns the default path for trace file export, or
// empty string if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "apiscout", "traces", "traces.jsonl")
}

// DefaultConfigPath returns the user-level config file location, or empty
// string if the home directory is unavailable.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "apiscout", "config.yaml")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			File:       DefaultLogFilePath(),
			BufferSize: 2000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Second,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Theme: ThemeConfig{},
	}
}

// Validate checks the whole configuration for errors.
func (c Config) Validate() error {
	if err := ValidateLog(c.Log); err != nil {
		return err
	}
	if err := ValidateCache(c.Cache); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	return nil
}

// ValidateLog checks logging configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateLog(lc LogConfig) error {
	if lc.Level != "" {
		if _, err := log.ParseLevel(lc.Level); err != nil {
			return fmt.Errorf("log.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", lc.Level)
		}
	}
	if lc.BufferSize < 0 {
		return fmt.Errorf("log.buffer_size must not be negative, got %d", lc.BufferSize)
	}
	return nil
}

// ValidateCache checks cache configuration for errors.
func ValidateCache(cc CacheConfig) error {
	if cc.Enabled && cc.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled, got %v", cc.TTL)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Path requirements only matter when tracing is on.
	if tracing.Enabled {
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// ValidateTheme checks theme configuration for errors. Color values are not
// validated here; lipgloss tolerates malformed colors by rendering nothing.
func ValidateTheme(tc ThemeConfig) error {
	switch tc.MarkdownStyle {
	case "", "dark", "light":
		return nil
	default:
		return fmt.Errorf("theme.markdown_style must be \"dark\" or \"light\", got %q", tc.MarkdownStyle)
	}
}

// EffectiveTracesPath returns the configured trace file path, falling back
// to the default location when unset.
func (t TracingConfig) EffectiveTracesPath() string {
	if t.FilePath != "" {
		return t.FilePath
	}
	return DefaultTracesFilePath()
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# API Scout Configuration
# Everything below is optional; the tool runs with built-in defaults when
# this file is absent.

# Logging
log:
  level: info             # debug, info, warn, or error
  # file: ~/.local/state/apiscout/apiscout.log
  buffer_size: 2000       # records retained for the in-app log overlay (ctrl+x)

# Process metadata cache
# Browser scans look up the same pid many times; caching keeps refreshes snappy.
cache:
  enabled: true
  ttl: 30s                # staleness bound for cached name/command line

# Discovery cycle tracing
# Emits one span per cycle with enumerate/detect children.
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/apiscout/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Cycle sampling rate 0.0-1.0 (default: 1.0)
#
# Example: send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1

# Theme overrides
# Values are hex colors or ANSI palette numbers; unset tokens keep the
# adaptive defaults.
# theme:
#   highlight: "#874BFD"
#   subtle: "#6C6C6C"
#   error: "#FF5555"
#   success: "#73F59F"
#   markdown_style: dark    # glamour style for the inspect overlay: dark or light
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := atomicWrite(configPath, []byte(DefaultConfigTemplate())); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
