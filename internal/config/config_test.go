package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 2000, cfg.Log.BufferSize)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, 30*time.Second, cfg.Cache.TTL)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "file", cfg.Tracing.Exporter)
	require.Equal(t, "localhost:4317", cfg.Tracing.OTLPEndpoint)
	require.Equal(t, 1.0, cfg.Tracing.SampleRate)
}

func TestDefaults_Validate(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestValidateLog_Empty(t *testing.T) {
	err := ValidateLog(LogConfig{})
	require.NoError(t, err, "empty log config should be valid (uses defaults)")
}

func TestValidateLog_BadLevel(t *testing.T) {
	err := ValidateLog(LogConfig{Level: "verbose"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "log.level")
}

func TestValidateLog_NegativeBuffer(t *testing.T) {
	err := ValidateLog(LogConfig{Level: "debug", BufferSize: -1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "log.buffer_size")
}

func TestValidateCache_EnabledNeedsTTL(t *testing.T) {
	err := ValidateCache(CacheConfig{Enabled: true, TTL: 0})
	require.Error(t, err)
	require.Contains(t, err.Error(), "cache.ttl")
}

func TestValidateCache_DisabledIgnoresTTL(t *testing.T) {
	err := ValidateCache(CacheConfig{Enabled: false, TTL: 0})
	require.NoError(t, err)
}

func TestValidateTracing_Defaults(t *testing.T) {
	err := ValidateTracing(Defaults().Tracing)
	require.NoError(t, err)
}

func TestValidateTracing_SampleRateRange(t *testing.T) {
	err := ValidateTracing(TracingConfig{SampleRate: 1.5})
	require.Error(t, err)
	require.Contains(t, err.Error(), "sample_rate")

	err = ValidateTracing(TracingConfig{SampleRate: -0.1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "sample_rate")
}

func TestValidateTracing_BadExporter(t *testing.T) {
	err := ValidateTracing(TracingConfig{Exporter: "jaeger", SampleRate: 1.0})
	require.Error(t, err)
	require.Contains(t, err.Error(), "tracing.exporter")
}

func TestValidateTracing_OTLPNeedsEndpoint(t *testing.T) {
	err := ValidateTracing(TracingConfig{
		Enabled:    true,
		Exporter:   "otlp",
		SampleRate: 1.0,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "otlp_endpoint")
}

func TestValidateTheme_Empty(t *testing.T) {
	require.NoError(t, ValidateTheme(ThemeConfig{}))
}

func TestValidateTheme_MarkdownStyle(t *testing.T) {
	require.NoError(t, ValidateTheme(ThemeConfig{MarkdownStyle: "dark"}))
	require.NoError(t, ValidateTheme(ThemeConfig{MarkdownStyle: "light"}))

	err := ValidateTheme(ThemeConfig{MarkdownStyle: "solarized"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "theme.markdown_style")
}

func TestEffectiveTracesPath(t *testing.T) {
	tc := TracingConfig{FilePath: "/tmp/traces.jsonl"}
	require.Equal(t, "/tmp/traces.jsonl", tc.EffectiveTracesPath())

	tc.FilePath = ""
	require.Equal(t, DefaultTracesFilePath(), tc.EffectiveTracesPath())
}

func TestDefaultConfigTemplate_ValidYAML(t *testing.T) {
	var doc map[string]any
	err := yaml.Unmarshal([]byte(DefaultConfigTemplate()), &doc)
	require.NoError(t, err, "template must be parseable YAML")
	require.Contains(t, doc, "log")
	require.Contains(t, doc, "cache")
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	defaults := Defaults()
	require.Equal(t, defaults.Log.Level, cfg.Log.Level)
	require.Equal(t, defaults.Log.BufferSize, cfg.Log.BufferSize)
	require.Equal(t, defaults.Cache.Enabled, cfg.Cache.Enabled)
	require.Equal(t, defaults.Cache.TTL, cfg.Cache.TTL)
	require.NoError(t, cfg.Validate())
}
