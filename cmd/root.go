package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"apiscout/internal/app"
	"apiscout/internal/config"
	"apiscout/internal/discovery"
	"apiscout/internal/log"
	"apiscout/internal/sysinfo"
	"apiscout/internal/tracing"
	"apiscout/internal/ui/styles"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "apiscout",
	Short: "Discover and manage APIs running on your machine",
	Long: `A terminal tool that inventories listening sockets and browser connections,
flags the ones that look like development APIs, and lets you inspect or
terminate them interactively.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .apiscout/config.yaml, then ~/.config/apiscout/config.yaml)")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.buffer_size", defaults.Log.BufferSize)
	viper.SetDefault("cache.enabled", defaults.Cache.Enabled)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .apiscout/config.yaml (current directory)
		// 2. ~/.config/apiscout/config.yaml (user config)
		if _, err := os.Stat(".apiscout/config.yaml"); err == nil {
			viper.SetConfigFile(".apiscout/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "apiscout"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	// Running without a config file is the normal case; `apiscout config
	// init` writes one on request.
	_ = viper.ReadInConfig()

	_ = viper.Unmarshal(&cfg)
}

func runApp(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cleanup := initLogging(cfg.Log)
	defer cleanup()
	log.Info(log.CatConfig, "starting", "version", version, "config", viper.ConfigFileUsed())

	provider, err := newTraceProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer shutdownTracing(provider)

	styles.ApplyTheme(cfg.Theme.Highlight, cfg.Theme.Subtle, cfg.Theme.Error, cfg.Theme.Success)
	zone.NewGlobal()

	model := app.New(buildServices(cfg, provider))
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()

	// Stop the log subscription regardless of how the program ended.
	if m, ok := finalModel.(app.Model); ok {
		m.Close()
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), app.Farewell)
	return nil
}

// buildServices wires the discovery stack over the live system tables.
func buildServices(cfg config.Config, provider *tracing.Provider) app.Services {
	client := sysinfo.NewClient()
	resolver := sysinfo.NewResolver(client, cfg.Cache.Enabled, cfg.Cache.TTL)

	scanner := discovery.NewScanner(
		discovery.NewLocalDetector(client, resolver),
		discovery.NewBrowserDetector(client),
		provider.Tracer(),
	)
	terminator := discovery.NewTerminator(client, resolver, provider.Tracer())

	return app.Services{
		Scanner:    scanner,
		Terminator: terminator,
		Config:     cfg,
		Restricted: sysinfo.Restricted(),
	}
}

// initLogging opens the log file and applies the configured level. Failures
// are non-fatal: the app runs with logging disabled and an empty overlay.
func initLogging(lc config.LogConfig) func() {
	path := lc.File
	if path == "" {
		path = config.DefaultLogFilePath()
	}
	if path == "" {
		return func() {}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return func() {}
	}
	cleanup, err := log.Init(path, lc.BufferSize)
	if err != nil {
		return func() {}
	}

	if lvl, err := log.ParseLevel(lc.Level); err == nil {
		log.SetMinLevel(lvl)
	}
	return cleanup
}

func newTraceProvider(tc config.TracingConfig) (*tracing.Provider, error) {
	return tracing.NewProvider(tracing.Config{
		Enabled:      tc.Enabled,
		Exporter:     tc.Exporter,
		FilePath:     tc.EffectiveTracesPath(),
		OTLPEndpoint: tc.OTLPEndpoint,
		SampleRate:   tc.SampleRate,
		ServiceName:  "apiscout",
	})
}

func shutdownTracing(provider *tracing.Provider) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := provider.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "trace provider shutdown failed", err)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
