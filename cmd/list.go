package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"apiscout/internal/app"
	"apiscout/internal/sysinfo"
	"apiscout/internal/ui/styles"
)

// listRenderWidth is the table width for one-shot output, wide enough for
// every column at its preferred width.
const listRenderWidth = 100

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Run one discovery pass and print the detected APIs",
	Long: `Run a single discovery pass and print the detected APIs as a table.

Scans listening sockets for likely development servers and browser
processes for connections to well-known API ports, then exits.

Examples:
  # One-shot scan
  apiscout list

  # Scan with elevated privileges to see other users' processes
  sudo apiscout list`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cleanup := initLogging(cfg.Log)
	defer cleanup()

	provider, err := newTraceProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer shutdownTracing(provider)

	styles.ApplyTheme(cfg.Theme.Highlight, cfg.Theme.Subtle, cfg.Theme.Error, cfg.Theme.Success)

	fmt.Fprintln(cmd.OutOrStdout(), "🚀 API Scout - Detecting running APIs...")
	if sysinfo.Restricted() {
		fmt.Fprintln(cmd.ErrOrStderr(), "⚠️  Warning: Some features may require root privileges. Consider running with sudo.")
	}

	services := buildServices(cfg, provider)
	registry, err := services.Scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), app.RenderSnapshot(registry, listRenderWidth))
	return nil
}
