package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apiscout/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Print the merged configuration (defaults plus config file) as YAML.

Examples:
  apiscout config show
  apiscout config show --config ./custom.yaml`,
	RunE: runConfigShow,
}

var configInitPath string

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Long: `Write a default configuration file with explanatory comments.

Refuses to overwrite an existing file.

Examples:
  # Write to the user config location (~/.config/apiscout/config.yaml)
  apiscout config init

  # Write a project-local config
  apiscout config init --path .apiscout/config.yaml`,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "path", "",
		"target file (default: ~/.config/apiscout/config.yaml)")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out, err := config.RenderYAML(cfg)
	if err != nil {
		return fmt.Errorf("rendering configuration: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configInitPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if path == "" {
		return fmt.Errorf("cannot determine config location, pass --path")
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
