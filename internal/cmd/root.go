package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/aggregator/internal/config"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for aggregator.
// Invoked without a subcommand it behaves like "aggregator run".
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregator",
		Short: "Bundle project source files into per-group text artifacts",
		Long: `Aggregator walks configured input folders and concatenates every file
with an allowed suffix (.env, .js, .jsx, .json by default) into one output
file per group, each file preceded by a header naming its source path.

Configuration is loaded from .aggregator/config.yaml if present.
Without a subcommand, aggregator runs every configured group.`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE:    runCommand,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .aggregator/config.yaml)")
	addRunFlags(cmd)

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewWalkCommand())
	cmd.AddCommand(NewInspectCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewValidateCommand())

	return cmd
}

// loadConfig loads the file named by --config, or .aggregator/config.yaml
// in the working directory
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	return loadConfigPath(configPath)
}

func loadConfigPath(configPath string) (*config.Config, error) {
	if configPath == "" {
		cfg, err := config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	// An explicit path must exist; only the default location is optional
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	return cfg, nil
}
