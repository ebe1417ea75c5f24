package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/harrison/aggregator/internal/bundle"
	"github.com/harrison/aggregator/internal/config"
	"github.com/harrison/aggregator/internal/history"
	"github.com/harrison/aggregator/internal/logger"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Aggregate every configured group",
		Long: `Aggregate every configured group into its output file.

Each output is truncated first, then every input folder of the group is
walked in order. Missing folders are reported and skipped; the run still
succeeds. Outputs are locked for the duration of the run so two concurrent
runs cannot interleave writes.

CLI flags override configuration file settings.

Examples:
  aggregator run
  aggregator run --format markdown
  aggregator run --on-read-error skip --manifest out/manifest.yaml
  aggregator run --config ci.yaml --no-history --log-dir ""`,
		Args: cobra.NoArgs,
		RunE: runCommand,
	}

	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "Output format: text or markdown (default from config)")
	cmd.Flags().String("on-read-error", "", "Unreadable file policy: abort or skip (default from config)")
	cmd.Flags().String("manifest", "", "Write a YAML run manifest to this path")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("log-dir", "", "Directory for run logs (empty string disables run logs)")
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	stringFlag := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}

	var noHistoryPtr *bool
	if cmd.Flags().Changed("no-history") {
		noHistory, _ := cmd.Flags().GetBool("no-history")
		noHistoryPtr = &noHistory
	}

	// Merge CLI flags with config (flags take precedence)
	cfg.MergeWithFlags(
		stringFlag("format"),
		stringFlag("on-read-error"),
		stringFlag("manifest"),
		stringFlag("log-level"),
		stringFlag("log-dir"),
		noHistoryPtr,
	)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	console := logger.NewConsoleLogger(cmd.OutOrStdout(), cfg.LogLevel)
	var log logger.Logger = console

	if logDir := config.ResolveLogDir(cfg.LogDir); logDir != "" {
		fileLog, err := logger.NewFileLoggerWithDirAndLevel(logDir, cfg.LogLevel)
		if err != nil {
			console.LogWarn(fmt.Sprintf("Run log disabled: %v", err))
		} else {
			defer fileLog.Close()
			log = logger.NewMultiLogger(console, fileLog)
			console.LogDebug(fmt.Sprintf("Run log: %s", fileLog.RunFile()))
		}
	}

	var opts []bundle.DriverOption
	if cfg.History.Enabled {
		store, err := openHistoryStore(cfg)
		if err != nil {
			log.LogWarn(fmt.Sprintf("Run history disabled: %v", err))
		} else {
			defer store.Close()
			opts = append(opts, bundle.WithHistory(store))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if _, err := bundle.NewDriver(cfg, log, opts...).Run(ctx); err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}
	return nil
}

func openHistoryStore(cfg *config.Config) (*history.Store, error) {
	dbPath, err := config.ResolveHistoryDBPath(cfg.History.DBPath)
	if err != nil {
		return nil, err
	}
	return history.NewStore(dbPath)
}
