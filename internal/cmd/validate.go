package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/aggregator/internal/config"
	"github.com/harrison/aggregator/internal/display"
	"github.com/harrison/aggregator/internal/fileutil"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate configuration and check input folders",
		Long: `Load and validate the configuration, then check every group's input
folders exist.

Missing folders are reported as warnings, the same way a run skips them.

Exit code: 0 if the configuration is valid, 1 otherwise`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			var err error
			if len(args) == 1 {
				cfg, err = loadConfigPath(args[0])
			} else {
				cfg, err = loadConfig(cmd)
			}
			if err != nil {
				return err
			}
			return validateConfigWithOutput(cfg, cmd.OutOrStdout())
		},
	}

	return cmd
}

// validateConfigWithOutput validates cfg and reports input folders to output
func validateConfigWithOutput(cfg *config.Config, output io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fmt.Fprintf(output, "Configuration valid: %d %s, suffixes %s, format %s\n\n",
		len(cfg.Groups), plural(len(cfg.Groups), "group", "groups"),
		strings.Join(cfg.Suffixes, ", "), cfg.Format)

	var missing []string
	for _, g := range cfg.Groups {
		progress := display.NewProgressIndicator(output, fmt.Sprintf("%s -> %s", g.Name, g.Output), len(g.Paths))
		progress.Start()
		for _, path := range g.Paths {
			ok := fileutil.IsDir(path)
			if !ok {
				missing = append(missing, path)
			}
			progress.Step(path, ok)
		}
		progress.Complete()
	}

	if len(missing) > 0 {
		fmt.Fprintln(output)
		display.WarnMissingPaths(missing).Display(output)
	}
	return nil
}
