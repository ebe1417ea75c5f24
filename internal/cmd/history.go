package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harrison/aggregator/internal/display"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent aggregation runs",
		Long: `Show recent aggregation runs recorded in the history database, newest first.

The database lives at history.db_path, or $AGGREGATOR_HOME/history/runs.db
(.aggregator/history/runs.db by default).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := openHistoryStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}

			table := display.NewTable("RUN", "STARTED", "DURATION", "STATUS", "FILES", "GROUPS")
			table.StyleColumn(3, display.StatusStyle(out))
			for _, r := range runs {
				table.AddRow(
					shortRunID(r.RunID),
					r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					r.Duration.String(),
					r.Status,
					strconv.Itoa(r.Files()),
					strconv.Itoa(len(r.Groups)),
				)
			}
			table.Render(out)
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum number of runs to show (0 = all)")
	return cmd
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
