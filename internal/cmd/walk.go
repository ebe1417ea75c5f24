package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/aggregator/internal/fileutil"
	"github.com/harrison/aggregator/internal/walker"
)

// NewWalkCommand creates the walk command
func NewWalkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walk [root]",
		Short: "List every file under a folder and flag JavaScript files",
		Long: `Walk a folder and print every file found, marking .js and .jsx files.

Use it to check what the aggregator will see. The root defaults to walk.root
from the configuration ("backend"). A missing root is reported but is not
an error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			root := cfg.Walk.Root
			if len(args) == 1 {
				root = args[0]
			}
			if root == "" {
				root = walker.DefaultRoot
			}

			_, err = walker.WalkWithOptions(root, cmd.OutOrStdout(), fileutil.WalkOptions{
				FollowSymlinks: cfg.FollowSymlinks,
			})
			return err
		},
	}

	return cmd
}
