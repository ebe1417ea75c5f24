package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/aggregator/internal/bundle"
	"github.com/harrison/aggregator/internal/display"
	"github.com/harrison/aggregator/internal/parser"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <aggregate-or-manifest>",
		Short: "List the sections of an aggregate file or a run manifest",
		Long: `Read an aggregate output back and list each section's source path and
content size. The layout (text or markdown) is detected from the file
extension and content. YAML files are read as run manifests.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			switch strings.ToLower(filepath.Ext(path)) {
			case ".yaml", ".yml":
				return inspectManifest(cmd.OutOrStdout(), path)
			default:
				return inspectAggregate(cmd.OutOrStdout(), path)
			}
		},
	}

	return cmd
}

func inspectAggregate(out io.Writer, path string) error {
	agg, err := parser.ParseFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s (%s): %d %s, %d bytes\n",
		agg.Path, agg.Format, len(agg.Sections), plural(len(agg.Sections), "section", "sections"), agg.Bytes())
	if len(agg.Sections) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	table := display.NewTable("BYTES", "PATH")
	for _, s := range agg.Sections {
		table.AddRow(strconv.Itoa(len(s.Content)), s.Path)
	}
	table.Render(out)
	return nil
}

func inspectManifest(out io.Writer, path string) error {
	m, err := bundle.ReadManifest(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Run %s\n", m.RunID)
	fmt.Fprintf(out, "  Started:  %s\n", m.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Duration: %s\n", m.Duration)
	fmt.Fprintf(out, "  Status:   %s\n", display.StatusStyle(out)(m.Status))
	fmt.Fprintf(out, "  Format:   %s\n", m.Format)
	if m.Error != "" {
		fmt.Fprintf(out, "  Error:    %s\n", m.Error)
	}
	fmt.Fprintln(out)

	table := display.NewTable("GROUP", "FILES", "BYTES", "SKIPPED", "OUTPUT")
	for i := range m.Groups {
		g := &m.Groups[i]
		table.AddRow(g.Name, strconv.Itoa(len(g.Sections)), strconv.Itoa(g.Bytes()),
			strconv.Itoa(len(g.Skipped)+len(g.Unreadable)), g.Output)
	}
	table.Render(out)
	return nil
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
