// Package display provides terminal output helpers for the aggregator CLI:
// warnings, step progress and simple aligned tables.
//
// Every helper takes an io.Writer. Colors are applied only when the writer is
// a terminal (see ColorEnabled), so output captured in buffers or redirected
// to files is plain text.
//
// # Warnings
//
//	warning := display.Warning{
//	    Title:      "Missing expected folder",
//	    Files:      []string{"backend/config"},
//	    Suggestion: "Create the folder or remove it from .aggregator/config.yaml",
//	}
//	warning.Display(os.Stderr)
//
// # Progress
//
//	progress := display.NewProgressIndicator(os.Stdout, "Checking input paths", len(paths))
//	progress.Start()
//	for _, p := range paths {
//	    progress.Step(p, fileutil.IsDir(p))
//	}
//	progress.Complete()
//
// # Tables
//
//	table := display.NewTable("RUN", "STATUS", "FILES")
//	table.AddRow(run.ID, run.Status, "12")
//	table.Render(os.Stdout)
package display
