package models

import "time"

// Run status constants
const (
	StatusCompleted             = "completed"               // Every group aggregated cleanly
	StatusCompletedWithWarnings = "completed_with_warnings" // Missing paths or skipped files
	StatusFailed                = "failed"                  // A fatal error aborted the run
)

// Section describes one matched file written to an aggregate output
type Section struct {
	Path string `yaml:"path"` // Path as produced by the walk (root joined with relative path)
	Size int    `yaml:"size"` // Bytes of decoded content written
}

// UnreadableFile is a matched file skipped because it could not be read
type UnreadableFile struct {
	Path  string `yaml:"path"`
	Error string `yaml:"error"`
}

// GroupResult is the outcome of aggregating one input-path group
type GroupResult struct {
	Name       string           `yaml:"name"`
	Output     string           `yaml:"output"`
	Sections   []Section        `yaml:"sections"`
	Skipped    []string         `yaml:"skipped,omitempty"`    // Input paths that were missing or not directories
	Unreadable []UnreadableFile `yaml:"unreadable,omitempty"` // Files skipped under the skip policy
}

// Bytes returns the total content bytes written for the group
func (g *GroupResult) Bytes() int {
	total := 0
	for _, s := range g.Sections {
		total += s.Size
	}
	return total
}

// HasWarnings reports whether the group skipped anything
func (g *GroupResult) HasWarnings() bool {
	return len(g.Skipped) > 0 || len(g.Unreadable) > 0
}

// RunResult represents the aggregate result of one driver run
type RunResult struct {
	RunID     string        // Unique identifier of the run
	StartedAt time.Time     // When the run began
	Duration  time.Duration // Total run time
	Status    string        // completed, completed_with_warnings, failed
	Groups    []GroupResult // Per-group outcomes, in configuration order
	Error     error         // Fatal error if the run failed
}

// TotalFiles returns the number of sections written across all groups
func (r *RunResult) TotalFiles() int {
	total := 0
	for _, g := range r.Groups {
		total += len(g.Sections)
	}
	return total
}

// SkippedPaths returns every missing input path across all groups, in order
func (r *RunResult) SkippedPaths() []string {
	var skipped []string
	for _, g := range r.Groups {
		skipped = append(skipped, g.Skipped...)
	}
	return skipped
}

// Finalize derives Status from the recorded error and warnings
func (r *RunResult) Finalize() {
	switch {
	case r.Error != nil:
		r.Status = StatusFailed
	case r.hasWarnings():
		r.Status = StatusCompletedWithWarnings
	default:
		r.Status = StatusCompleted
	}
}

func (r *RunResult) hasWarnings() bool {
	for i := range r.Groups {
		if r.Groups[i].HasWarnings() {
			return true
		}
	}
	return false
}
