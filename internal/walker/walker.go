// Package walker lists every file under a directory and flags JavaScript
// sources. It is a diagnostic for checking what the aggregator will see.
package walker

import (
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/harrison/aggregator/internal/fileutil"
)

// DefaultRoot is walked when no root is configured
const DefaultRoot = "backend"

// Report summarizes one walk
type Report struct {
	Root        string
	Files       []string // Every file found, in walk order
	JSFiles     int      // Files whose name ends with .js
	JSXFiles    int      // Files whose name ends with .jsx
	RootMissing bool     // Root did not exist or was not a directory
}

// Walk lists root without following directory symlinks
func Walk(root string, out io.Writer) (*Report, error) {
	return WalkWithOptions(root, out, fileutil.WalkOptions{})
}

// WalkWithOptions lists root, writing one line per file to out.
//
// A missing root is reported on out and in Report.RootMissing; it is not an
// error. Errors are returned only when out cannot be written or root cannot
// be listed.
func WalkWithOptions(root string, out io.Writer, opts fileutil.WalkOptions) (*Report, error) {
	report := &Report{Root: root}
	w := &lineWriter{out: out}

	if !fileutil.IsDir(root) {
		report.RootMissing = true
		w.printf("ERROR: Cannot find folder '%s'. Are you sure it's spelled exactly like that and in this directory?\n", root)
		return report, w.err
	}

	w.printf("\nWalking through '%s'...\n", root)

	err := fileutil.Walk(root, opts, func(path string, d fs.DirEntry) error {
		report.Files = append(report.Files, path)
		w.printf("Found file: %s\n", path)

		lower := strings.ToLower(d.Name())
		switch {
		case strings.HasSuffix(lower, ".js"):
			report.JSFiles++
			w.printf("   --> Found a JS file!\n")
		case strings.HasSuffix(lower, ".jsx"):
			report.JSXFiles++
			w.printf("   --> Found a JSX file!\n")
		}
		return w.err
	})
	if err != nil {
		return report, err
	}

	if len(report.Files) == 0 {
		w.printf("Didn't find any files at all under '%s'.\n", root)
	}

	return report, w.err
}

// lineWriter keeps the first write error so callers can check once
type lineWriter struct {
	out io.Writer
	err error
}

func (w *lineWriter) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	if _, err := fmt.Fprintf(w.out, format, args...); err != nil {
		w.err = fmt.Errorf("failed to write walk output: %w", err)
	}
}
