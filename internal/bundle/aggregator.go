package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/harrison/aggregator/internal/filelock"
	"github.com/harrison/aggregator/internal/fileutil"
	"github.com/harrison/aggregator/internal/models"
)

// ErrLocked is returned when an output is locked by another run
var ErrLocked = filelock.ErrLocked

// ReadError reports a matched file that could not be read
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Options configures a single aggregation call
type Options struct {
	// Suffixes is the allowed-suffix set (nil = config.DefaultSuffixes)
	Suffixes []string

	// Format writes each section (nil = TextFormat)
	Format Format

	// FollowSymlinks descends into symlinked directories
	FollowSymlinks bool

	// SkipUnreadable continues past files that cannot be read instead of
	// returning a *ReadError
	SkipUnreadable bool

	// OnUnreadable is notified of every skipped file and unlistable directory
	OnUnreadable func(path string, err error)
}

func (o Options) format() Format {
	if o.Format == nil {
		return TextFormat{}
	}
	return o.Format
}

func (o Options) matcher() *fileutil.SuffixMatcher {
	if o.Suffixes == nil {
		return fileutil.NewSuffixMatcher(defaultSuffixes())
	}
	return fileutil.NewSuffixMatcher(o.Suffixes)
}

func (o Options) unreadable(path string, err error) {
	if o.OnUnreadable != nil {
		o.OnUnreadable(path, err)
	}
}

// Aggregate walks rootDir and writes one section to out for every file whose
// name ends with an allowed suffix. It returns the sections written, including
// those written before an error.
//
// rootDir is not checked for existence; a missing root surfaces as a walk error.
func Aggregate(ctx context.Context, rootDir string, out io.Writer, opts Options) ([]models.Section, error) {
	matcher := opts.matcher()
	format := opts.format()

	var sections []models.Section

	walkOpts := fileutil.WalkOptions{
		FollowSymlinks: opts.FollowSymlinks,
		OnDirError:     opts.unreadable,
	}

	err := fileutil.Walk(rootDir, walkOpts, func(path string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !matcher.Match(d.Name()) {
			return nil
		}

		// Read fully before writing so a failed read never leaves a dangling header
		data, err := os.ReadFile(path)
		if err != nil {
			if opts.SkipUnreadable {
				opts.unreadable(path, err)
				return nil
			}
			return &ReadError{Path: path, Err: err}
		}

		content := decodeText(data)
		if err := format.WriteSection(out, path, content); err != nil {
			return fmt.Errorf("failed to write section for %s: %w", path, err)
		}
		sections = append(sections, models.Section{Path: path, Size: len(content)})
		return nil
	})

	return sections, err
}

// AggregateToFile appends the sections for rootDir to outputPath, creating it
// if needed. The file is closed before returning.
func AggregateToFile(ctx context.Context, rootDir, outputPath string, opts Options) (sections []models.Section, err error) {
	f, err := os.OpenFile(outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output %s: %w", outputPath, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output %s: %w", outputPath, cerr)
		}
	}()

	return Aggregate(ctx, rootDir, f, opts)
}

// IsReadError reports whether err was caused by an unreadable input file
func IsReadError(err error) bool {
	var readErr *ReadError
	return errors.As(err, &readErr)
}
