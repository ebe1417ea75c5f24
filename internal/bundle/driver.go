package bundle

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/aggregator/internal/config"
	"github.com/harrison/aggregator/internal/filelock"
	"github.com/harrison/aggregator/internal/fileutil"
	"github.com/harrison/aggregator/internal/logger"
	"github.com/harrison/aggregator/internal/models"
)

func defaultSuffixes() []string {
	return config.DefaultSuffixes()
}

// HistoryRecorder persists finished runs
type HistoryRecorder interface {
	RecordRun(ctx context.Context, result *models.RunResult) error
	Prune(ctx context.Context, keep int) error
}

// Driver runs every configured group in order
type Driver struct {
	cfg      *config.Config
	logger   logger.Logger
	history  HistoryRecorder
	now      func() time.Time
	newRunID func() string
}

// DriverOption customizes a Driver
type DriverOption func(*Driver)

// WithHistory records every run into h
func WithHistory(h HistoryRecorder) DriverOption {
	return func(d *Driver) {
		d.history = h
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) DriverOption {
	return func(d *Driver) {
		d.now = now
	}
}

// WithRunID overrides run ID generation
func WithRunID(gen func() string) DriverOption {
	return func(d *Driver) {
		d.newRunID = gen
	}
}

// NewDriver creates a driver for cfg. A nil logger discards all output.
func NewDriver(cfg *config.Config, log logger.Logger, opts ...DriverOption) *Driver {
	if log == nil {
		log = logger.NopLogger{}
	}
	d := &Driver{
		cfg:      cfg,
		logger:   log,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run truncates every output and aggregates each group's paths into it.
//
// Missing input paths are warned about and recorded in GroupResult.Skipped.
// The returned error is non-nil only for fatal failures (lock contention,
// unreadable files under the abort policy, write errors); the result is
// populated in every case.
func (d *Driver) Run(ctx context.Context) (*models.RunResult, error) {
	start := d.now()
	result := &models.RunResult{
		RunID:     d.newRunID(),
		StartedAt: start,
	}

	result.Error = d.aggregateAll(ctx, result)

	result.Duration = d.now().Sub(start)
	result.Finalize()
	d.logger.LogSummary(*result)

	d.writeManifest(result)
	d.recordHistory(ctx, result)

	return result, result.Error
}

func (d *Driver) aggregateAll(ctx context.Context, result *models.RunResult) error {
	format, err := NewFormat(d.cfg.Format)
	if err != nil {
		return err
	}

	outputs := make([]string, len(d.cfg.Groups))
	for i, g := range d.cfg.Groups {
		outputs[i] = g.Output
	}

	locks, err := filelock.AcquireOutputLocks(outputs)
	if err != nil {
		return err
	}
	defer func() {
		if err := locks.Release(); err != nil {
			d.logger.LogWarn(fmt.Sprintf("Failed to release output locks: %v", err))
		}
	}()

	for _, output := range outputs {
		if err := os.WriteFile(output, nil, 0644); err != nil {
			return fmt.Errorf("failed to truncate output %s: %w", output, err)
		}
		d.logger.LogTrace(fmt.Sprintf("Truncated %s", output))
	}

	for _, g := range d.cfg.Groups {
		group := models.GroupResult{Name: g.Name, Output: g.Output}
		d.logger.LogGroupStart(g.Name, g.Output, len(g.Paths))

		err := d.aggregateGroup(ctx, g, format, &group)
		result.Groups = append(result.Groups, group)
		if err != nil {
			return err
		}
		d.logger.LogGroupComplete(group)
	}

	return nil
}

func (d *Driver) aggregateGroup(ctx context.Context, g config.Group, format Format, group *models.GroupResult) error {
	opts := Options{
		Suffixes:       d.cfg.Suffixes,
		Format:         format,
		FollowSymlinks: d.cfg.FollowSymlinks,
		SkipUnreadable: d.cfg.OnReadError == config.OnReadErrorSkip,
		OnUnreadable: func(path string, err error) {
			d.logger.LogWarn(fmt.Sprintf("Skipping unreadable %s: %v", path, err))
			group.Unreadable = append(group.Unreadable, models.UnreadableFile{
				Path:  path,
				Error: err.Error(),
			})
		},
	}

	for _, path := range g.Paths {
		if !fileutil.IsDir(path) {
			d.logger.LogWarn("Missing expected folder: " + path)
			group.Skipped = append(group.Skipped, path)
			continue
		}

		sections, err := AggregateToFile(ctx, path, g.Output, opts)
		group.Sections = append(group.Sections, sections...)
		if err != nil {
			return err
		}
	}

	return nil
}

func (d *Driver) writeManifest(result *models.RunResult) {
	if d.cfg.Manifest == "" {
		return
	}
	if err := WriteManifest(d.cfg.Manifest, NewManifest(d.cfg, result)); err != nil {
		d.logger.LogWarn(fmt.Sprintf("Failed to write manifest: %v", err))
		return
	}
	d.logger.LogDebug(fmt.Sprintf("Manifest written to %s", d.cfg.Manifest))
}

func (d *Driver) recordHistory(ctx context.Context, result *models.RunResult) {
	if d.history == nil {
		return
	}
	// Recorded even when the run was cancelled
	ctx = context.WithoutCancel(ctx)

	if err := d.history.RecordRun(ctx, result); err != nil {
		d.logger.LogWarn(fmt.Sprintf("Failed to record run history: %v", err))
		return
	}
	if d.cfg.History.KeepRuns > 0 {
		if err := d.history.Prune(ctx, d.cfg.History.KeepRuns); err != nil {
			d.logger.LogWarn(fmt.Sprintf("Failed to prune run history: %v", err))
		}
	}
}
