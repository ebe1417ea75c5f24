// Package history records aggregation runs in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/aggregator/internal/models"
)

// RunRecord is one recorded run
type RunRecord struct {
	ID        int64
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Status    string
	Error     string
	Groups    []GroupRecord
}

// Files returns the number of files aggregated across all groups
func (r *RunRecord) Files() int {
	total := 0
	for _, g := range r.Groups {
		total += g.Files
	}
	return total
}

// GroupRecord holds the per-group counters of a recorded run
type GroupRecord struct {
	Name       string
	Output     string
	Files      int
	Bytes      int
	Skipped    int
	Unreadable int
}

// Store manages the run history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the database at dbPath and applies
// pending migrations. ":memory:" opens a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database path the store was opened with
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores result and its per-group counters in one transaction
func (s *Store) RecordRun(ctx context.Context, result *models.RunResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var errMsg sql.NullString
	if result.Error != nil {
		errMsg = sql.NullString{String: result.Error.Error(), Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, duration_ms, status, error) VALUES (?, ?, ?, ?, ?)`,
		result.RunID, result.StartedAt.UTC(), result.Duration.Milliseconds(), result.Status, errMsg)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i := range result.Groups {
		g := &result.Groups[i]
		_, err := tx.ExecContext(ctx,
			`INSERT INTO run_groups (run_id, position, group_name, output, files, bytes, skipped, unreadable)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			result.RunID, i, g.Name, g.Output, len(g.Sections), g.Bytes(), len(g.Skipped), len(g.Unreadable))
		if err != nil {
			return fmt.Errorf("insert group %s: %w", g.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first. limit <= 0 returns all.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	query := `SELECT id, run_id, started_at, duration_ms, status, error FROM runs ORDER BY id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	runs, err := s.queryRuns(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	// Groups are loaded after the runs cursor is closed; in-memory stores
	// have a single connection
	for _, run := range runs {
		groups, err := s.groupsForRun(ctx, run.RunID)
		if err != nil {
			return nil, err
		}
		run.Groups = groups
	}
	return runs, nil
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...interface{}) ([]*RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*RunRecord
	for rows.Next() {
		r := &RunRecord{}
		var durationMs int64
		var errMsg sql.NullString
		if err := rows.Scan(&r.ID, &r.RunID, &r.StartedAt, &durationMs, &r.Status, &errMsg); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.Error = errMsg.String
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func (s *Store) groupsForRun(ctx context.Context, runID string) ([]GroupRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_name, output, files, bytes, skipped, unreadable
		FROM run_groups WHERE run_id = ? ORDER BY position ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query groups for %s: %w", runID, err)
	}
	defer rows.Close()

	var groups []GroupRecord
	for rows.Next() {
		var g GroupRecord
		if err := rows.Scan(&g.Name, &g.Output, &g.Files, &g.Bytes, &g.Skipped, &g.Unreadable); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return groups, nil
}

// CountRuns returns the number of recorded runs
func (s *Store) CountRuns(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}

// Prune deletes all but the newest keep runs. keep <= 0 keeps everything.
func (s *Store) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return fmt.Errorf("prune runs: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM run_groups WHERE run_id NOT IN (SELECT run_id FROM runs)`)
	if err != nil {
		return fmt.Errorf("prune run groups: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit prune: %w", err)
	}
	return nil
}
