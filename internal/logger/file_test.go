package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/aggregator/internal/models"
)

func readRunLog(t *testing.T, fl *FileLogger) string {
	t.Helper()
	if err := fl.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	data, err := os.ReadFile(fl.RunFile())
	if err != nil {
		t.Fatalf("failed to read run log: %v", err)
	}
	return string(data)
}

func TestNewFileLoggerCreatesRunLogAndSymlink(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	fl, err := NewFileLoggerWithDir(logDir)
	if err != nil {
		t.Fatalf("NewFileLoggerWithDir() error = %v", err)
	}
	defer fl.Close()

	if !strings.HasPrefix(filepath.Base(fl.RunFile()), "run-") {
		t.Errorf("unexpected run file name %s", fl.RunFile())
	}

	target, err := os.Readlink(filepath.Join(logDir, "latest.log"))
	if err != nil {
		t.Fatalf("latest.log symlink missing: %v", err)
	}
	if target != filepath.Base(fl.RunFile()) {
		t.Errorf("latest.log -> %s, want %s", target, filepath.Base(fl.RunFile()))
	}
}

func TestFileLoggerReplacesSymlink(t *testing.T) {
	logDir := t.TempDir()
	if err := os.Symlink("old.log", filepath.Join(logDir, "latest.log")); err != nil {
		t.Fatal(err)
	}

	fl, err := NewFileLoggerWithDir(logDir)
	if err != nil {
		t.Fatalf("NewFileLoggerWithDir() error = %v", err)
	}
	defer fl.Close()

	target, _ := os.Readlink(filepath.Join(logDir, "latest.log"))
	if target != filepath.Base(fl.RunFile()) {
		t.Errorf("latest.log -> %s, want %s", target, filepath.Base(fl.RunFile()))
	}
}

func TestFileLoggerContent(t *testing.T) {
	fl, err := NewFileLoggerWithDirAndLevel(t.TempDir(), "info")
	if err != nil {
		t.Fatalf("NewFileLoggerWithDirAndLevel() error = %v", err)
	}

	fl.LogDebug("hidden debug")
	fl.LogWarn("Missing expected folder: backend/config")
	fl.LogGroupStart("backend", "aggregated-backend.txt", 3)
	fl.LogGroupComplete(models.GroupResult{
		Name:       "backend",
		Output:     "aggregated-backend.txt",
		Sections:   []models.Section{{Path: "backend/routes/a.js", Size: 12}},
		Skipped:    []string{"backend/config"},
		Unreadable: []models.UnreadableFile{{Path: "backend/routes/b.js", Error: "permission denied"}},
	})
	fl.LogSummary(models.RunResult{
		RunID:  "run-123",
		Status: models.StatusCompletedWithWarnings,
		Groups: []models.GroupResult{{Sections: []models.Section{{Path: "a"}}}},
	})

	content := readRunLog(t, fl)

	for _, want := range []string{
		"=== Aggregator Run Log ===",
		"[WARN] Missing expected folder: backend/config",
		"Starting group backend: 3 paths -> aggregated-backend.txt",
		"Group backend complete: 1 file, 12 bytes",
		"  + backend/routes/a.js (12 bytes)",
		"  ! missing backend/config",
		"  ! unreadable backend/routes/b.js: permission denied",
		"Run ID: run-123",
		"Status: completed_with_warnings",
		"Files: 1",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %q in run log:\n%s", want, content)
		}
	}
	if strings.Contains(content, "hidden debug") {
		t.Error("debug message should be filtered at info level")
	}
}

func TestFileLoggerCloseIsIdempotent(t *testing.T) {
	fl, err := NewFileLoggerWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	// Writes after close are dropped silently
	fl.LogInfo("after close")
}
