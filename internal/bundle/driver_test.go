package bundle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/aggregator/internal/config"
	"github.com/harrison/aggregator/internal/filelock"
	"github.com/harrison/aggregator/internal/models"
)

type fakeHistory struct {
	recorded []*models.RunResult
	pruned   []int
	err      error
}

func (h *fakeHistory) RecordRun(ctx context.Context, result *models.RunResult) error {
	if h.err != nil {
		return h.err
	}
	h.recorded = append(h.recorded, result)
	return nil
}

func (h *fakeHistory) Prune(ctx context.Context, keep int) error {
	h.pruned = append(h.pruned, keep)
	return nil
}

// projectFixture creates a project layout in a temp dir and changes into it
func projectFixture(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	writeTree(t, ".", map[string]string{
		"backend/routes/taskRoutes.js":     "router.get('/tasks');\n",
		"backend/routes/README.md":         "docs",
		"backend/config/.env":              "PORT=3000",
		"backend/config/nested/db.json":    "{}",
		"frontend/src/App.jsx":             "<App />",
		"frontend/src/components/Card.jsx": "<Card />",
		"frontend/src/styles.css":          "body {}",
	})
}

func fixedDriver(cfg *config.Config, log *recordingLogger, opts ...DriverOption) *Driver {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	opts = append([]DriverOption{
		WithClock(func() time.Time { return start }),
		WithRunID(func() string { return "run-1" }),
	}, opts...)
	return NewDriver(cfg, log, opts...)
}

func TestDriver_DefaultGroups(t *testing.T) {
	projectFixture(t)
	log := &recordingLogger{}

	result, err := fixedDriver(config.DefaultConfig(), log).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, models.StatusCompletedWithWarnings, result.Status)
	require.Len(t, result.Groups, 2)

	backend := result.Groups[0]
	assert.Equal(t, "backend", backend.Name)
	assert.Equal(t, []string{
		filepath.Join("backend/routes", "taskRoutes.js"),
		filepath.Join("backend/config", ".env"),
		filepath.Join("backend/config", "nested", "db.json"),
	}, sectionPaths(backend.Sections))
	assert.Equal(t, []string{"backend/migrations"}, backend.Skipped)

	frontend := result.Groups[1]
	assert.Equal(t, []string{
		filepath.Join("frontend/src", "App.jsx"),
		filepath.Join("frontend/src", "components", "Card.jsx"),
	}, sectionPaths(frontend.Sections))
	assert.Empty(t, frontend.Skipped)

	assert.Equal(t, []string{"Missing expected folder: backend/migrations"}, log.warns)
	assert.Equal(t, []string{"backend", "frontend"}, log.started)
	require.NotNil(t, log.summary)
	assert.Equal(t, models.StatusCompletedWithWarnings, log.summary.Status)

	out := readFile(t, "aggregated-backend.txt")
	assert.Equal(t, 3, strings.Count(out, HeaderPrefix))
	assert.Contains(t, out, HeaderPrefix+"backend/routes/taskRoutes.js\n")
	assert.NotContains(t, out, "README.md")
	assert.Equal(t, 2, strings.Count(readFile(t, "aggregated-frontend.txt"), HeaderPrefix))
}

func TestDriver_Idempotent(t *testing.T) {
	projectFixture(t)
	cfg := config.DefaultConfig()

	_, err := fixedDriver(cfg, &recordingLogger{}).Run(context.Background())
	require.NoError(t, err)
	firstBackend := readFile(t, "aggregated-backend.txt")
	firstFrontend := readFile(t, "aggregated-frontend.txt")

	_, err = fixedDriver(cfg, &recordingLogger{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, firstBackend, readFile(t, "aggregated-backend.txt"))
	assert.Equal(t, firstFrontend, readFile(t, "aggregated-frontend.txt"))
}

func TestDriver_MissingGroupDirectoryStillCreatesOutput(t *testing.T) {
	t.Chdir(t.TempDir())
	log := &recordingLogger{}

	result, err := fixedDriver(config.DefaultConfig(), log).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "", readFile(t, "aggregated-backend.txt"))
	assert.Equal(t, "", readFile(t, "aggregated-frontend.txt"))
	assert.Equal(t, []string{
		"backend/routes", "backend/migrations", "backend/config", "frontend/src",
	}, result.SkippedPaths())
	assert.Equal(t, []string{
		"Missing expected folder: backend/routes",
		"Missing expected folder: backend/migrations",
		"Missing expected folder: backend/config",
		"Missing expected folder: frontend/src",
	}, log.warns)
}

func TestDriver_TruncatesStaleOutput(t *testing.T) {
	projectFixture(t)
	require.NoError(t, os.WriteFile("aggregated-frontend.txt", []byte("stale content"), 0644))

	_, err := fixedDriver(config.DefaultConfig(), &recordingLogger{}).Run(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, readFile(t, "aggregated-frontend.txt"), "stale content")
}

func TestDriver_FileAsInputPathIsSkipped(t *testing.T) {
	projectFixture(t)
	cfg := config.DefaultConfig()
	cfg.Groups = []config.Group{
		{Name: "misc", Output: "out/misc.txt", Paths: []string{"frontend/src/App.jsx", "backend/config"}},
	}

	result, err := fixedDriver(cfg, &recordingLogger{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"frontend/src/App.jsx"}, result.Groups[0].Skipped)
	assert.Len(t, result.Groups[0].Sections, 2)
	assert.FileExists(t, filepath.Join("out", "misc.txt"))
}

func TestDriver_ReadErrorAborts(t *testing.T) {
	projectFixture(t)
	require.NoError(t, os.Symlink("does-not-exist", filepath.Join("backend", "routes", "zz-broken.js")))

	history := &fakeHistory{}
	result, err := fixedDriver(config.DefaultConfig(), &recordingLogger{}, WithHistory(history)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsReadError(err))

	assert.Equal(t, models.StatusFailed, result.Status)
	assert.Equal(t, err, result.Error)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{filepath.Join("backend/routes", "taskRoutes.js")}, sectionPaths(result.Groups[0].Sections))

	// The failed run is still recorded
	require.Len(t, history.recorded, 1)
	assert.Equal(t, models.StatusFailed, history.recorded[0].Status)
}

func TestDriver_ReadErrorSkipped(t *testing.T) {
	projectFixture(t)
	require.NoError(t, os.Symlink("does-not-exist", filepath.Join("backend", "routes", "zz-broken.js")))

	cfg := config.DefaultConfig()
	cfg.OnReadError = config.OnReadErrorSkip
	log := &recordingLogger{}

	result, err := fixedDriver(cfg, log).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompletedWithWarnings, result.Status)
	backend := result.Groups[0]
	require.Len(t, backend.Unreadable, 1)
	assert.Equal(t, filepath.Join("backend/routes", "zz-broken.js"), backend.Unreadable[0].Path)
	assert.Len(t, backend.Sections, 3)
	assert.Len(t, result.Groups[1].Sections, 2)

	found := false
	for _, w := range log.warns {
		if strings.HasPrefix(w, "Skipping unreadable "+filepath.Join("backend/routes", "zz-broken.js")) {
			found = true
		}
	}
	assert.True(t, found, "expected skip warning, got %v", log.warns)
}

func TestDriver_LockContention(t *testing.T) {
	projectFixture(t)

	held, err := filelock.AcquireOutputLocks([]string{"aggregated-frontend.txt"})
	require.NoError(t, err)
	defer held.Release()

	result, err := fixedDriver(config.DefaultConfig(), &recordingLogger{}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocked))
	assert.Equal(t, models.StatusFailed, result.Status)
	assert.Empty(t, result.Groups)

	// Nothing was truncated or written
	assert.NoFileExists(t, "aggregated-backend.txt")
	assert.NoFileExists(t, "aggregated-backend.txt.lock")
}

func TestDriver_ReleasesLocks(t *testing.T) {
	projectFixture(t)

	_, err := fixedDriver(config.DefaultConfig(), &recordingLogger{}).Run(context.Background())
	require.NoError(t, err)

	assert.NoFileExists(t, "aggregated-backend.txt.lock")
	assert.NoFileExists(t, "aggregated-frontend.txt.lock")
}

func TestDriver_MarkdownFormat(t *testing.T) {
	projectFixture(t)
	cfg := config.DefaultConfig()
	cfg.Format = config.FormatMarkdown

	_, err := fixedDriver(cfg, &recordingLogger{}).Run(context.Background())
	require.NoError(t, err)

	out := readFile(t, "aggregated-frontend.txt")
	assert.True(t, strings.HasPrefix(out, MarkdownHeadingPrefix+filepath.Join("frontend/src", "App.jsx")+"\n\n```jsx\n<App />\n```\n\n"))
}

func TestDriver_Manifest(t *testing.T) {
	projectFixture(t)
	cfg := config.DefaultConfig()
	cfg.Manifest = filepath.Join("reports", "manifest.yaml")

	_, err := fixedDriver(cfg, &recordingLogger{}).Run(context.Background())
	require.NoError(t, err)

	m, err := ReadManifest(cfg.Manifest)
	require.NoError(t, err)
	assert.Equal(t, "run-1", m.RunID)
	assert.Equal(t, models.StatusCompletedWithWarnings, m.Status)
	assert.Equal(t, "text", m.Format)
	require.Len(t, m.Groups, 2)
	assert.Equal(t, []string{"backend/migrations"}, m.Groups[0].Skipped)
	assert.Len(t, m.Groups[0].Sections, 3)
	assert.NoFileExists(t, cfg.Manifest+".lock")
}

func TestDriver_HistoryRecordedAndPruned(t *testing.T) {
	projectFixture(t)
	cfg := config.DefaultConfig()
	cfg.History.KeepRuns = 5
	history := &fakeHistory{}

	result, err := fixedDriver(cfg, &recordingLogger{}, WithHistory(history)).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, history.recorded, 1)
	assert.Same(t, result, history.recorded[0])
	assert.Equal(t, []int{5}, history.pruned)
}

func TestDriver_HistoryFailureIsWarning(t *testing.T) {
	projectFixture(t)
	log := &recordingLogger{}
	history := &fakeHistory{err: errors.New("disk full")}

	result, err := fixedDriver(config.DefaultConfig(), log, WithHistory(history)).Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, models.StatusFailed, result.Status)
	assert.Contains(t, log.warns, "Failed to record run history: disk full")
	assert.Empty(t, history.pruned)
}

func TestDriver_NilLogger(t *testing.T) {
	projectFixture(t)
	result, err := NewDriver(config.DefaultConfig(), nil).Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
}
