package bundle

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harrison/aggregator/internal/models"
)

// writeTree creates files relative to root, making parent directories as needed
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func sectionPaths(sections []models.Section) []string {
	paths := make([]string, len(sections))
	for i, s := range sections {
		paths[i] = s.Path
	}
	return paths
}

// recordingLogger captures messages by level
type recordingLogger struct {
	mu       sync.Mutex
	warns    []string
	infos    []string
	debugs   []string
	summary  *models.RunResult
	started  []string
	complete []models.GroupResult
}

func (l *recordingLogger) LogTrace(string) {}

func (l *recordingLogger) LogDebug(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debugs = append(l.debugs, message)
}

func (l *recordingLogger) LogInfo(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, message)
}

func (l *recordingLogger) LogWarn(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, message)
}

func (l *recordingLogger) LogError(string) {}

func (l *recordingLogger) LogGroupStart(name, output string, pathCount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started = append(l.started, name)
}

func (l *recordingLogger) LogGroupComplete(result models.GroupResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.complete = append(l.complete, result)
}

func (l *recordingLogger) LogSummary(result models.RunResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.summary = &result
}
