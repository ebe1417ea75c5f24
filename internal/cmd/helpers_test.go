package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/aggregator/internal/config"
)

// executeCommand runs the root command with args and returns its output
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// setupProject changes into a fresh project directory with backend and
// frontend sources, and isolates aggregator state under it
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(config.HomeEnvVar, filepath.Join(dir, "state"))

	files := map[string]string{
		"backend/routes/taskRoutes.js":     "router.get('/tasks');\n",
		"backend/config/.env":              "PORT=3000",
		"backend/config/db.json":           "{}",
		"frontend/src/App.jsx":             "<App />",
		"frontend/src/components/Card.jsx": "<Card />",
		"frontend/src/index.css":           "body {}",
	}
	for rel, content := range files {
		if err := os.MkdirAll(filepath.Dir(rel), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(rel, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
