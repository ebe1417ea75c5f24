package bundle

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harrison/aggregator/internal/config"
	"github.com/harrison/aggregator/internal/filelock"
	"github.com/harrison/aggregator/internal/models"
)

// Manifest is the YAML record of one run
type Manifest struct {
	RunID     string               `yaml:"run_id"`
	StartedAt time.Time            `yaml:"started_at"`
	Duration  string               `yaml:"duration"`
	Status    string               `yaml:"status"`
	Error     string               `yaml:"error,omitempty"`
	Format    string               `yaml:"format"`
	Suffixes  []string             `yaml:"suffixes"`
	Groups    []models.GroupResult `yaml:"groups"`
}

// NewManifest builds the manifest for a finished run
func NewManifest(cfg *config.Config, result *models.RunResult) *Manifest {
	m := &Manifest{
		RunID:     result.RunID,
		StartedAt: result.StartedAt.UTC(),
		Duration:  result.Duration.String(),
		Status:    result.Status,
		Format:    cfg.Format,
		Suffixes:  cfg.Suffixes,
		Groups:    result.Groups,
	}
	if result.Error != nil {
		m.Error = result.Error.Error()
	}
	return m
}

// WriteManifest writes m to path atomically under "<path>.lock"
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return filelock.LockAndWrite(path, data)
}

// ReadManifest loads a manifest written by WriteManifest
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if m.RunID == "" {
		return nil, fmt.Errorf("manifest %s has no run_id", path)
	}
	return &m, nil
}
