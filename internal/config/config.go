package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Read error policies
const (
	OnReadErrorAbort = "abort"
	OnReadErrorSkip  = "skip"
)

// Group is one named output artifact and the directories that feed it.
type Group struct {
	// Name identifies the group in logs and summaries (e.g. "backend")
	Name string `yaml:"name"`

	// Output is the path of the aggregate file for this group
	Output string `yaml:"output"`

	// Paths are the input directories, aggregated in order
	Paths []string `yaml:"paths"`
}

// WalkConfig configures the diagnostic walker
type WalkConfig struct {
	// Root is the directory walked when no argument is given
	Root string `yaml:"root"`
}

// HistoryConfig represents run history configuration
type HistoryConfig struct {
	// Enabled records every run into the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database (empty = under AGGREGATOR_HOME)
	DBPath string `yaml:"db_path"`

	// KeepRuns is the number of runs to retain (0 = keep all)
	KeepRuns int `yaml:"keep_runs"`
}

// Config represents aggregator configuration options
type Config struct {
	// Suffixes is the ordered allowed-suffix set, matched case-insensitively
	Suffixes []string `yaml:"suffixes"`

	// Groups are aggregated in order, each into its own output file
	Groups []Group `yaml:"groups"`

	// Format selects the section layout of output files (text, markdown)
	Format string `yaml:"format"`

	// OnReadError decides what happens when a matched file cannot be read (abort, skip)
	OnReadError string `yaml:"on_read_error"`

	// FollowSymlinks descends into symlinked directories, guarded against cycles
	FollowSymlinks bool `yaml:"follow_symlinks"`

	// Manifest is the path of a YAML run manifest (empty = none)
	Manifest string `yaml:"manifest"`

	// Walk configures the diagnostic walker
	Walk WalkConfig `yaml:"walk"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written (empty = no file log)
	LogDir string `yaml:"log_dir"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultSuffixes returns the default allowed-suffix set
func DefaultSuffixes() []string {
	return []string{".env", ".js", ".jsx", ".json"}
}

// DefaultConfig returns a Config with the backend and frontend groups
func DefaultConfig() *Config {
	return &Config{
		Suffixes: DefaultSuffixes(),
		Groups: []Group{
			{
				Name:   "backend",
				Output: "aggregated-backend.txt",
				Paths:  []string{"backend/routes", "backend/migrations", "backend/config"},
			},
			{
				Name:   "frontend",
				Output: "aggregated-frontend.txt",
				Paths:  []string{"frontend/src"},
			},
		},
		Format:         FormatText,
		OnReadError:    OnReadErrorAbort,
		FollowSymlinks: false,
		Walk:           WalkConfig{Root: "backend"},
		LogLevel:       "info",
		LogDir:         filepath.Join(".aggregator", "logs"),
		History: HistoryConfig{
			Enabled:  true,
			DBPath:   "",
			KeepRuns: 100,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlCfg Config
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Lists replace the defaults wholesale when present
	if len(yamlCfg.Suffixes) > 0 {
		cfg.Suffixes = yamlCfg.Suffixes
	}
	if len(yamlCfg.Groups) > 0 {
		cfg.Groups = yamlCfg.Groups
	}
	if yamlCfg.Format != "" {
		cfg.Format = yamlCfg.Format
	}
	if yamlCfg.OnReadError != "" {
		cfg.OnReadError = yamlCfg.OnReadError
	}
	if yamlCfg.FollowSymlinks {
		cfg.FollowSymlinks = true
	}
	if yamlCfg.Manifest != "" {
		cfg.Manifest = yamlCfg.Manifest
	}
	if yamlCfg.Walk.Root != "" {
		cfg.Walk.Root = yamlCfg.Walk.Root
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	// Keys whose zero value is meaningful are merged only when present
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if _, exists := rawMap["log_dir"]; exists {
			cfg.LogDir = yamlCfg.LogDir
		}
		if historySection, exists := rawMap["history"]; exists && historySection != nil {
			historyMap, _ := historySection.(map[string]interface{})
			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = yamlCfg.History.Enabled
			}
			if _, exists := historyMap["db_path"]; exists {
				cfg.History.DBPath = yamlCfg.History.DBPath
			}
			if _, exists := historyMap["keep_runs"]; exists {
				cfg.History.KeepRuns = yamlCfg.History.KeepRuns
			}
		}
	}

	cfg.Suffixes = NormalizeSuffixes(cfg.Suffixes)

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .aggregator/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".aggregator", "config.yaml")
	return LoadConfig(configPath)
}

// NormalizeSuffixes lowercases suffixes and adds a leading dot where missing.
// Empty entries are kept so Validate can report them.
func NormalizeSuffixes(suffixes []string) []string {
	normalized := make([]string, len(suffixes))
	for i, s := range suffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" && !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		normalized[i] = s
	}
	return normalized
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(format, onReadError, manifest, logLevel, logDir *string, noHistory *bool) {
	if format != nil {
		c.Format = *format
	}
	if onReadError != nil {
		c.OnReadError = *onReadError
	}
	if manifest != nil {
		c.Manifest = *manifest
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if noHistory != nil && *noHistory {
		c.History.Enabled = false
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if len(c.Suffixes) == 0 {
		return fmt.Errorf("suffixes cannot be empty")
	}
	for i, s := range c.Suffixes {
		if strings.TrimSpace(s) == "" || s == "." {
			return fmt.Errorf("suffixes[%d] cannot be empty", i)
		}
	}

	if len(c.Groups) == 0 {
		return fmt.Errorf("at least one group is required")
	}
	names := make(map[string]bool)
	outputs := make(map[string]bool)
	for i, g := range c.Groups {
		if strings.TrimSpace(g.Name) == "" {
			return fmt.Errorf("groups[%d].name cannot be empty", i)
		}
		if names[g.Name] {
			return fmt.Errorf("duplicate group name %q", g.Name)
		}
		names[g.Name] = true

		if strings.TrimSpace(g.Output) == "" {
			return fmt.Errorf("group %q: output cannot be empty", g.Name)
		}
		cleanOutput := filepath.Clean(g.Output)
		if outputs[cleanOutput] {
			return fmt.Errorf("group %q: output %q is shared with another group", g.Name, g.Output)
		}
		outputs[cleanOutput] = true

		if len(g.Paths) == 0 {
			return fmt.Errorf("group %q: at least one path is required", g.Name)
		}
	}

	switch c.Format {
	case FormatText, FormatMarkdown:
	default:
		return fmt.Errorf("invalid format %q, must be one of: text, markdown", c.Format)
	}

	switch c.OnReadError {
	case OnReadErrorAbort, OnReadErrorSkip:
	default:
		return fmt.Errorf("invalid on_read_error %q, must be one of: abort, skip", c.OnReadError)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.History.KeepRuns < 0 {
		return fmt.Errorf("history.keep_runs must be >= 0, got %d", c.History.KeepRuns)
	}

	return nil
}
