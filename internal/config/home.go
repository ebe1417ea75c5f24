package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnvVar overrides the aggregator state directory
const HomeEnvVar = "AGGREGATOR_HOME"

// GetAggregatorHome returns the aggregator home directory
// Priority order:
//  1. AGGREGATOR_HOME environment variable (if set)
//  2. .aggregator in the current working directory
//
// The directory is created if it doesn't exist
func GetAggregatorHome() (string, error) {
	return GetAggregatorHomeWithRoot("")
}

// GetAggregatorHomeWithRoot is GetAggregatorHome with an explicit project root.
// An empty root falls back to the current working directory.
func GetAggregatorHomeWithRoot(root string) (string, error) {
	if home := os.Getenv(HomeEnvVar); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create aggregator home directory: %w", err)
		}
		return home, nil
	}

	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		root = cwd
	}

	home := filepath.Join(root, ".aggregator")
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create aggregator home directory: %w", err)
	}

	return home, nil
}

// ResolveHistoryDBPath returns the configured history database path, or
// $AGGREGATOR_HOME/history/runs.db when none is configured
func ResolveHistoryDBPath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	home, err := GetAggregatorHome()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, "history", "runs.db"), nil
}

// ResolveLogDir moves the default log directory under AGGREGATOR_HOME when
// the variable is set. Explicitly configured directories are kept.
func ResolveLogDir(configured string) string {
	home := os.Getenv(HomeEnvVar)
	if home == "" || configured != DefaultConfig().LogDir {
		return configured
	}
	return filepath.Join(home, "logs")
}
