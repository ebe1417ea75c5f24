package cmd

import (
	"strings"
	"testing"
)

func TestRootCommandHelp(t *testing.T) {
	output, err := executeCommand(t, "--help")
	if err != nil {
		t.Fatalf("--help returned error: %v", err)
	}
	if !strings.Contains(output, "aggregator") {
		t.Errorf("Help text should mention aggregator, got: %s", output)
	}
	if !strings.Contains(output, "--config") {
		t.Errorf("Help text should list --config, got: %s", output)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	if cmd.Use != "aggregator" {
		t.Errorf("Expected Use to be 'aggregator', got '%s'", cmd.Use)
	}

	want := []string{"run", "walk", "inspect", "history", "validate"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected subcommand %q", name)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	output, err := executeCommand(t, "--version")
	if err != nil {
		t.Fatalf("--version returned error: %v", err)
	}
	if !strings.Contains(output, Version) {
		t.Errorf("Expected version %q in output, got: %s", Version, output)
	}
}

func TestRootCommandRunsAggregation(t *testing.T) {
	setupProject(t)

	output, err := executeCommand(t, "--no-history")
	if err != nil {
		t.Fatalf("aggregator returned error: %v\n%s", err, output)
	}
	if !strings.Contains(output, "[OK] Aggregation complete!") {
		t.Errorf("Expected completion summary, got: %s", output)
	}
}

func TestRootCommandRejectsArgs(t *testing.T) {
	if _, err := executeCommand(t, "backend"); err == nil {
		t.Error("Expected error for unknown positional argument")
	}
}

func TestLoadConfigPath_MissingExplicitFile(t *testing.T) {
	if _, err := loadConfigPath("does/not/exist.yaml"); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}
