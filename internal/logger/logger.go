// Package logger provides logging implementations for aggregator runs.
//
// The logger package reports run progress at the group and summary levels.
// Implementations are safe for concurrent use and write to the console, a
// per-run log file, or both through MultiLogger.
package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/aggregator/internal/models"
)

// Logger is the logging surface used by the aggregation driver
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogGroupStart(name, output string, pathCount int)
	LogGroupComplete(result models.GroupResult)
	LogSummary(result models.RunResult)
}

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}

	return "info"
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration renders a duration for humans: "850ms", "1.2s", "3m4s".
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}

// displayName capitalizes a group name for summaries ("backend" -> "Backend")
func displayName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// pluralize returns singular when n == 1, plural otherwise
func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
