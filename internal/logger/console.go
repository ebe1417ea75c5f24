package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/harrison/aggregator/internal/models"
)

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// Levelled messages are prefixed with [HH:MM:SS] [LEVEL]; the summary is plain text.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if w == os.Stdout || w == os.Stderr {
		// color.NoColor honours NO_COLOR and non-TTY output
		return !color.NoColor
	}

	return false
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
// Format: "[HH:MM:SS] [WARN] <message>"
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}

	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogGroupStart logs the start of a group at DEBUG level.
// Format: "[HH:MM:SS] [DEBUG] Aggregating <name> (<n> paths) into <output>"
func (cl *ConsoleLogger) LogGroupStart(name, output string, pathCount int) {
	cl.LogDebug(fmt.Sprintf("Aggregating %s (%d %s) into %s",
		name, pathCount, pluralize(pathCount, "path", "paths"), output))
}

// LogGroupComplete logs the completion of a group at DEBUG level.
func (cl *ConsoleLogger) LogGroupComplete(result models.GroupResult) {
	cl.LogDebug(fmt.Sprintf("%s complete: %d %s, %d bytes",
		result.Name, len(result.Sections), pluralize(len(result.Sections), "file", "files"), result.Bytes()))
}

// LogSummary logs the run summary at INFO level.
// Format:
//
//	[OK] Aggregation complete!
//	 - Backend files collected in: aggregated-backend.txt
//	 - Frontend files collected in: aggregated-frontend.txt
func (cl *ConsoleLogger) LogSummary(result models.RunResult) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	var b strings.Builder
	b.WriteString("\n")

	if result.Status == models.StatusFailed {
		status := "[FAILED] Aggregation aborted"
		if cl.colorOutput {
			status = color.New(color.FgRed).Sprint(status)
		}
		b.WriteString(status)
		if result.Error != nil {
			fmt.Fprintf(&b, ": %v", result.Error)
		}
		b.WriteString("\n")
		cl.writer.Write([]byte(b.String()))
		return
	}

	ok := "[OK]"
	if cl.colorOutput {
		ok = color.New(color.FgGreen).Sprint(ok)
	}
	fmt.Fprintf(&b, "%s Aggregation complete!\n", ok)
	for _, g := range result.Groups {
		fmt.Fprintf(&b, " - %s files collected in: %s\n", displayName(g.Name), g.Output)
	}

	if skipped := result.SkippedPaths(); len(skipped) > 0 {
		msg := fmt.Sprintf("   %d missing %s skipped", len(skipped), pluralize(len(skipped), "folder", "folders"))
		if cl.colorOutput {
			msg = color.New(color.FgYellow).Sprint(msg)
		}
		b.WriteString(msg + "\n")
	}

	cl.writer.Write([]byte(b.String()))
}
