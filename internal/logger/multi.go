package logger

import "github.com/harrison/aggregator/internal/models"

// MultiLogger fans every call out to several loggers in order
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger; nil entries are ignored
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) LogTrace(message string) {
	for _, l := range m.loggers {
		l.LogTrace(message)
	}
}

func (m *MultiLogger) LogDebug(message string) {
	for _, l := range m.loggers {
		l.LogDebug(message)
	}
}

func (m *MultiLogger) LogInfo(message string) {
	for _, l := range m.loggers {
		l.LogInfo(message)
	}
}

func (m *MultiLogger) LogWarn(message string) {
	for _, l := range m.loggers {
		l.LogWarn(message)
	}
}

func (m *MultiLogger) LogError(message string) {
	for _, l := range m.loggers {
		l.LogError(message)
	}
}

func (m *MultiLogger) LogGroupStart(name, output string, pathCount int) {
	for _, l := range m.loggers {
		l.LogGroupStart(name, output, pathCount)
	}
}

func (m *MultiLogger) LogGroupComplete(result models.GroupResult) {
	for _, l := range m.loggers {
		l.LogGroupComplete(result)
	}
}

func (m *MultiLogger) LogSummary(result models.RunResult) {
	for _, l := range m.loggers {
		l.LogSummary(result)
	}
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) LogTrace(string) {}
func (NopLogger) LogDebug(string) {}
func (NopLogger) LogInfo(string) {}
func (NopLogger) LogWarn(string) {}
func (NopLogger) LogError(string) {}
func (NopLogger) LogGroupStart(string, string, int) {}
func (NopLogger) LogGroupComplete(models.GroupResult) {}
func (NopLogger) LogSummary(models.RunResult) {}
