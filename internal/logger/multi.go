package logger

import "github.com/harrison/dhffiler/internal/models"

// Logger is the full set of logging operations shared by the console and
// file loggers.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogFamily(family models.Family)
	LogSkipped(skipped models.SkippedPath)
	LogScanSummary(catalog *models.Catalog)
	LogFilingOutcome(outcome models.FilingOutcome)
	LogFilingSummary(result models.FilingResult)
}

var (
	_ Logger = (*ConsoleLogger)(nil)
	_ Logger = (*FileLogger)(nil)
	_ Logger = (*NoOpLogger)(nil)
	_ Logger = Multi(nil)
)

// Multi fans every message out to each logger in order
type Multi []Logger

// LogTrace implements Logger.
func (m Multi) LogTrace(message string) {
	for _, l := range m {
		l.LogTrace(message)
	}
}

// LogDebug implements Logger.
func (m Multi) LogDebug(message string) {
	for _, l := range m {
		l.LogDebug(message)
	}
}

// LogInfo implements Logger.
func (m Multi) LogInfo(message string) {
	for _, l := range m {
		l.LogInfo(message)
	}
}

// LogWarn implements Logger.
func (m Multi) LogWarn(message string) {
	for _, l := range m {
		l.LogWarn(message)
	}
}

// LogError implements Logger.
func (m Multi) LogError(message string) {
	for _, l := range m {
		l.LogError(message)
	}
}

// LogFamily implements Logger.
func (m Multi) LogFamily(family models.Family) {
	for _, l := range m {
		l.LogFamily(family)
	}
}

// LogSkipped implements Logger.
func (m Multi) LogSkipped(skipped models.SkippedPath) {
	for _, l := range m {
		l.LogSkipped(skipped)
	}
}

// LogScanSummary implements Logger.
func (m Multi) LogScanSummary(catalog *models.Catalog) {
	for _, l := range m {
		l.LogScanSummary(catalog)
	}
}

// LogFilingOutcome implements Logger.
func (m Multi) LogFilingOutcome(outcome models.FilingOutcome) {
	for _, l := range m {
		l.LogFilingOutcome(outcome)
	}
}

// LogFilingSummary implements Logger.
func (m Multi) LogFilingSummary(result models.FilingResult) {
	for _, l := range m {
		l.LogFilingSummary(result)
	}
}

// NoOpLogger is a Logger implementation that discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string)                       {}
func (n *NoOpLogger) LogDebug(message string)                       {}
func (n *NoOpLogger) LogInfo(message string)                        {}
func (n *NoOpLogger) LogWarn(message string)                        {}
func (n *NoOpLogger) LogError(message string)                       {}
func (n *NoOpLogger) LogFamily(family models.Family)                {}
func (n *NoOpLogger) LogSkipped(skipped models.SkippedPath)         {}
func (n *NoOpLogger) LogScanSummary(catalog *models.Catalog)        {}
func (n *NoOpLogger) LogFilingOutcome(outcome models.FilingOutcome) {}
func (n *NoOpLogger) LogFilingSummary(result models.FilingResult)   {}
