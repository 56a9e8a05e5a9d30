// Package logger provides logging implementations for dhffiler.
//
// Loggers report discovery progress, skipped paths and filing outcomes.
// Implementations are thread-safe, since families may be scanned in parallel,
// and support console and run-log-file destinations.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/dhffiler/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs scan and filing progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// SetColor forces color output on or off (e.g. for --no-color)
func (cl *ConsoleLogger) SetColor(enabled bool) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.colorOutput = enabled
}

// isTerminal checks if the writer is a terminal that supports colors.
// Returns true for os.Stdout and os.Stderr when they are TTYs.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if w == os.Stdout || w == os.Stderr {
		// color.NoColor is false only for a TTY without NO_COLOR set
		return !color.NoColor
	}

	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
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
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
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

// LogFamily logs a discovered family with its subfamily and document counts at DEBUG level.
// Format: "[HH:MM:SS] Family <name>: <n> subfamilies, <m> documents"
func (cl *ConsoleLogger) LogFamily(family models.Family) {
	if cl.writer == nil || !cl.shouldLog("debug") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	name := family.Name
	if cl.colorOutput {
		name = color.New(color.Bold).Sprint(name)
	}
	message := fmt.Sprintf("[%s] Family %s: %d subfamilies, %d documents\n",
		timestamp(), name, len(family.Subfamilies), family.DocumentCount())

	cl.writer.Write([]byte(message))
}

// LogSkipped logs a branch the scan could not read at WARN level.
func (cl *ConsoleLogger) LogSkipped(skipped models.SkippedPath) {
	cl.LogWarn(fmt.Sprintf("skipped %s: %s", skipped.Path, skipped.Reason))
}

// LogScanSummary logs the totals of a discovery pass at INFO level.
func (cl *ConsoleLogger) LogScanSummary(catalog *models.Catalog) {
	if cl.writer == nil || catalog == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	subfamilies, documents := catalogTotals(catalog)

	output := fmt.Sprintf("[%s] Scanned %s in %s\n", ts, catalog.Root, formatDuration(catalog.Duration))
	counts := fmt.Sprintf("%d families, %d subfamilies, %d documents", len(catalog.Families), subfamilies, documents)
	if cl.colorOutput {
		counts = color.New(color.FgGreen).Sprint(counts)
	}
	output += fmt.Sprintf("[%s] %s\n", ts, counts)

	if len(catalog.Skipped) > 0 {
		skipped := fmt.Sprintf("%d paths skipped", len(catalog.Skipped))
		if cl.colorOutput {
			skipped = color.New(color.FgYellow).Sprint(skipped)
		}
		output += fmt.Sprintf("[%s] %s\n", ts, skipped)
	}

	cl.writer.Write([]byte(output))
}

// LogFilingOutcome logs the outcome of filing one document at INFO level.
// Format: "[HH:MM:SS] <action> <document> -> <destination>: <status>"
func (cl *ConsoleLogger) LogFilingOutcome(outcome models.FilingOutcome) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	status := outcome.Status
	if cl.colorOutput {
		switch outcome.Status {
		case models.StatusFiled, models.StatusReplaced:
			status = color.New(color.FgGreen).Sprint(status)
		case models.StatusPlanned:
			status = color.New(color.FgCyan).Sprint(status)
		case models.StatusConflict:
			status = color.New(color.FgYellow).Sprint(status)
		case models.StatusFailed:
			status = color.New(color.FgRed).Sprint(status)
		}
	}

	message := fmt.Sprintf("[%s] %s %s -> %s: %s", timestamp(), outcome.Action, outcome.Document.Name, outcome.Destination, status)
	if outcome.Error != nil {
		message += fmt.Sprintf(" (%v)", outcome.Error)
	}
	cl.writer.Write([]byte(message + "\n"))
}

// LogFilingSummary logs the totals of a filing run at INFO level.
func (cl *ConsoleLogger) LogFilingSummary(result models.FilingResult) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	failures := result.Failures()

	header := "=== Filing Summary ==="
	if result.DryRun {
		header = "=== Filing Summary (dry run) ==="
	}
	if cl.colorOutput {
		header = color.New(color.Bold).Sprint(header)
	}

	output := fmt.Sprintf("[%s] %s\n", ts, header)
	output += fmt.Sprintf("[%s] Family: %s\n", ts, result.Family)
	if result.BackupPath != "" {
		output += fmt.Sprintf("[%s] Backup: %s\n", ts, result.BackupPath)
	}
	output += fmt.Sprintf("[%s] Documents: %d\n", ts, len(result.Outcomes))

	filed := fmt.Sprintf("Filed: %d", result.Succeeded())
	failed := fmt.Sprintf("Failed: %d", len(failures))
	if cl.colorOutput {
		filed = color.New(color.FgGreen).Sprint(filed)
		if len(failures) > 0 {
			failed = color.New(color.FgRed).Sprint(failed)
		}
	}
	output += fmt.Sprintf("[%s] %s\n", ts, filed)
	output += fmt.Sprintf("[%s] %s\n", ts, failed)
	output += fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(result.Duration))

	for _, f := range failures {
		output += fmt.Sprintf("[%s]   - %s: %s (%v)\n", ts, f.Document.Name, f.Status, f.Error)
	}

	cl.writer.Write([]byte(output))
}

func catalogTotals(catalog *models.Catalog) (subfamilies, documents int) {
	for _, f := range catalog.Families {
		subfamilies += len(f.Subfamilies)
		documents += f.DocumentCount()
	}
	return subfamilies, documents
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "250ms", "5s", "1m30s"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}
