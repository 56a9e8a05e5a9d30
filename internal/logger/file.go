package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/dhffiler/internal/models"
)

// FileLogger writes a plain-text run log to a directory.
// Each run gets a timestamped run-YYYYMMDD-HHMMSS.log file and a latest.log
// symlink pointing at it. It is thread-safe.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger in logDir with the given log level.
// It creates the log directory if it doesn't exist.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", timestamp))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		// Symlinks need extra privileges on some platforms; the run log still works
		fmt.Fprintf(file, "latest.log symlink not created: %v\n", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== dhffiler Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of the current run log
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogFamily records a discovered family at DEBUG level.
func (fl *FileLogger) LogFamily(family models.Family) {
	if !fl.shouldLog("debug") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Family %s (%s): %d subfamilies, %d documents\n",
		timestamp(), family.Name, family.Path, len(family.Subfamilies), family.DocumentCount()))
}

// LogSkipped records an unreadable branch at WARN level.
func (fl *FileLogger) LogSkipped(skipped models.SkippedPath) {
	fl.LogWarn(fmt.Sprintf("skipped %s: %s", skipped.Path, skipped.Reason))
}

// LogScanSummary records discovery totals at INFO level.
func (fl *FileLogger) LogScanSummary(catalog *models.Catalog) {
	if catalog == nil || !fl.shouldLog("info") {
		return
	}
	subfamilies, documents := catalogTotals(catalog)
	fl.writeRunLog(fmt.Sprintf("[%s] Scanned %s in %s: %d families, %d subfamilies, %d documents, %d skipped\n",
		timestamp(), catalog.Root, formatDuration(catalog.Duration),
		len(catalog.Families), subfamilies, documents, len(catalog.Skipped)))
}

// LogFilingOutcome records one document's filing outcome at INFO level.
func (fl *FileLogger) LogFilingOutcome(outcome models.FilingOutcome) {
	if !fl.shouldLog("info") {
		return
	}
	message := fmt.Sprintf("[%s] %s %s -> %s: %s", timestamp(),
		outcome.Action, outcome.Document.Path, outcome.Destination, outcome.Status)
	if outcome.Error != nil {
		message += fmt.Sprintf(" (%v)", outcome.Error)
	}
	fl.writeRunLog(message + "\n")
}

// LogFilingSummary records filing totals at INFO level.
func (fl *FileLogger) LogFilingSummary(result models.FilingResult) {
	if !fl.shouldLog("info") {
		return
	}

	ts := timestamp()
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] === Filing Summary ===\n", ts))
	b.WriteString(fmt.Sprintf("[%s] Run: %s\n", ts, result.RunID))
	b.WriteString(fmt.Sprintf("[%s] Family: %s\n", ts, result.Family))
	b.WriteString(fmt.Sprintf("[%s] Dry run: %t\n", ts, result.DryRun))
	if result.BackupPath != "" {
		b.WriteString(fmt.Sprintf("[%s] Backup: %s\n", ts, result.BackupPath))
	}
	b.WriteString(fmt.Sprintf("[%s] Filed: %d/%d\n", ts, result.Succeeded(), len(result.Outcomes)))
	b.WriteString(fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(result.Duration)))
	fl.writeRunLog(b.String())
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
	}
}
