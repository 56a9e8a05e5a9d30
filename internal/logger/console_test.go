package logger

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harrison/dhffiler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var timestampPrefix = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] `)

func TestNewConsoleLogger_DefaultsLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "info"},
		{"DEBUG", "debug"},
		{"  warn ", "warn"},
		{"verbose", "info"},
		{"trace", "trace"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cl := NewConsoleLogger(&bytes.Buffer{}, tt.input)
			assert.Equal(t, tt.want, cl.logLevel)
		})
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level     string
		wantLines []string
	}{
		{"trace", []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{"debug", []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{"info", []string{"INFO", "WARN", "ERROR"}},
		{"warn", []string{"WARN", "ERROR"}},
		{"error", []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			cl := NewConsoleLogger(&buf, tt.level)

			cl.LogTrace("t")
			cl.LogDebug("d")
			cl.LogInfo("i")
			cl.LogWarn("w")
			cl.LogError("e")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, len(tt.wantLines))
			for i, want := range tt.wantLines {
				assert.Regexp(t, timestampPrefix, lines[i])
				assert.Contains(t, lines[i], "["+want+"]")
			}
		})
	}
}

func TestConsoleLogger_NilWriter(t *testing.T) {
	cl := NewConsoleLogger(nil, "trace")
	assert.NotPanics(t, func() {
		cl.LogInfo("hello")
		cl.LogFamily(models.Family{Name: "FamilyA"})
		cl.LogScanSummary(&models.Catalog{})
		cl.LogFilingOutcome(models.FilingOutcome{})
		cl.LogFilingSummary(models.FilingResult{})
	})
}

func TestConsoleLogger_NoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")
	cl.LogWarn("plain")

	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestConsoleLogger_LogFamily(t *testing.T) {
	family := models.Family{
		Name: "FamilyA",
		Subfamilies: []models.SubFamily{
			{Name: "Sub1", Documents: []models.Document{{Name: "a.pdf"}, {Name: "a.docx"}}},
			{Name: "Sub2"},
		},
	}

	t.Run("debug level", func(t *testing.T) {
		var buf bytes.Buffer
		NewConsoleLogger(&buf, "debug").LogFamily(family)
		assert.Contains(t, buf.String(), "Family FamilyA: 2 subfamilies, 2 documents")
	})

	t.Run("info level hides families", func(t *testing.T) {
		var buf bytes.Buffer
		NewConsoleLogger(&buf, "info").LogFamily(family)
		assert.Empty(t, buf.String())
	})
}

func TestConsoleLogger_LogSkipped(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLogger(&buf, "info").LogSkipped(models.SkippedPath{Path: "/root/locked", Reason: "permission denied"})

	assert.Contains(t, buf.String(), "[WARN] skipped /root/locked: permission denied")
}

func TestConsoleLogger_LogScanSummary(t *testing.T) {
	var buf bytes.Buffer
	catalog := &models.Catalog{
		Root: "/data/dhf",
		Families: []models.Family{
			{Name: "A", Subfamilies: []models.SubFamily{{Documents: []models.Document{{}, {}}}}},
			{Name: "B", Subfamilies: []models.SubFamily{{}, {Documents: []models.Document{{}}}}},
		},
		Skipped:  []models.SkippedPath{{Path: "/data/dhf/x"}},
		Duration: 1500 * time.Millisecond,
	}

	NewConsoleLogger(&buf, "info").LogScanSummary(catalog)
	out := buf.String()

	assert.Contains(t, out, "Scanned /data/dhf in 1s")
	assert.Contains(t, out, "2 families, 3 subfamilies, 3 documents")
	assert.Contains(t, out, "1 paths skipped")
}

func TestConsoleLogger_LogFilingOutcome(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	cl.LogFilingOutcome(models.FilingOutcome{
		Document:    models.Document{Name: "spec_Rev3.pdf"},
		Action:      models.ActionAdd,
		Destination: "/dest/spec_Rev3.pdf",
		Status:      models.StatusFiled,
	})
	cl.LogFilingOutcome(models.FilingOutcome{
		Document:    models.Document{Name: "spec_Rev3.docx"},
		Action:      models.ActionAdd,
		Destination: "/dest/spec_Rev3.docx",
		Status:      models.StatusConflict,
		Error:       errors.New("destination exists"),
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "add spec_Rev3.pdf -> /dest/spec_Rev3.pdf: FILED")
	assert.Contains(t, lines[1], "CONFLICT (destination exists)")
}

func TestConsoleLogger_LogFilingSummary(t *testing.T) {
	var buf bytes.Buffer
	result := models.FilingResult{
		Family:     "FamilyA",
		BackupPath: "/backups/FamilyA-20260101-120000-abcd1234",
		DryRun:     true,
		Outcomes: []models.FilingOutcome{
			{Document: models.Document{Name: "a.pdf"}, Status: models.StatusPlanned},
			{Document: models.Document{Name: "b.pdf"}, Status: models.StatusFailed, Error: errors.New("denied")},
		},
		Duration: 90 * time.Second,
	}

	NewConsoleLogger(&buf, "info").LogFilingSummary(result)
	out := buf.String()

	assert.Contains(t, out, "=== Filing Summary (dry run) ===")
	assert.Contains(t, out, "Family: FamilyA")
	assert.Contains(t, out, "Backup: /backups/FamilyA-20260101-120000-abcd1234")
	assert.Contains(t, out, "Filed: 1")
	assert.Contains(t, out, "Failed: 1")
	assert.Contains(t, out, "Duration: 1m30s")
	assert.Contains(t, out, "b.pdf: FAILED (denied)")
}

func TestConsoleLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cl.LogInfo("concurrent")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 20)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{5 * time.Second, "5s"},
		{2 * time.Minute, "2m"},
		{90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.in))
		})
	}
}
