package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/dhffiler/internal/models"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Paths      []string // Related paths (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Paths) > 0 {
		b.WriteString("    ")
		if len(w.Paths) == 1 {
			b.WriteString("Affected path:\n")
		} else {
			b.WriteString("Affected paths:\n")
		}

		for i, path := range w.Paths {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, path))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	color.New(color.FgYellow).Fprint(out, b.String())
}

// WarnSkippedPaths creates a warning for branches a scan could not read.
// It returns false when nothing was skipped.
func WarnSkippedPaths(skipped []models.SkippedPath) (Warning, bool) {
	if len(skipped) == 0 {
		return Warning{}, false
	}
	paths := make([]string, len(skipped))
	for i, s := range skipped {
		paths[i] = fmt.Sprintf("%s (%s)", s.Path, s.Reason)
	}
	return Warning{
		Title:      "Some folders could not be read",
		Message:    "Documents below these paths are missing from the catalog.",
		Paths:      paths,
		Suggestion: "Check folder permissions and rescan",
	}, true
}

// WarnFilingFailures creates a warning for documents a filing run left in place.
// It returns false when every document was filed.
func WarnFilingFailures(result models.FilingResult) (Warning, bool) {
	failures := result.Failures()
	if len(failures) == 0 {
		return Warning{}, false
	}

	conflicts := 0
	paths := make([]string, len(failures))
	for i, f := range failures {
		if f.Status == models.StatusConflict {
			conflicts++
		}
		paths[i] = fmt.Sprintf("%s: %v", f.Document.Path, f.Error)
	}

	w := Warning{
		Title:   fmt.Sprintf("%d of %d documents were not filed", len(failures), len(result.Outcomes)),
		Message: "These documents were left in their in-progress folders.",
		Paths:   paths,
	}
	if conflicts > 0 {
		w.Suggestion = "Mark documents that replace a filed copy for update instead of add"
	}
	return w, true
}
