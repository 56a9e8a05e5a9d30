// Package report renders a catalog inventory, and optionally the outcome of a
// filing run, as Markdown or HTML.
package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/dhffiler/internal/filelock"
	"github.com/harrison/dhffiler/internal/models"
)

// Markdown renders the inventory of catalog. result may be nil when no filing
// run took place.
func Markdown(catalog *models.Catalog, result *models.FilingResult) string {
	var sb strings.Builder

	sb.WriteString("# DHF Inventory\n\n")
	fmt.Fprintf(&sb, "Root: `%s`\n\n", catalog.Root)
	fmt.Fprintf(&sb, "Families: %d\n\n", len(catalog.Families))

	for _, family := range catalog.Families {
		fmt.Fprintf(&sb, "## %s\n\n", escape(family.Name))
		fmt.Fprintf(&sb, "Path: `%s`\n\n", family.Path)

		if len(family.Subfamilies) == 0 {
			sb.WriteString("_No subfamilies in progress._\n\n")
			continue
		}

		for _, sf := range family.Subfamilies {
			fmt.Fprintf(&sb, "### %s\n\n", escape(sf.Name))
			if len(sf.Documents) == 0 {
				sb.WriteString("_No documents._\n\n")
				continue
			}

			sb.WriteString("| Document | Type | Revision |\n")
			sb.WriteString("|---|---|---|\n")
			for _, doc := range sf.Documents {
				fmt.Fprintf(&sb, "| %s | %s | %s |\n", escape(doc.Name), doc.Type, doc.RevisionLabel())
			}
			sb.WriteString("\n")

			if pairs := sf.CompletePairs(); len(pairs) > 0 {
				stems := make([]string, len(pairs))
				for i, p := range pairs {
					stems[i] = escape(p.Stem)
				}
				fmt.Fprintf(&sb, "Complete pairs: %s\n\n", strings.Join(stems, ", "))
			}
		}
	}

	if len(catalog.Skipped) > 0 {
		sb.WriteString("## Skipped Paths\n\n")
		for _, s := range catalog.Skipped {
			fmt.Fprintf(&sb, "- `%s`: %s\n", s.Path, escape(s.Reason))
		}
		sb.WriteString("\n")
	}

	if result != nil {
		writeFiling(&sb, result)
	}

	return sb.String()
}

func writeFiling(sb *strings.Builder, result *models.FilingResult) {
	title := "## Filing Run"
	if result.DryRun {
		title += " (dry run)"
	}
	sb.WriteString(title + "\n\n")
	fmt.Fprintf(sb, "Run: `%s`  \nFamily: %s  \n", result.RunID, escape(result.Family))
	if result.BackupPath != "" {
		fmt.Fprintf(sb, "Backup: `%s`  \n", result.BackupPath)
	}
	fmt.Fprintf(sb, "Filed: %d of %d\n\n", result.Succeeded(), len(result.Outcomes))

	if len(result.Outcomes) == 0 {
		return
	}

	sb.WriteString("| Document | Subfamily | Action | Status | Destination | Error |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, o := range result.Outcomes {
		errText := ""
		if o.Error != nil {
			errText = escape(o.Error.Error())
		}
		fmt.Fprintf(sb, "| %s | %s | %s | %s | `%s` | %s |\n",
			escape(o.Document.Name), escape(o.SubFamily), o.Action, o.Status, o.Destination, errText)
	}
	sb.WriteString("\n")
}

// escape keeps table cells intact
func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// HTML converts Markdown output to a standalone HTML page
func HTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>DHF Inventory</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

// Write renders the report to path, as HTML when the extension is .html or
// .htm and as Markdown otherwise.
func Write(path string, catalog *models.Catalog, result *models.FilingResult) error {
	content := Markdown(catalog, result)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		html, err := HTML(content)
		if err != nil {
			return err
		}
		content = html
	}

	if err := filelock.AtomicWrite(path, []byte(content)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
