// Package display provides terminal output for catalogs, warnings, and filing
// problems.
//
// # Catalog Tree
//
// Print the families found by a scan, with each document's type and revision:
//
//	display.CatalogTree(os.Stdout, catalog)
//	display.Summary(os.Stdout, catalog)
//
// # Warning Messages
//
// Display warnings with optional components:
//
//	warning := display.Warning{
//	    Title:      "Configuration Issue",
//	    Message:    "backup_dir is not writable",
//	    Paths:      []string{"/mnt/backups"},
//	    Suggestion: "Choose another directory with --backup-dir",
//	}
//	warning.Display(os.Stderr)
//
// Or use the factories for scan and filing problems:
//
//	if w, ok := display.WarnSkippedPaths(catalog.Skipped); ok {
//	    w.Display(os.Stderr)
//	}
//
// Colors come from fatih/color and are dropped automatically when the output
// is not a terminal or NO_COLOR is set. All functions accept io.Writer for
// testability.
package display
