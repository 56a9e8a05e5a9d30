package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/dhffiler/internal/display"
	"github.com/harrison/dhffiler/internal/filing"
	"github.com/harrison/dhffiler/internal/models"
	"github.com/harrison/dhffiler/internal/report"
	"github.com/harrison/dhffiler/internal/workflow"
)

// MenuReader defines interface for reading user input (for testing)
type MenuReader interface {
	ReadString(delim byte) (string, error)
}

// DefaultMenuReader wraps bufio.Reader
type DefaultMenuReader struct {
	reader *bufio.Reader
}

// NewDefaultMenuReader reads operator input from r
func NewDefaultMenuReader(r io.Reader) *DefaultMenuReader {
	return &DefaultMenuReader{reader: bufio.NewReader(r)}
}

func (d *DefaultMenuReader) ReadString(delim byte) (string, error) {
	return d.reader.ReadString(delim)
}

// CatalogScanner produces a catalog for a DHF root
type CatalogScanner interface {
	Scan(ctx context.Context, root string) (*models.Catalog, error)
}

// DocumentFiler files a selection of documents for one family
type DocumentFiler interface {
	File(ctx context.Context, family models.Family, selection []models.SelectedDocument) (*models.FilingResult, error)
}

var errQuit = errors.New("quit")

// Menu drives the selection workflow from operator input
type Menu struct {
	Root       string
	Scanner    CatalogScanner
	Filer      DocumentFiler
	Reader     MenuReader
	Out        io.Writer
	Err        io.Writer
	ReportPath string // Written after each filing run when set

	wf      *workflow.Workflow
	catalog *models.Catalog
}

// Run scans the root and loops over the workflow stages until the operator
// quits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	m.wf = workflow.New(nil)
	if err := m.rescan(ctx); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch m.wf.State() {
		case workflow.StateFamilySelect:
			err = m.familyStage(ctx)
		case workflow.StateSubfamilySelect:
			err = m.subfamilyStage()
		case workflow.StateDocumentSelect:
			err = m.documentStage(ctx)
		default:
			err = fmt.Errorf("unexpected workflow state %s", m.wf.State())
		}

		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m *Menu) rescan(ctx context.Context) error {
	if err := m.wf.BeginScan(); err != nil {
		return err
	}
	fmt.Fprintf(m.Out, "Scanning %s...\n", m.Root)

	catalog, err := m.Scanner.Scan(ctx, m.Root)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	m.catalog = catalog

	if w, ok := display.WarnSkippedPaths(catalog.Skipped); ok {
		w.Display(m.Err)
	}
	return m.wf.Load(catalog.Families)
}

func (m *Menu) prompt(text string) (string, error) {
	bold := color.New(color.Bold)
	bold.Fprint(m.Out, text)

	line, err := m.Reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		return "", io.EOF
	}
	return strings.TrimSpace(line), nil
}

func (m *Menu) invalid(input string) {
	color.New(color.FgRed).Fprintf(m.Out, "Invalid selection: %q\n", input)
}

func (m *Menu) familyStage(ctx context.Context) error {
	families := m.wf.Families()
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(m.Out)
	cyan.Fprintln(m.Out, "Families")
	if len(families) == 0 {
		fmt.Fprintln(m.Out, "  (none found)")
	}
	for i, f := range families {
		fmt.Fprintf(m.Out, "  %d. %s  (%d subfamilies, %d documents)\n", i+1, f.Name, len(f.Subfamilies), f.DocumentCount())
	}

	input, err := m.prompt("Select family number, 'r' to rescan, 'q' to quit: ")
	if err != nil {
		return err
	}

	switch strings.ToLower(input) {
	case "q":
		return errQuit
	case "r":
		return m.rescan(ctx)
	}

	n, err := strconv.Atoi(input)
	if err != nil || m.wf.SelectFamily(n-1) != nil {
		m.invalid(input)
	}
	return nil
}

func (m *Menu) subfamilyStage() error {
	family, _ := m.wf.ActiveFamily()
	subfamilies := m.wf.Subfamilies()
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(m.Out)
	cyan.Fprintf(m.Out, "%s: subfamilies in progress\n", family.Name)
	if len(subfamilies) == 0 {
		fmt.Fprintln(m.Out, "  (none)")
	}
	for i, sf := range subfamilies {
		fmt.Fprintf(m.Out, "  %s %d. %s  (%d documents)\n", checkbox(sf.ToFile), i+1, sf.Name, len(sf.Documents))
	}

	input, err := m.prompt("Toggle subfamily number, 'c' to continue, 'b' to go back: ")
	if err != nil {
		return err
	}

	switch strings.ToLower(input) {
	case "b":
		return m.wf.GoBack()
	case "c":
		return m.wf.ConfirmSubfamilies()
	}

	n, err := strconv.Atoi(input)
	if err != nil || m.wf.ToggleSubfamily(n-1) != nil {
		m.invalid(input)
	}
	return nil
}

func (m *Menu) documentStage(ctx context.Context) error {
	groups := m.wf.DocumentGroups()
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(m.Out)
	if len(groups) == 0 {
		fmt.Fprintln(m.Out, "  (no subfamilies selected)")
	}
	for i, sf := range groups {
		cyan.Fprintf(m.Out, "%s\n", sf.Name)
		if len(sf.Documents) == 0 {
			fmt.Fprintln(m.Out, "  (no documents)")
		}
		for j, doc := range sf.Documents {
			fmt.Fprintf(m.Out, "  %s %d.%d %s  [%s, %s]\n", intent(doc), i+1, j+1, doc.Name, doc.Type, doc.RevisionLabel())
		}
	}

	input, err := m.prompt("Mark for add 'S.D', for update 'u S.D', 'f' to file, 'b' to go back: ")
	if err != nil {
		return err
	}

	lower := strings.ToLower(input)
	switch {
	case lower == "b":
		return m.wf.GoBack()
	case lower == "f":
		return m.file(ctx)
	case strings.HasPrefix(lower, "u "):
		ref, ok := parseDocumentRef(strings.TrimSpace(input[2:]))
		if !ok || m.wf.ToggleDocumentUpdate(ref) != nil {
			m.invalid(input)
		}
	default:
		ref, ok := parseDocumentRef(input)
		if !ok || m.wf.ToggleDocumentAdd(ref) != nil {
			m.invalid(input)
		}
	}
	return nil
}

// file runs the filer over the current selection, then rescans so the
// operator continues from an up to date family list.
func (m *Menu) file(ctx context.Context) error {
	selection := m.wf.Selection()
	if len(selection) == 0 {
		color.New(color.FgYellow).Fprintln(m.Out, "Nothing marked for filing")
		return nil
	}
	family, _ := m.wf.ActiveFamily()

	result, err := m.Filer.File(ctx, family, selection)
	if errors.Is(err, filing.ErrFilingInProgress) {
		// Nothing was touched; keep the marks so the operator can retry
		color.New(color.FgYellow).Fprintf(m.Out, "%v\nPress 'f' to retry or 'b' to go back\n", err)
		return nil
	}
	if result != nil {
		if w, ok := display.WarnFilingFailures(*result); ok {
			w.Display(m.Err)
		}
		if m.ReportPath != "" {
			if rerr := report.Write(m.ReportPath, m.catalog, result); rerr != nil {
				fmt.Fprintf(m.Err, "Warning: %v\n", rerr)
			}
		}
	}
	if err != nil {
		if result == nil || ctx.Err() != nil {
			return err
		}
		// The run stopped early; its partial outcomes were reported above
		color.New(color.FgRed).Fprintf(m.Out, "Filing stopped: %v\n", err)
	}

	if err := m.wf.GoBack(); err != nil {
		return err
	}
	if err := m.wf.GoBack(); err != nil {
		return err
	}
	return m.rescan(ctx)
}

// parseDocumentRef parses "S.D" with one-based indices
func parseDocumentRef(s string) (workflow.DocumentRef, bool) {
	left, right, found := strings.Cut(s, ".")
	if !found {
		return workflow.DocumentRef{}, false
	}
	sub, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return workflow.DocumentRef{}, false
	}
	doc, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return workflow.DocumentRef{}, false
	}
	return workflow.DocumentRef{SubFamily: sub - 1, Document: doc - 1}, true
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// intent shows a document's filing marks: A for add, U for update
func intent(doc models.Document) string {
	switch {
	case doc.ToAdd && doc.ToUpdate:
		return "[AU]"
	case doc.ToUpdate:
		return "[ U]"
	case doc.ToAdd:
		return "[A ]"
	default:
		return "[  ]"
	}
}
