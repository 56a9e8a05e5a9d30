// Package filing moves the documents an operator selected into their canonical
// destinations, optionally after backing up the family tree.
//
// A filing run holds an exclusive lock on the family root for its duration.
// Each document is filed independently: a conflict or failure is recorded for
// that document and the run continues with the next one.
package filing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/dhffiler/internal/filelock"
	"github.com/harrison/dhffiler/internal/models"
)

// DefaultDestinationTemplate files a document beside the in-progress folder,
// under a folder named after its subfamily.
const DefaultDestinationTemplate = "{{.FamilyPath}}/{{.Marker}}/{{.SubFamily}}/{{.Document}}"

// Logger is the subset of logging used while filing.
type Logger interface {
	LogInfo(message string)
	LogWarn(message string)
	LogFilingOutcome(outcome models.FilingOutcome)
	LogFilingSummary(result models.FilingResult)
}

// Options configures a Filer
type Options struct {
	Marker              string // Document root folder name
	InProgress          string // In-progress folder name
	DestinationTemplate string // text/template for the destination path
	LockName            string // Lock file created in the family root
	DryRun              bool   // Compute outcomes without touching the filesystem
	Backup              bool   // Copy the family tree to BackupDir first
	BackupDir           string
}

// Destination is the data available to the destination template
type Destination struct {
	FamilyPath string
	FamilyName string
	Marker     string
	InProgress string
	SubFamily  string
	Document   string
}

// Filer files selected documents for one family at a time.
type Filer struct {
	opts   Options
	tmpl   *template.Template
	copier TreeCopier
	logger Logger // optional

	rename func(oldpath, newpath string) error
}

// NewFiler parses the destination template and returns a Filer.
// copier is used for backups and may be nil when opts.Backup is false.
func NewFiler(opts Options, copier TreeCopier, logger Logger) (*Filer, error) {
	if opts.DestinationTemplate == "" {
		opts.DestinationTemplate = DefaultDestinationTemplate
	}
	if opts.LockName == "" {
		opts.LockName = ".dhffiler.lock"
	}
	if opts.Backup {
		if opts.BackupDir == "" {
			return nil, fmt.Errorf("backup enabled without a backup directory")
		}
		if copier == nil {
			copier = DirCopier{}
		}
	}

	tmpl, err := template.New("destination").Option("missingkey=error").Parse(opts.DestinationTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid destination template: %w", err)
	}

	return &Filer{
		opts:   opts,
		tmpl:   tmpl,
		copier: copier,
		logger: logger,
		rename: os.Rename,
	}, nil
}

// File files every selected document of family.
//
// The family root is locked first; if another run holds the lock,
// ErrFilingInProgress is returned and nothing is touched. When backups are
// enabled a failed backup aborts the run before any document moves. The
// returned result is non-nil whenever the lock was acquired, including when
// the run stops early, so partial outcomes and the backup path can be reported.
func (f *Filer) File(ctx context.Context, family models.Family, selection []models.SelectedDocument) (*models.FilingResult, error) {
	start := time.Now()
	result := &models.FilingResult{
		RunID:    uuid.NewString(),
		Family:   family.Name,
		DryRun:   f.opts.DryRun,
		Outcomes: make([]models.FilingOutcome, 0, len(selection)),
	}

	run := func() error {
		return f.run(ctx, family, selection, result)
	}

	var err error
	if f.opts.DryRun {
		// A dry run writes nothing, not even the lock file
		err = run()
	} else {
		err = filelock.WithTryLock(filepath.Join(family.Path, f.opts.LockName), run)
		if errors.Is(err, filelock.ErrLocked) {
			return nil, fmt.Errorf("%s: %w", family.Path, ErrFilingInProgress)
		}
	}

	result.Duration = time.Since(start)
	if f.logger != nil {
		f.logger.LogFilingSummary(*result)
	}
	return result, err
}

func (f *Filer) run(ctx context.Context, family models.Family, selection []models.SelectedDocument, result *models.FilingResult) error {
	if f.opts.Backup && !f.opts.DryRun && len(selection) > 0 {
		if f.logger != nil {
			f.logger.LogInfo(fmt.Sprintf("Backing up %s to %s", family.Path, f.opts.BackupDir))
		}
		dest, err := Backup(ctx, f.copier, family.Path, f.opts.BackupDir)
		result.BackupPath = dest
		if err != nil {
			return err
		}
	}

	// Destinations claimed earlier in this run count as occupied, so a dry
	// run reports the same conflicts the real run would hit
	claimed := make(map[string]struct{}, len(selection))

	for _, sel := range selection {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("filing of %s interrupted: %w", family.Name, err)
		}

		outcome := f.fileOne(family, sel, claimed)
		result.Outcomes = append(result.Outcomes, outcome)
		if f.logger != nil {
			f.logger.LogFilingOutcome(outcome)
		}
	}
	return nil
}

// Destination computes where sel is filed for family
func (f *Filer) Destination(family models.Family, sel models.SelectedDocument) (string, error) {
	var b strings.Builder
	err := f.tmpl.Execute(&b, Destination{
		FamilyPath: family.Path,
		FamilyName: family.Name,
		Marker:     f.opts.Marker,
		InProgress: f.opts.InProgress,
		SubFamily:  sel.SubFamily,
		Document:   sel.Document.Name,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render destination: %w", err)
	}

	dest := filepath.Clean(filepath.FromSlash(b.String()))
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(family.Path, dest)
	}
	return dest, nil
}

func (f *Filer) fileOne(family models.Family, sel models.SelectedDocument, claimed map[string]struct{}) models.FilingOutcome {
	src := sel.Document.Path
	outcome := models.FilingOutcome{
		Document:  sel.Document,
		SubFamily: sel.SubFamily,
		Action:    sel.Action(),
	}
	fail := func(op string, err error) models.FilingOutcome {
		outcome.Status = models.StatusFailed
		outcome.Error = &DocumentError{Document: src, Op: op, Err: err}
		return outcome
	}

	dest, err := f.Destination(family, sel)
	if err != nil {
		return fail("compute destination", err)
	}
	outcome.Destination = dest

	if filepath.Clean(src) == dest {
		return fail("compute destination", errors.New("destination is the document itself"))
	}

	_, exists := claimed[dest]
	if _, err := os.Lstat(dest); err == nil {
		exists = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return fail("stat destination", err)
	}

	if exists && outcome.Action == models.ActionAdd {
		outcome.Status = models.StatusConflict
		outcome.Error = &ConflictError{Document: src, Destination: dest}
		return outcome
	}

	if f.opts.DryRun {
		claimed[dest] = struct{}{}
		outcome.Status = models.StatusPlanned
		return outcome
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fail("create destination directory", err)
	}
	if op, err := f.move(src, dest); err != nil {
		return fail(op, err)
	}

	claimed[dest] = struct{}{}
	if exists {
		outcome.Status = models.StatusReplaced
	} else {
		outcome.Status = models.StatusFiled
	}
	return outcome
}

// move renames src to dest, falling back to copy then delete when the two are
// on different filesystems. It returns the failing step on error.
func (f *Filer) move(src, dest string) (string, error) {
	err := f.rename(src, dest)
	if err == nil {
		return "", nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return "move", err
	}

	if err := filelock.AtomicCopy(src, dest); err != nil {
		return "copy across devices", err
	}
	if err := os.Remove(src); err != nil {
		return "remove source", err
	}
	return "", nil
}
