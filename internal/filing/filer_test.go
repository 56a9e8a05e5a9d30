package filing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/harrison/dhffiler/internal/filelock"
	"github.com/harrison/dhffiler/internal/filter"
	"github.com/harrison/dhffiler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marker = filter.DocumentRootMarker

type fakeCopier struct {
	calls [][2]string
	err   error
}

func (f *fakeCopier) CopyTree(ctx context.Context, src, dst string) error {
	f.calls = append(f.calls, [2]string{src, dst})
	return f.err
}

type fixture struct {
	family models.Family
	sub1   string
}

// newFixture lays out FamilyA with an in-progress Sub1 holding the given files
func newFixture(t *testing.T, files ...string) fixture {
	t.Helper()
	familyPath := filepath.Join(t.TempDir(), "FamilyA")
	sub1 := filepath.Join(familyPath, marker, filter.InProgressFolder, "Sub1")
	require.NoError(t, os.MkdirAll(sub1, 0755))
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(sub1, name), []byte("new "+name), 0644))
	}
	return fixture{family: models.NewFamily(familyPath), sub1: sub1}
}

func (fx fixture) selected(name string, add, update bool) models.SelectedDocument {
	doc := models.NewDocument(filepath.Join(fx.sub1, name))
	doc.ToAdd = add
	doc.ToUpdate = update
	return models.SelectedDocument{SubFamily: "Sub1", SubFamilyPath: fx.sub1, Document: doc}
}

func (fx fixture) filedPath(name string) string {
	return filepath.Join(fx.family.Path, marker, "Sub1", name)
}

func newTestFiler(t *testing.T, opts Options, copier TreeCopier) *Filer {
	t.Helper()
	if opts.Marker == "" {
		opts.Marker = marker
		opts.InProgress = filter.InProgressFolder
	}
	f, err := NewFiler(opts, copier, nil)
	require.NoError(t, err)
	return f
}

func TestFile_AddsDocuments(t *testing.T) {
	fx := newFixture(t, "spec_Rev3.docx", "spec_Rev3.pdf")
	f := newTestFiler(t, Options{}, nil)

	result, err := f.File(context.Background(), fx.family, []models.SelectedDocument{
		fx.selected("spec_Rev3.docx", true, false),
		fx.selected("spec_Rev3.pdf", true, false),
	})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "FamilyA", result.Family)
	assert.Equal(t, 2, result.Succeeded())

	for _, o := range result.Outcomes {
		assert.Equal(t, models.StatusFiled, o.Status)
		assert.Equal(t, models.ActionAdd, o.Action)
		assert.Equal(t, fx.filedPath(o.Document.Name), o.Destination)
		assert.FileExists(t, o.Destination)
		assert.NoFileExists(t, o.Document.Path)
	}
}

func TestFile_AddConflictLeavesSource(t *testing.T) {
	fx := newFixture(t, "spec_Rev3.pdf", "other.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(fx.filedPath("x")), 0755))
	require.NoError(t, os.WriteFile(fx.filedPath("spec_Rev3.pdf"), []byte("old"), 0644))

	result, err := newTestFiler(t, Options{}, nil).File(context.Background(), fx.family, []models.SelectedDocument{
		fx.selected("spec_Rev3.pdf", true, false),
		fx.selected("other.pdf", true, false),
	})
	require.NoError(t, err)
	require.Len(t, result.Outcomes, 2)

	conflict := result.Outcomes[0]
	assert.Equal(t, models.StatusConflict, conflict.Status)
	var conflictErr *ConflictError
	require.ErrorAs(t, conflict.Error, &conflictErr)
	assert.Equal(t, fx.filedPath("spec_Rev3.pdf"), conflictErr.Destination)
	assert.ErrorIs(t, conflict.Error, ErrDestinationExists)
	assert.FileExists(t, filepath.Join(fx.sub1, "spec_Rev3.pdf"))

	data, _ := os.ReadFile(fx.filedPath("spec_Rev3.pdf"))
	assert.Equal(t, "old", string(data))

	// The conflict does not stop the rest of the run
	assert.Equal(t, models.StatusFiled, result.Outcomes[1].Status)
	assert.Len(t, result.Failures(), 1)
}

func TestFile_UpdateReplacesDestination(t *testing.T) {
	fx := newFixture(t, "spec_Rev4.pdf", "fresh.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(fx.filedPath("x")), 0755))
	require.NoError(t, os.WriteFile(fx.filedPath("spec_Rev4.pdf"), []byte("old"), 0644))

	result, err := newTestFiler(t, Options{}, nil).File(context.Background(), fx.family, []models.SelectedDocument{
		fx.selected("spec_Rev4.pdf", true, true),
		fx.selected("fresh.pdf", false, true),
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusReplaced, result.Outcomes[0].Status)
	assert.Equal(t, models.ActionUpdate, result.Outcomes[0].Action)
	data, err := os.ReadFile(fx.filedPath("spec_Rev4.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "new spec_Rev4.pdf", string(data))

	assert.Equal(t, models.StatusFiled, result.Outcomes[1].Status)
}

func TestFile_DryRunTouchesNothing(t *testing.T) {
	fx := newFixture(t, "a.pdf", "b.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(fx.filedPath("x")), 0755))
	require.NoError(t, os.WriteFile(fx.filedPath("b.pdf"), []byte("old"), 0644))
	copier := &fakeCopier{}

	f := newTestFiler(t, Options{DryRun: true, Backup: true, BackupDir: t.TempDir()}, copier)
	result, err := f.File(context.Background(), fx.family, []models.SelectedDocument{
		fx.selected("a.pdf", true, false),
		fx.selected("b.pdf", true, false),
	})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, models.StatusPlanned, result.Outcomes[0].Status)
	assert.Equal(t, models.StatusConflict, result.Outcomes[1].Status)
	assert.FileExists(t, filepath.Join(fx.sub1, "a.pdf"))
	assert.NoFileExists(t, fx.filedPath("a.pdf"))
	assert.NoFileExists(t, filepath.Join(fx.family.Path, ".dhffiler.lock"))
	assert.Empty(t, copier.calls)
	assert.Empty(t, result.BackupPath)
}

func TestFile_SameNameTwiceMatchesRealRun(t *testing.T) {
	for _, dryRun := range []bool{true, false} {
		name := "filing"
		if dryRun {
			name = "dry run"
		}
		t.Run(name, func(t *testing.T) {
			fx := newFixture(t)
			for _, nested := range []string{"x", "y"} {
				dir := filepath.Join(fx.sub1, nested)
				require.NoError(t, os.MkdirAll(dir, 0755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, "same.pdf"), []byte(nested), 0644))
			}

			f := newTestFiler(t, Options{DryRun: dryRun}, nil)
			result, err := f.File(context.Background(), fx.family, []models.SelectedDocument{
				fx.selected("x/same.pdf", true, false),
				fx.selected("y/same.pdf", true, false),
			})
			require.NoError(t, err)
			require.Len(t, result.Outcomes, 2)

			first := models.StatusFiled
			if dryRun {
				first = models.StatusPlanned
			}
			assert.Equal(t, first, result.Outcomes[0].Status)
			assert.Equal(t, models.StatusConflict, result.Outcomes[1].Status)
			assert.ErrorIs(t, result.Outcomes[1].Error, ErrDestinationExists)
			assert.FileExists(t, filepath.Join(fx.sub1, "y", "same.pdf"))
		})
	}
}

func TestFile_LockHeld(t *testing.T) {
	fx := newFixture(t, "a.pdf")
	holder := filelock.NewFileLock(filepath.Join(fx.family.Path, ".dhffiler.lock"))
	acquired, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, acquired)
	defer holder.Unlock()

	result, err := newTestFiler(t, Options{}, nil).File(context.Background(), fx.family, []models.SelectedDocument{
		fx.selected("a.pdf", true, false),
	})
	assert.ErrorIs(t, err, ErrFilingInProgress)
	assert.Nil(t, result)
	assert.FileExists(t, filepath.Join(fx.sub1, "a.pdf"))
}

func TestFile_BackupFirst(t *testing.T) {
	fx := newFixture(t, "a.pdf")
	backupDir := t.TempDir()
	copier := &fakeCopier{}

	f := newTestFiler(t, Options{Backup: true, BackupDir: backupDir}, copier)
	result, err := f.File(context.Background(), fx.family, []models.SelectedDocument{
		fx.selected("a.pdf", true, false),
	})
	require.NoError(t, err)

	require.Len(t, copier.calls, 1)
	assert.Equal(t, fx.family.Path, copier.calls[0][0])
	assert.Equal(t, result.BackupPath, copier.calls[0][1])
	assert.Equal(t, backupDir, filepath.Dir(result.BackupPath))
	assert.Equal(t, models.StatusFiled, result.Outcomes[0].Status)
}

func TestFile_BackupFailureAbortsBeforeMoves(t *testing.T) {
	fx := newFixture(t, "a.pdf")
	copier := &fakeCopier{err: errors.New("disk full")}

	f := newTestFiler(t, Options{Backup: true, BackupDir: t.TempDir()}, copier)
	result, err := f.File(context.Background(), fx.family, []models.SelectedDocument{
		fx.selected("a.pdf", true, false),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NotNil(t, result)
	assert.NotEmpty(t, result.BackupPath)
	assert.Empty(t, result.Outcomes)
	assert.FileExists(t, filepath.Join(fx.sub1, "a.pdf"))
}

func TestFile_CrossDeviceFallsBackToCopy(t *testing.T) {
	fx := newFixture(t, "a.pdf")
	f := newTestFiler(t, Options{}, nil)
	f.rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}

	result, err := f.File(context.Background(), fx.family, []models.SelectedDocument{
		fx.selected("a.pdf", true, false),
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusFiled, result.Outcomes[0].Status)
	data, err := os.ReadFile(fx.filedPath("a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "new a.pdf", string(data))
	assert.NoFileExists(t, filepath.Join(fx.sub1, "a.pdf"))
}

func TestFile_MoveFailureLeavesSource(t *testing.T) {
	fx := newFixture(t, "a.pdf")
	f := newTestFiler(t, Options{}, nil)
	f.rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EACCES}
	}

	result, err := f.File(context.Background(), fx.family, []models.SelectedDocument{
		fx.selected("a.pdf", true, false),
	})
	require.NoError(t, err)

	outcome := result.Outcomes[0]
	assert.Equal(t, models.StatusFailed, outcome.Status)
	var docErr *DocumentError
	require.ErrorAs(t, outcome.Error, &docErr)
	assert.Equal(t, "move", docErr.Op)
	assert.ErrorIs(t, outcome.Error, syscall.EACCES)
	assert.FileExists(t, filepath.Join(fx.sub1, "a.pdf"))
}

func TestFile_Cancelled(t *testing.T) {
	fx := newFixture(t, "a.pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newTestFiler(t, Options{}, nil).File(ctx, fx.family, []models.SelectedDocument{
		fx.selected("a.pdf", true, false),
	})
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
	assert.Empty(t, result.Outcomes)
	assert.FileExists(t, filepath.Join(fx.sub1, "a.pdf"))
}

func TestDestination_Templates(t *testing.T) {
	fx := newFixture(t)
	sel := fx.selected("spec_Rev3.pdf", true, false)

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"default", "", fx.filedPath("spec_Rev3.pdf")},
		{"absolute with family name", "{{.FamilyPath}}/Released/{{.FamilyName}}-{{.Document}}",
			filepath.Join(fx.family.Path, "Released", "FamilyA-spec_Rev3.pdf")},
		{"relative to family", "filed/{{.SubFamily}}/{{.Document}}",
			filepath.Join(fx.family.Path, "filed", "Sub1", "spec_Rev3.pdf")},
		{"in progress folder", "{{.FamilyPath}}/{{.Marker}}/{{.InProgress}}/done/{{.Document}}",
			filepath.Join(fx.family.Path, marker, filter.InProgressFolder, "done", "spec_Rev3.pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFiler(t, Options{DestinationTemplate: tt.template}, nil)
			got, err := f.Destination(fx.family, sel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFile_DestinationIsSource(t *testing.T) {
	fx := newFixture(t, "a.pdf")
	f := newTestFiler(t, Options{DestinationTemplate: "{{.FamilyPath}}/{{.Marker}}/{{.InProgress}}/{{.SubFamily}}/{{.Document}}"}, nil)

	result, err := f.File(context.Background(), fx.family, []models.SelectedDocument{
		fx.selected("a.pdf", false, true),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, result.Outcomes[0].Status)
	assert.FileExists(t, filepath.Join(fx.sub1, "a.pdf"))
}

func TestNewFiler_Errors(t *testing.T) {
	_, err := NewFiler(Options{DestinationTemplate: "{{.FamilyPath"}, nil, nil)
	assert.ErrorContains(t, err, "invalid destination template")

	_, err = NewFiler(Options{Backup: true}, nil, nil)
	assert.ErrorContains(t, err, "backup directory")
}

func TestFile_UnknownTemplateFieldFailsDocument(t *testing.T) {
	fx := newFixture(t, "a.pdf")
	f := newTestFiler(t, Options{DestinationTemplate: "{{.Nope}}/{{.Document}}"}, nil)

	result, err := f.File(context.Background(), fx.family, []models.SelectedDocument{
		fx.selected("a.pdf", true, false),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, result.Outcomes[0].Status)
	assert.FileExists(t, filepath.Join(fx.sub1, "a.pdf"))
}
