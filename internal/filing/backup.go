package filing

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/harrison/dhffiler/internal/filelock"
)

// TreeCopier copies a directory tree from src into dst.
type TreeCopier interface {
	CopyTree(ctx context.Context, src, dst string) error
}

// DirCopier is the filesystem TreeCopier. Regular files keep their permission
// bits and symlinks are recreated, not followed.
type DirCopier struct {
	// Progress receives a progress bar when non-nil
	Progress io.Writer
}

// CopyTree copies src into dst, creating dst if needed.
// The copy is not transactional: on failure a *CopyError names the path that
// failed and everything copied before it stays in dst.
func (c DirCopier) CopyTree(ctx context.Context, src, dst string) error {
	src = filepath.Clean(src)
	dst = filepath.Clean(dst)

	info, err := os.Stat(src)
	if err != nil {
		return &CopyError{Path: src, Err: err}
	}
	if !info.IsDir() {
		return &CopyError{Path: src, Err: fmt.Errorf("not a directory")}
	}

	var bar *progressbar.ProgressBar
	if c.Progress != nil {
		total, err := countFiles(src)
		if err != nil {
			return err
		}
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(c.Progress),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Backing up "+filepath.Base(src)),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(c.Progress)
			}),
		)
	}

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &CopyError{Path: path, Err: err}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &CopyError{Path: path, Err: ctxErr}
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return &CopyError{Path: path, Err: err}
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return &CopyError{Path: path, Err: err}
			}
			if err := os.MkdirAll(target, info.Mode().Perm()|0700); err != nil {
				return &CopyError{Path: path, Err: err}
			}
			return nil
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return &CopyError{Path: path, Err: err}
			}
			if err := os.Symlink(link, target); err != nil {
				return &CopyError{Path: path, Err: err}
			}
		case d.Type().IsRegular():
			if err := filelock.AtomicCopy(path, target); err != nil {
				return &CopyError{Path: path, Err: err}
			}
		default:
			// Sockets, devices and pipes have no content worth backing up
			return nil
		}

		if bar != nil {
			bar.Add(1)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if bar != nil {
		bar.Finish()
	}
	return nil
}

func countFiles(root string) (int, error) {
	n := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &CopyError{Path: path, Err: err}
		}
		if d.Type().IsRegular() || d.Type()&fs.ModeSymlink != 0 {
			n++
		}
		return nil
	})
	return n, err
}

// BackupName returns the directory name used for a backup of src taken at t
func BackupName(src string, t time.Time) string {
	return fmt.Sprintf("%s-%s-%s", filepath.Base(filepath.Clean(src)), t.Format("20060102-150405"), uuid.NewString()[:8])
}

// Backup copies src into a new directory under backupRoot and returns its path.
// The path is returned even when the copy fails so the partial backup can be
// reported.
func Backup(ctx context.Context, copier TreeCopier, src, backupRoot string) (string, error) {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", src, err)
	}
	absRoot, err := filepath.Abs(backupRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", backupRoot, err)
	}
	if within(absSrc, absRoot) {
		return "", fmt.Errorf("backup directory %s is inside %s", absRoot, absSrc)
	}

	dest := filepath.Join(absRoot, BackupName(absSrc, time.Now()))
	if err := copier.CopyTree(ctx, absSrc, dest); err != nil {
		return dest, fmt.Errorf("backup of %s incomplete: %w", absSrc, err)
	}
	return dest, nil
}

// within reports whether path is dir or lies below it
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
