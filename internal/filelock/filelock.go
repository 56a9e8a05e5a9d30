// Package filelock guards a family tree against concurrent filing runs and
// copies files into place atomically when a rename cannot be used.
package filelock

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by WithTryLock when another process holds the lock.
var ErrLocked = errors.New("lock is held by another process")

// FileLock wraps a flock file lock for coordinating access to a directory tree.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
// The lock file is created on first acquisition.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// TryLock attempts to acquire an exclusive lock without blocking.
// Returns true if the lock was acquired, false if the lock is held elsewhere.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock. The lock file itself is left in place, since
// removing it would let two processes lock different inodes.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// WithTryLock runs fn while holding the lock at lockPath.
// It does not wait: if the lock is already held, fn is not run and ErrLocked is returned.
func WithTryLock(lockPath string, fn func() error) error {
	lock := NewFileLock(lockPath)

	acquired, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("%s: %w", lock.Path(), ErrLocked)
	}
	defer lock.Unlock()

	return fn()
}

// AtomicCopy copies the regular file at src to dst so that dst is either
// absent, its previous content, or the full copy; never a partial file.
// dst gets src's permission bits. Parent directories are created as needed.
func AtomicCopy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	return writeAtomic(dst, in, info.Mode().Perm())
}

// AtomicWrite writes data to path with the same all-or-nothing guarantee as
// AtomicCopy. The file is created with mode 0644.
func AtomicWrite(path string, data []byte) error {
	return writeAtomic(path, bytes.NewReader(data), 0644)
}

// writeAtomic streams r into a temporary file beside path, syncs it, and
// renames it over path.
func writeAtomic(path string, r io.Reader, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory keeps the final rename on one filesystem
	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := io.Copy(tempFile, r); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}
