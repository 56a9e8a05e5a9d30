package fileutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/dhffiler/internal/filter"
)

// ErrNotDirectory is returned when a walk root exists but is not a directory
var ErrNotDirectory = errors.New("not a directory")

// AccessError describes a path the walker could not read
type AccessError struct {
	Path string // Offending path
	Op   string // Operation that failed (stat, read)
	Err  error  // Underlying filesystem error
}

// Error implements the error interface for AccessError.
func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AccessError) Unwrap() error {
	return e.Err
}

// WalkOptions configures a bounded walk
type WalkOptions struct {
	// MinDepth is the shallowest depth an entry must have to be filtered and
	// kept. The root is depth 0 and is never returned.
	MinDepth int
	// MaxDepth limits the walk (0 = unlimited). Entries at MaxDepth are
	// reported but not descended into.
	MaxDepth int
	// Descend prunes an entry together with its subtree when it returns false.
	// A nil Descend accepts everything.
	Descend func(filter.Entry) bool
	// Keep selects which visited entries end up in the result.
	// A nil Keep keeps everything.
	Keep func(filter.Entry) bool
}

// WalkResult contains the results of a walk
type WalkResult struct {
	// Entries holds kept entries in walk order: depth-first with siblings in
	// lexicographic order by name.
	Entries []filter.Entry
	// Errors holds branches that could not be read. The walk skipped them and
	// continued with their siblings.
	Errors []*AccessError
}

// Paths returns the paths of the kept entries in walk order
func (r *WalkResult) Paths() []string {
	paths := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		paths[i] = e.Path
	}
	return paths
}

// Walk traverses root applying opts.
//
// Failing to stat or list root itself is returned as an *AccessError; errors
// deeper in the tree are collected in WalkResult.Errors instead.
func Walk(ctx context.Context, root string, opts WalkOptions) (*WalkResult, error) {
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, &AccessError{Path: root, Op: "stat", Err: err}
	}
	if !info.IsDir() {
		return nil, &AccessError{Path: root, Op: "stat", Err: ErrNotDirectory}
	}

	result := &WalkResult{
		Entries: make([]filter.Entry, 0),
		Errors:  make([]*AccessError, 0),
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == root {
				return &AccessError{Path: root, Op: "read", Err: err}
			}
			result.Errors = append(result.Errors, &AccessError{Path: path, Op: "read", Err: err})
			return nil // Skip this branch, keep walking siblings
		}

		if path == root {
			return nil
		}

		depth := entryDepth(root, path)
		if depth < opts.MinDepth {
			return nil
		}

		entry := filter.NewEntry(path, d)
		if opts.Descend != nil && !opts.Descend(entry) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if opts.Keep == nil || opts.Keep(entry) {
			result.Entries = append(result.Entries, entry)
		}

		if d.IsDir() && opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		var accessErr *AccessError
		if errors.As(err, &accessErr) {
			return nil, accessErr
		}
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return result, nil
}

// entryDepth returns the depth of path below root (direct children are 1)
func entryDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
