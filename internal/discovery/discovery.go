// Package discovery walks a DHF document tree and assembles the catalog of
// product families, their in-progress subfamilies, and the documents inside.
//
// Discovery is read-only. Unreadable branches are reported as skipped paths and
// never abort a pass; only a configured root that cannot be enumerated does.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/harrison/dhffiler/internal/fileutil"
	"github.com/harrison/dhffiler/internal/filter"
	"github.com/harrison/dhffiler/internal/models"
)

// Layout names the folders that locate families and subfamilies
type Layout struct {
	// Marker is the document root folder name; its parent is a family root
	Marker string
	// InProgress is the folder under Marker holding subfamily folders
	InProgress string
	// FamilyMaxDepth bounds the search for Marker below the scan root
	FamilyMaxDepth int
	// SubfamilyMaxDepth bounds the walk below InProgress
	SubfamilyMaxDepth int
}

// DefaultLayout returns the standard DHF layout
func DefaultLayout() Layout {
	return Layout{
		Marker:            filter.DocumentRootMarker,
		InProgress:        filter.InProgressFolder,
		FamilyMaxDepth:    3,
		SubfamilyMaxDepth: 2,
	}
}

// FamilyScan is the result of searching a root for family roots
type FamilyScan struct {
	Paths   []string             // Family root paths in lexicographic order
	Seen    filter.Seen          // Accumulator after the walk
	Skipped []models.SkippedPath // Branches that could not be read
}

// SubfamilyScan is the result of listing a family's in-progress folder
type SubfamilyScan struct {
	// Found is false when the family has no in-progress folder. An absent folder
	// is not an error and is distinct from a present but empty one.
	Found   bool
	Paths   []string
	Skipped []models.SkippedPath
}

// DocumentScan is the result of listing a subfamily's documents
type DocumentScan struct {
	Paths   []string
	Skipped []models.SkippedPath
}

// DiscoverFamilies searches root for document root marker folders and returns
// the parent of each as a family root.
//
// Directories whose names carry a family exclusion are pruned together with
// their subtree, and their parents are recorded in the returned Seen set so a
// later walk threading the same set does not reach that family root again.
func (s *Scanner) DiscoverFamilies(ctx context.Context, root string, seen filter.Seen) (*FamilyScan, error) {
	if seen == nil {
		seen = make(filter.Seen)
	}

	result, err := fileutil.Walk(ctx, root, fileutil.WalkOptions{
		MinDepth: 1,
		MaxDepth: s.layout.FamilyMaxDepth,
		Descend: func(e filter.Entry) bool {
			var keep bool
			keep, seen = s.heuristics.FamilyContainer(e, seen)
			return keep
		},
		Keep: s.isMarker,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover families in %s: %w", root, err)
	}

	paths := make([]string, 0, len(result.Entries))
	emitted := make(map[string]struct{}, len(result.Entries))
	for _, e := range result.Entries {
		parent := filepath.Dir(e.Path)
		if _, dup := emitted[parent]; dup {
			continue
		}
		emitted[parent] = struct{}{}
		paths = append(paths, parent)
	}
	sort.Strings(paths)

	return &FamilyScan{
		Paths:   paths,
		Seen:    seen,
		Skipped: skippedFrom(result.Errors),
	}, nil
}

func (s *Scanner) isMarker(e filter.Entry) bool {
	return e.Dir && strings.Contains(e.Name, s.layout.Marker)
}

// DiscoverSubfamilies lists the subfamily folders under
// familyPath/<Marker>/<InProgress>, down to SubfamilyMaxDepth levels.
func (s *Scanner) DiscoverSubfamilies(ctx context.Context, familyPath string) (*SubfamilyScan, error) {
	inProgress := filepath.Join(familyPath, s.layout.Marker, s.layout.InProgress)

	info, err := os.Stat(inProgress)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &SubfamilyScan{Found: false}, nil
	case err != nil:
		return &SubfamilyScan{
			Found:   false,
			Skipped: []models.SkippedPath{{Path: inProgress, Reason: err.Error()}},
		}, nil
	case !info.IsDir():
		return &SubfamilyScan{Found: false}, nil
	}

	result, err := fileutil.Walk(ctx, inProgress, fileutil.WalkOptions{
		MinDepth: 1,
		MaxDepth: s.layout.SubfamilyMaxDepth,
		Descend: func(e filter.Entry) bool {
			return !e.Dir || s.heuristics.SubfamilyAllowed(e)
		},
		Keep: filter.IsDirectory,
	})
	if err != nil {
		if skipped, ok := asSkipped(err); ok {
			return &SubfamilyScan{Found: true, Paths: []string{}, Skipped: skipped}, nil
		}
		return nil, err
	}

	paths := result.Paths()
	sort.Strings(paths)
	return &SubfamilyScan{
		Found:   true,
		Paths:   paths,
		Skipped: skippedFrom(result.Errors),
	}, nil
}

// DiscoverDocuments lists every valid document below subfamilyPath at any depth.
func (s *Scanner) DiscoverDocuments(ctx context.Context, subfamilyPath string) (*DocumentScan, error) {
	result, err := fileutil.Walk(ctx, subfamilyPath, fileutil.WalkOptions{
		MinDepth: 1,
		Keep: func(e filter.Entry) bool {
			return !e.Dir && s.heuristics.ValidDocument(e)
		},
	})
	if err != nil {
		if skipped, ok := asSkipped(err); ok {
			return &DocumentScan{Paths: []string{}, Skipped: skipped}, nil
		}
		return nil, err
	}

	paths := result.Paths()
	sort.Strings(paths)
	return &DocumentScan{
		Paths:   paths,
		Skipped: skippedFrom(result.Errors),
	}, nil
}

func skippedFrom(errs []*fileutil.AccessError) []models.SkippedPath {
	skipped := make([]models.SkippedPath, 0, len(errs))
	for _, e := range errs {
		skipped = append(skipped, models.SkippedPath{Path: e.Path, Reason: e.Err.Error()})
	}
	return skipped
}

// asSkipped converts a sub-walk root failure into a skipped path.
// Context errors are not access errors and stay fatal.
func asSkipped(err error) ([]models.SkippedPath, bool) {
	var accessErr *fileutil.AccessError
	if errors.As(err, &accessErr) {
		return skippedFrom([]*fileutil.AccessError{accessErr}), true
	}
	return nil, false
}
