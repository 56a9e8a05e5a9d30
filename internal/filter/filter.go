// Package filter holds the name heuristics that decide which directories are
// product family containers, which subfamily folders are kept, and which files
// count as documents.
//
// All predicates are pure functions of an Entry. The family predicate threads an
// explicit Seen accumulator instead of shared state, so the caller driving a walk
// owns the de-duplication set.
package filter

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Default name markers for the document tree layout
const (
	DocumentRootMarker = "DHF & Tech File Word Docs"
	InProgressFolder   = "_InProgress"
	LockFileMarker     = "~$"
)

// DefaultFamilyExclusions are name fragments that mark a directory as not worth
// descending into while looking for family roots.
var DefaultFamilyExclusions = []string{
	"Design",
	"Project Info",
	"zz",
	"A - ",
	"Active Projects",
	"Bioengineer",
	"!",
	"Obsolete",
	"DHF_",
}

// DefaultDocumentExtensions are the extension markers accepted as documents
var DefaultDocumentExtensions = []string{".docx", ".pdf", ".xlsx"}

// Entry is the directory-entry view the heuristics operate on
type Entry struct {
	Path string // Full path of the entry
	Name string // Final path segment
	Dir  bool   // True for directories
}

// NewEntry builds an Entry from a walk callback's path and DirEntry
func NewEntry(path string, d fs.DirEntry) Entry {
	return Entry{Path: path, Name: d.Name(), Dir: d.IsDir()}
}

// Seen is the set of family paths already accounted for during a family walk
type Seen map[string]struct{}

// Contains reports whether path was recorded
func (s Seen) Contains(path string) bool {
	_, ok := s[filepath.Clean(path)]
	return ok
}

// Add returns s with path recorded, allocating the set when s is nil
func (s Seen) Add(path string) Seen {
	if s == nil {
		s = make(Seen)
	}
	s[filepath.Clean(path)] = struct{}{}
	return s
}

// Heuristics carries the configurable name lists used by the predicates
type Heuristics struct {
	FamilyExclusions    []string
	DocumentExtensions  []string
	LockFileMarker      string
	SubfamilyExclusions []string
}

// Default returns the heuristics used when no configuration overrides them
func Default() Heuristics {
	return Heuristics{
		FamilyExclusions:   append([]string(nil), DefaultFamilyExclusions...),
		DocumentExtensions: append([]string(nil), DefaultDocumentExtensions...),
		LockFileMarker:     LockFileMarker,
	}
}

// IsDirectory reports whether the entry is a directory
func IsDirectory(e Entry) bool {
	return e.Dir
}

// FamilyContainer decides whether a walk looking for family roots should keep
// and descend into e. Files, names containing an exclusion fragment, and paths
// already in seen are rejected.
//
// When e is rejected because of its name, its parent path is recorded in the
// returned set so that the family root is not revisited through another branch.
func (h Heuristics) FamilyContainer(e Entry, seen Seen) (bool, Seen) {
	if h.excludedName(e.Name) {
		return false, seen.Add(filepath.Dir(e.Path))
	}
	if !e.Dir {
		return false, seen
	}
	if seen.Contains(e.Path) {
		return false, seen
	}
	return true, seen
}

func (h Heuristics) excludedName(name string) bool {
	for _, fragment := range h.FamilyExclusions {
		if fragment != "" && strings.Contains(name, fragment) {
			return true
		}
	}
	return false
}

// ValidDocument reports whether e names a document file: the name carries one
// of the document extensions and is not an office lock file.
func (h Heuristics) ValidDocument(e Entry) bool {
	if h.LockFileMarker != "" && strings.Contains(e.Name, h.LockFileMarker) {
		return false
	}
	for _, ext := range h.DocumentExtensions {
		if ext != "" && strings.Contains(e.Name, ext) {
			return true
		}
	}
	return false
}

// SubfamilyAllowed reports whether a directory under the in-progress folder
// should be treated as a subfamily.
func (h Heuristics) SubfamilyAllowed(e Entry) bool {
	if !e.Dir {
		return false
	}
	for _, fragment := range h.SubfamilyExclusions {
		if fragment != "" && strings.Contains(e.Name, fragment) {
			return false
		}
	}
	return true
}

// IsValidDocumentFile applies the default document heuristics to e
func IsValidDocumentFile(e Entry) bool {
	return Default().ValidDocument(e)
}
