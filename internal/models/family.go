package models

import (
	"path/filepath"
	"sort"
	"time"
)

// SubFamily is a working unit found under a family's in-progress folder
type SubFamily struct {
	Path      string     // Absolute path of the subfamily folder
	Name      string     // Final path segment
	Documents []Document // Documents in lexicographic path order
	ToFile    bool       // Operator selected this subfamily for filing
}

// NewSubFamily creates an unselected SubFamily for path with no documents
func NewSubFamily(path string) SubFamily {
	return SubFamily{
		Path: path,
		Name: filepath.Base(path),
	}
}

// Clone returns a deep copy of the subfamily and its documents
func (s SubFamily) Clone() SubFamily {
	c := s
	if s.Documents != nil {
		c.Documents = make([]Document, len(s.Documents))
		for i, doc := range s.Documents {
			c.Documents[i] = doc.Clone()
		}
	}
	return c
}

// DocumentPair is a Word document and PDF that share a file stem
type DocumentPair struct {
	Stem string
	Word Document
	PDF  Document
}

// CompletePairs returns the stems present as both a Word document and a PDF,
// sorted by stem. When a stem appears more than once per type the first
// document in path order wins.
func (s SubFamily) CompletePairs() []DocumentPair {
	words := make(map[string]Document)
	pdfs := make(map[string]Document)
	for _, doc := range s.Documents {
		stem := doc.Stem()
		switch doc.Type {
		case DocWordDocument:
			if _, ok := words[stem]; !ok {
				words[stem] = doc
			}
		case DocPDF:
			if _, ok := pdfs[stem]; !ok {
				pdfs[stem] = doc
			}
		}
	}

	pairs := make([]DocumentPair, 0)
	for stem, word := range words {
		if pdf, ok := pdfs[stem]; ok {
			pairs = append(pairs, DocumentPair{Stem: stem, Word: word, PDF: pdf})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Stem < pairs[j].Stem })
	return pairs
}

// Family is a top-level product line
type Family struct {
	Path        string      // Absolute path of the family root (parent of the document root marker folder)
	Name        string      // Final path segment of Path
	Subfamilies []SubFamily // Subfamilies in lexicographic path order
}

// NewFamily creates a Family for path with no subfamilies
func NewFamily(path string) Family {
	return Family{
		Path: path,
		Name: filepath.Base(path),
	}
}

// Clone returns a deep copy of the family and everything it owns
func (f Family) Clone() Family {
	c := f
	if f.Subfamilies != nil {
		c.Subfamilies = make([]SubFamily, len(f.Subfamilies))
		for i, sf := range f.Subfamilies {
			c.Subfamilies[i] = sf.Clone()
		}
	}
	return c
}

// DocumentCount returns the number of documents across all subfamilies
func (f Family) DocumentCount() int {
	n := 0
	for _, sf := range f.Subfamilies {
		n += len(sf.Documents)
	}
	return n
}

// Catalog is the result of one discovery pass over the configured root
type Catalog struct {
	Root     string        // Root directory that was scanned
	Families []Family      // Families in lexicographic path order
	Skipped  []SkippedPath // Branches that could not be read
	Duration time.Duration // Wall time of the scan
}

// SkippedPath records a branch the scan could not read
type SkippedPath struct {
	Path   string
	Reason string
}
