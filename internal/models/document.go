package models

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// DocType classifies a document by the extension markers found in its file name
type DocType int

const (
	DocOther        DocType = iota // Anything that is neither a Word document nor a PDF
	DocPDF                         // Name contains ".pdf"
	DocWordDocument                // Name contains ".docx"
)

// String returns the display label for the document type
func (d DocType) String() string {
	switch d {
	case DocPDF:
		return "pdf"
	case DocWordDocument:
		return "word doc"
	default:
		return "other"
	}
}

var (
	revisionPattern = regexp.MustCompile(`Rev\d+`)
	digitsPattern   = regexp.MustCompile(`\d+`)
)

// Classify derives the document type from a file name.
// Matching is substring based and the Word check runs first, so
// "report.pdf.docx" is a Word document.
func Classify(name string) DocType {
	switch {
	case strings.Contains(name, ".docx"):
		return DocWordDocument
	case strings.Contains(name, ".pdf"):
		return DocPDF
	default:
		return DocOther
	}
}

// ExtractRevision returns the number following the first "Rev" marker in name.
// The second return value is false when no marker exists or the digits do not
// fit in an int.
func ExtractRevision(name string) (int, bool) {
	match := revisionPattern.FindString(name)
	if match == "" {
		return 0, false
	}
	digits := digitsPattern.FindString(match)
	rev, err := strconv.Atoi(digits)
	if err != nil || rev < 0 {
		return 0, false
	}
	return rev, true
}

// Document is a single candidate file found beneath a subfamily
type Document struct {
	Path     string  // Absolute path of the file
	Name     string  // File name including extension
	Revision *int    // Revision number, nil when the name carries no revision marker
	Type     DocType // Classification computed from Name
	ToAdd    bool    // Operator intent: file as a new document
	ToUpdate bool    // Operator intent: replace an existing filed document
}

// NewDocument builds a Document for the file at path, classifying it and
// extracting its revision from the base name.
func NewDocument(path string) Document {
	name := filepath.Base(path)
	doc := Document{
		Path: path,
		Name: name,
		Type: Classify(name),
	}
	if rev, ok := ExtractRevision(name); ok {
		doc.Revision = &rev
	}
	return doc
}

// HasRevision reports whether a revision marker was found in the name
func (d Document) HasRevision() bool {
	return d.Revision != nil
}

// RevisionLabel returns "Rev N" or "-" when no revision is known
func (d Document) RevisionLabel() string {
	if !d.HasRevision() {
		return "-"
	}
	return fmt.Sprintf("Rev %d", *d.Revision)
}

// Stem returns the file name without its final extension
func (d Document) Stem() string {
	return strings.TrimSuffix(d.Name, filepath.Ext(d.Name))
}

// Marked reports whether the operator asked for this document to be filed
func (d Document) Marked() bool {
	return d.ToAdd || d.ToUpdate
}

// Clone returns a copy that shares no memory with d
func (d Document) Clone() Document {
	c := d
	if d.Revision != nil {
		rev := *d.Revision
		c.Revision = &rev
	}
	return c
}
