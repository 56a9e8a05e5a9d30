package filter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dir(path string) Entry {
	return Entry{Path: path, Name: filepath.Base(path), Dir: true}
}

func file(path string) Entry {
	return Entry{Path: path, Name: filepath.Base(path)}
}

func TestIsValidDocumentFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"report.docx", true},
		{"report.pdf", true},
		{"report.xlsx", true},
		{"~$report.docx", false},
		{"~$report.pdf", false},
		{"report.txt", false},
		{"report", false},
		{"report.docx.bak", true},
		{"report.DOCX", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidDocumentFile(file("/s/"+tt.name)))
		})
	}
}

func TestHeuristics_ValidDocumentCustomExtensions(t *testing.T) {
	h := Heuristics{DocumentExtensions: []string{".vsdx"}, LockFileMarker: "~$"}
	assert.True(t, h.ValidDocument(file("/s/diagram.vsdx")))
	assert.False(t, h.ValidDocument(file("/s/report.docx")))
	assert.False(t, h.ValidDocument(file("/s/~$diagram.vsdx")))
}

func TestIsDirectory(t *testing.T) {
	assert.True(t, IsDirectory(dir("/root/a")))
	assert.False(t, IsDirectory(file("/root/a.pdf")))
}

func TestFamilyContainer_Exclusions(t *testing.T) {
	h := Default()

	excluded := []string{
		"Design Inputs",
		"Project Info",
		"zz_old",
		"A - Admin",
		"Active Projects",
		"Bioengineering",
		"!Templates",
		"Obsolete",
		"DHF_Archive",
	}

	for _, name := range excluded {
		t.Run(name, func(t *testing.T) {
			parent := filepath.Join("/root", "FamilyA")
			keep, seen := h.FamilyContainer(dir(filepath.Join(parent, name)), nil)
			assert.False(t, keep)
			assert.True(t, seen.Contains(parent), "parent should be recorded")
		})
	}
}

func TestFamilyContainer_AcceptsPlainDirectories(t *testing.T) {
	h := Default()
	for _, name := range []string{"FamilyA", DocumentRootMarker, "Pumps"} {
		keep, seen := h.FamilyContainer(dir(filepath.Join("/root", name)), nil)
		assert.True(t, keep, name)
		assert.Empty(t, seen)
	}
}

func TestFamilyContainer_RejectsFilesWithoutRecording(t *testing.T) {
	h := Default()
	keep, seen := h.FamilyContainer(file("/root/FamilyA/readme.pdf"), nil)
	assert.False(t, keep)
	assert.False(t, seen.Contains("/root/FamilyA"))
}

func TestFamilyContainer_RejectsSeenPaths(t *testing.T) {
	h := Default()

	_, seen := h.FamilyContainer(dir("/root/FamilyA/Obsolete"), nil)
	require.True(t, seen.Contains("/root/FamilyA"))

	keep, seen2 := h.FamilyContainer(dir("/root/FamilyA"), seen)
	assert.False(t, keep)
	assert.Equal(t, seen, seen2)

	keep, _ = h.FamilyContainer(dir("/root/FamilyB"), seen)
	assert.True(t, keep)
}

func TestSeen_CleansPaths(t *testing.T) {
	var s Seen
	s = s.Add("/root/FamilyA/")
	assert.True(t, s.Contains("/root/FamilyA"))
	assert.True(t, s.Contains("/root/./FamilyA"))
	assert.False(t, Seen(nil).Contains("/root"))
}

func TestSubfamilyAllowed(t *testing.T) {
	h := Default()
	assert.True(t, h.SubfamilyAllowed(dir("/ip/_Archive")), "no exclusions by default")
	assert.False(t, h.SubfamilyAllowed(file("/ip/notes.docx")))

	h.SubfamilyExclusions = []string{"_Archive"}
	assert.False(t, h.SubfamilyAllowed(dir("/ip/_Archive")))
	assert.True(t, h.SubfamilyAllowed(dir("/ip/Sub1")))
}
