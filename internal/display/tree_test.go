package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/harrison/dhffiler/internal/models"
)

func sampleCatalog() *models.Catalog {
	sub := models.NewSubFamily("/dhf/FamilyA/_InProgress/Sub1")
	sub.Documents = []models.Document{
		models.NewDocument(sub.Path + "/spec_Rev3.docx"),
		models.NewDocument(sub.Path + "/spec_Rev3.pdf"),
		models.NewDocument(sub.Path + "/budget.xlsx"),
	}
	a := models.NewFamily("/dhf/FamilyA")
	a.Subfamilies = []models.SubFamily{sub}
	b := models.NewFamily("/dhf/FamilyB")

	return &models.Catalog{Root: "/dhf", Families: []models.Family{a, b}}
}

func TestCatalogTree(t *testing.T) {
	var buf bytes.Buffer
	CatalogTree(&buf, sampleCatalog())
	output := buf.String()

	expected := []string{
		"FamilyA  /dhf/FamilyA\n",
		"  Sub1  (3 documents, 1 complete pair)\n",
		"    - spec_Rev3.docx  [word doc, Rev 3]\n",
		"    - spec_Rev3.pdf  [pdf, Rev 3]\n",
		"    - budget.xlsx  [other, -]\n",
		"FamilyB  /dhf/FamilyB\n",
		"  (no subfamilies in progress)\n",
	}
	for _, line := range expected {
		if !strings.Contains(output, line) {
			t.Errorf("Expected %q in output:\n%s", line, output)
		}
	}
}

func TestCatalogTree_Empty(t *testing.T) {
	var buf bytes.Buffer
	CatalogTree(&buf, &models.Catalog{})
	if buf.String() != "No families found\n" {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, sampleCatalog())
	if !strings.Contains(buf.String(), "2 families, 1 subfamily, 3 documents") {
		t.Errorf("Unexpected summary %q", buf.String())
	}
}

func TestPlural(t *testing.T) {
	tests := map[string]string{
		plural(0, "family"):   "0 families",
		plural(1, "family"):   "1 family",
		plural(2, "document"): "2 documents",
	}
	for got, want := range tests {
		if got != want {
			t.Errorf("plural = %q, want %q", got, want)
		}
	}
}
