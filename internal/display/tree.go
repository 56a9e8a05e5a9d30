package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/harrison/dhffiler/internal/models"
)

// CatalogTree prints every family with its subfamilies and classified documents
func CatalogTree(out io.Writer, catalog *models.Catalog) {
	if catalog == nil || len(catalog.Families) == 0 {
		fmt.Fprintln(out, "No families found")
		return
	}

	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	dim := color.New(color.FgHiBlack)

	for _, family := range catalog.Families {
		bold.Fprint(out, family.Name)
		dim.Fprintf(out, "  %s\n", family.Path)

		if len(family.Subfamilies) == 0 {
			dim.Fprintln(out, "  (no subfamilies in progress)")
			continue
		}

		for _, sf := range family.Subfamilies {
			cyan.Fprintf(out, "  %s", sf.Name)
			fmt.Fprintf(out, "  (%s, %s)\n",
				plural(len(sf.Documents), "document"), plural(len(sf.CompletePairs()), "complete pair"))

			for _, doc := range sf.Documents {
				fmt.Fprintf(out, "    - %s  [%s, %s]\n", doc.Name, doc.Type, doc.RevisionLabel())
			}
		}
	}
}

// Summary prints the one-line totals of a catalog
func Summary(out io.Writer, catalog *models.Catalog) {
	subfamilies, documents := 0, 0
	for _, f := range catalog.Families {
		subfamilies += len(f.Subfamilies)
		documents += f.DocumentCount()
	}
	color.New(color.FgGreen).Fprint(out, "✓")
	fmt.Fprintf(out, " %s, %s, %s\n",
		plural(len(catalog.Families), "family"), plural(subfamilies, "subfamily"), plural(documents, "document"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	switch {
	case len(noun) > 1 && noun[len(noun)-1] == 'y':
		return fmt.Sprintf("%d %sies", n, noun[:len(noun)-1])
	default:
		return fmt.Sprintf("%d %ss", n, noun)
	}
}
