package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/dhffiler/internal/config"
	"github.com/harrison/dhffiler/internal/discovery"
	"github.com/harrison/dhffiler/internal/display"
	"github.com/harrison/dhffiler/internal/report"
)

// NewScanCommand creates the 'scan' command for a read-only inventory
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [root]",
		Short: "Inventory families, subfamilies and documents",
		Long: `Scan walks the DHF root, prints every family with its in-progress
subfamilies and their classified documents, and reports paths that could not
be read. Nothing is modified.

With --report the inventory is also written to a file, as HTML when the file
name ends in .html and as Markdown otherwise.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}

	cmd.Flags().String("report", "", "Write the inventory to this file (.md or .html)")
	cmd.Flags().Int("workers", 0, "Families scanned in parallel (0 = one per CPU)")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	flags := config.Flags{Root: rootArg(args)}
	if cmd.Flags().Changed("workers") {
		workers, _ := cmd.Flags().GetInt("workers")
		flags.Workers = &workers
	}

	s, err := newSession(cmd, flags)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := requireRoot(s.cfg); err != nil {
		return err
	}

	scanner := discovery.NewScanner(s.cfg.Heuristics(), s.cfg.DiscoveryLayout(), s.cfg.Workers, s.log)
	catalog, err := scanner.Scan(cmd.Context(), s.cfg.Root)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	out := cmd.OutOrStdout()
	display.CatalogTree(out, catalog)
	fmt.Fprintln(out)
	display.Summary(out, catalog)

	if w, ok := display.WarnSkippedPaths(catalog.Skipped); ok {
		w.Display(cmd.ErrOrStderr())
	}

	if path, _ := cmd.Flags().GetString("report"); path != "" {
		if err := report.Write(path, catalog, nil); err != nil {
			return err
		}
		s.log.LogInfo(fmt.Sprintf("Inventory written to %s", path))
	}

	return nil
}
