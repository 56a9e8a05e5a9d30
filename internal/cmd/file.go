package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/dhffiler/internal/config"
	"github.com/harrison/dhffiler/internal/discovery"
	"github.com/harrison/dhffiler/internal/filing"
)

// NewFileCommand creates the interactive 'file' command
func NewFileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file [root]",
		Short: "Select and file documents interactively",
		Long: `File scans the DHF root and walks through the selection workflow:

  1. pick a family
  2. toggle the subfamilies to file and continue
  3. mark documents for add (S.D) or update (u S.D), then file them

Each filing run locks the family root, optionally backs the family up first,
and reports a per-document outcome. With --dry-run destinations and conflicts
are computed but nothing is moved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFile,
	}

	cmd.Flags().Bool("dry-run", false, "Plan the filing without moving any files")
	cmd.Flags().Bool("backup", false, "Back up the family tree before filing")
	cmd.Flags().Bool("no-backup", false, "Do not back up, even if the config enables it")
	cmd.Flags().String("backup-dir", "", "Directory receiving backups")
	cmd.Flags().Int("workers", 0, "Families scanned in parallel (0 = one per CPU)")
	cmd.Flags().String("report", "", "Write an inventory and filing report after each run (.md or .html)")

	return cmd
}

// fileFlags collects the overrides the user actually set
func fileFlags(cmd *cobra.Command, args []string) config.Flags {
	flags := config.Flags{Root: rootArg(args)}

	if cmd.Flags().Changed("dry-run") {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		flags.DryRun = &dryRun
	}
	if cmd.Flags().Changed("backup") {
		backup, _ := cmd.Flags().GetBool("backup")
		flags.Backup = &backup
	}
	if noBackup, _ := cmd.Flags().GetBool("no-backup"); noBackup {
		backup := false
		flags.Backup = &backup
	}
	if cmd.Flags().Changed("backup-dir") {
		dir, _ := cmd.Flags().GetString("backup-dir")
		flags.BackupDir = &dir
	}
	if cmd.Flags().Changed("workers") {
		workers, _ := cmd.Flags().GetInt("workers")
		flags.Workers = &workers
	}

	return flags
}

func runFile(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, fileFlags(cmd, args))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := requireRoot(s.cfg); err != nil {
		return err
	}

	filer, err := filing.NewFiler(s.cfg.FilingOptions(), filing.DirCopier{Progress: cmd.ErrOrStderr()}, s.log)
	if err != nil {
		return err
	}

	reportPath, _ := cmd.Flags().GetString("report")

	menu := &Menu{
		Root:       s.cfg.Root,
		Scanner:    discovery.NewScanner(s.cfg.Heuristics(), s.cfg.DiscoveryLayout(), s.cfg.Workers, s.log),
		Filer:      filer,
		Reader:     NewDefaultMenuReader(cmd.InOrStdin()),
		Out:        cmd.OutOrStdout(),
		Err:        cmd.ErrOrStderr(),
		ReportPath: reportPath,
	}
	return menu.Run(cmd.Context())
}

