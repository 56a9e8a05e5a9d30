package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/dhffiler/internal/config"
	"github.com/harrison/dhffiler/internal/filing"
)

// NewBackupCommand creates the 'backup' command
func NewBackupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup <source> <backup-dir>",
		Short: "Copy a directory tree into a timestamped backup folder",
		Long: `Backup copies the source tree into a new folder under backup-dir named
after the source, the current time and a short run identifier. It is the same
copy the file command takes before moving documents when backups are enabled.`,
		Args: cobra.ExactArgs(2),
		RunE: runBackup,
	}

	cmd.Flags().Bool("quiet", false, "Do not show copy progress")

	return cmd
}

func runBackup(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, config.Flags{})
	if err != nil {
		return err
	}
	defer s.Close()

	copier := filing.DirCopier{}
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		copier.Progress = cmd.ErrOrStderr()
	}

	dest, err := filing.Backup(cmd.Context(), copier, args[0], args[1])
	if err != nil {
		if dest != "" {
			color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "partial backup left at %s\n", dest)
		}
		return err
	}

	s.log.LogInfo(fmt.Sprintf("Backed up %s to %s", args[0], dest))
	fmt.Fprintln(cmd.OutOrStdout(), dest)
	return nil
}
