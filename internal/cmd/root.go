package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for dhffiler
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dhffiler",
		Short: "Design History File discovery and filing",
		Long: `dhffiler discovers document families in a Design History File tree,
classifies the in-progress documents of each subfamily by type and revision,
and files the documents an operator selects into the family's controlled
document folder.

Run "dhffiler scan" for a read-only inventory, or "dhffiler file" for the
interactive selection and filing workflow.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .dhffiler/config.yaml, searched upward)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().String("log-dir", "", "Write run logs to this directory")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewFileCommand())
	cmd.AddCommand(NewBackupCommand())

	return cmd
}
