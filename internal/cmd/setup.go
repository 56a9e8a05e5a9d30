package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/dhffiler/internal/config"
	"github.com/harrison/dhffiler/internal/logger"
)

// session bundles what every subcommand needs after flag parsing
type session struct {
	cfg    *config.Config
	log    logger.Logger
	closer func()
}

// Close flushes and closes the run log, if one was opened
func (s *session) Close() {
	if s.closer != nil {
		s.closer()
	}
}

// loadConfig reads the config file and applies the persistent flags plus any
// command-specific overrides in extra.
func loadConfig(cmd *cobra.Command, extra config.Flags) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		extra.LogLevel = &level
	}
	if cmd.Flags().Changed("log-dir") {
		dir, _ := cmd.Flags().GetString("log-dir")
		extra.LogDir = &dir
	}

	cfg.MergeWithFlags(extra)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newSession loads configuration and builds the console and run-file loggers
func newSession(cmd *cobra.Command, extra config.Flags) (*session, error) {
	cfg, err := loadConfig(cmd, extra)
	if err != nil {
		return nil, err
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor {
		color.NoColor = true
	}

	console := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	console.SetColor(colorEnabled(cmd.ErrOrStderr()))

	s := &session{cfg: cfg, log: console}

	if cfg.LogDir != "" {
		fileLog, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to open run log: %w", err)
		}
		s.log = logger.Multi{console, fileLog}
		s.closer = func() { fileLog.Close() }
		console.LogDebug(fmt.Sprintf("Run log: %s", fileLog.RunFile()))
	}

	return s, nil
}

// colorEnabled reports whether w is a terminal that should receive colors
func colorEnabled(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// rootArg picks the DHF root from the first positional argument, if any
func rootArg(args []string) *string {
	if len(args) == 0 {
		return nil
	}
	root := args[0]
	return &root
}

// requireRoot fails when neither an argument nor the config names a root
func requireRoot(cfg *config.Config) error {
	if cfg.Root == "" {
		return fmt.Errorf("no DHF root: pass one as an argument or set root in the config file")
	}
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return fmt.Errorf("DHF root %s: %w", cfg.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("DHF root %s is not a directory", cfg.Root)
	}
	return nil
}
