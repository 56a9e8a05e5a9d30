package config

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/harrison/dhffiler/internal/discovery"
	"github.com/harrison/dhffiler/internal/filing"
	"github.com/harrison/dhffiler/internal/filter"
	"gopkg.in/yaml.v3"
)

// DefaultDestinationTemplate is the destination used when none is configured
const DefaultDestinationTemplate = filing.DefaultDestinationTemplate

// LayoutConfig describes where families, subfamilies and documents live
type LayoutConfig struct {
	// DocumentRootMarker is the folder name identifying a family's controlled documents
	DocumentRootMarker string `yaml:"document_root_marker"`

	// InProgressFolder is the folder under the marker holding subfamily folders
	InProgressFolder string `yaml:"in_progress_folder"`

	// FamilyMaxDepth bounds the walk looking for marker folders
	FamilyMaxDepth int `yaml:"family_max_depth"`

	// SubfamilyMaxDepth bounds the walk below the in-progress folder
	SubfamilyMaxDepth int `yaml:"subfamily_max_depth"`
}

// FilterConfig overrides the name heuristics
type FilterConfig struct {
	// FamilyExclusions are name fragments pruned while looking for families
	FamilyExclusions []string `yaml:"family_exclusions"`

	// DocumentExtensions are the extension markers accepted as documents
	DocumentExtensions []string `yaml:"document_extensions"`

	// LockFileMarker marks office lock files that are never documents
	LockFileMarker string `yaml:"lock_file_marker"`

	// SubfamilyExclusions are name fragments that hide subfamily folders
	SubfamilyExclusions []string `yaml:"subfamily_exclusions"`
}

// FilingConfig controls how selected documents are filed
type FilingConfig struct {
	// DestinationTemplate is a text/template computing each document's destination.
	// Fields: FamilyPath, FamilyName, Marker, InProgress, SubFamily, Document.
	DestinationTemplate string `yaml:"destination_template"`

	// Backup copies the family tree before any document is moved
	Backup bool `yaml:"backup"`

	// BackupDir receives backup copies (required when Backup is set)
	BackupDir string `yaml:"backup_dir"`

	// DryRun computes destinations and conflicts without touching the filesystem
	DryRun bool `yaml:"dry_run"`

	// LockName is the lock file created in the family root while filing
	LockName string `yaml:"lock_name"`
}

// Config represents dhffiler configuration options
type Config struct {
	// Root is the directory containing family folders
	Root string `yaml:"root"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir enables run log files in this directory when non-empty
	LogDir string `yaml:"log_dir"`

	// Workers is the number of families scanned in parallel (0 = one per CPU)
	Workers int `yaml:"workers"`

	Layout  LayoutConfig `yaml:"layout"`
	Filters FilterConfig `yaml:"filters"`
	Filing  FilingConfig `yaml:"filing"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	h := filter.Default()
	return &Config{
		Root:     "",
		LogLevel: "info",
		LogDir:   "",
		Workers:  4,
		Layout: LayoutConfig{
			DocumentRootMarker: filter.DocumentRootMarker,
			InProgressFolder:   filter.InProgressFolder,
			FamilyMaxDepth:     3,
			SubfamilyMaxDepth:  2,
		},
		Filters: FilterConfig{
			FamilyExclusions:    h.FamilyExclusions,
			DocumentExtensions:  h.DocumentExtensions,
			LockFileMarker:      h.LockFileMarker,
			SubfamilyExclusions: []string{},
		},
		Filing: FilingConfig{
			DestinationTemplate: DefaultDestinationTemplate,
			Backup:              false,
			BackupDir:           "",
			DryRun:              false,
			LockName:            ".dhffiler.lock",
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding onto the defaults keeps every key the file leaves out,
	// while keys that are present (including false and empty lists) win.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Flags carries CLI overrides; nil fields were not set on the command line
type Flags struct {
	Root      *string
	LogLevel  *string
	LogDir    *string
	Workers   *int
	DryRun    *bool
	Backup    *bool
	BackupDir *string
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(f Flags) {
	if f.Root != nil {
		c.Root = *f.Root
	}
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.LogDir != nil {
		c.LogDir = *f.LogDir
	}
	if f.Workers != nil {
		c.Workers = *f.Workers
	}
	if f.DryRun != nil {
		c.Filing.DryRun = *f.DryRun
	}
	if f.Backup != nil {
		c.Filing.Backup = *f.Backup
	}
	if f.BackupDir != nil {
		c.Filing.BackupDir = *f.BackupDir
	}
}

// Heuristics returns the filter heuristics described by the configuration
func (c *Config) Heuristics() filter.Heuristics {
	return filter.Heuristics{
		FamilyExclusions:    c.Filters.FamilyExclusions,
		DocumentExtensions:  c.Filters.DocumentExtensions,
		LockFileMarker:      c.Filters.LockFileMarker,
		SubfamilyExclusions: c.Filters.SubfamilyExclusions,
	}
}

// DiscoveryLayout returns the folder layout used by the scanner
func (c *Config) DiscoveryLayout() discovery.Layout {
	return discovery.Layout{
		Marker:            c.Layout.DocumentRootMarker,
		InProgress:        c.Layout.InProgressFolder,
		FamilyMaxDepth:    c.Layout.FamilyMaxDepth,
		SubfamilyMaxDepth: c.Layout.SubfamilyMaxDepth,
	}
}

// FilingOptions returns the options used by the filer
func (c *Config) FilingOptions() filing.Options {
	return filing.Options{
		Marker:              c.Layout.DocumentRootMarker,
		InProgress:          c.Layout.InProgressFolder,
		DestinationTemplate: c.Filing.DestinationTemplate,
		LockName:            c.Filing.LockName,
		DryRun:              c.Filing.DryRun,
		Backup:              c.Filing.Backup,
		BackupDir:           c.Filing.BackupDir,
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}

	if strings.TrimSpace(c.Layout.DocumentRootMarker) == "" {
		return fmt.Errorf("layout.document_root_marker cannot be empty")
	}
	if strings.TrimSpace(c.Layout.InProgressFolder) == "" {
		return fmt.Errorf("layout.in_progress_folder cannot be empty")
	}
	if c.Layout.FamilyMaxDepth < 1 {
		return fmt.Errorf("layout.family_max_depth must be >= 1, got %d", c.Layout.FamilyMaxDepth)
	}
	if c.Layout.SubfamilyMaxDepth < 1 {
		return fmt.Errorf("layout.subfamily_max_depth must be >= 1, got %d", c.Layout.SubfamilyMaxDepth)
	}

	if len(c.Filters.DocumentExtensions) == 0 {
		return fmt.Errorf("filters.document_extensions cannot be empty")
	}

	if strings.TrimSpace(c.Filing.DestinationTemplate) == "" {
		return fmt.Errorf("filing.destination_template cannot be empty")
	}
	if _, err := template.New("destination").Option("missingkey=error").Parse(c.Filing.DestinationTemplate); err != nil {
		return fmt.Errorf("invalid filing.destination_template: %w", err)
	}
	if c.Filing.Backup && c.Filing.BackupDir == "" {
		return fmt.Errorf("filing.backup_dir cannot be empty when backup is enabled")
	}
	if c.Filing.LockName == "" || strings.ContainsAny(c.Filing.LockName, `/\`) {
		return fmt.Errorf("filing.lock_name must be a plain file name, got %q", c.Filing.LockName)
	}

	return nil
}
