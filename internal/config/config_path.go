package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config file location names
const (
	ConfigDirName  = ".dhffiler"
	ConfigFileName = "config.yaml"
)

// FindConfigPath returns the config file to load when --config is not given.
// Priority order:
//  1. .dhffiler/config.yaml in dir or any parent directory
//  2. dhffiler/config.yaml in the user config directory
//
// An empty string with a nil error means no file exists and defaults apply.
func FindConfigPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory %s: %w", dir, err)
	}

	current := abs
	for {
		candidate := filepath.Join(current, ConfigDirName, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	userDir, err := os.UserConfigDir()
	if err != nil {
		// No home directory is not an error; defaults apply
		return "", nil
	}
	candidate := filepath.Join(userDir, "dhffiler", ConfigFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}

	return "", nil
}

// Load resolves the config path (explicit path wins) and loads it.
// With no explicit path and no discoverable file, defaults are returned.
func Load(explicitPath, workDir string) (*Config, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", explicitPath, err)
		}
		return LoadConfig(explicitPath)
	}

	path, err := FindConfigPath(workDir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}
