package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// AppPaths holds the default locations of flux files
type AppPaths struct {
	ConfigDir    string // directory holding config.toml
	ConfigFile   string // config.toml
	DatabasePath string // default workspaceKV database
	StateDir     string // default snapshot directory
}

// DetectPaths detects the default paths based on the operating system
func DetectPaths() (AppPaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return AppPaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var configDir, stateDir string
	switch runtime.GOOS {
	case "darwin":
		configDir = filepath.Join(home, "Library/Application Support/FluxWorkspace")
		stateDir = filepath.Join(configDir, "state")
	case "linux":
		configDir = filepath.Join(home, ".config/flux-workspace")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, "flux-workspace")
		}
		stateDir = filepath.Join(home, ".local/state/flux-workspace")
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			stateDir = filepath.Join(xdg, "flux-workspace")
		}
	default:
		return AppPaths{}, fmt.Errorf("unsupported OS: %s (only macOS and Linux are supported)", runtime.GOOS)
	}

	return AppPaths{
		ConfigDir:    configDir,
		ConfigFile:   filepath.Join(configDir, "config.toml"),
		DatabasePath: filepath.Join(configDir, "sessions.db"),
		StateDir:     stateDir,
	}, nil
}

// ConfigExists checks if the config file exists
func (p AppPaths) ConfigExists() bool {
	_, err := os.Stat(p.ConfigFile)
	return err == nil
}

// DatabaseExists checks if the default database exists
func (p AppPaths) DatabaseExists() bool {
	_, err := os.Stat(p.DatabasePath)
	return err == nil
}
