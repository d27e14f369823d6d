package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds the per-user locations sitechat reads and writes
type Paths struct {
	ConfigDir string // holds config.yaml
	DataDir   string // holds the database
}

// DetectPaths returns the default locations for the current operating system
func DetectPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var configDir, dataDir string
	switch runtime.GOOS {
	case "darwin":
		configDir = filepath.Join(home, "Library/Application Support/sitechat")
		dataDir = configDir
	case "linux":
		configDir = filepath.Join(home, ".config/sitechat")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, "sitechat")
		}
		dataDir = filepath.Join(home, ".local/share/sitechat")
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			dataDir = filepath.Join(xdg, "sitechat")
		}
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "sitechat")
		dataDir = configDir
	default:
		return Paths{}, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	return Paths{ConfigDir: configDir, DataDir: dataDir}, nil
}

// ConfigFile returns the default config.yaml location
func (p Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// DatabaseFile returns the default database location
func (p Paths) DatabaseFile() string {
	return filepath.Join(p.DataDir, "sitechat.db")
}
