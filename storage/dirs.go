package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "eflash"

// BaseDir returns the base directory for application data.
// Example paths:
// - macOS: ~/Library/Application Support/eflash
// - Linux: ~/.local/share/eflash
// - Windows: %APPDATA%/eflash
func BaseDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		baseDir = filepath.Join(appData, appName)
	default: // Linux and other Unix-like systems
		// Check XDG_DATA_HOME first
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome != "" {
			baseDir = filepath.Join(dataHome, appName)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			baseDir = filepath.Join(home, ".local", "share", appName)
		}
	}

	return baseDir, nil
}

// SharedObjectsDir returns the directory holding per-movie shared-object
// databases, creating it if it does not exist.
func SharedObjectsDir() (string, error) {
	baseDir, err := BaseDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(baseDir, "shared_objects")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return dir, nil
}
