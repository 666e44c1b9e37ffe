package standalone

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/user-none/eflash/retro"
	"github.com/user-none/eflash/storage"
)

// statePath returns the save-state file path for a movie and slot.
func statePath(movieName string, slot int) (string, error) {
	baseDir, err := storage.BaseDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(baseDir, "states")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return filepath.Join(dir, fmt.Sprintf("%s.slot%d.state", movieName, slot)), nil
}

// saveState serializes the running session to the slot file.
func saveState(movieName string, slot int) error {
	blob, err := retro.Serialize()
	if err != nil {
		return err
	}

	path, err := statePath(movieName, slot)
	if err != nil {
		return err
	}

	// Write to a temp file then rename so the slot is never half-written.
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, blob, 0644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename state: %w", err)
	}
	return nil
}

// loadState restores the session from the slot file.
func loadState(movieName string, slot int) error {
	path, err := statePath(movieName, slot)
	if err != nil {
		return err
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read state: %w", err)
	}

	return retro.Unserialize(blob)
}
