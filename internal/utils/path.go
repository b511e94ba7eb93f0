package utils

import (
	"fmt"
	"os"
	"path"
)

// GetLuiConfigDir returns the path to the lui configuration directory.
// The directory is located inside the user's configuration directory
// as <UserConfigDir>/.lui, unless overridden by LUI_CONFIG_HOME.
func GetLuiConfigDir() (string, error) {
	if luiConfigHome := os.Getenv("LUI_CONFIG_HOME"); luiConfigHome != "" {
		return luiConfigHome, nil
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return path.Join(cfg, ".lui"), nil
}
