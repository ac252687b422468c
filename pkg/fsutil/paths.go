package fsutil

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the name of the application used in paths
	AppName = "narget"
)

// GetConfigDir returns the platform-specific configuration directory for the application
// On Linux: ~/.config/narget/
// On macOS: ~/Library/Application Support/narget/
// On Windows: %AppData%\narget\
func GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, AppName), nil
}
