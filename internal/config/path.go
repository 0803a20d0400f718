package config

import (
	"os"
	"path/filepath"
)

// DefaultDataDir returns the per-host directory holding the Pebble and
// SQLite files. XDG_DATA_HOME wins; otherwise a system or per-user location
// is chosen, falling back to ./data without a home directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "lodex")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "./data"
	}

	switch {
	case isDir(filepath.Join(homeDir, "Library")): // macOS
		return filepath.Join(homeDir, "Library", "Application Support", "Lodex")
	case isDir(filepath.Join(homeDir, "AppData")): // Windows
		return filepath.Join(homeDir, "AppData", "Local", "Lodex")
	case isDir(filepath.Join(homeDir, ".local", "share")):
		return filepath.Join(homeDir, ".local", "share", "lodex")
	}
	return filepath.Join(homeDir, ".lodex")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
