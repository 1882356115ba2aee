//go:build windows

package pathresolver

import (
	"os"
	"path/filepath"
)

// ExeExtension returns the platform executable suffix.
func ExeExtension() string { return ".exe" }

// PathSeparator returns the platform path separator used in templated
// arguments (distinct from os.PathSeparator, which this mirrors on
// Windows).
func PathSeparator() string { return "\\" }

func homeDir() (string, bool) {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home, true
	}
	return "", false
}

func configDir() (string, bool) {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return dir, true
	}
	if appData := os.Getenv("APPDATA"); appData != "" {
		return appData, true
	}
	return "", false
}

func dataDir() (string, bool) {
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		return local, true
	}
	if home, ok := homeDir(); ok {
		return filepath.Join(home, "AppData", "Local"), true
	}
	return "", false
}
