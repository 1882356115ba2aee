//go:build !windows

package pathresolver

import (
	"os"
	"path/filepath"
)

// ExeExtension returns the platform executable suffix.
func ExeExtension() string { return "" }

// PathSeparator returns the platform path separator used in templated
// arguments.
func PathSeparator() string { return "/" }

func homeDir() (string, bool) {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home, true
	}
	return "", false
}

func configDir() (string, bool) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg, true
	}
	if home, ok := homeDir(); ok {
		return filepath.Join(home, ".config"), true
	}
	return "", false
}

func dataDir() (string, bool) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return xdg, true
	}
	if home, ok := homeDir(); ok {
		return filepath.Join(home, ".local", "share"), true
	}
	return "", false
}
