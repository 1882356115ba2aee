// Package dispatcher decides, at process start, whether the running
// binary should behave as the shimexe manager or as one specific shim,
// and locates that shim's configuration document.
package dispatcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shimexe/shimexe/internal/shimerr"
)

// ManagerName is the file stem the dispatcher treats as the manager
// binary's own identity, rather than a shim name.
const ManagerName = "shimexe"

// Mode distinguishes the two ways the dispatched process can behave.
type Mode int

const (
	ModeManager Mode = iota
	ModeShim
)

// Decision is the outcome of Dispatch: which mode to run in and, for
// shim mode, which name and document were resolved.
type Decision struct {
	Mode     Mode
	Name     string
	DocPath  string
}

// InvokedName returns the file stem of the running executable, per
// current_exe().
func InvokedName() string {
	exePath, err := os.Executable()
	if err != nil {
		return ManagerName
	}
	return stem(exePath)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Dispatch determines the process's mode. storeDir is the fallback shim
// store (e.g. <user_home>/.shimexe) consulted when no sibling document
// exists next to the current executable.
func Dispatch(storeDir string) (Decision, error) {
	exePath, err := os.Executable()
	if err != nil {
		return Decision{}, shimerr.New(shimerr.ErrIO, "<self>", err.Error())
	}

	name := stem(exePath)
	if name == ManagerName {
		return Decision{Mode: ModeManager, Name: name}, nil
	}

	siblingDoc := filepath.Join(filepath.Dir(exePath), name+".shim.toml")
	if _, err := os.Stat(siblingDoc); err == nil {
		return Decision{Mode: ModeShim, Name: name, DocPath: siblingDoc}, nil
	}

	storeDoc := filepath.Join(storeDir, name+".shim.toml")
	if _, err := os.Stat(storeDoc); err == nil {
		return Decision{Mode: ModeShim, Name: name, DocPath: storeDoc}, nil
	}

	return Decision{}, shimerr.New(shimerr.ErrShimNotFound, name, "no shim configuration found next to the executable or in the store")
}

// DefaultStoreDir returns <user_home>/.shimexe, the fallback store
// consulted when a shim's executable has no sibling document.
func DefaultStoreDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", shimerr.New(shimerr.ErrIO, "<home>", err.Error())
	}
	return filepath.Join(home, ".shimexe"), nil
}
