//go:build !windows

package fileops

import (
	"golang.org/x/sys/unix"

	"github.com/shimexe/shimexe/internal/shimerr"
)

// MarkExecutable sets the owner/group/world executable bits on path.
func MarkExecutable(path string) error {
	if err := unix.Chmod(path, 0o755); err != nil {
		return shimerr.New(shimerr.ErrPermissionDenied, path, err.Error())
	}
	return nil
}
