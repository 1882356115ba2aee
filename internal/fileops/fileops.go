// Package fileops provides the small filesystem primitives the manager
// and shim store share: atomic copies and permission application.
package fileops

import (
	"io"
	"os"

	"github.com/shimexe/shimexe/internal/shimerr"
)

// largeFileThreshold is the size above which CopyFile uses a buffered
// streaming copy instead of a single ReadFile/WriteFile round trip.
const largeFileThreshold = 1 << 20 // 1 MiB

// CopyFile copies src to dst atomically (write to dst+".tmp", then
// rename), preserving src's file mode. Below largeFileThreshold it reads
// the whole file into memory; above it, it streams through a fixed
// buffer to bound peak memory for large shim binaries.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return shimerr.New(shimerr.ErrIO, src, err.Error())
	}

	if info.Size() < largeFileThreshold {
		return copySmall(src, dst, info.Mode())
	}
	return copyStreamed(src, dst, info.Mode())
}

func copySmall(src, dst string, mode os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return shimerr.New(shimerr.ErrIO, src, err.Error())
	}

	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, mode); err != nil {
		return shimerr.New(shimerr.ErrIO, dst, err.Error())
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return shimerr.New(shimerr.ErrIO, dst, err.Error())
	}
	return nil
}

func copyStreamed(src, dst string, mode os.FileMode) error {
	source, err := os.Open(src)
	if err != nil {
		return shimerr.New(shimerr.ErrIO, src, err.Error())
	}
	defer source.Close()

	tmp := dst + ".tmp"
	destination, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return shimerr.New(shimerr.ErrIO, dst, err.Error())
	}

	buf := make([]byte, 64*1024)
	_, copyErr := io.CopyBuffer(destination, source, buf)
	closeErr := destination.Close()

	if copyErr != nil {
		os.Remove(tmp)
		return shimerr.New(shimerr.ErrIO, dst, copyErr.Error())
	}
	if closeErr != nil {
		os.Remove(tmp)
		return shimerr.New(shimerr.ErrIO, dst, closeErr.Error())
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return shimerr.New(shimerr.ErrIO, dst, err.Error())
	}
	return nil
}
