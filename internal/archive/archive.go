// Package archive recognizes, extracts and inventories downloaded shim
// artifacts. Extraction is path-traversal safe: every entry's destination
// is required to resolve inside the target directory before anything is
// written.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/shimexe/shimexe/internal/shimerr"
)

// IsArchive reports whether path's extension identifies a supported
// archive format.
func IsArchive(path string) bool {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return true
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return true
	default:
		return false
	}
}

// IsArchiveURL reports whether a download URL points at a supported
// archive format.
func IsArchiveURL(url string) bool {
	return IsArchive(url)
}

// Extract unpacks archivePath into destDir, creating it if necessary, and
// returns the extracted executables it found, in archive order.
func Extract(archivePath, destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, shimerr.New(shimerr.ErrIO, destDir, err.Error())
	}

	lower := strings.ToLower(archivePath)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return extractZip(archivePath, destDir)
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return extractTarGz(archivePath, destDir)
	default:
		return nil, shimerr.New(shimerr.ErrInvalidShimFile, archivePath, "unsupported archive format")
	}
}

func extractZip(archivePath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, shimerr.New(shimerr.ErrIO, archivePath, "open archive: "+err.Error())
	}
	defer r.Close()

	var executables []string

	for _, f := range r.File {
		destPath, err := safeJoin(destDir, f.Name)
		if err != nil {
			continue
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return nil, shimerr.New(shimerr.ErrIO, destPath, err.Error())
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return nil, shimerr.New(shimerr.ErrIO, destPath, err.Error())
		}

		if err := extractZipEntry(f, destPath); err != nil {
			return nil, shimerr.New(shimerr.ErrIO, destPath, "extract file: "+err.Error())
		}

		applyExecutableBit(destPath)

		if IsExecutableFile(destPath) {
			executables = append(executables, destPath)
		}
	}

	return executables, nil
}

func extractZipEntry(f *zip.File, destPath string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

func extractTarGz(archivePath, destDir string) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, shimerr.New(shimerr.ErrIO, archivePath, err.Error())
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, shimerr.New(shimerr.ErrIO, archivePath, "open gzip stream: "+err.Error())
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	var executables []string

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, shimerr.New(shimerr.ErrIO, archivePath, "read tar entry: "+err.Error())
		}

		destPath, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return nil, shimerr.New(shimerr.ErrIO, destPath, err.Error())
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
				return nil, shimerr.New(shimerr.ErrIO, destPath, err.Error())
			}
			out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777|0o600)
			if err != nil {
				return nil, shimerr.New(shimerr.ErrIO, destPath, err.Error())
			}
			_, copyErr := io.Copy(out, tr)
			out.Close()
			if copyErr != nil {
				return nil, shimerr.New(shimerr.ErrIO, destPath, "extract file: "+copyErr.Error())
			}

			applyExecutableBit(destPath)

			if IsExecutableFile(destPath) {
				executables = append(executables, destPath)
			}
		}
	}

	return executables, nil
}

// safeJoin resolves name under base, rejecting any entry whose resolved
// path would escape base — guards against zip-slip style path traversal.
func safeJoin(base, name string) (string, error) {
	cleaned := filepath.Clean(strings.ReplaceAll(name, "\\", "/"))
	if cleaned == "." || cleaned == "" {
		return "", shimerr.New(shimerr.ErrInvalidShimFile, name, "empty entry name")
	}
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", shimerr.New(shimerr.ErrInvalidShimFile, name, "entry escapes destination directory")
	}

	joined := filepath.Join(base, cleaned)
	if joined != base && !strings.HasPrefix(joined, base+string(filepath.Separator)) {
		return "", shimerr.New(shimerr.ErrInvalidShimFile, name, "entry escapes destination directory")
	}

	return joined, nil
}

// IsExecutableFile classifies a path by its extension, matching the
// conventions of executables produced by common release pipelines.
func IsExecutableFile(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	switch ext {
	case "exe", "bin", "app":
		return true
	}

	if runtime.GOOS == "windows" {
		return false
	}

	switch ext {
	case "", "sh", "bash", "zsh", "fish":
		return true
	}

	return false
}

func applyExecutableBit(path string) {
	if runtime.GOOS == "windows" {
		return
	}
	if !IsExecutableFile(path) {
		return
	}
	_ = os.Chmod(path, 0o755)
}

// FindExecutablesInDir lists executables directly inside dir, non-recursively.
func FindExecutablesInDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, shimerr.New(shimerr.ErrIO, dir, err.Error())
	}

	var executables []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if IsExecutableFile(path) {
			executables = append(executables, path)
		}
	}

	return executables, nil
}

// GenerateShimName derives a unique shim name from executablePath's base
// name, disambiguating against existingNames with a numeric suffix and
// falling back to a timestamp suffix if all 999 are taken.
func GenerateShimName(executablePath string, existingNames []string) string {
	base := strings.TrimSuffix(filepath.Base(executablePath), filepath.Ext(executablePath))
	if base == "" {
		base = "unknown"
	}

	if !contains(existingNames, base) {
		return base
	}

	for i := 1; i <= 999; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if !contains(existingNames, candidate) {
			return candidate
		}
	}

	return base + "-" + strconv.FormatInt(time.Now().Unix(), 10)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
