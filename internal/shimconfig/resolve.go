package shimconfig

import (
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shimexe/shimexe/internal/pathresolver"
	"github.com/shimexe/shimexe/internal/shimerr"
)

// IsURL reports whether s parses as an absolute URL with a host — the
// same test used to distinguish a legacy URL-as-path document from a
// plain filesystem path.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// FilenameFromURL extracts the last path segment of a URL, falling back
// to "download" when the URL has no meaningful segment.
func FilenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "download"
	}
	name := filepath.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "download"
	}
	return name
}

// Resolve returns the absolute executable path a ShimRunner should spawn,
// branching on the document's source type. storeDir is the shim store
// root (e.g. "<home>/.shimexe").
func Resolve(doc *ShimDocument, storeDir string) (string, error) {
	switch doc.Shim.EffectiveSourceType() {
	case SourceFile:
		return resolveFile(doc)
	case SourceArchive:
		return resolveArchive(doc)
	case SourceURL:
		return resolveURL(doc, storeDir)
	default:
		return "", shimerr.New(shimerr.ErrConfig, doc.Shim.Name, "unknown source_type")
	}
}

func resolveFile(doc *ShimDocument) (string, error) {
	if doc.Shim.Path == "" {
		return "", shimerr.New(shimerr.ErrConfig, doc.Shim.Name, "path is empty")
	}

	expanded, err := pathresolver.Expand(doc.Shim.Path)
	if err != nil {
		return "", err
	}

	if filepath.IsAbs(expanded) {
		return expanded, nil
	}

	found, err := exec.LookPath(expanded)
	if err != nil {
		return "", shimerr.New(shimerr.ErrExecutableNotFound, expanded, "not found on PATH")
	}
	return found, nil
}

func resolveArchive(doc *ShimDocument) (string, error) {
	entry, ok := primaryExecutable(doc.Shim.ExtractedExecutables)
	if !ok {
		return "", shimerr.New(shimerr.ErrExecutableNotFound, doc.Shim.Name, "no extracted executables recorded; re-extraction may be required")
	}
	if _, err := os.Stat(entry.FullPath); err != nil {
		return "", shimerr.New(shimerr.ErrExecutableNotFound, doc.Shim.Name, "extracted executable missing; re-extraction may be required")
	}
	return entry.FullPath, nil
}

func resolveURL(doc *ShimDocument, storeDir string) (string, error) {
	remote := doc.Shim.DownloadURL
	if remote == "" && IsURL(doc.Shim.Path) {
		remote = doc.Shim.Path
	}
	if remote == "" {
		return "", shimerr.New(shimerr.ErrConfig, doc.Shim.Name, "url source has neither download_url nor a url-shaped path")
	}

	local := filepath.Join(storeDir, doc.Shim.Name, "bin", FilenameFromURL(remote))
	if _, err := os.Stat(local); err != nil {
		return "", shimerr.New(shimerr.ErrExecutableNotFound, doc.Shim.Name, "artifact not yet acquired")
	}
	return local, nil
}

// NeedsAcquisition reports whether doc describes a remote origin whose
// local artifact has not yet been fetched, per the caller-supplied
// storeDir. shimrun's Runner.ensureArtifactAvailable calls this before
// dispatching to the Acquirer.
func NeedsAcquisition(doc *ShimDocument, storeDir string) bool {
	hasRemoteOrigin := doc.Shim.DownloadURL != "" || IsURL(doc.Shim.Path)
	if !hasRemoteOrigin {
		return false
	}
	_, err := Resolve(doc, storeDir)
	return err != nil
}

// LocalArtifactPath computes the expected on-disk path for a shim's
// primary artifact regardless of whether it has been downloaded yet.
func LocalArtifactPath(doc *ShimDocument, storeDir string) string {
	remote := doc.Shim.DownloadURL
	if remote == "" {
		remote = doc.Shim.Path
	}
	return filepath.Join(storeDir, doc.Shim.Name, "bin", FilenameFromURL(remote))
}

func primaryExecutable(entries []ExtractedExecutable) (ExtractedExecutable, bool) {
	for _, e := range entries {
		if e.IsPrimary {
			return e, true
		}
	}
	if len(entries) > 0 {
		return entries[0], true
	}
	return ExtractedExecutable{}, false
}

// isArchiveFilename is a lightweight suffix check used by the manager
// Builder to infer source_type from a download_url, mirroring
// ArchiveExtractor's own recognition list without importing that package.
func isArchiveFilename(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range []string{".zip", ".tar.gz", ".tgz"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// InferSourceType implements the Builder's download_url → source_type
// inference: archive suffixes become Archive, everything else becomes Url.
func InferSourceType(downloadURL string) SourceType {
	if isArchiveFilename(downloadURL) {
		return SourceArchive
	}
	return SourceURL
}
