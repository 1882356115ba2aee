// Package shimmanager implements directory-scoped shim lifecycle
// management: creating, removing, listing and updating the
// document+executable pairs that live in one shim store.
package shimmanager

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shimexe/shimexe/internal/fileops"
	"github.com/shimexe/shimexe/internal/pathresolver"
	"github.com/shimexe/shimexe/internal/shimconfig"
	"github.com/shimexe/shimexe/internal/shimerr"
	"github.com/shimexe/shimexe/internal/validationcache"
)

const docSuffix = ".shim.toml"

// Manager owns one shim store directory.
type Manager struct {
	storeDir   string
	cache      *shimconfig.Cache
	validation *validationcache.Cache
}

// New constructs a Manager rooted at storeDir, creating it if absent.
func New(storeDir string) (*Manager, error) {
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		return nil, shimerr.New(shimerr.ErrIO, storeDir, err.Error())
	}
	return &Manager{
		storeDir:   storeDir,
		cache:      shimconfig.NewCache(shimconfig.DefaultTTL),
		validation: validationcache.New(validationcache.DefaultTTL),
	}, nil
}

func (m *Manager) docPath(name string) string {
	return filepath.Join(m.storeDir, name+docSuffix)
}

func (m *Manager) exePath(name string) string {
	return filepath.Join(m.storeDir, name+pathresolver.ExeExtension())
}

// AddShim writes doc's document and copies the running manager binary
// (or the provided sourceBinary) to the shim's executable slot, skipping
// the copy when the existing executable is already current.
func (m *Manager) AddShim(name string, doc *shimconfig.ShimDocument, sourceBinary string) error {
	if err := shimconfig.Validate(doc); err != nil {
		return err
	}

	if err := shimconfig.Save(m.docPath(name), doc); err != nil {
		return err
	}
	m.cache.Invalidate(m.docPath(name))

	if sourceBinary == "" {
		var err error
		sourceBinary, err = os.Executable()
		if err != nil {
			return shimerr.New(shimerr.ErrIO, name, err.Error())
		}
	}

	if err := m.syncExecutable(sourceBinary, m.exePath(name)); err != nil {
		return err
	}

	// Sibling document copy next to the executable, so the store
	// remains self-contained when copied elsewhere.
	return shimconfig.Save(m.exePath(name)+docSuffix, doc)
}

// syncExecutable copies src over dst unless dst already matches src in
// size and is not older, per the manager's skip-if-current policy.
func (m *Manager) syncExecutable(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return shimerr.New(shimerr.ErrIO, src, err.Error())
	}

	if dstInfo, err := os.Stat(dst); err == nil {
		if dstInfo.Size() == srcInfo.Size() && !dstInfo.ModTime().Before(srcInfo.ModTime()) {
			return nil
		}
	}

	if err := fileops.CopyFile(src, dst); err != nil {
		return err
	}
	return fileops.MarkExecutable(dst)
}

// RemoveShim deletes name's document, executable, and sibling document
// copy. Absent files are ignored; downloaded artifacts are left in place.
func (m *Manager) RemoveShim(name string) error {
	m.cache.Invalidate(m.docPath(name))
	removeIgnoreMissing(m.docPath(name))
	removeIgnoreMissing(m.exePath(name) + docSuffix)
	return removeIgnoreMissing(m.exePath(name))
}

func removeIgnoreMissing(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return shimerr.New(shimerr.ErrIO, path, err.Error())
	}
	return nil
}

// NamedShim pairs a shim's name with its loaded document.
type NamedShim struct {
	Name string
	Doc  *shimconfig.ShimDocument
}

// ListShims enumerates every *.shim.toml in the store, sorted by name.
func (m *Manager) ListShims() ([]NamedShim, error) {
	entries, err := os.ReadDir(m.storeDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, shimerr.New(shimerr.ErrIO, m.storeDir, err.Error())
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), docSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), docSuffix))
	}
	sort.Strings(names)

	shims := make([]NamedShim, 0, len(names))
	for _, name := range names {
		doc, err := m.cache.GetOrLoad(m.docPath(name))
		if err != nil {
			continue
		}
		shims = append(shims, NamedShim{Name: name, Doc: doc})
	}
	return shims, nil
}

// ShimExists reports whether name has a document in the store.
func (m *Manager) ShimExists(name string) bool {
	_, err := os.Stat(m.docPath(name))
	return err == nil
}

// GetShim loads and returns name's document.
func (m *Manager) GetShim(name string) (*shimconfig.ShimDocument, error) {
	if !m.ShimExists(name) {
		return nil, shimerr.New(shimerr.ErrShimNotFound, name, "no such shim in store")
	}
	return m.cache.GetOrLoad(m.docPath(name))
}

// GetShimConfig is an alias for GetShim kept for callers that think in
// terms of "configuration" rather than "document".
func (m *Manager) GetShimConfig(name string) (*shimconfig.ShimDocument, error) {
	return m.GetShim(name)
}

// UpdateShim overwrites an existing shim's document; it delegates to
// AddShim, since the on-disk effect is identical.
func (m *Manager) UpdateShim(name string, doc *shimconfig.ShimDocument) error {
	if !m.ShimExists(name) {
		return shimerr.New(shimerr.ErrShimNotFound, name, "cannot update a shim that does not exist")
	}
	return m.AddShim(name, doc, "")
}

// ValidateShim reports whether name resolves to a usable, executable
// target file.
func (m *Manager) ValidateShim(name string) (bool, error) {
	doc, err := m.GetShim(name)
	if err != nil {
		return false, err
	}

	target, err := shimconfig.Resolve(doc, m.storeDir)
	if err != nil {
		return false, nil
	}
	return m.validation.IsValid(target), nil
}
