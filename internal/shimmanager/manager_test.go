package shimmanager

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shimexe/shimexe/internal/shimconfig"
)

func writeFakeBinary(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o755))
	return path
}

func TestAddShim_WritesDocumentAndExecutable(t *testing.T) {
	store := t.TempDir()
	binDir := t.TempDir()
	binary := writeFakeBinary(t, binDir, "manager-bin", 128)

	m, err := New(store)
	require.NoError(t, err)

	doc, err := NewBuilder("tool", "/usr/bin/tool").Build()
	require.NoError(t, err)

	require.NoError(t, m.AddShim("tool", doc, binary))

	assert.FileExists(t, m.docPath("tool"))
	assert.FileExists(t, m.exePath("tool"))
	assert.FileExists(t, m.exePath("tool")+docSuffix)
}

func TestAddShim_SkipsCopyWhenExecutableCurrent(t *testing.T) {
	store := t.TempDir()
	binDir := t.TempDir()
	binary := writeFakeBinary(t, binDir, "manager-bin", 64)

	m, err := New(store)
	require.NoError(t, err)
	doc, err := NewBuilder("tool", "/usr/bin/tool").Build()
	require.NoError(t, err)

	require.NoError(t, m.AddShim("tool", doc, binary))
	before, err := os.Stat(m.exePath("tool"))
	require.NoError(t, err)

	require.NoError(t, m.AddShim("tool", doc, binary))
	after, err := os.Stat(m.exePath("tool"))
	require.NoError(t, err)

	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestRemoveShim_IgnoresMissingFiles(t *testing.T) {
	store := t.TempDir()
	m, err := New(store)
	require.NoError(t, err)

	require.NoError(t, m.RemoveShim("ghost"))
}

func TestRemoveShim_DeletesAllArtifacts(t *testing.T) {
	store := t.TempDir()
	binDir := t.TempDir()
	binary := writeFakeBinary(t, binDir, "manager-bin", 64)

	m, err := New(store)
	require.NoError(t, err)
	doc, _ := NewBuilder("tool", "/usr/bin/tool").Build()
	require.NoError(t, m.AddShim("tool", doc, binary))

	require.NoError(t, m.RemoveShim("tool"))

	assert.NoFileExists(t, m.docPath("tool"))
	assert.NoFileExists(t, m.exePath("tool"))
	assert.NoFileExists(t, m.exePath("tool")+docSuffix)
}

func TestListShims_SortedByName(t *testing.T) {
	store := t.TempDir()
	binDir := t.TempDir()
	binary := writeFakeBinary(t, binDir, "manager-bin", 64)

	m, err := New(store)
	require.NoError(t, err)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		doc, _ := NewBuilder(name, "/usr/bin/"+name).Build()
		require.NoError(t, m.AddShim(name, doc, binary))
	}

	shims, err := m.ListShims()
	require.NoError(t, err)
	require.Len(t, shims, 3)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, []string{shims[0].Name, shims[1].Name, shims[2].Name})
}

func TestShimExists(t *testing.T) {
	store := t.TempDir()
	binDir := t.TempDir()
	binary := writeFakeBinary(t, binDir, "manager-bin", 64)

	m, err := New(store)
	require.NoError(t, err)
	assert.False(t, m.ShimExists("tool"))

	doc, _ := NewBuilder("tool", "/usr/bin/tool").Build()
	require.NoError(t, m.AddShim("tool", doc, binary))
	assert.True(t, m.ShimExists("tool"))
}

func TestGetShim_MissingReturnsShimNotFound(t *testing.T) {
	store := t.TempDir()
	m, err := New(store)
	require.NoError(t, err)

	_, err = m.GetShim("nope")
	require.Error(t, err)
}

func TestUpdateShim_RequiresExisting(t *testing.T) {
	store := t.TempDir()
	m, err := New(store)
	require.NoError(t, err)

	doc, _ := NewBuilder("tool", "/usr/bin/tool").Build()
	err = m.UpdateShim("tool", doc)
	require.Error(t, err)
}

func TestUpdateShim_OverwritesDocument(t *testing.T) {
	store := t.TempDir()
	binDir := t.TempDir()
	binary := writeFakeBinary(t, binDir, "manager-bin", 64)

	m, err := New(store)
	require.NoError(t, err)

	doc, _ := NewBuilder("tool", "/usr/bin/tool").Build()
	require.NoError(t, m.AddShim("tool", doc, binary))

	updated, _ := NewBuilder("tool", "/usr/bin/tool").Version("2.0.0").Build()
	require.NoError(t, m.UpdateShim("tool", updated))

	got, err := m.GetShim("tool")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", got.Metadata.Version)
}

func TestValidateShim(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX mode bits not meaningful on windows")
	}

	store := t.TempDir()
	binDir := t.TempDir()
	binary := writeFakeBinary(t, binDir, "manager-bin", 64)

	script := filepath.Join(binDir, "real-tool")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	m, err := New(store)
	require.NoError(t, err)

	doc, _ := NewBuilder("tool", script).Build()
	require.NoError(t, m.AddShim("tool", doc, binary))

	valid, err := m.ValidateShim("tool")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidateShim_MissingTarget(t *testing.T) {
	store := t.TempDir()
	binDir := t.TempDir()
	binary := writeFakeBinary(t, binDir, "manager-bin", 64)

	m, err := New(store)
	require.NoError(t, err)
	doc, _ := NewBuilder("tool", "/no/such/binary").Build()
	require.NoError(t, m.AddShim("tool", doc, binary))

	valid, err := m.ValidateShim("tool")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestBuilder_InfersArchiveSourceType(t *testing.T) {
	doc, err := NewBuilder("suite", "/store/suite/bin/suite").DownloadURL("https://example.com/suite.tar.gz").Build()
	require.NoError(t, err)
	assert.Equal(t, shimconfig.SourceArchive, doc.Shim.SourceType)
}

func TestBuilder_InfersURLSourceType(t *testing.T) {
	doc, err := NewBuilder("tool", "/store/tool/bin/tool").DownloadURL("https://example.com/tool").Build()
	require.NoError(t, err)
	assert.Equal(t, shimconfig.SourceURL, doc.Shim.SourceType)
}

func TestBuilder_FluentFields(t *testing.T) {
	doc, err := NewBuilder("tool", "/usr/bin/tool").
		Args("--flag").
		Env("KEY", "value").
		Cwd("/work").
		Version("1.0.0").
		Description("a tool").
		Author("me").
		Tag("cli").
		Tags("utility", "go").
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"--flag"}, doc.Shim.Args)
	assert.Equal(t, "value", doc.Env["KEY"])
	assert.Equal(t, "/work", doc.Shim.Cwd)
	assert.Equal(t, "1.0.0", doc.Metadata.Version)
	assert.Equal(t, "a tool", doc.Metadata.Description)
	assert.Equal(t, "me", doc.Metadata.Author)
	assert.Equal(t, []string{"cli", "utility", "go"}, doc.Metadata.Tags)
}
