package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestZip(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)

	w, err := zw.Create("test.exe")
	require.NoError(t, err)
	_, err = w.Write([]byte("fake executable"))
	require.NoError(t, err)

	w, err = zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("a readme"))
	require.NoError(t, err)

	_, err = zw.Create("subdir/")
	require.NoError(t, err)

	w, err = zw.Create("subdir/tool.exe")
	require.NoError(t, err)
	_, err = w.Write([]byte("another executable"))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
}

func TestIsArchive(t *testing.T) {
	assert.True(t, IsArchive("test.zip"))
	assert.True(t, IsArchive("test.tar.gz"))
	assert.True(t, IsArchive("test.tgz"))
	assert.False(t, IsArchive("test.exe"))
	assert.False(t, IsArchive("test"))
}

func TestIsArchiveURL(t *testing.T) {
	assert.True(t, IsArchiveURL("https://example.com/file.zip"))
	assert.False(t, IsArchiveURL("https://example.com/file.exe"))
}

func TestExtract_Zip(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "test.zip")
	writeTestZip(t, zipPath)

	extractDir := filepath.Join(dir, "extracted")
	executables, err := Extract(zipPath, extractDir)
	require.NoError(t, err)
	assert.Len(t, executables, 2)

	assert.FileExists(t, filepath.Join(extractDir, "test.exe"))
	assert.FileExists(t, filepath.Join(extractDir, "readme.txt"))
	assert.FileExists(t, filepath.Join(extractDir, "subdir", "tool.exe"))
}

func TestExtract_RejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "evil.zip")

	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("../../etc/passwd")
	require.NoError(t, err)
	_, err = w.Write([]byte("pwned"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	f.Close()

	extractDir := filepath.Join(dir, "extracted")
	_, err = Extract(zipPath, extractDir)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "etc", "passwd"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestIsExecutableFile(t *testing.T) {
	assert.True(t, IsExecutableFile("tool.exe"))
	assert.True(t, IsExecutableFile("tool.bin"))
	assert.True(t, IsExecutableFile("tool.app"))
	assert.False(t, IsExecutableFile("readme.txt"))

	if runtime.GOOS != "windows" {
		assert.True(t, IsExecutableFile("tool"))
		assert.True(t, IsExecutableFile("install.sh"))
	}
}

func TestFindExecutablesInDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.exe"), []byte("x"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	found, err := FindExecutablesInDir(dir)
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Contains(t, found[0], "a.exe")
}

func TestFindExecutablesInDir_MissingDir(t *testing.T) {
	found, err := FindExecutablesInDir(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGenerateShimName_Unique(t *testing.T) {
	name := GenerateShimName("/path/to/rg.exe", nil)
	assert.Equal(t, "rg", name)
}

func TestGenerateShimName_Collision(t *testing.T) {
	name := GenerateShimName("/path/to/rg.exe", []string{"rg"})
	assert.Equal(t, "rg-1", name)
}

func TestGenerateShimName_MultipleCollisions(t *testing.T) {
	name := GenerateShimName("/path/to/rg.exe", []string{"rg", "rg-1", "rg-2"})
	assert.Equal(t, "rg-3", name)
}
