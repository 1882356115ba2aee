package validationcache

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid_ExecutableFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit not meaningful on windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o755))

	c := New(time.Minute)
	assert.True(t, c.IsValid(path))
}

func TestIsValid_NonExecutableFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit not meaningful on windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	c := New(time.Minute)
	assert.False(t, c.IsValid(path))
}

func TestIsValid_MissingFile(t *testing.T) {
	c := New(time.Minute)
	assert.False(t, c.IsValid(filepath.Join(t.TempDir(), "missing")))
}

func TestIsValid_CachedWithinTTL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o755))

	c := New(time.Minute)
	first := c.IsValid(path)
	os.Remove(path)
	second := c.IsValid(path)

	assert.Equal(t, first, second)
}

func TestIsValid_ReChecksOnMtimeChange(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit not meaningful on windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	c := New(time.Minute)
	assert.False(t, c.IsValid(path))

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chmod(path, 0o755))
	require.NoError(t, os.Chtimes(path, future, future))

	assert.True(t, c.IsValid(path))
}

func TestInvalidateAndClear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o755))

	c := New(time.Minute)
	c.IsValid(path)
	c.Invalidate(path)
	assert.Empty(t, c.entries)

	c.Set(path, false)
	assert.False(t, c.IsValid(path))

	c.Clear()
	assert.True(t, c.IsValid(path))
}
