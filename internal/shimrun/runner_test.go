package shimrun

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shimexe/shimexe/internal/shimconfig"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func TestExecute_FileSource_ExitCodeForwarded(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script target not applicable on windows")
	}

	dir := t.TempDir()
	script := writeScript(t, dir, "tool", "#!/bin/sh\nexit 7\n")

	doc := &shimconfig.ShimDocument{
		Shim: shimconfig.ShimCore{Name: "tool", Path: script},
		Args: shimconfig.ArgsConfig{Mode: shimconfig.ArgsModeTemplate},
	}

	r := New(t.TempDir(), nil, nil)
	code, err := r.Execute(doc, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 7, code)
}

func TestExecute_FileSource_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script target not applicable on windows")
	}

	dir := t.TempDir()
	script := writeScript(t, dir, "tool", "#!/bin/sh\nexit 0\n")

	doc := &shimconfig.ShimDocument{
		Shim: shimconfig.ShimCore{Name: "tool", Path: script},
	}

	r := New(t.TempDir(), nil, nil)
	code, err := r.Execute(doc, "", []string{"--flag"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestExecute_MissingExecutable(t *testing.T) {
	doc := &shimconfig.ShimDocument{
		Shim: shimconfig.ShimCore{Name: "tool", Path: "/no/such/executable"},
	}

	r := New(t.TempDir(), nil, nil)
	_, err := r.Execute(doc, "", nil)
	require.Error(t, err)
}

func TestExecute_ArchiveSource_MissingEntry(t *testing.T) {
	doc := &shimconfig.ShimDocument{
		Shim: shimconfig.ShimCore{
			Name:       "suite",
			SourceType: shimconfig.SourceArchive,
		},
	}

	r := New(t.TempDir(), nil, nil)
	_, err := r.Execute(doc, "", nil)
	require.Error(t, err)
}

type noopUpdater struct{ called bool }

func (u *noopUpdater) CheckAndUpdate(doc *shimconfig.ShimDocument, docPath string) error {
	u.called = true
	return nil
}

func TestExecute_InvokesUpdaterWhenEnabled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script target not applicable on windows")
	}

	dir := t.TempDir()
	script := writeScript(t, dir, "tool", "#!/bin/sh\nexit 0\n")

	doc := &shimconfig.ShimDocument{
		Shim:       shimconfig.ShimCore{Name: "tool", Path: script},
		AutoUpdate: &shimconfig.AutoUpdate{Enabled: true},
	}

	updater := &noopUpdater{}
	r := New(t.TempDir(), nil, updater)

	docPath := filepath.Join(dir, "tool.shim.toml")
	_, err := r.Execute(doc, docPath, nil)
	require.NoError(t, err)
	assert.True(t, updater.called)
}
