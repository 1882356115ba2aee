package shimtemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shimexe/shimexe/internal/shimconfig"
)

func TestProcessArgs_MergeMode(t *testing.T) {
	e := New([]string{"--user-flag"})
	cfg := shimconfig.ArgsConfig{
		Mode:    shimconfig.ArgsModeMerge,
		Prefix:  []string{"--prefix"},
		Default: []string{"--default"},
		Suffix:  []string{"--suffix"},
	}

	result, err := e.ProcessArgs(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"--prefix", "--default", "--user-flag", "--suffix"}, result)
}

func TestProcessArgs_ReplaceMode_WithUserArgs(t *testing.T) {
	e := New([]string{"build"})
	cfg := shimconfig.ArgsConfig{
		Mode:    shimconfig.ArgsModeReplace,
		Default: []string{"--help"},
	}

	result, err := e.ProcessArgs(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"build"}, result)
}

func TestProcessArgs_ReplaceMode_NoUserArgs(t *testing.T) {
	e := New(nil)
	cfg := shimconfig.ArgsConfig{
		Mode:    shimconfig.ArgsModeReplace,
		Default: []string{"--help"},
	}

	result, err := e.ProcessArgs(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"--help"}, result)
}

func TestProcessArgs_PrependMode(t *testing.T) {
	e := New([]string{"build"})
	cfg := shimconfig.ArgsConfig{
		Mode:    shimconfig.ArgsModePrepend,
		Default: []string{"--verbose"},
	}

	result, err := e.ProcessArgs(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"build", "--verbose"}, result)
}

func TestProcessArgs_TemplateMode_WithTemplate(t *testing.T) {
	e := New([]string{"run"})
	cfg := shimconfig.ArgsConfig{
		Mode:     shimconfig.ArgsModeTemplate,
		Template: []string{"{{args('--help')}}"},
	}

	result, err := e.ProcessArgs(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"run"}, result)
}

func TestProcessArgs_TemplateMode_WithInline(t *testing.T) {
	e := New([]string{"a", "b"})
	cfg := shimconfig.ArgsConfig{
		Mode:   shimconfig.ArgsModeTemplate,
		Inline: "{{args}}",
	}

	result, err := e.ProcessArgs(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result)
}

func TestProcessArgs_TemplateMode_Fallback(t *testing.T) {
	e := New([]string{"x", "y"})
	cfg := shimconfig.ArgsConfig{Mode: shimconfig.ArgsModeTemplate}

	result, err := e.ProcessArgs(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, result)
}

func TestProcessArgs_DefaultModeIsTemplate(t *testing.T) {
	e := New([]string{"z"})
	cfg := shimconfig.ArgsConfig{}

	result, err := e.ProcessArgs(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"z"}, result)
}
