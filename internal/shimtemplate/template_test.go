package shimtemplate

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_PlainArgs(t *testing.T) {
	e := New([]string{"--verbose", "build"})
	result, err := e.Render("{{args}}")
	require.NoError(t, err)
	assert.Equal(t, "--verbose build", result)
}

func TestRender_ArgsWithDefault_NoUserArgs(t *testing.T) {
	e := New(nil)
	result, err := e.Render("{{args('--help')}}")
	require.NoError(t, err)
	assert.Equal(t, "--help", result)
}

func TestRender_ArgsWithDefault_UserArgsWin(t *testing.T) {
	e := New([]string{"build"})
	result, err := e.Render("{{args('--help')}}")
	require.NoError(t, err)
	assert.Equal(t, "build", result)
}

func TestRender_EnvFunction(t *testing.T) {
	os.Setenv("SHIMEXE_TPL_VAR", "value1")
	defer os.Unsetenv("SHIMEXE_TPL_VAR")

	e := New(nil)
	result, err := e.Render("{{env('SHIMEXE_TPL_VAR')}}")
	require.NoError(t, err)
	assert.Equal(t, "value1", result)
}

func TestRender_EnvFunction_MissingReturnsEmpty(t *testing.T) {
	os.Unsetenv("SHIMEXE_TPL_MISSING")
	e := New(nil)
	result, err := e.Render("{{env('SHIMEXE_TPL_MISSING')}}")
	require.NoError(t, err)
	assert.Equal(t, "", result)
}

func TestRender_EnvFunction_WithDefault(t *testing.T) {
	os.Unsetenv("SHIMEXE_TPL_MISSING2")
	e := New(nil)
	result, err := e.Render("{{env('SHIMEXE_TPL_MISSING2', 'fallback')}}")
	require.NoError(t, err)
	assert.Equal(t, "fallback", result)
}

func TestRender_IfCondition_True(t *testing.T) {
	os.Setenv("SHIMEXE_TPL_MODE", "prod")
	defer os.Unsetenv("SHIMEXE_TPL_MODE")

	e := New(nil)
	result, err := e.Render("{{if env('SHIMEXE_TPL_MODE') == 'prod'}}")
	require.NoError(t, err)
	assert.Equal(t, "true", result)
}

func TestRender_IfCondition_False(t *testing.T) {
	os.Setenv("SHIMEXE_TPL_MODE", "dev")
	defer os.Unsetenv("SHIMEXE_TPL_MODE")

	e := New(nil)
	result, err := e.Render("{{if env('SHIMEXE_TPL_MODE') == 'prod'}}")
	require.NoError(t, err)
	assert.Equal(t, "false", result)
}

func TestRender_PlatformAndArch(t *testing.T) {
	e := New(nil)
	platform, err := e.Render("{{platform()}}")
	require.NoError(t, err)
	assert.NotEmpty(t, platform)

	arch, err := e.Render("{{arch()}}")
	require.NoError(t, err)
	assert.NotEmpty(t, arch)
}

func TestRender_ExeExt(t *testing.T) {
	e := New(nil)
	result, err := e.Render("tool{{exe_ext()}}")
	require.NoError(t, err)
	assert.Contains(t, result, "tool")
}

func TestRender_FileExists(t *testing.T) {
	f, err := os.CreateTemp("", "shimexe-tpl-*")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	f.Close()

	e := New(nil)
	result, err := e.Render("{{file_exists('" + f.Name() + "')}}")
	require.NoError(t, err)
	assert.Equal(t, "true", result)

	result, err = e.Render("{{file_exists('/no/such/path/at/all')}}")
	require.NoError(t, err)
	assert.Equal(t, "false", result)
}

func TestRender_MultipleExpressionsInOneTemplate(t *testing.T) {
	os.Setenv("SHIMEXE_TPL_A", "x")
	defer os.Unsetenv("SHIMEXE_TPL_A")

	e := New(nil)
	result, err := e.Render("a={{env('SHIMEXE_TPL_A')}},platform={{platform()}}")
	require.NoError(t, err)
	assert.Contains(t, result, "a=x,platform=")
}

func TestRender_UnclosedExpressionLeftAsIs(t *testing.T) {
	e := New(nil)
	result, err := e.Render("prefix {{unterminated")
	require.NoError(t, err)
	assert.Equal(t, "prefix {{unterminated", result)
}

func TestRender_UnknownExpressionPassesThrough(t *testing.T) {
	e := New(nil)
	result, err := e.Render("{{some_literal}}")
	require.NoError(t, err)
	assert.Equal(t, "some_literal", result)
}

func TestRenderInline_SplitsOnWhitespace(t *testing.T) {
	e := New([]string{"a", "b"})
	tokens, err := e.RenderInline("{{args}}")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tokens)
}
