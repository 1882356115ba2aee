// Package shimtemplate renders the small `{{expr}}` expression language
// used inside shim argument templates: literal passthrough of user
// arguments, environment lookups, simple equality conditionals and a
// handful of platform-introspection functions. It intentionally does not
// use text/template — the expression grammar is function-call-like
// (env('NAME'), args('literal')) rather than Go's dot-field syntax.
package shimtemplate

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shimexe/shimexe/internal/pathresolver"
	"github.com/shimexe/shimexe/internal/shimerr"
)

// Engine evaluates template expressions against one invocation's
// user-supplied arguments.
type Engine struct {
	userArgs []string
}

// New constructs an Engine bound to the given command-line arguments.
func New(userArgs []string) *Engine {
	return &Engine{userArgs: append([]string(nil), userArgs...)}
}

// Render replaces every `{{expr}}` occurrence in template with its
// evaluated value, scanning left to right. An expression with no closing
// `}}` is left untouched along with everything after it.
func (e *Engine) Render(template string) (string, error) {
	result := template

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		rest := result[start:]
		end := strings.Index(rest, "}}")
		if end == -1 {
			break
		}
		exprEnd := start + end + 2
		expr := result[start+2 : start+end]

		value, err := e.evaluate(expr)
		if err != nil {
			return "", err
		}

		result = result[:start] + value + result[exprEnd:]
	}

	return result, nil
}

// RenderInline renders template, then splits the result on whitespace —
// used when a single inline string expands to multiple argument tokens.
func (e *Engine) RenderInline(template string) ([]string, error) {
	rendered, err := e.Render(template)
	if err != nil {
		return nil, err
	}
	return strings.Fields(rendered), nil
}

func (e *Engine) evaluate(expr string) (string, error) {
	expr = strings.TrimSpace(expr)

	if expr == "args" {
		return strings.Join(e.userArgs, " "), nil
	}

	if strings.HasPrefix(expr, "args(") && strings.HasSuffix(expr, ")") {
		def := unquote(expr[len("args(") : len(expr)-1])
		if len(e.userArgs) == 0 {
			return def, nil
		}
		return strings.Join(e.userArgs, " "), nil
	}

	if strings.HasPrefix(expr, "env(") && strings.HasSuffix(expr, ")") {
		return e.evaluateEnv(expr)
	}

	if strings.HasPrefix(expr, "if ") {
		return e.evaluateIf(expr)
	}

	if strings.Contains(expr, "()") || strings.HasPrefix(expr, "file_exists(") {
		return e.evaluateFunction(expr)
	}

	return expr, nil
}

func (e *Engine) evaluateEnv(expr string) (string, error) {
	inner := expr[len("env(") : len(expr)-1]

	if strings.Contains(inner, ",") {
		parts := strings.SplitN(inner, ",", 2)
		if len(parts) != 2 {
			return "", shimerr.New(shimerr.ErrTemplate, expr, "invalid env() syntax")
		}
		name := unquote(strings.TrimSpace(parts[0]))
		def := unquote(strings.TrimSpace(parts[1]))
		if v, ok := os.LookupEnv(name); ok {
			return v, nil
		}
		return def, nil
	}

	name := unquote(strings.TrimSpace(inner))
	return os.Getenv(name), nil
}

// evaluateIf handles the single supported conditional shape:
// `if env('VAR') == 'value'`, returning the literal string "true" or
// "false" — composition with surrounding content is the caller's job.
func (e *Engine) evaluateIf(expr string) (string, error) {
	condition := strings.TrimPrefix(expr, "if ")

	if !strings.Contains(condition, "env(") || !strings.Contains(condition, "==") {
		return "false", nil
	}

	eqPos := strings.Index(condition, "==")
	left := strings.TrimSpace(condition[:eqPos])
	right := unquote(strings.TrimSpace(condition[eqPos+2:]))

	if strings.HasPrefix(left, "env(") && strings.HasSuffix(left, ")") {
		value, err := e.evaluateEnv(left)
		if err != nil {
			return "", err
		}
		if value == right {
			return "true", nil
		}
	}

	return "false", nil
}

func (e *Engine) evaluateFunction(expr string) (string, error) {
	switch expr {
	case "platform()":
		return Platform(), nil
	case "arch()":
		return Arch(), nil
	case "exe_ext()":
		return pathresolver.ExeExtension(), nil
	case "home_dir()":
		return HomeDir(), nil
	}

	if strings.HasPrefix(expr, "file_exists(") && strings.HasSuffix(expr, ")") {
		path := unquote(expr[len("file_exists(") : len(expr)-1])
		_, err := os.Stat(path)
		if err == nil {
			return "true", nil
		}
		return "false", nil
	}

	return expr, nil
}

func unquote(s string) string {
	s = strings.Trim(s, "'")
	s = strings.Trim(s, `"`)
	return s
}

// Platform returns the shimexe platform identifier for the running OS.
func Platform() string {
	switch runtime.GOOS {
	case "windows":
		return "windows"
	case "darwin":
		return "macos"
	case "linux":
		return "linux"
	default:
		return runtime.GOOS
	}
}

// Arch returns the shimexe architecture identifier for the running CPU.
func Arch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	default:
		return runtime.GOARCH
	}
}

// HomeDir returns the current user's home directory, or "" if it cannot
// be determined.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.ToSlash(home)
}
