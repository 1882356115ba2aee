// Package pathresolver expands ${VAR}/${VAR:default}/$VAR references in
// shim configuration strings and exposes the platform-conditional values
// (executable extension, path separator, well-known directories) the rest
// of shimexe builds on.
package pathresolver

import (
	"os"
	"strings"

	"github.com/shimexe/shimexe/internal/shimerr"
)

// BuiltinVars returns the fixed set of variables every expansion can see
// even with no custom environment supplied: EXE_EXT, PATH_SEP, and, when
// determinable, HOME, CONFIG_DIR and DATA_DIR.
func BuiltinVars() map[string]string {
	vars := map[string]string{
		"EXE_EXT":  ExeExtension(),
		"PATH_SEP": PathSeparator(),
	}

	if home, ok := homeDir(); ok {
		vars["HOME"] = home
	}
	if cfg, ok := configDir(); ok {
		vars["CONFIG_DIR"] = cfg
	}
	if data, ok := dataDir(); ok {
		vars["DATA_DIR"] = data
	}

	return vars
}

// MergeEnv combines the built-in variables, the current process
// environment, and a caller-supplied override map, with precedence
// custom > process env > builtins.
func MergeEnv(custom map[string]string) map[string]string {
	merged := BuiltinVars()

	for _, kv := range os.Environ() {
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			merged[kv[:idx]] = kv[idx+1:]
		}
	}

	for k, v := range custom {
		merged[k] = v
	}

	return merged
}

// Expand replaces ${NAME}, ${NAME:default}, and $NAME references in input
// using the process environment. ${NAME}/${NAME:default} forms are
// resolved left-to-right first (nesting is not supported); any remaining
// $NAME forms are then expanded via os.Expand. A bare ${NAME} (or $NAME)
// with no default and an unset NAME fails with ErrEnvExpansion.
func Expand(input string) (string, error) {
	braced, err := expandBraced(input)
	if err != nil {
		return "", err
	}

	var expandErr error
	result := os.Expand(braced, func(name string) string {
		val, ok := os.LookupEnv(name)
		if !ok && expandErr == nil {
			expandErr = shimerr.New(shimerr.ErrEnvExpansion, name, "environment variable not found")
		}
		return val
	})
	if expandErr != nil {
		return "", expandErr
	}

	return result, nil
}

// expandBraced handles the ${NAME} and ${NAME:default} forms, scanning
// left to right. Nested ${...} inside a default value is not supported;
// the default is taken literally up to the matching '}'.
func expandBraced(input string) (string, error) {
	var b strings.Builder
	rest := input

	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			b.WriteString(rest)
			break
		}

		end := strings.IndexByte(rest[start:], '}')
		if end < 0 {
			return "", shimerr.New(shimerr.ErrEnvExpansion, rest[start:], "unclosed ${")
		}
		end += start

		b.WriteString(rest[:start])

		expr := rest[start+2 : end]
		name, def, hasDefault := strings.Cut(expr, ":")

		if val, ok := os.LookupEnv(name); ok {
			b.WriteString(val)
		} else if hasDefault {
			b.WriteString(def)
		} else {
			return "", shimerr.New(shimerr.ErrEnvExpansion, name, "environment variable not found")
		}

		rest = rest[end+1:]
	}

	return b.String(), nil
}
