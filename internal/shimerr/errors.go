// Package shimerr defines the closed set of error kinds shimexe operations
// can fail with, following the sentinel-plus-wrapped-struct pattern the
// rest of this codebase uses for error handling.
package shimerr

import "errors"

// Sentinel errors, one per taxonomy entry in the shim error model.
var (
	ErrIO               = errors.New("io error")
	ErrParse            = errors.New("configuration parse error")
	ErrSerialize        = errors.New("configuration serialize error")
	ErrEnvExpansion     = errors.New("environment variable expansion error")
	ErrConfig           = errors.New("shim configuration error")
	ErrExecutableNotFound = errors.New("executable not found")
	ErrProcessExecution = errors.New("process execution error")
	ErrInvalidShimFile  = errors.New("invalid shim file")
	ErrShimNotFound     = errors.New("shim not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrTemplate         = errors.New("template processing error")
	ErrDownload         = errors.New("download error")
)

// ResourceError wraps a sentinel with the offending resource (a path, URL,
// or variable name) so Error renders a single actionable line.
type ResourceError struct {
	Kind     error
	Resource string
	Detail   string
}

func (e *ResourceError) Error() string {
	if e.Detail != "" {
		return e.Kind.Error() + ": " + e.Resource + ": " + e.Detail
	}
	return e.Kind.Error() + ": " + e.Resource
}

func (e *ResourceError) Unwrap() error {
	return e.Kind
}

// New builds a ResourceError for the given sentinel kind.
func New(kind error, resource string, detail string) error {
	return &ResourceError{Kind: kind, Resource: resource, Detail: detail}
}

// Is* helpers let callers branch on error kind without importing the
// sentinel values directly.

func IsIO(err error) bool                  { return errors.Is(err, ErrIO) }
func IsParse(err error) bool               { return errors.Is(err, ErrParse) }
func IsSerialize(err error) bool           { return errors.Is(err, ErrSerialize) }
func IsEnvExpansion(err error) bool        { return errors.Is(err, ErrEnvExpansion) }
func IsConfig(err error) bool              { return errors.Is(err, ErrConfig) }
func IsExecutableNotFound(err error) bool  { return errors.Is(err, ErrExecutableNotFound) }
func IsProcessExecution(err error) bool    { return errors.Is(err, ErrProcessExecution) }
func IsInvalidShimFile(err error) bool     { return errors.Is(err, ErrInvalidShimFile) }
func IsShimNotFound(err error) bool        { return errors.Is(err, ErrShimNotFound) }
func IsPermissionDenied(err error) bool    { return errors.Is(err, ErrPermissionDenied) }
func IsTemplate(err error) bool            { return errors.Is(err, ErrTemplate) }
func IsDownload(err error) bool            { return errors.Is(err, ErrDownload) }

// ExtractResource returns the resource string carried by a ResourceError, or
// "" if err isn't one.
func ExtractResource(err error) string {
	var rerr *ResourceError
	if errors.As(err, &rerr) {
		return rerr.Resource
	}
	return ""
}
