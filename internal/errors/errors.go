// Package errors provides standardized domain errors with codes for the MailCanvas engine.
//
// Usage:
//
//	// In services - return typed errors
//	if surface.Closed() {
//	    return errors.SurfaceUnavailable("surface torn down during personalization")
//	}
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrTemplateMarkersMissing) {
//	    // fall back to building the design from scratch
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the engine.
const (
	// CodeSurfaceUnavailable means the design surface was torn down while an
	// operation was in flight. Fatal to the current pass; recoverable by
	// starting a new session.
	CodeSurfaceUnavailable Code = "SURFACE_UNAVAILABLE"

	// CodeTemplateMarkersMissing means a loaded template restored zero semantic
	// markers and cannot be personalized. Fatal to the template-load path.
	CodeTemplateMarkersMissing Code = "TEMPLATE_MARKERS_MISSING"

	// CodeAssetFetchFailed means one image could not be fetched or decoded.
	// Local to a single element; the rest of the pass continues.
	CodeAssetFetchFailed Code = "ASSET_FETCH_FAILED"

	// CodeMappingIndexMismatch means a mapping table entry pointed past the end
	// of the document's element list. Surfaced as a warning count, not a failure.
	CodeMappingIndexMismatch Code = "MAPPING_INDEX_MISMATCH"

	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeValidation Code = "VALIDATION"
	CodeInternal   Code = "INTERNAL"
)

// Fatal reports whether an error with this code aborts the session-level
// operation. Element-local failures and warnings are non-fatal.
func (c Code) Fatal() bool {
	switch c {
	case CodeAssetFetchFailed, CodeMappingIndexMismatch:
		return false
	default:
		return true
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Fatal reports whether this error aborts the session-level operation.
func (e *Error) Fatal() bool {
	return e.Code.Fatal()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrSurfaceUnavailable     = &Error{Code: CodeSurfaceUnavailable, Message: "design surface unavailable"}
	ErrTemplateMarkersMissing = &Error{Code: CodeTemplateMarkersMissing, Message: "template has no semantic markers"}
	ErrAssetFetchFailed       = &Error{Code: CodeAssetFetchFailed, Message: "asset fetch failed"}
	ErrMappingIndexMismatch   = &Error{Code: CodeMappingIndexMismatch, Message: "mapping table index out of range"}
	ErrNotFound               = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict               = &Error{Code: CodeConflict, Message: "conflict"}
	ErrValidation             = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal               = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// SurfaceUnavailable creates a surface unavailable error.
func SurfaceUnavailable(msg string) *Error {
	return &Error{Code: CodeSurfaceUnavailable, Message: msg}
}

// TemplateMarkersMissing creates a markers missing error.
func TemplateMarkersMissing(msg string) *Error {
	return &Error{Code: CodeTemplateMarkersMissing, Message: msg}
}

// AssetFetchFailed creates an asset fetch error.
func AssetFetchFailed(msg string) *Error {
	return &Error{Code: CodeAssetFetchFailed, Message: msg}
}

// AssetFetchFailedf creates an asset fetch error with formatted message.
func AssetFetchFailedf(format string, args ...any) *Error {
	return &Error{Code: CodeAssetFetchFailed, Message: fmt.Sprintf(format, args...)}
}

// MappingIndexMismatchf creates a mapping mismatch warning with formatted message.
func MappingIndexMismatchf(format string, args ...any) *Error {
	return &Error{Code: CodeMappingIndexMismatch, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
