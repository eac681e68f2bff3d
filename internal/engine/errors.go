package engine

import (
	"errors"
	"fmt"
)

// Code categorizes engine errors. Every failure surfaced by the engine
// carries exactly one code; the code selects the process exit status.
type Code string

const (
	// CodeInvalidDocument indicates a bad protocol tag, missing required
	// field, or bad op. Always fatal, never retried.
	CodeInvalidDocument Code = "INVALID_DOCUMENT"

	// CodePathEscape indicates an absolute or root-escaping path.
	// Surfaced with the invalid-document exit status.
	CodePathEscape Code = "PATH_ESCAPE"

	// CodeAnchorNotFound indicates no hunk anchor resolved in the current
	// file text.
	CodeAnchorNotFound Code = "ANCHOR_NOT_FOUND"

	// CodeConflict indicates a preimage mismatch that is not provably an
	// already-applied no-op, or a rename that would clobber an existing
	// destination.
	CodeConflict Code = "PATCH_CONFLICT"

	// CodeFileNotFound indicates a missing patch target or rename source.
	CodeFileNotFound Code = "FILE_NOT_FOUND"

	// CodeEncoding indicates file bytes that do not decode under the
	// configured encoding. The file has drifted from what the document's
	// generator saw, so this shares the conflict exit status.
	CodeEncoding Code = "ENCODING"

	// CodeIO indicates an environmental failure: permissions, disk full,
	// unexpected filesystem errors. Not retried.
	CodeIO Code = "IO_ERROR"
)

// Exit codes for the process-boundary contract.
const (
	ExitSuccess  = 0 // All changes applied (or already applied)
	ExitInvalid  = 1 // Invalid input or schema
	ExitConflict = 2 // Conflict, anchor not found, or missing file
	ExitIO       = 3 // I/O or permission error
)

// Error is the tagged failure type for all engine operations.
//
// The Transaction Driver folds over these rather than translating them:
// every error propagates unmodified to the boundary, where ExitCode picks
// the matching status.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Path is the change path the error relates to, if any.
	Path string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError creates an Error with a formatted message.
func newError(code Code, path, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}

// wrapIO wraps an OS-level error as CodeIO.
func wrapIO(path string, err error) *Error {
	return &Error{Code: CodeIO, Path: path, Err: err}
}

// ExitCode maps an error to the process exit status.
// nil maps to ExitSuccess; errors without an engine code are treated as
// environmental (ExitIO).
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *Error
	if !errors.As(err, &ee) {
		return ExitIO
	}
	switch ee.Code {
	case CodeInvalidDocument, CodePathEscape:
		return ExitInvalid
	case CodeAnchorNotFound, CodeConflict, CodeFileNotFound, CodeEncoding:
		return ExitConflict
	default:
		return ExitIO
	}
}

// IsConflict returns true for failures the caller can recover from by
// regenerating the document against current file state.
// Uses errors.As to handle wrapped errors.
func IsConflict(err error) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code == CodeConflict || ee.Code == CodeAnchorNotFound
	}
	return false
}

// IsPathEscape returns true if the error is a path-safety rejection.
func IsPathEscape(err error) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code == CodePathEscape
	}
	return false
}
