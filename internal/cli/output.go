package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/lepworks/lep/internal/engine"
)

// ExitError represents an error with a specific exit code.
// Commands return these so main can select the process status from the
// engine's contract: 0 success, 1 invalid input, 2 conflict, 3 I/O.
type ExitError struct {
	Code    int    // Exit code (engine.ExitInvalid, engine.ExitConflict, engine.ExitIO)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		if e.Message != "" {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Err.Error()
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Engine errors carry their own mapping; anything else unexplained is
// treated as environmental.
func GetExitCode(err error) int {
	if err == nil {
		return engine.ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return engine.ExitCode(err)
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for diagnostics (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status        string    `json:"status"` // "ok" or "error"
	Data          any       `json:"data,omitempty"`
	Error         *CLIError `json:"error,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`    // engine/document error code
	Message string `json:"message"` // human-readable message
	Exit    int    `json:"exit"`    // process exit status
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(txID string, data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:        "ok",
			Data:          data,
			TransactionID: txID,
		})
	}
	if s, ok := data.(string); ok && s != "" {
		fmt.Fprintln(f.Writer, s)
	}
	return nil
}

// Failure outputs an error in the configured format. Hard failures render
// as "[tag] message" on the error stream in text mode.
func (f *OutputFormatter) Failure(code, message string, exit int) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Exit: exit},
		})
	}
	fmt.Fprintf(f.GetErrWriter(), "[%s] %s\n", code, message)
	return nil
}

// GetErrWriter returns the appropriate writer for diagnostic output.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
