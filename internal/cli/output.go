package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/pixed/pixed/internal/config"
	"github.com/pixed/pixed/internal/document"
	"github.com/pixed/pixed/internal/harness"
	"github.com/pixed/pixed/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation refused or failed (bad document, out of bounds, failed scenarios)
	ExitCommandError = 2 // Command error (missing file, bad config, bad arguments)
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric     = "E000"
	ErrCodeFormat      = "E001" // malformed PiXd file
	ErrCodeBounds      = "E002" // pixel coordinate outside the canvas
	ErrCodeUnsupported = "E003" // operation the document model refuses
	ErrCodeNotFound    = "E004" // missing file, directory, session or snapshot
	ErrCodeConfig      = "E005" // invalid configuration
	ErrCodeArgs        = "E006" // argument parse failure
	ErrCodeAllocation  = "E007" // canvas too large
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
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
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Classify maps an error from the editor packages to an output code and an
// exit code.
func Classify(err error) (code string, exit int) {
	var allocErr *document.AllocationError
	var dirErr *harness.ScenarioDirNotFoundError
	switch {
	case document.IsFormatError(err):
		return ErrCodeFormat, ExitFailure
	case document.IsOutOfBounds(err):
		return ErrCodeBounds, ExitFailure
	case errors.Is(err, document.ErrUnsupported):
		return ErrCodeUnsupported, ExitFailure
	case errors.As(err, &allocErr):
		return ErrCodeAllocation, ExitFailure
	case config.IsConfigError(err):
		return ErrCodeConfig, ExitCommandError
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, store.ErrNotFound), errors.As(err, &dirErr):
		return ErrCodeNotFound, ExitCommandError
	}
	return ErrCodeGeneric, ExitFailure
}

// OutputFormatter writes command results as text or JSON.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; falls back to Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope for every command.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error half of CLIResponse.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success writes data. Text output prints data with %v, so result types
// implement fmt.Stringer.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error writes an error report.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
func (f *OutputFormatter) Fail(message string, err error) error {
	code, exit := Classify(err)
	_ = f.Error(code, fmt.Sprintf("%s: %v", message, err), nil)
	return WrapExitError(exit, message, err)
}

// VerboseLog writes a diagnostic line when verbose output is on. It goes
// to ErrWriter so JSON output stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
