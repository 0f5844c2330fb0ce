package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/medstore/internal/catalog"
	"github.com/roach88/medstore/internal/medicine"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Domain failure (not found, duplicate, invalid record or catalog)
	ExitCommandError = 2 // Command error (bad flags, config, storage failure)
)

// Error codes reported in CLIError.Code.
const (
	CodeNotFound   = "E_NOT_FOUND"
	CodeDuplicate  = "E_DUPLICATE"
	CodeValidation = "E_VALIDATION"
	CodeCatalog    = "E_CATALOG"
	CodeStorage    = "E_STORAGE"
	CodeSchema     = "E_SCHEMA"
	CodeConfig     = "E_CONFIG"
	CodeCommand    = "E_COMMAND"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is true once the error has been written through an
	// OutputFormatter, so main must not print it again.
	Reported bool
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
// Returns ExitSuccess for nil and ExitCommandError if the error is not an
// ExitError (cobra flag and argument errors).
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// IsReported reports whether err was already written to the user.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// classify maps an error to its exit code and CLIError code.
func classify(err error) (int, string) {
	var (
		loadErr *catalog.LoadError
		exitErr *ExitError
		cfgErr  *configError
	)
	switch {
	case errors.As(err, &loadErr):
		return ExitFailure, CodeCatalog
	case medicine.IsNotFound(err):
		return ExitFailure, CodeNotFound
	case medicine.IsDuplicateKey(err):
		return ExitFailure, CodeDuplicate
	case medicine.IsValidation(err):
		return ExitFailure, CodeValidation
	case medicine.IsSchema(err):
		return ExitCommandError, CodeSchema
	case medicine.IsStorage(err):
		return ExitCommandError, CodeStorage
	case errors.As(err, &cfgErr):
		return ExitCommandError, CodeConfig
	case errors.As(err, &exitErr):
		return exitErr.Code, CodeCommand
	default:
		return ExitCommandError, CodeCommand
	}
}

// errorDetails extracts structured context for the JSON error envelope.
func errorDetails(err error) any {
	var (
		loadErr *catalog.LoadError
		ve      *medicine.ValidationError
	)
	switch {
	case errors.As(err, &loadErr):
		return map[string]string{"reason": loadErr.Code, "path": loadErr.Path}
	case errors.As(err, &ve) && ve.Field != "":
		return map[string]string{"field": ve.Field}
	default:
		return nil
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
	TraceID   string
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`             // "ok" or "error"
	Data    any       `json:"data,omitempty"`     // success payload
	Error   *CLIError `json:"error,omitempty"`    // error details
	TraceID string    `json:"trace_id,omitempty"` // invocation trace id
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E_NOT_FOUND", "E_DUPLICATE", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// In text mode text renders data; a nil text prints data with fmt.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status:  "ok",
			Data:    data,
			TraceID: f.TraceID,
		})
	}

	// Human-readable text output
	if text == nil {
		fmt.Fprintln(f.Writer, data)
		return nil
	}
	text(f.Writer)
	return nil
}

// Error outputs an error in the configured format.
// JSON errors go to Writer so the envelope is always on stdout; text errors
// go to the diagnostic writer.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			TraceID: f.TraceID,
		})
	}

	// Human-readable error
	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	if f.Verbose && f.TraceID != "" {
		fmt.Fprintf(w, "Trace: %s\n", f.TraceID)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
func (f *OutputFormatter) Fail(err error) error {
	code, errCode := classify(err)
	if writeErr := f.Error(errCode, err.Error(), errorDetails(err)); writeErr != nil {
		return WrapExitError(ExitCommandError, "failed to write output", writeErr)
	}
	return &ExitError{Code: code, Message: errCode, Err: err, Reported: true}
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}
