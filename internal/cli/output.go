package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // A step or store operation failed
	ExitCommandError = 2 // Configuration or connection error (missing URI, unreachable store, etc.)
)

// Error codes carried in JSON error responses.
const (
	CodeConfig  = "E001" // configuration missing or unreadable
	CodeConnect = "E002" // store could not be opened
	CodeStep    = "E003" // a step or store operation failed
	CodeUsage   = "E004" // invalid flags
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
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

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure (1) if the error is not an ExitError.
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

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for error output (defaults to Writer)
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E002", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// StepResult is the JSON payload of one reported step.
type StepResult struct {
	Step   string `json:"step"`
	Result any    `json:"result"`
}

// Report prints one step's result. Text mode prints the title followed by
// the result as indented JSON; JSON mode prints one CLIResponse line.
func (f *OutputFormatter) Report(title string, result any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   StepResult{Step: title, Result: result},
		})
	}

	indented, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %q: %w", title, err)
	}
	_, err = fmt.Fprintf(f.Writer, "%s:\n%s\n", title, indented)
	return err
}

// Error outputs an error in the configured format.
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

	// Human-readable error goes to the error writer
	w := f.GetErrWriter()
	if _, err := fmt.Fprintf(w, "Error [%s]: %s\n", code, message); err != nil {
		return err
	}
	if details != nil {
		_, err := fmt.Fprintf(w, "Details: %v\n", details)
		return err
	}
	return nil
}

// GetErrWriter returns the appropriate writer for error output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// fail reports err through the formatter and returns it as an ExitError.
// Every ExitError a command returns has already been reported.
func fail(f *OutputFormatter, exitCode int, code, message string, err error) error {
	var details any
	if err != nil {
		details = err.Error()
	}
	_ = f.Error(code, message, details)
	return WrapExitError(exitCode, message, err)
}

// newFormatter builds the formatter for cmd from the global flags.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}
}
