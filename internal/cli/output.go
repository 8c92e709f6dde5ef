package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // input matched, checks passed
	ExitFailure      = 1 // no match, failed verification, grammar problems
	ExitCommandError = 2 // bad arguments, unreadable files, unknown grammars
	ExitFatal        = 3 // the parse raised a fatal error
)

// ExitError is an error carrying the process exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
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

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the code carried by err, or ExitCommandError for any
// other error.
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

// Response is the envelope of --format json output.
type Response struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *ErrorOut `json:"error,omitempty"`
}

type ErrorOut struct {
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Formatter writes command results as text or json.
type Formatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
}

func (f *Formatter) json(r Response) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Result writes data. In text mode text renders it; status is "ok" or
// "fail".
func (f *Formatter) Result(status string, data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return f.json(Response{Status: status, Data: data})
	}
	text(f.Writer)
	return nil
}

// Error writes a command error and returns it as an ExitError.
func (f *Formatter) Error(code int, message string, err error) error {
	if f.Format == "json" {
		out := &ErrorOut{Message: message}
		if err != nil {
			out.Details = err.Error()
		}
		_ = f.json(Response{Status: "error", Error: out})
	} else {
		w := f.ErrWriter
		if w == nil {
			w = f.Writer
		}
		if err != nil {
			fmt.Fprintf(w, "error: %s: %v\n", message, err)
		} else {
			fmt.Fprintf(w, "error: %s\n", message)
		}
	}
	return WrapExitError(code, message, err)
}
