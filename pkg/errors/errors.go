// Package errors defines the stable error codes surfaced by imgosint.
package errors

import (
	"errors"
	"fmt"
	"io"
)

// Code is a stable error code string.
type Code string

const (
	EUsage    Code = "E_USAGE"
	EInternal Code = "E_INTERNAL"

	// Input errors
	EFileNotFound     Code = "E_FILE_NOT_FOUND"     // target path does not exist
	EFileUnreadable   Code = "E_FILE_UNREADABLE"    // target exists but cannot be opened or is not a regular file
	EWordlistNotFound Code = "E_WORDLIST_NOT_FOUND" // wordlist path does not resolve to a regular file
	EDownloadFailed   Code = "E_DOWNLOAD_FAILED"    // URL target could not be fetched

	// Tooling and setup
	EToolUnavailable Code = "E_TOOL_UNAVAILABLE"
	EConfigInvalid   Code = "E_CONFIG_INVALID"

	// Aggregate analysis failure (every sub-analysis errored)
	EAnalysisFailed Code = "E_ANALYSIS_FAILED"
)

// AppError is the standard error type for imgosint.
type AppError struct {
	Code  Code
	Msg   string
	Cause error
}

// Error returns the stable error format: "CODE: message".
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError with the given code and message.
func New(code Code, msg string) error {
	return &AppError{Code: code, Msg: msg}
}

// Newf is New with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &AppError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a new AppError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &AppError{Code: code, Msg: msg, Cause: err}
}

// GetCode extracts the error code from an error, or empty string if not an AppError.
func GetCode(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// ExitCode returns the process exit code for an error.
// Returns 0 if err is nil, 2 for E_USAGE, 1 for all other errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if GetCode(err) == EUsage {
		return 2
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
//
// With verbose set, the cause chain is appended.
func Print(w io.Writer, err error, verbose bool) {
	if err == nil {
		return
	}
	var ae *AppError
	if !errors.As(err, &ae) {
		_, _ = fmt.Fprintln(w, err.Error())
		return
	}
	_, _ = fmt.Fprintf(w, "error_code: %s\n", ae.Code)
	_, _ = fmt.Fprintln(w, ae.Msg)
	if verbose && ae.Cause != nil {
		_, _ = fmt.Fprintf(w, "cause: %v\n", ae.Cause)
	}
}
