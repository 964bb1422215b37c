// Package errors defines the error taxonomy and exit-code mapping for
// flakeplow. Registry and validation failures abort the invoking command;
// per-project update failures are recorded as data and never abort a batch.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for scripting integration.
// These codes allow scripts to distinguish between different failure modes.
const (
	// ExitSuccess indicates all operations completed successfully.
	// An empty registry also exits with this code.
	ExitSuccess = 0

	// ExitPartialFailure indicates a mixed batch: some projects updated
	// successfully while others failed or were skipped.
	ExitPartialFailure = 1

	// ExitFailure indicates every dispatched project failed.
	ExitFailure = 2

	// ExitConfigError indicates a registry, validation, or persistence
	// error. The command could not proceed against reliable state.
	ExitConfigError = 3
)

// Registry and validation sentinel errors. Commands wrap these with path
// context via fmt.Errorf("%w: ...") so errors.Is still matches.
var (
	// ErrAlreadyTracked is returned by add when the canonical path is
	// already present in the registry.
	ErrAlreadyTracked = errors.New("project is already tracked")

	// ErrNotTracked is returned by remove, enable, disable, and info when
	// no registry entry matches the given path or label.
	ErrNotTracked = errors.New("project is not tracked")

	// ErrCorruptedState is returned by load when the registry file exists
	// but cannot be parsed into the expected structure.
	ErrCorruptedState = errors.New("registry state is corrupted")

	// ErrNotADirectory is returned by validation when the resolved path
	// is not a directory.
	ErrNotADirectory = errors.New("path is not a directory")

	// ErrNotAProject is returned by validation when the directory does
	// not contain a flake.nix descriptor.
	ErrNotAProject = errors.New("directory does not contain flake.nix")

	// ErrDuplicateLabel is returned by add when the requested label is
	// already used by another entry.
	ErrDuplicateLabel = errors.New("label is already in use")
)

// ExitError represents a command termination with a specific exit code.
//
// Use this error when a command needs to exit with a non-zero status
// while providing context about what went wrong.
//
// Fields:
//   - Code: Exit code (use constants ExitSuccess, ExitPartialFailure, ExitFailure, ExitConfigError)
//   - Message: Human-readable error message
//   - Err: Underlying error that caused this exit, may be nil
type ExitError struct {
	// Code is the exit code for the command.
	// Standard codes: 0=success, 1=partial failure, 2=failure, 3=config error.
	Code int

	// Message is a human-readable description of why the command failed.
	Message string

	// Err is the underlying error that caused this exit.
	// May be nil if no underlying error exists.
	Err error
}

// Error implements the error interface.
//
// Returns the Message field if set, otherwise returns the underlying error's
// message, or a default message with the exit code.
//
// Returns:
//   - string: The error message
func (e *ExitError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

// Unwrap returns the underlying error for errors.Is/As support.
//
// Returns:
//   - error: The underlying error, or nil if none exists
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and underlying error.
//
// Parameters:
//   - code: Exit code (use ExitSuccess, ExitPartialFailure, ExitFailure, ExitConfigError)
//   - err: Underlying error, may be nil
//
// Returns:
//   - *ExitError: New exit error
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// NewExitErrorf creates an ExitError with the given code and formatted message.
//
// Parameters:
//   - code: Exit code
//   - format: Printf-style format string
//   - args: Format arguments
//
// Returns:
//   - *ExitError: New exit error with formatted message
func NewExitErrorf(code int, format string, args ...interface{}) *ExitError {
	return &ExitError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// GetExitCode extracts the exit code from an error.
//
// If err is nil, returns ExitSuccess.
// If err is an ExitError, returns its code.
// If err wraps one of the registry/validation sentinels, returns ExitConfigError.
// Otherwise returns ExitFailure.
//
// Parameters:
//   - err: The error to extract code from
//
// Returns:
//   - int: Exit code
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	for _, sentinel := range []error{
		ErrAlreadyTracked, ErrNotTracked, ErrCorruptedState,
		ErrNotADirectory, ErrNotAProject, ErrDuplicateLabel,
	} {
		if errors.Is(err, sentinel) {
			return ExitConfigError
		}
	}

	return ExitFailure
}

// IsExitError checks if err is an ExitError and returns it.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *ExitError: The ExitError if err is one, nil otherwise
//   - bool: true if err is an ExitError
func IsExitError(err error) (*ExitError, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr, true
	}
	return nil, false
}

// PartialSuccessError indicates that some projects updated successfully
// while others failed or were skipped.
//
// The update command wraps this in an ExitError with ExitPartialFailure.
//
// Fields:
//   - Succeeded: Count of projects that updated successfully
//   - Failed: Count of projects that failed
//   - Skipped: Count of projects that were never dispatched
type PartialSuccessError struct {
	// Succeeded is the number of projects that updated successfully.
	Succeeded int

	// Failed is the number of projects that failed.
	Failed int

	// Skipped is the number of projects that were skipped.
	Skipped int
}

// Error implements the error interface.
//
// Returns a summary in the format "X succeeded, Y failed, Z skipped".
//
// Returns:
//   - string: Summary of per-project outcome counts
func (e *PartialSuccessError) Error() string {
	return fmt.Sprintf("%d succeeded, %d failed, %d skipped", e.Succeeded, e.Failed, e.Skipped)
}

// NewPartialSuccessError creates a PartialSuccessError with the given counts.
//
// Parameters:
//   - succeeded: Number of projects that updated successfully
//   - failed: Number of projects that failed
//   - skipped: Number of projects that were skipped
//
// Returns:
//   - *PartialSuccessError: New partial success error
func NewPartialSuccessError(succeeded, failed, skipped int) *PartialSuccessError {
	return &PartialSuccessError{
		Succeeded: succeeded,
		Failed:    failed,
		Skipped:   skipped,
	}
}

// IsPartialSuccess checks if err is a PartialSuccessError and returns it.
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - *PartialSuccessError: The PartialSuccessError if err is one, nil otherwise
//   - bool: true if err is a PartialSuccessError
func IsPartialSuccess(err error) (*PartialSuccessError, bool) {
	var pse *PartialSuccessError
	if errors.As(err, &pse) {
		return pse, true
	}
	return nil, false
}
