package errors

import (
	"errors"
	"fmt"
	"time"
)

// Exit codes for flatplay
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitManifestError     = 2
	ExitLockTimeout       = 3
	ExitCommandFailed     = 4
	ExitConfigError       = 5
	ExitMissingDependency = 6
	ExitInterrupted       = 130
)

// FlatplayError is the base error type for flatplay
type FlatplayError struct {
	Code    int
	Message string
	Cause   error
}

func (e *FlatplayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *FlatplayError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *FlatplayError) ExitCode() int {
	return e.Code
}

// New creates a new FlatplayError
func New(code int, message string) *FlatplayError {
	return &FlatplayError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a FlatplayError
func Wrap(code int, message string, cause error) *FlatplayError {
	return &FlatplayError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CommandError is returned when an external program exits non-zero.
type CommandError struct {
	Program  string
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Program, e.ExitCode)
}

// Common error constructors

// LockTimeout returns an error for an instance lock that could not be taken over in time
func LockTimeout(wait time.Duration) *FlatplayError {
	return New(ExitLockTimeout, fmt.Sprintf("could not acquire flatplay instance lock within %s", wait))
}

// LockFailed returns an error for a locking failure other than contention
func LockFailed(cause error) *FlatplayError {
	return Wrap(ExitGeneralError, "failed to acquire instance lock", cause)
}

// CommandFailed returns an error for an external program that exited non-zero
func CommandFailed(program string, code int) *FlatplayError {
	return Wrap(ExitCommandFailed, "command failed", &CommandError{Program: program, ExitCode: code})
}

// Interrupted returns the error reported when the session was cancelled by a signal
func Interrupted() *FlatplayError {
	return New(ExitInterrupted, "command interrupted")
}

// ManifestError returns an error for manifest loading or selection
func ManifestError(message string, cause error) *FlatplayError {
	return Wrap(ExitManifestError, message, cause)
}

// NoManifest returns an error when no manifest could be found or selected
func NoManifest() *FlatplayError {
	return New(ExitManifestError, "no manifest found")
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *FlatplayError {
	return Wrap(ExitConfigError, message, cause)
}

// MissingDependency returns an error listing host tools that are not installed
func MissingDependency(names string) *FlatplayError {
	return New(ExitMissingDependency, fmt.Sprintf("missing required dependencies: %s", names))
}

// StateError returns an error for build state persistence
func StateError(op string, cause error) *FlatplayError {
	return Wrap(ExitGeneralError, fmt.Sprintf("build state %s failed", op), cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *FlatplayError {
	return New(ExitGeneralError, message)
}

// IsInterrupted reports whether err (or anything it wraps) is an interruption
func IsInterrupted(err error) bool {
	var flatplayErr *FlatplayError
	if errors.As(err, &flatplayErr) {
		return flatplayErr.Code == ExitInterrupted
	}
	return false
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var flatplayErr *FlatplayError
	if errors.As(err, &flatplayErr) {
		return flatplayErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
