// Package errors provides typed errors with exit codes for flatplay.
//
// # Error Types
//
// FlatplayError is the base error type that wraps an error with an exit code:
//
//	type FlatplayError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess           = 0   // Success
//	ExitGeneralError      = 1   // General/unknown errors
//	ExitManifestError     = 2   // Manifest missing or invalid
//	ExitLockTimeout       = 3   // Instance lock not acquired before the takeover deadline
//	ExitCommandFailed     = 4   // External tool exited non-zero
//	ExitConfigError       = 5   // Settings file invalid
//	ExitMissingDependency = 6   // git, flatpak or flatpak-builder not installed
//	ExitInterrupted       = 130 // SIGINT/SIGTERM received
//
// Interruption is not a failure: callers check IsInterrupted to print a
// distinct message, and GetExitCode maps it to 130.
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
