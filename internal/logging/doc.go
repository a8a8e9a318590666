// Package logging provides logging utilities for flatplay.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("instance lock acquired", "path", path, "pgid", pgid)
//	logging.Warn("state file is malformed", "path", path)
//
// # User Output
//
// User-facing messages are styled with lipgloss and prefixed with a status
// indicator:
//
//	logging.UserInfo("Updating dependencies...")
//	logging.UserSuccess("Stopped flatplay process group (PGID: %d)", pgid)
//	logging.UserWarning("Manifest changed, resetting build state...")
//	logging.UserError("%v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: Stdout
//   - UserWarning, UserError, CommandHeader: Stderr
//
// CommandHeader prints the shell-quoted command line of every external tool
// invocation followed by a rule, so tool output is visually separated.
package logging
