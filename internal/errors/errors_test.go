package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestFlatplayError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *FlatplayError
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     New(ExitGeneralError, "something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "with cause",
			err:     Wrap(ExitGeneralError, "operation failed", fmt.Errorf("underlying error")),
			wantMsg: "operation failed: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestFlatplayError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitGeneralError, "wrapped", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	errNoCause := New(ExitGeneralError, "no cause")
	if unwrapped := errNoCause.Unwrap(); unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestLockTimeout(t *testing.T) {
	err := LockTimeout(5 * time.Second)

	if err.Code != ExitLockTimeout {
		t.Errorf("Code = %d, want %d", err.Code, ExitLockTimeout)
	}
	if !strings.Contains(err.Message, "5s") {
		t.Errorf("Message = %q, should name the timeout", err.Message)
	}
}

func TestCommandFailed(t *testing.T) {
	err := CommandFailed("flatpak-builder", 2)

	if err.Code != ExitCommandFailed {
		t.Errorf("Code = %d, want %d", err.Code, ExitCommandFailed)
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatal("errors.As should find CommandError")
	}
	if cmdErr.Program != "flatpak-builder" || cmdErr.ExitCode != 2 {
		t.Errorf("CommandError = %+v", cmdErr)
	}
	if got := err.Error(); got != "command failed: flatpak-builder exited with code 2" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsInterrupted(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"interrupted", Interrupted(), true},
		{"wrapped interrupted", fmt.Errorf("build: %w", Interrupted()), true},
		{"command failed", CommandFailed("make", 2), false},
		{"plain error", fmt.Errorf("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInterrupted(tt.err); got != tt.want {
				t.Errorf("IsInterrupted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "FlatplayError",
			err:      NoManifest(),
			wantCode: ExitManifestError,
		},
		{
			name:     "wrapped FlatplayError",
			err:      fmt.Errorf("outer: %w", LockTimeout(time.Second)),
			wantCode: ExitLockTimeout,
		},
		{
			name:     "interrupted",
			err:      Interrupted(),
			wantCode: ExitInterrupted,
		},
		{
			name:     "regular error",
			err:      fmt.Errorf("some error"),
			wantCode: ExitGeneralError,
		},
		{
			name:     "nil error",
			err:      nil,
			wantCode: ExitGeneralError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.wantCode {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.wantCode)
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	root := fmt.Errorf("root cause")
	middle := ConfigError("config error", root)
	outer := fmt.Errorf("operation failed: %w", middle)

	if !Is(outer, root) {
		t.Error("Is should find root cause")
	}

	var flatplayErr *FlatplayError
	if !As(outer, &flatplayErr) {
		t.Fatal("As should find FlatplayError")
	}
	if flatplayErr.Code != ExitConfigError {
		t.Errorf("Code = %d, want %d", flatplayErr.Code, ExitConfigError)
	}
}
