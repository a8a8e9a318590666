package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/flatplay/flatplay/internal/errors"
)

// sigintExitCode is what shells and most tools report after Ctrl+C (128 + SIGINT).
const sigintExitCode = 130

// osExecutor implements CommandExecutor using real OS operations.
type osExecutor struct{}

func (e *osExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

func (e *osExecutor) Succeeds(ctx context.Context, name string, args ...string) bool {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Run() == nil
}

// Run does not use exec.CommandContext: the child shares our process group
// and receives SIGINT/SIGTERM itself, so it must not be SIGKILLed on cancel.
func (e *osExecutor) Run(ctx context.Context, dir string, name string, args ...string) error {
	if ctx.Err() != nil {
		return errors.Interrupted()
	}

	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("failed to run %s: %w", name, err)
	}

	code := exitErr.ExitCode()
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		code = 128 + int(status.Signal())
	}
	if code == sigintExitCode || ctx.Err() != nil {
		return errors.Interrupted()
	}
	return errors.CommandFailed(name, code)
}
