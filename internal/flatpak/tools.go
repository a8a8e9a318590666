package flatpak

import (
	"context"
	"slices"
	"strings"

	"github.com/flatplay/flatplay/internal/errors"
	"github.com/flatplay/flatplay/internal/logging"
	"github.com/flatplay/flatplay/internal/system"
)

const (
	// SandboxMarker exists when running inside a Flatpak sandbox.
	SandboxMarker = "/.flatpak-info"
	// ContainerMarker exists inside Toolbx and distrobox containers.
	ContainerMarker = "/run/.containerenv"

	builderApp = "org.flatpak.Builder"
)

// Tools runs external commands on the host.
type Tools struct {
	exec system.CommandExecutor
	fs   system.FileSystem
}

// NewTools returns Tools that run commands with exec and detect the
// environment through fs.
func NewTools(exec system.CommandExecutor, fs system.FileSystem) *Tools {
	return &Tools{exec: exec, fs: fs}
}

func (t *Tools) sandboxed() bool {
	return t.fs.Exists(SandboxMarker)
}

func (t *Tools) inContainer() bool {
	return t.fs.Exists(ContainerMarker)
}

// Run runs program in dir in the foreground, forwarding it to the host when
// flatplay itself runs sandboxed.
func (t *Tools) Run(ctx context.Context, dir, program string, args ...string) error {
	if program == "flatpak-builder" && t.inContainer() && !slices.Contains(args, "--disable-rofiles-fuse") {
		logging.Debug("detected container, adding --disable-rofiles-fuse")
		args = append(slices.Clone(args), "--disable-rofiles-fuse")
	}

	program, args = t.wrap(ctx, program, args)

	logging.CommandHeader(program, args)
	return t.exec.Run(ctx, dir, program, args...)
}

func (t *Tools) wrap(ctx context.Context, program string, args []string) (string, []string) {
	if !t.sandboxed() {
		return program, args
	}

	if t.exec.Succeeds(ctx, "host-spawn", "--version") {
		logging.Debug("detected Flatpak sandbox, using host-spawn")
		return "host-spawn", append([]string{program}, args...)
	}

	logging.Debug("detected Flatpak sandbox, using flatpak-spawn")
	wrapped := []string{"--host", "--watch-bus", "--env=TERM=xterm-256color", program}
	return "flatpak-spawn", append(wrapped, args...)
}

// Output runs program and returns its standard output.
func (t *Tools) Output(ctx context.Context, program string, args ...string) ([]byte, error) {
	program, args = t.wrap(ctx, program, args)
	return t.exec.Execute(ctx, program, args...)
}

// FlatpakBuilder runs flatpak-builder, preferring the native binary and
// falling back to the org.flatpak.Builder application.
func (t *Tools) FlatpakBuilder(ctx context.Context, dir string, args ...string) error {
	switch {
	case t.probe(ctx, "flatpak-builder", "--version"):
		logging.Debug("using native flatpak-builder")
		return t.Run(ctx, dir, "flatpak-builder", args...)
	case t.probe(ctx, "flatpak", "run", builderApp, "--version"):
		logging.Debug("using " + builderApp + " via flatpak run")
		return t.Run(ctx, dir, "flatpak", append([]string{"run", builderApp}, args...)...)
	default:
		return errors.MissingDependency("flatpak-builder or " + builderApp)
	}
}

func (t *Tools) probe(ctx context.Context, program string, args ...string) bool {
	program, args = t.wrap(ctx, program, args)
	return t.exec.Succeeds(ctx, program, args...)
}

// CheckDependencies verifies that git, flatpak and a flatpak-builder are
// available.
func (t *Tools) CheckDependencies(ctx context.Context) error {
	var missing []string

	for _, program := range []string{"git", "flatpak"} {
		if !t.probe(ctx, program, "--version") {
			missing = append(missing, program)
		}
	}

	if !t.probe(ctx, "flatpak-builder", "--version") && !t.probe(ctx, "flatpak", "run", builderApp, "--version") {
		missing = append(missing, "flatpak-builder or "+builderApp)
	}

	if len(missing) > 0 {
		return errors.MissingDependency(strings.Join(missing, ", "))
	}
	return nil
}
