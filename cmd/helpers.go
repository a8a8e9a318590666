package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flatplay/flatplay/internal/app"
	"github.com/flatplay/flatplay/internal/config"
	"github.com/flatplay/flatplay/internal/errors"
	"github.com/flatplay/flatplay/internal/flatpak"
	"github.com/flatplay/flatplay/internal/instance"
	"github.com/flatplay/flatplay/internal/logging"
	"github.com/flatplay/flatplay/internal/state"
)

// sessionOptions tune how a session is opened.
type sessionOptions struct {
	// allowNoManifest lets the session start without any manifest.
	allowNoManifest bool
}

// projectSettings loads the settings of dirs and applies flag overrides.
func projectSettings(a *app.App, dirs *config.BuildDirs) (*config.Settings, error) {
	loaded, err := a.LoadSettings(dirs)
	if err != nil {
		return nil, err
	}

	settings := *loaded
	if takeoverTimeout > 0 {
		settings.Takeover.Timeout = config.Duration{Duration: takeoverTimeout}
	}
	if takeoverPoll > 0 {
		settings.Takeover.PollInterval = config.Duration{Duration: takeoverPoll}
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.ConfigError("invalid takeover flags", err)
	}
	return &settings, nil
}

// withSession runs fn while holding the project's instance lock. The lock
// is released on every return path, including interruption.
func withSession(cmd *cobra.Command, opts sessionOptions, fn func(ctx context.Context, m *flatpak.Manager) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.Default
	dirs := a.ProjectDirs(ctx)

	settings, err := projectSettings(a, dirs)
	if err != nil {
		return err
	}

	pgid, err := a.GroupLeader()
	if err != nil {
		return errors.LockFailed(err)
	}
	logging.Debug("session started", "root", dirs.Base, "pgid", pgid)

	lock, err := a.Locker(dirs, settings, instance.WithOwnGroup(pgid)).AcquireOrTakeover(ctx, pgid)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logging.Warn("failed to release instance lock", "error", err)
		}
	}()

	tools := flatpak.NewTools(a.Executor, a.FS)
	if err := tools.CheckDependencies(ctx); err != nil {
		return err
	}

	st, err := state.Load(dirs, a.FS)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		workDir = dirs.Base
	}

	m, err := flatpak.NewManager(flatpak.Config{
		Dirs:            dirs,
		State:           st,
		Settings:        settings,
		Executor:        a.Executor,
		FS:              a.FS,
		Tools:           tools,
		WorkDir:         workDir,
		AllowNoManifest: opts.allowNoManifest,
	})
	if err != nil {
		return err
	}

	if err := fn(ctx, m); err != nil {
		return err
	}
	// A signal may arrive after the last checkpoint, while the child is
	// already exiting cleanly.
	if ctx.Err() != nil {
		return errors.Interrupted()
	}
	return nil
}

// managerCommand adapts a Manager operation into a cobra RunE.
func managerCommand(op func(m *flatpak.Manager, ctx context.Context) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, sessionOptions{}, func(ctx context.Context, m *flatpak.Manager) error {
			return op(m, ctx)
		})
	}
}
