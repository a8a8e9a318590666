package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/flatplay/flatplay/internal/config"
	"github.com/flatplay/flatplay/internal/errors"
	"github.com/flatplay/flatplay/internal/instance"
	"github.com/flatplay/flatplay/internal/logging"
	"github.com/flatplay/flatplay/internal/process"
	"github.com/flatplay/flatplay/internal/system"
)

// App holds the application dependencies
type App struct {
	// Dirs is the project layout; resolved from the git toplevel when nil.
	Dirs *config.BuildDirs

	// Settings overrides the settings files when set.
	Settings *config.Settings

	Executor system.CommandExecutor
	FS       system.FileSystem

	// Oracle and Signaler back the instance lock.
	Oracle   process.StartTimeReader
	Signaler process.Signaler

	// GroupLeader puts the session into its own process group.
	GroupLeader func() (uint32, error)
}

// Option is a function that configures the App
type Option func(*App)

// WithDirs sets a fixed project layout
func WithDirs(dirs *config.BuildDirs) Option {
	return func(a *App) {
		a.Dirs = dirs
	}
}

// WithSettings sets settings instead of reading settings files
func WithSettings(settings *config.Settings) Option {
	return func(a *App) {
		a.Settings = settings
	}
}

// WithExecutor sets a custom command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = exec
	}
}

// WithFS sets a custom file system
func WithFS(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithOracle sets the process start time source
func WithOracle(oracle process.StartTimeReader) Option {
	return func(a *App) {
		a.Oracle = oracle
	}
}

// WithSignaler sets how previous sessions are signalled
func WithSignaler(signaler process.Signaler) Option {
	return func(a *App) {
		a.Signaler = signaler
	}
}

// WithGroupLeader sets how the session obtains its process group
func WithGroupLeader(fn func() (uint32, error)) Option {
	return func(a *App) {
		a.GroupLeader = fn
	}
}

// New creates a new App with the given options.
func New(opts ...Option) *App {
	app := &App{
		Executor:    system.DefaultExecutor(),
		FS:          system.DefaultFS(),
		Oracle:      process.NewProcFS(),
		Signaler:    process.GroupSignaler{},
		GroupLeader: process.BecomeGroupLeader,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// ProjectDirs returns the project layout, rooted at the git toplevel of the
// working directory or at the working directory itself.
func (a *App) ProjectDirs(ctx context.Context) *config.BuildDirs {
	if a.Dirs != nil {
		return a.Dirs
	}

	base := "."
	out, err := a.Executor.Execute(ctx, "git", "rev-parse", "--show-toplevel")
	if err == nil && strings.TrimSpace(string(out)) != "" {
		base = strings.TrimSpace(string(out))
	} else {
		logging.Debug("not in a git repository, using working directory", "error", err)
	}

	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	return config.NewBuildDirs(base)
}

// LoadSettings returns the configured settings, reading the user settings
// file and then the project's flatplay.toml.
func (a *App) LoadSettings(dirs *config.BuildDirs) (*config.Settings, error) {
	if a.Settings != nil {
		return a.Settings, nil
	}

	settings, err := config.LoadSettings(
		config.UserSettingsPath(),
		filepath.Join(dirs.Base, config.ProjectSettingsFile),
	)
	if err != nil {
		return nil, errors.ConfigError("failed to load settings", err)
	}
	return settings, nil
}

// Locker returns the instance locker for dirs, configured from settings.
func (a *App) Locker(dirs *config.BuildDirs, settings *config.Settings, opts ...instance.Option) *instance.Locker {
	base := []instance.Option{
		instance.WithWait(settings.Takeover.Timeout.Duration),
		instance.WithPollInterval(settings.Takeover.PollInterval.Duration),
		instance.WithOracle(a.Oracle),
		instance.WithSignaler(a.Signaler),
	}
	return instance.New(dirs, append(base, opts...)...)
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
