package flatpak

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/flatplay/flatplay/internal/config"
	"github.com/flatplay/flatplay/internal/errors"
	"github.com/flatplay/flatplay/internal/logging"
	"github.com/flatplay/flatplay/internal/manifest"
	"github.com/flatplay/flatplay/internal/state"
	"github.com/flatplay/flatplay/internal/system"
)

// Config holds the collaborators of a Manager.
type Config struct {
	Dirs     *config.BuildDirs
	State    *state.State
	Settings *config.Settings
	Executor system.CommandExecutor
	FS       system.FileSystem

	// Tools defaults to NewTools(Executor, FS).
	Tools *Tools

	// WorkDir is searched for manifests before the project root.
	WorkDir string

	// AllowNoManifest lets NewManager succeed without an active manifest.
	AllowNoManifest bool

	// Getenv defaults to os.LookupEnv.
	Getenv func(key string) (string, bool)
}

// Manager sequences the build pipeline of one project. It must only be
// used while holding the project's instance lock.
type Manager struct {
	dirs     *config.BuildDirs
	state    *state.State
	settings *config.Settings
	fs       system.FileSystem
	tools    *Tools
	workDir  string
	getenv   func(string) (string, bool)

	manifest *manifest.Manifest
}

// NewManager loads the active manifest, selecting the first discovered one
// when none is recorded, and resets build progress if the manifest changed
// since the last session.
func NewManager(cfg Config) (*Manager, error) {
	m := &Manager{
		dirs:     cfg.Dirs,
		state:    cfg.State,
		settings: cfg.Settings,
		fs:       cfg.FS,
		tools:    cfg.Tools,
		workDir:  cfg.WorkDir,
		getenv:   cfg.Getenv,
	}
	if m.settings == nil {
		m.settings = config.DefaultSettings()
	}
	if m.fs == nil {
		m.fs = system.DefaultFS()
	}
	if m.tools == nil {
		exec := cfg.Executor
		if exec == nil {
			exec = system.DefaultExecutor()
		}
		m.tools = NewTools(exec, m.fs)
	}
	if m.workDir == "" {
		m.workDir = m.dirs.Base
	}
	if m.getenv == nil {
		m.getenv = lookupEnv
	}

	if path := m.state.Manifest(); path != "" {
		loaded, err := manifest.Load(path)
		switch {
		case err == nil:
			m.manifest = loaded
			m.printManifestInfo()
		case cfg.AllowNoManifest:
			logging.UserWarning("Recorded manifest %s could not be loaded: %v", path, err)
		default:
			return nil, err
		}
	} else {
		selected, err := m.autoSelectManifest()
		if err != nil {
			return nil, err
		}
		if !selected && !cfg.AllowNoManifest {
			return nil, errors.NoManifest()
		}
	}

	if m.manifest == nil {
		return m, nil
	}

	change, err := m.state.SyncManifestHash()
	if err != nil {
		return nil, err
	}
	switch change {
	case state.ManifestChanged:
		logging.UserWarning("Manifest changed, resetting build state...")
	case state.ManifestHashMissing:
		logging.UserWarning("Manifest hash missing, resetting build state...")
	}

	return m, nil
}

// Manifest returns the active manifest, or nil.
func (m *Manager) Manifest() *manifest.Manifest {
	return m.manifest
}

// State returns the build state the manager updates.
func (m *Manager) State() *state.State {
	return m.state
}

func (m *Manager) requireManifest() (*manifest.Manifest, error) {
	if m.manifest == nil {
		return nil, errors.ManifestError("no manifest selected, run `flatplay select-manifest` first", nil)
	}
	return m.manifest, nil
}

func (m *Manager) printManifestInfo() {
	logging.UserInfo("Manifest: %s", m.state.Manifest())
	logging.UserInfo("  App ID:          %s", m.manifest.ID)
	logging.UserInfo("  SDK:             %s", m.manifest.SDK)
	logging.UserInfo("  Runtime:         %s", m.manifest.Runtime)
	logging.UserInfo("  Runtime Version: %s", m.manifest.RuntimeVersion)
}

// checkpoint returns an interruption error once ctx is cancelled.
func checkpoint(ctx context.Context) error {
	if ctx.Err() != nil {
		return errors.Interrupted()
	}
	return nil
}

func (m *Manager) save() error {
	return m.state.Save()
}

// isInitialized mirrors the check GNOME Builder uses for a flatpak build
// directory.
func (m *Manager) isInitialized() bool {
	return m.fs.IsFile(m.dirs.MetadataFile()) && m.fs.IsDir(m.dirs.FilesDir()) && m.fs.IsDir(m.dirs.VarDir())
}

func (m *Manager) ensureInitialized(ctx context.Context) error {
	if m.isInitialized() {
		return nil
	}
	mf, err := m.requireManifest()
	if err != nil {
		return err
	}

	logging.UserInfo("Initializing build environment...")
	return m.tools.Run(ctx, m.dirs.Base, "flatpak", "build-init",
		m.dirs.RepoDir(), mf.ID, mf.SDK, mf.Runtime, mf.RuntimeVersion)
}

// builderArgs returns the flatpak-builder arguments shared by the
// dependency stages, around the stage-specific flags.
func (m *Manager) builderArgs(mf *manifest.Manifest, stageFlags ...string) ([]string, error) {
	app, ok := mf.AppModule()
	if !ok {
		return nil, errors.ManifestError("manifest has no modules", nil)
	}

	var args []string
	if m.settings.Build.Ccache {
		args = append(args, "--ccache")
	}
	args = append(args, "--force-clean", "--disable-updates")
	args = append(args, stageFlags...)
	args = append(args,
		"--state-dir="+m.dirs.FlatpakBuilderDir(),
		"--stop-at="+app.ModuleName(),
		m.dirs.RepoDir(),
		m.state.Manifest(),
	)
	return args, nil
}

// UpdateDependencies downloads the sources of every module before the
// application module.
func (m *Manager) UpdateDependencies(ctx context.Context) error {
	if err := checkpoint(ctx); err != nil {
		return err
	}
	mf, err := m.requireManifest()
	if err != nil {
		return err
	}
	args, err := m.builderArgs(mf, "--download-only")
	if err != nil {
		return err
	}

	logging.UserInfo("Updating dependencies...")
	if err := m.tools.FlatpakBuilder(ctx, m.dirs.Base, args...); err != nil {
		return err
	}

	m.state.DependenciesUpdated = true
	return m.save()
}

// BuildDependencies builds every module before the application module from
// previously downloaded sources.
func (m *Manager) BuildDependencies(ctx context.Context) error {
	if err := checkpoint(ctx); err != nil {
		return err
	}
	mf, err := m.requireManifest()
	if err != nil {
		return err
	}
	args, err := m.builderArgs(mf, "--disable-download", "--build-only", "--keep-build-dirs")
	if err != nil {
		return err
	}

	logging.UserInfo("Building dependencies...")
	if err := m.tools.FlatpakBuilder(ctx, m.dirs.Base, args...); err != nil {
		return err
	}

	m.state.DependenciesBuilt = true
	return m.save()
}

// BuildApplication fetches the application module's sources and builds them
// with the module's build system.
func (m *Manager) BuildApplication(ctx context.Context) error {
	if err := checkpoint(ctx); err != nil {
		return err
	}
	mf, err := m.requireManifest()
	if err != nil {
		return err
	}

	logging.UserInfo("Building application...")
	if err := m.buildAppModule(ctx, mf); err != nil {
		return err
	}

	m.state.ApplicationBuilt = true
	return m.save()
}

// Build runs every stage that has not completed yet. The application stage
// always runs.
func (m *Manager) Build(ctx context.Context) error {
	if _, err := m.requireManifest(); err != nil {
		return err
	}
	if err := checkpoint(ctx); err != nil {
		return err
	}
	if err := m.ensureInitialized(ctx); err != nil {
		return err
	}

	if !m.state.DependenciesUpdated {
		if err := m.UpdateDependencies(ctx); err != nil {
			return err
		}
	} else {
		logging.Debug("dependencies already updated, skipping")
	}

	if !m.state.DependenciesBuilt {
		if err := m.BuildDependencies(ctx); err != nil {
			return err
		}
	} else {
		logging.Debug("dependencies already built, skipping")
	}

	return m.BuildApplication(ctx)
}

// UpdateAndBuildDependencies refreshes and rebuilds dependencies
// unconditionally.
func (m *Manager) UpdateAndBuildDependencies(ctx context.Context) error {
	if err := checkpoint(ctx); err != nil {
		return err
	}
	if err := m.ensureInitialized(ctx); err != nil {
		return err
	}
	if err := m.UpdateDependencies(ctx); err != nil {
		return err
	}
	return m.BuildDependencies(ctx)
}

// Rebuild cleans the build directory and builds from scratch.
func (m *Manager) Rebuild(ctx context.Context) error {
	logging.UserInfo("Rebuilding application...")
	if err := m.Clean(); err != nil {
		return err
	}
	return m.Build(ctx)
}

// BuildAndRun builds the application and runs it.
func (m *Manager) BuildAndRun(ctx context.Context) error {
	if err := m.Build(ctx); err != nil {
		return err
	}
	if err := checkpoint(ctx); err != nil {
		return err
	}
	return m.Run(ctx)
}

// Clean removes build artifacts and resets build progress. The instance
// lock file is kept, since this session holds it. Calling Clean on a clean
// project is a no-op apart from saving the reset state.
func (m *Manager) Clean() error {
	buildDir := m.dirs.BuildDir()

	if m.fs.Exists(buildDir) {
		entries, err := m.fs.ReadDir(buildDir)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", buildDir, err)
		}
		for _, entry := range entries {
			if entry.Name() == config.LockFileName {
				continue
			}
			path := filepath.Join(buildDir, entry.Name())
			if err := m.fs.RemoveAll(path); err != nil {
				return fmt.Errorf("failed to remove %s: %w", path, err)
			}
		}
		logging.UserSuccess("Cleaned %s directory.", config.BuildDirName)
	}

	m.state.Reset()
	return m.save()
}

// RuntimeTerminal opens a shell in the manifest's SDK.
func (m *Manager) RuntimeTerminal(ctx context.Context) error {
	mf, err := m.requireManifest()
	if err != nil {
		return err
	}
	sdk := mf.SDK + "//" + mf.RuntimeVersion
	return m.tools.Run(ctx, m.dirs.Base, "flatpak", "run", "--command=bash", sdk)
}

// BuildTerminal opens a shell inside the build directory's sandbox.
func (m *Manager) BuildTerminal(ctx context.Context) error {
	if _, err := m.requireManifest(); err != nil {
		return err
	}
	if !m.isInitialized() {
		return errors.ValidationError("build directory not initialized, run `flatplay build` first")
	}
	return m.tools.Run(ctx, m.dirs.Base, "flatpak", "build", m.dirs.RepoDir(), "bash")
}
