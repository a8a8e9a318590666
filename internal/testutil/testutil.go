// Package testutil provides test utilities for integration tests
package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/flatplay/flatplay/internal/app"
	"github.com/flatplay/flatplay/internal/config"
	"github.com/flatplay/flatplay/internal/process"
	"github.com/flatplay/flatplay/internal/state"
	"github.com/flatplay/flatplay/internal/system"
)

// TestEnv holds the test environment
type TestEnv struct {
	T        *testing.T
	Root     string
	Dirs     *config.BuildDirs
	Settings *config.Settings
	Executor *system.MockExecutor
	Signaler *FakeSignaler
	App      *app.App
	cleanup  func()
}

// FakeSignaler records group signals instead of sending them.
type FakeSignaler struct {
	mu    sync.Mutex
	Calls []uint32
	Err   error
}

// SignalGroup records pgid and returns Err.
func (s *FakeSignaler) SignalGroup(pgid uint32, sig syscall.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, pgid)
	return s.Err
}

// NewTestEnv creates a project directory containing the release manifest
// fixture and installs an app that runs every command through a mock
// executor.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}

	settings := config.DefaultSettings()
	settings.Takeover.Timeout = config.Duration{Duration: 500 * time.Millisecond}
	settings.Takeover.PollInterval = config.Duration{Duration: 10 * time.Millisecond}

	env := &TestEnv{
		T:        t,
		Root:     root,
		Dirs:     config.NewBuildDirs(root),
		Settings: settings,
		Executor: system.NewMockExecutor(),
		Signaler: &FakeSignaler{},
	}
	env.AddManifestFixture(ValidManifestFixture)

	env.App = app.New(
		app.WithDirs(env.Dirs),
		app.WithSettings(settings),
		app.WithExecutor(env.Executor),
		app.WithFS(system.DefaultFS()),
		app.WithSignaler(env.Signaler),
		app.WithGroupLeader(func() (uint32, error) {
			return process.CurrentGroup(), nil
		}),
	)

	// Save original default and set test app
	originalDefault := app.Default
	app.SetDefault(env.App)
	env.cleanup = func() {
		app.SetDefault(originalDefault)
	}
	t.Cleanup(env.Cleanup)

	return env
}

// Cleanup restores the original app default
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
}

// WriteFile writes content below the project root and returns its path.
func (e *TestEnv) WriteFile(name, content string) string {
	e.T.Helper()

	path := filepath.Join(e.Root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.T.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.T.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// AddManifestFixture copies a fixture into the project root.
func (e *TestEnv) AddManifestFixture(name string) string {
	e.T.Helper()

	data, err := LoadFixture(name)
	if err != nil {
		e.T.Fatalf("Failed to load fixture %s: %v", name, err)
	}
	return e.WriteFile(name, string(data))
}

// ManifestPath returns the absolute path of a manifest in the project root.
func (e *TestEnv) ManifestPath(name string) string {
	return filepath.Join(e.Root, name)
}

// State loads the persisted build state.
func (e *TestEnv) State() *state.State {
	e.T.Helper()

	st, err := state.Load(e.Dirs, system.DefaultFS())
	if err != nil {
		e.T.Fatalf("Failed to load state: %v", err)
	}
	return st
}

// SaveState persists st after applying fn to a freshly loaded state.
func (e *TestEnv) SaveState(fn func(st *state.State)) {
	e.T.Helper()

	st := e.State()
	fn(st)
	if err := st.Save(); err != nil {
		e.T.Fatalf("Failed to save state: %v", err)
	}
}

// CreateBuildDir creates the build directory with an initialized build
// tree, as left behind by a previous session.
func (e *TestEnv) CreateBuildDir() {
	e.T.Helper()

	for _, dir := range []string{e.Dirs.FilesDir(), e.Dirs.VarDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			e.T.Fatalf("Failed to create build dir: %v", err)
		}
	}
	if err := os.WriteFile(e.Dirs.MetadataFile(), []byte("[Application]\n"), 0644); err != nil {
		e.T.Fatalf("Failed to write metadata: %v", err)
	}
}
