package testutil

import (
	"os"
	"testing"

	"github.com/flatplay/flatplay/internal/manifest"
	"github.com/flatplay/flatplay/internal/state"
)

func TestLoadValidManifest(t *testing.T) {
	m, err := ValidManifest()
	if err != nil {
		t.Fatalf("ValidManifest() error: %v", err)
	}

	if m.ID != "org.example.App" {
		t.Errorf("ID = %q, want %q", m.ID, "org.example.App")
	}
	if len(m.Modules) != 2 {
		t.Fatalf("len(Modules) = %d, want 2", len(m.Modules))
	}

	app, ok := m.AppModule()
	if !ok {
		t.Fatal("AppModule() should find the last module")
	}
	if app.ModuleName() != "example" {
		t.Errorf("app module = %q, want %q", app.ModuleName(), "example")
	}
}

func TestLoadDevelManifest(t *testing.T) {
	m, err := DevelManifest()
	if err != nil {
		t.Fatalf("DevelManifest() error: %v", err)
	}

	if m.ID != "org.example.App.Devel" {
		t.Errorf("ID = %q, want app-id fallback", m.ID)
	}
	if len(m.XRunArgs) != 1 || m.XRunArgs[0] != "--inspector" {
		t.Errorf("XRunArgs = %v", m.XRunArgs)
	}
	if _, ok := m.Modules[0].(manifest.ModuleReference); !ok {
		t.Errorf("Modules[0] = %T, want ModuleReference", m.Modules[0])
	}

	app, ok := m.Modules[1].(*manifest.BuildModule)
	if !ok {
		t.Fatalf("Modules[1] = %T, want *BuildModule", m.Modules[1])
	}
	if len(app.Sources) != 1 || app.Sources[0].Branch != "main" {
		t.Errorf("Sources = %+v", app.Sources)
	}
}

func TestLoadInvalidManifest(t *testing.T) {
	if _, err := LoadManifestFixture(InvalidManifestFixture); err == nil {
		t.Error("invalid manifest should fail to parse")
	}
}

func TestLoadFixture_NotFound(t *testing.T) {
	if _, err := LoadFixture("missing.json"); err == nil {
		t.Error("expected error for missing fixture")
	}
}

func TestNewTestEnv(t *testing.T) {
	env := NewTestEnv(t)

	path := env.ManifestPath(ValidManifestFixture)
	if _, err := manifest.Load(path); err != nil {
		t.Fatalf("fixture manifest not loadable: %v", err)
	}

	env.SaveState(func(st *state.State) {
		st.SetManifest(path)
		st.DependenciesUpdated = true
	})

	st := env.State()
	if st.Manifest() != path || !st.DependenciesUpdated {
		t.Errorf("state not persisted: %+v", st)
	}

	env.CreateBuildDir()
	if _, err := os.Stat(env.Dirs.MetadataFile()); err != nil {
		t.Errorf("metadata file missing: %v", err)
	}
}
