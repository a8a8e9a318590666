package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/flatplay/flatplay/internal/config"
	"github.com/flatplay/flatplay/internal/instance"
	"github.com/flatplay/flatplay/internal/system"
)

func TestNew(t *testing.T) {
	app := New()

	if app == nil {
		t.Fatal("New() returned nil")
	}
	if app.Executor == nil || app.FS == nil {
		t.Error("Executor and FS should default to OS implementations")
	}
	if app.Oracle == nil || app.Signaler == nil || app.GroupLeader == nil {
		t.Error("process collaborators should have defaults")
	}
	if app.Dirs != nil || app.Settings != nil {
		t.Error("Dirs and Settings should be resolved lazily")
	}
}

func TestNew_MultipleOptions(t *testing.T) {
	dirs := config.NewBuildDirs("/custom")
	settings := config.DefaultSettings()
	exec := system.NewMockExecutor()
	fs := system.NewMockFS()

	app := New(
		WithDirs(dirs),
		WithSettings(settings),
		WithExecutor(exec),
		WithFS(fs),
	)

	if app.Dirs != dirs {
		t.Error("Dirs not set correctly")
	}
	if app.Settings != settings {
		t.Error("Settings not set correctly")
	}
	if app.Executor != exec {
		t.Error("Executor not set correctly")
	}
	if app.FS != fs {
		t.Error("FS not set correctly")
	}
}

func TestProjectDirs(t *testing.T) {
	t.Run("fixed dirs", func(t *testing.T) {
		dirs := config.NewBuildDirs("/custom")
		if got := New(WithDirs(dirs)).ProjectDirs(context.Background()); got != dirs {
			t.Errorf("ProjectDirs() = %v, want the configured dirs", got)
		}
	})

	t.Run("git toplevel", func(t *testing.T) {
		exec := system.NewMockExecutor()
		exec.AddResponse("git rev-parse", []byte("/home/dev/project\n"), nil)

		got := New(WithExecutor(exec)).ProjectDirs(context.Background())
		if got.Base != "/home/dev/project" {
			t.Errorf("Base = %q, want /home/dev/project", got.Base)
		}
	})

	t.Run("not a repository", func(t *testing.T) {
		exec := system.NewMockExecutor()
		exec.AddResponse("git rev-parse", nil, errors.New("exit status 128"))

		got := New(WithExecutor(exec)).ProjectDirs(context.Background())
		wd, _ := os.Getwd()
		if got.Base != wd {
			t.Errorf("Base = %q, want working directory %q", got.Base, wd)
		}
	})
}

func TestLoadSettings(t *testing.T) {
	t.Run("override", func(t *testing.T) {
		settings := config.DefaultSettings()
		got, err := New(WithSettings(settings)).LoadSettings(config.NewBuildDirs(t.TempDir()))
		if err != nil || got != settings {
			t.Errorf("LoadSettings() = %v, %v", got, err)
		}
	})

	t.Run("project file", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		root := t.TempDir()
		content := "[takeover]\ntimeout = \"8s\"\n"
		if err := os.WriteFile(filepath.Join(root, config.ProjectSettingsFile), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		got, err := New().LoadSettings(config.NewBuildDirs(root))
		if err != nil {
			t.Fatalf("LoadSettings failed: %v", err)
		}
		if got.Takeover.Timeout.Duration != 8*time.Second {
			t.Errorf("Timeout = %v, want 8s", got.Takeover.Timeout)
		}
	})

	t.Run("invalid project file", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, config.ProjectSettingsFile), []byte("[takeover\n"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := New().LoadSettings(config.NewBuildDirs(root)); err == nil {
			t.Error("expected config error")
		}
	})
}

func TestSetDefault(t *testing.T) {
	// Save original default
	original := Default
	defer func() { Default = original }()

	customApp := New(WithDirs(config.NewBuildDirs("/custom")))
	SetDefault(customApp)

	if Default != customApp {
		t.Error("SetDefault did not update Default")
	}
}

func TestResetDefault(t *testing.T) {
	// Save original default
	original := Default
	defer func() { Default = original }()

	customApp := New(WithDirs(config.NewBuildDirs("/custom")))
	SetDefault(customApp)

	ResetDefault()

	if Default == customApp {
		t.Error("ResetDefault did not create new Default")
	}
	if Default.Dirs != nil {
		t.Error("ResetDefault should create app without fixed dirs")
	}
}

func TestLocker(t *testing.T) {
	dirs := config.NewBuildDirs(t.TempDir())
	settings := config.DefaultSettings()

	locker := New().Locker(dirs, settings)
	if locker == nil {
		t.Fatal("Locker() returned nil")
	}

	result, err := locker.RequestShutdown()
	if err != nil {
		t.Fatalf("RequestShutdown failed: %v", err)
	}
	if result != instance.ShutdownNothingRunning {
		t.Errorf("result = %v, want nothing running", result)
	}
}
