package flatpak

import (
	"context"
	"strings"
	"testing"

	"github.com/flatplay/flatplay/internal/errors"
	"github.com/flatplay/flatplay/internal/system"
)

func TestTools_Run(t *testing.T) {
	tests := []struct {
		name      string
		markers   []string
		hostSpawn bool
		program   string
		args      []string
		want      string
	}{
		{
			name:    "host",
			program: "flatpak",
			args:    []string{"build", "repo", "make"},
			want:    "flatpak build repo make",
		},
		{
			name:      "sandbox with host-spawn",
			markers:   []string{SandboxMarker},
			hostSpawn: true,
			program:   "flatpak",
			args:      []string{"build", "repo", "make"},
			want:      "host-spawn flatpak build repo make",
		},
		{
			name:    "sandbox with flatpak-spawn",
			markers: []string{SandboxMarker},
			program: "git",
			args:    []string{"clone", "url"},
			want:    "flatpak-spawn --host --watch-bus --env=TERM=xterm-256color git clone url",
		},
		{
			name:    "container adds rofiles flag",
			markers: []string{ContainerMarker},
			program: "flatpak-builder",
			args:    []string{"--download-only", "repo", "app.json"},
			want:    "flatpak-builder --download-only repo app.json --disable-rofiles-fuse",
		},
		{
			name:    "container keeps existing rofiles flag",
			markers: []string{ContainerMarker},
			program: "flatpak-builder",
			args:    []string{"--disable-rofiles-fuse", "repo"},
			want:    "flatpak-builder --disable-rofiles-fuse repo",
		},
		{
			name:    "container leaves other programs alone",
			markers: []string{ContainerMarker},
			program: "flatpak",
			args:    []string{"build-init"},
			want:    "flatpak build-init",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quietOutput(t)
			exec := system.NewMockExecutor()
			exec.SetProbe("host-spawn", tt.hostSpawn)
			fs := system.NewMockFS()
			for _, marker := range tt.markers {
				fs.AddFile(marker, nil)
			}

			tools := NewTools(exec, fs)
			if err := tools.Run(context.Background(), "/project", tt.program, tt.args...); err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			last, _ := exec.LastCommand()
			if last.Line() != tt.want {
				t.Errorf("ran %q, want %q", last.Line(), tt.want)
			}
			if last.Dir != "/project" {
				t.Errorf("Dir = %q, want /project", last.Dir)
			}
		})
	}
}

func TestTools_FlatpakBuilder(t *testing.T) {
	tests := []struct {
		name     string
		native   bool
		app      bool
		want     string
		wantCode int
	}{
		{"native", true, true, "flatpak-builder --build-only repo", 0},
		{"flatpak app", false, true, "flatpak run org.flatpak.Builder --build-only repo", 0},
		{"missing", false, false, "", errors.ExitMissingDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quietOutput(t)
			exec := system.NewMockExecutor()
			exec.SetProbe("flatpak-builder", tt.native)
			exec.SetProbe("flatpak run", tt.app)

			err := NewTools(exec, system.NewMockFS()).FlatpakBuilder(context.Background(), "/project", "--build-only", "repo")
			if tt.wantCode != 0 {
				if code := errors.GetExitCode(err); code != tt.wantCode {
					t.Errorf("exit code = %d, want %d (err %v)", code, tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FlatpakBuilder failed: %v", err)
			}
			if last, _ := exec.LastCommand(); last.Line() != tt.want {
				t.Errorf("ran %q, want %q", last.Line(), tt.want)
			}
		})
	}
}

func TestTools_CheckDependencies(t *testing.T) {
	exec := system.NewMockExecutor()
	tools := NewTools(exec, system.NewMockFS())

	if err := tools.CheckDependencies(context.Background()); err != nil {
		t.Fatalf("CheckDependencies failed: %v", err)
	}

	exec.SetProbe("git", false)
	exec.SetProbe("flatpak-builder", false)
	exec.SetProbe("flatpak run", false)

	err := tools.CheckDependencies(context.Background())
	if code := errors.GetExitCode(err); code != errors.ExitMissingDependency {
		t.Fatalf("exit code = %d, want %d", code, errors.ExitMissingDependency)
	}
	for _, name := range []string{"git", "flatpak-builder or org.flatpak.Builder"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q should name %q", err, name)
		}
	}
	if strings.Contains(err.Error(), "git, flatpak,") {
		t.Errorf("flatpak is available and should not be listed: %q", err)
	}
}
