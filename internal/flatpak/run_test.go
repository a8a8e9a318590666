package flatpak

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/flatplay/flatplay/internal/errors"
)

func TestParseA11yAddress(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    []string
		wantErr bool
	}{
		{
			name:   "with guid",
			output: "('unix:path=/run/user/1000/at-spi/bus,guid=abc',)\n",
			want: []string{
				"--bind-mount=/run/flatpak/at-spi-bus=/run/user/1000/at-spi/bus",
				"--env=AT_SPI_BUS_ADDRESS=unix:path=/run/flatpak/at-spi-bus,guid=abc",
			},
		},
		{
			name:   "path only",
			output: "('unix:path=/tmp/bus',)",
			want: []string{
				"--bind-mount=/run/flatpak/at-spi-bus=/tmp/bus",
				"--env=AT_SPI_BUS_ADDRESS=unix:path=/run/flatpak/at-spi-bus",
			},
		},
		{
			name:    "abstract socket",
			output:  "('unix:abstract=/tmp/dbus-xyz',)",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseA11yAddress(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseA11yAddress() = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseA11yAddress() error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseA11yAddress() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRun_RequiresBuild(t *testing.T) {
	p := newTestProject(t)
	m := p.newManager(t, p.loadState(t))

	if err := m.Run(context.Background()); err == nil {
		t.Fatal("Run should refuse an unbuilt application")
	}
	if err := m.ExportBundle(context.Background()); err == nil {
		t.Fatal("ExportBundle should refuse an unbuilt application")
	}
	if len(p.exec.Commands) != 0 {
		t.Errorf("no command should run: %v", p.exec.Lines())
	}
}

func TestRun(t *testing.T) {
	p := newTestProject(t)
	s := p.loadState(t)
	m := p.newManager(t, s)
	s.ApplicationBuilt = true
	p.env["LANG"] = "C.UTF-8"
	p.env["WAYLAND_DISPLAY"] = "wayland-0"
	p.exec.AddResponse("gdbus call", []byte("('unix:path=/run/user/1000/at-spi/bus,guid=abc',)\n"), nil)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	last, _ := p.exec.LastCommand()
	if last.Name != "flatpak" {
		t.Fatalf("ran %q", last.Line())
	}

	uid := unix.Geteuid()
	want := []string{
		"build",
		"--with-appdir",
		"--allow=devel",
		fmt.Sprintf("--bind-mount=/run/user/%d/doc=/run/user/%d/doc/by-app/org.example.App", uid, uid),
		"--talk-name=org.freedesktop.portal.*",
		"--talk-name=org.a11y.Bus",
		"--env=WAYLAND_DISPLAY=wayland-0",
		"--env=LANG=C.UTF-8",
		"--bind-mount=/run/flatpak/at-spi-bus=/run/user/1000/at-spi/bus",
		"--env=AT_SPI_BUS_ADDRESS=unix:path=/run/flatpak/at-spi-bus,guid=abc",
		"--share=network",
		"--socket=wayland",
		p.dirs.RepoDir(),
		"example",
		"--verbose",
	}
	if !slices.Equal(last.Args, want) {
		t.Errorf("args =\n  %v\nwant\n  %v", last.Args, want)
	}
}

func TestRun_WithoutA11yBus(t *testing.T) {
	p := newTestProject(t)
	s := p.loadState(t)
	m := p.newManager(t, s)
	s.ApplicationBuilt = true
	p.exec.AddResponse("gdbus call", nil, fmt.Errorf("no session bus"))

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	last, _ := p.exec.LastCommand()
	for _, arg := range last.Args {
		if strings.Contains(arg, "at-spi-bus") {
			t.Errorf("unexpected a11y argument %q", arg)
		}
	}
}

func TestRun_CommandFailure(t *testing.T) {
	p := newTestProject(t)
	s := p.loadState(t)
	m := p.newManager(t, s)
	s.ApplicationBuilt = true
	p.exec.FailRun("flatpak build", errors.CommandFailed("flatpak", 1))

	if code := errors.GetExitCode(m.Run(context.Background())); code != errors.ExitCommandFailed {
		t.Errorf("exit code = %d, want %d", code, errors.ExitCommandFailed)
	}
}

func TestExportBundle(t *testing.T) {
	p := newTestProject(t)
	s := p.loadState(t)
	m := p.newManager(t, s)
	s.ApplicationBuilt = true

	if err := m.ExportBundle(context.Background()); err != nil {
		t.Fatalf("ExportBundle failed: %v", err)
	}

	repo := p.dirs.RepoDir()
	finalized := p.dirs.FinalizedRepoDir()
	ostree := p.dirs.OstreeDir()
	want := []string{
		"cp -r " + repo + " " + finalized,
		"flatpak build-finish --share=network --socket=wayland --command=example " + finalized,
		"flatpak build-export " + ostree + " " + finalized,
		"flatpak build-bundle " + ostree + " org.example.App.flatpak org.example.App",
	}
	if got := p.exec.Lines(); !slices.Equal(got, want) {
		t.Errorf("commands =\n  %v\nwant\n  %v", got, want)
	}
}
