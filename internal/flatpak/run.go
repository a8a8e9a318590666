package flatpak

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/flatplay/flatplay/internal/errors"
	"github.com/flatplay/flatplay/internal/logging"
)

// forwardedEnv lists host variables passed through to the application.
var forwardedEnv = []string{
	"COLORTERM",
	"DESKTOP_SESSION",
	"WAYLAND_DISPLAY",
	"XDG_CURRENT_DESKTOP",
	"XDG_SEAT",
	"XDG_SESSION_DESKTOP",
	"XDG_SESSION_ID",
	"XDG_SESSION_TYPE",
	"XDG_VTNR",
	"AT_SPI_BUS_ADDRESS",
	"LANG",
	"LANGUAGE",
	"LC_ALL",
	"LC_CTYPE",
	"LC_MESSAGES",
	"http_proxy",
	"HTTP_PROXY",
	"https_proxy",
	"HTTPS_PROXY",
	"ftp_proxy",
	"FTP_PROXY",
	"no_proxy",
	"NO_PROXY",
}

const sandboxA11yBus = "/run/flatpak/at-spi-bus"

var a11yAddressPattern = regexp.MustCompile(`unix:path=([^,]+)(,.*)?`)

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (m *Manager) hostEnvArgs() []string {
	var args []string
	for _, key := range forwardedEnv {
		if value, ok := m.getenv(key); ok {
			args = append(args, fmt.Sprintf("--env=%s=%s", key, value))
		}
	}
	return args
}

// a11yBusArgs exposes the host accessibility bus to the application. It
// returns nil when the bus address cannot be determined.
func (m *Manager) a11yBusArgs(ctx context.Context) []string {
	out, err := m.tools.Output(ctx, "gdbus", "call", "--session",
		"--dest=org.a11y.Bus",
		"--object-path=/org/a11y/bus",
		"--method=org.a11y.Bus.GetAddress")
	if err != nil {
		logging.Debug("failed to query accessibility bus", "error", err)
		return nil
	}

	args, err := parseA11yAddress(string(out))
	if err != nil {
		logging.Debug("failed to parse accessibility bus address", "error", err)
		return nil
	}
	return args
}

// parseA11yAddress turns gdbus output such as
// ('unix:path=/run/user/1000/at-spi/bus,guid=abc',) into flatpak arguments.
func parseA11yAddress(output string) ([]string, error) {
	address := strings.TrimSpace(output)
	address = strings.ReplaceAll(address, "('", "")
	address = strings.ReplaceAll(address, "',)", "")

	match := a11yAddressPattern.FindStringSubmatch(address)
	if match == nil {
		return nil, fmt.Errorf("unexpected address %q", address)
	}

	return []string{
		fmt.Sprintf("--bind-mount=%s=%s", sandboxA11yBus, match[1]),
		fmt.Sprintf("--env=AT_SPI_BUS_ADDRESS=unix:path=%s%s", sandboxA11yBus, match[2]),
	}, nil
}

func (m *Manager) requireBuilt() error {
	if !m.state.ApplicationBuilt {
		return errors.ValidationError("application not built, run `flatplay build` first")
	}
	return nil
}

// Run starts the built application in the foreground.
func (m *Manager) Run(ctx context.Context) error {
	mf, err := m.requireManifest()
	if err != nil {
		return err
	}
	if err := m.requireBuilt(); err != nil {
		return err
	}

	uid := unix.Geteuid()
	args := []string{
		"build",
		"--with-appdir",
		"--allow=devel",
		fmt.Sprintf("--bind-mount=/run/user/%d/doc=/run/user/%d/doc/by-app/%s", uid, uid, mf.ID),
		"--talk-name=org.freedesktop.portal.*",
		"--talk-name=org.a11y.Bus",
	}
	args = append(args, m.hostEnvArgs()...)
	args = append(args, m.a11yBusArgs(ctx)...)
	args = append(args, mf.FinishArgs...)
	args = append(args, m.dirs.RepoDir(), mf.Command)
	args = append(args, mf.XRunArgs...)

	return m.tools.Run(ctx, m.dirs.Base, "flatpak", args...)
}

// ExportBundle finalizes a copy of the build directory and exports it as
// <app-id>.flatpak in the project root.
func (m *Manager) ExportBundle(ctx context.Context) error {
	mf, err := m.requireManifest()
	if err != nil {
		return err
	}
	if err := m.requireBuilt(); err != nil {
		return err
	}

	finalized := m.dirs.FinalizedRepoDir()
	ostree := m.dirs.OstreeDir()

	if m.fs.IsDir(finalized) {
		if err := m.fs.RemoveAll(finalized); err != nil {
			return fmt.Errorf("failed to remove %s: %w", finalized, err)
		}
	}

	steps := [][]string{
		{"cp", "-r", m.dirs.RepoDir(), finalized},
		append(append([]string{"flatpak", "build-finish"}, mf.FinishArgs...), "--command="+mf.Command, finalized),
		{"flatpak", "build-export", ostree, finalized},
		{"flatpak", "build-bundle", ostree, mf.ID + ".flatpak", mf.ID},
	}
	for _, step := range steps {
		if err := checkpoint(ctx); err != nil {
			return err
		}
		if err := m.tools.Run(ctx, m.dirs.Base, step[0], step[1:]...); err != nil {
			return err
		}
	}

	logging.UserSuccess("Exported %s.flatpak", mf.ID)
	return nil
}
