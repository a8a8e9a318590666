package flatpak

import (
	"context"
	"fmt"
	"path/filepath"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/flatplay/flatplay/internal/errors"
	"github.com/flatplay/flatplay/internal/logging"
	"github.com/flatplay/flatplay/internal/manifest"
)

// Build systems understood for the application module. Anything else,
// including an empty value, is built as autotools.
const (
	BuildSystemMeson      = "meson"
	BuildSystemCMake      = "cmake"
	BuildSystemCMakeNinja = "cmake-ninja"
	BuildSystemSimple     = "simple"
	BuildSystemQMake      = "qmake"
	BuildSystemAutotools  = "autotools"
)

func (m *Manager) appBuildModule(mf *manifest.Manifest) (*manifest.BuildModule, error) {
	app, ok := mf.AppModule()
	if !ok {
		return nil, errors.ManifestError("manifest has no modules", nil)
	}
	module, ok := app.(*manifest.BuildModule)
	if !ok {
		return nil, nil
	}
	return module, nil
}

func (m *Manager) buildAppModule(ctx context.Context, mf *manifest.Manifest) error {
	module, err := m.appBuildModule(mf)
	if err != nil {
		return err
	}
	if module == nil {
		logging.UserWarning("Application module is a reference to another file, nothing to build")
		return nil
	}

	if module.BuildSystem == BuildSystemQMake {
		return errors.ValidationError("qmake build system is not supported")
	}

	if err := m.fetchSources(ctx, module); err != nil {
		return err
	}
	sourceDir, err := m.sourceDir(module)
	if err != nil {
		return err
	}

	switch module.BuildSystem {
	case BuildSystemMeson:
		err = m.runMeson(ctx, module, sourceDir)
	case BuildSystemCMake, BuildSystemCMakeNinja:
		err = m.runCMake(ctx, module, sourceDir)
	case BuildSystemSimple:
		err = m.runCommands(ctx, module.BuildCommands)
	default:
		err = m.runAutotools(ctx, module)
	}
	if err != nil {
		return err
	}

	return m.runCommands(ctx, module.PostInstall)
}

// fetchSources recreates the module's checkout under .flatplay/. Local
// "dir" sources are used in place.
func (m *Manager) fetchSources(ctx context.Context, module *manifest.BuildModule) error {
	checkout, err := m.dirs.SourceDir(module.Name)
	if err != nil {
		return errors.ManifestError("invalid application module", err)
	}
	if m.fs.Exists(checkout) {
		if err := m.fs.RemoveAll(checkout); err != nil {
			return fmt.Errorf("failed to remove %s: %w", checkout, err)
		}
	}

	for _, source := range module.Sources {
		if err := checkpoint(ctx); err != nil {
			return err
		}

		switch source.Type {
		case "git":
			ref := source.Tag
			if ref == "" {
				ref = source.Branch
			}
			if source.URL == "" {
				logging.UserWarning("Skipping git source of %s without url", module.Name)
				continue
			}
			logging.UserInfo("Cloning %s from %s", module.Name, source.URL)
			args := []string{"clone", "--depth", "1"}
			if ref != "" {
				args = append(args, "--branch", ref)
			}
			args = append(args, source.URL, checkout)
			if err := m.tools.Run(ctx, m.dirs.Base, "git", args...); err != nil {
				return err
			}
		case "dir":
			logging.UserInfo("Using local directory source for %s", module.Name)
		case "":
			if source.Reference != "" {
				logging.Debug("skipping source reference", "module", module.Name, "reference", source.Reference)
			}
		default:
			logging.UserWarning("Source type '%s' not yet supported for direct download", source.Type)
		}
	}
	return nil
}

// sourceDir is the directory the build system configures from: the first
// source's directory for "dir" sources, otherwise the fetched checkout.
func (m *Manager) sourceDir(module *manifest.BuildModule) (string, error) {
	if len(module.Sources) > 0 {
		first := module.Sources[0]
		if first.Type == "dir" && first.Path != "" {
			if filepath.IsAbs(first.Path) {
				return first.Path, nil
			}
			return filepath.Join(filepath.Dir(m.state.Manifest()), first.Path), nil
		}
	}
	dir, err := m.dirs.SourceDir(module.Name)
	if err != nil {
		return "", errors.ManifestError("invalid application module", err)
	}
	return dir, nil
}

// build runs args inside the build directory's sandbox.
func (m *Manager) build(ctx context.Context, args ...string) error {
	return m.tools.Run(ctx, m.dirs.Base, "flatpak", append([]string{"build", m.dirs.RepoDir()}, args...)...)
}

func (m *Manager) runMeson(ctx context.Context, module *manifest.BuildModule, sourceDir string) error {
	buildDir := m.dirs.BuildSystemDir()

	setup := []string{"meson", "setup"}
	setup = append(setup, module.ConfigOpts...)
	setup = append(setup, "--prefix=/app", sourceDir, buildDir)
	if err := m.build(ctx, setup...); err != nil {
		return err
	}
	if err := m.build(ctx, "ninja", "-C", buildDir); err != nil {
		return err
	}
	return m.build(ctx, "meson", "install", "-C", buildDir)
}

func (m *Manager) runCMake(ctx context.Context, module *manifest.BuildModule, sourceDir string) error {
	buildDir := m.dirs.BuildSystemDir()

	configure := []string{
		"cmake", "-G", "Ninja",
		"-B" + buildDir,
		"-DCMAKE_EXPORT_COMPILE_COMMANDS=1",
		"-DCMAKE_BUILD_TYPE=RelWithDebInfo",
		"-DCMAKE_INSTALL_PREFIX=/app",
	}
	configure = append(configure, module.ConfigOpts...)
	configure = append(configure, sourceDir)
	if err := m.build(ctx, configure...); err != nil {
		return err
	}
	if err := m.build(ctx, "ninja", "-C", buildDir); err != nil {
		return err
	}
	return m.build(ctx, "ninja", "-C", buildDir, "install")
}

func (m *Manager) runAutotools(ctx context.Context, module *manifest.BuildModule) error {
	configure := append([]string{"./configure", "--prefix=/app"}, module.ConfigOpts...)
	if err := m.build(ctx, configure...); err != nil {
		return err
	}
	if err := m.build(ctx, "make"); err != nil {
		return err
	}
	return m.build(ctx, "make", "install")
}

// runCommands runs shell-style command lines inside the build sandbox.
func (m *Manager) runCommands(ctx context.Context, lines []string) error {
	for _, line := range lines {
		if err := checkpoint(ctx); err != nil {
			return err
		}
		words, err := shellquote.Split(line)
		if err != nil {
			return errors.ManifestError(fmt.Sprintf("invalid command %q", line), err)
		}
		if len(words) == 0 {
			continue
		}
		if err := m.build(ctx, words...); err != nil {
			return err
		}
	}
	return nil
}
