package flatpak

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/flatplay/flatplay/internal/errors"
	"github.com/flatplay/flatplay/internal/logging"
	"github.com/flatplay/flatplay/internal/manifest"
	"github.com/flatplay/flatplay/internal/state"
)

// Chooser picks one of paths, with current (possibly "") as the active
// manifest. It returns "" when the user cancels.
type Chooser func(ctx context.Context, paths []string, current string) (string, error)

// FindManifests lists manifests below the working directory, then the
// rest of the project.
func (m *Manager) FindManifests() ([]string, error) {
	found, err := manifest.FindManifests(m.workDir, "")
	if err != nil {
		return nil, err
	}

	if canonical(m.workDir) != canonical(m.dirs.Base) {
		rest, err := manifest.FindManifests(m.dirs.Base, m.workDir)
		if err != nil {
			return nil, err
		}
		for _, path := range rest {
			if !slices.Contains(found, path) {
				found = append(found, path)
			}
		}
	}
	return found, nil
}

func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return path
}

func (m *Manager) autoSelectManifest() (bool, error) {
	found, err := m.FindManifests()
	if err != nil {
		return false, err
	}
	if len(found) == 0 {
		return false, nil
	}

	logging.UserSuccess("Auto-selected manifest: %s", found[0])
	loaded, err := manifest.Load(found[0])
	if err != nil {
		return false, err
	}
	return true, m.setActiveManifest(found[0], loaded)
}

// SelectManifest makes path the active manifest. An empty path searches the
// project and asks choose to pick one.
func (m *Manager) SelectManifest(ctx context.Context, path string, choose Chooser) error {
	if path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.dirs.Base, path)
		}
		path = canonical(path)
		if !m.fs.IsFile(path) {
			return errors.ManifestError(fmt.Sprintf("manifest file not found at %s", path), nil)
		}
		loaded, err := manifest.Load(path)
		if err != nil {
			return err
		}
		return m.SetActiveManifest(path, loaded)
	}

	logging.UserInfo("Searching for manifest files...")
	found, err := m.FindManifests()
	if err != nil {
		return err
	}
	if len(found) == 0 {
		logging.UserWarning("No manifest files found.")
		return nil
	}

	selected, err := choose(ctx, found, m.state.Manifest())
	if err != nil {
		return err
	}
	if selected == "" {
		logging.UserInfo("Selection cancelled.")
		return nil
	}

	loaded, err := manifest.Load(selected)
	if err != nil {
		return err
	}
	return m.SetActiveManifest(selected, loaded)
}

// SetActiveManifest switches to the manifest at path. Selecting a different
// manifest cleans the build directory and records the new content hash.
func (m *Manager) SetActiveManifest(path string, loaded *manifest.Manifest) error {
	if err := m.setActiveManifest(path, loaded); err != nil {
		return err
	}
	logging.UserSuccess("Selected manifest: %s. You can now run `flatplay`.", path)
	return nil
}

func (m *Manager) setActiveManifest(path string, loaded *manifest.Manifest) error {
	if m.state.Manifest() != path {
		if err := m.Clean(); err != nil {
			return err
		}

		m.state.SetManifest(path)
		hash, err := state.HashFile(path)
		if err != nil {
			return errors.ManifestError("failed to hash manifest", err)
		}
		m.state.ManifestHash = &hash

		if err := m.save(); err != nil {
			return err
		}
	}

	m.manifest = loaded
	m.printManifestInfo()
	return nil
}
