package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flatplay/flatplay/internal/config"
	"github.com/flatplay/flatplay/internal/errors"
	"github.com/flatplay/flatplay/internal/logging"
	"github.com/flatplay/flatplay/internal/system"
)

// State is the persisted build progress of one project.
type State struct {
	ActiveManifest      *string `json:"active_manifest"`
	ManifestHash        *string `json:"manifest_hash"`
	DependenciesUpdated bool    `json:"dependencies_updated"`
	DependenciesBuilt   bool    `json:"dependencies_built"`
	ApplicationBuilt    bool    `json:"application_built"`

	path string
	fs   system.FileSystem
}

// Load reads the state file of dirs through fsys, or the OS file system when
// fsys is nil. A missing or malformed file yields the default state.
func Load(dirs *config.BuildDirs, fsys system.FileSystem) (*State, error) {
	if fsys == nil {
		fsys = system.DefaultFS()
	}
	s := &State{path: dirs.StateFile(), fs: fsys}

	data, err := fsys.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.StateError("load", err)
	}

	if err := json.Unmarshal(data, s); err != nil {
		logging.Warn("ignoring malformed state file", "path", s.path, "error", err)
		return &State{path: s.path, fs: fsys}, nil
	}
	return s, nil
}

// Save writes the state through a temporary file and rename, so readers
// observe either the previous or the new content.
func (s *State) Save() error {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.StateError("save", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.StateError("save", err)
	}

	if err := writeFileAtomic(s.path, append(data, '\n')); err != nil {
		return errors.StateError("save", err)
	}
	return nil
}

// Reset clears stage progress. The active manifest and hash are kept.
func (s *State) Reset() {
	s.DependenciesUpdated = false
	s.DependenciesBuilt = false
	s.ApplicationBuilt = false
}

// Manifest returns the active manifest path, or "" if none is selected.
func (s *State) Manifest() string {
	if s.ActiveManifest == nil {
		return ""
	}
	return *s.ActiveManifest
}

// SetManifest records path as the active manifest and forgets its hash.
func (s *State) SetManifest(path string) {
	s.ActiveManifest = &path
	s.ManifestHash = nil
}

// Path returns the location of the state file.
func (s *State) Path() string {
	return s.path
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
