package state

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/flatplay/flatplay/internal/errors"
	"github.com/flatplay/flatplay/internal/logging"
)

// ManifestChange is the outcome of SyncManifestHash.
type ManifestChange int

const (
	ManifestUnchanged ManifestChange = iota
	// ManifestHashMissing means no hash was stored yet.
	ManifestHashMissing
	// ManifestChanged means the content differs from the stored hash.
	ManifestChanged
)

func (c ManifestChange) String() string {
	switch c {
	case ManifestUnchanged:
		return "unchanged"
	case ManifestHashMissing:
		return "hash missing"
	case ManifestChanged:
		return "changed"
	default:
		return fmt.Sprintf("ManifestChange(%d)", int(c))
	}
}

// HashFile returns the lowercase hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// SyncManifestHash compares the active manifest's content with the stored
// hash. On a missing or different hash, progress is reset, the new hash is
// stored and the state saved before returning.
func (s *State) SyncManifestHash() (ManifestChange, error) {
	path := s.Manifest()
	if path == "" {
		return ManifestUnchanged, errors.NoManifest()
	}

	hash, err := HashFile(path)
	if err != nil {
		return ManifestUnchanged, errors.ManifestError("failed to hash manifest", err)
	}

	change := ManifestUnchanged
	switch {
	case s.ManifestHash == nil:
		change = ManifestHashMissing
	case *s.ManifestHash != hash:
		change = ManifestChanged
	}
	if change == ManifestUnchanged {
		return change, nil
	}

	logging.Debug("manifest hash out of date, resetting build progress", "manifest", path, "reason", change.String())
	s.Reset()
	s.ManifestHash = &hash
	if err := s.Save(); err != nil {
		return change, err
	}
	return change, nil
}
