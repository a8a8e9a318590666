package manifest

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flatplay/flatplay/internal/logging"
)

var manifestExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// FindManifests walks root for loadable manifests. Hidden entries and the
// subtree at exclude (if non-empty) are skipped. Results list ".Devel."
// manifests first, then shallower paths.
func FindManifests(root, exclude string) ([]string, error) {
	root = canonical(root)
	if exclude != "" {
		exclude = canonical(exclude)
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.Debug("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || (exclude != "" && withinDir(path, exclude)) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !manifestExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if _, err := Load(path); err != nil {
			return nil
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortManifests(found)
	return found, nil
}

func sortManifests(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		iDevel := strings.Contains(paths[i], ".Devel.")
		jDevel := strings.Contains(paths[j], ".Devel.")
		if iDevel != jDevel {
			return iDevel
		}
		return depth(paths[i]) < depth(paths[j])
	})
}

func depth(path string) int {
	return strings.Count(filepath.ToSlash(filepath.Clean(path)), "/")
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

func withinDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
