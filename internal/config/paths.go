package config

import (
	"fmt"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
)

const (
	// BuildDirName is the project-local directory owning every build artifact.
	BuildDirName = ".flatplay"

	LockFileName  = "instance.lock"
	StateFileName = "state.json"

	repoDirName          = "repo"
	buildSystemDirName   = "_build"
	builderStateDirName  = "flatpak-builder"
	finalizedRepoDirName = "finalized-repo"
	ostreeDirName        = "ostree"
)

// reservedNames are the entries of BuildDir owned by flatplay itself.
var reservedNames = map[string]bool{
	LockFileName:         true,
	StateFileName:        true,
	repoDirName:          true,
	buildSystemDirName:   true,
	builderStateDirName:  true,
	finalizedRepoDirName: true,
	ostreeDirName:        true,
}

// BuildDirs maps a project root to the fixed layout under .flatplay/.
type BuildDirs struct {
	Base string
}

// NewBuildDirs returns the layout rooted at base.
func NewBuildDirs(base string) *BuildDirs {
	return &BuildDirs{Base: base}
}

func (d *BuildDirs) BuildDir() string {
	return filepath.Join(d.Base, BuildDirName)
}

func (d *BuildDirs) LockFile() string {
	return filepath.Join(d.BuildDir(), LockFileName)
}

func (d *BuildDirs) StateFile() string {
	return filepath.Join(d.BuildDir(), StateFileName)
}

// RepoDir is the flatpak build directory the application is installed into.
func (d *BuildDirs) RepoDir() string {
	return filepath.Join(d.BuildDir(), repoDirName)
}

// BuildSystemDir is the meson/cmake working directory.
func (d *BuildDirs) BuildSystemDir() string {
	return filepath.Join(d.BuildDir(), buildSystemDirName)
}

func (d *BuildDirs) FlatpakBuilderDir() string {
	return filepath.Join(d.BuildDir(), builderStateDirName)
}

func (d *BuildDirs) FinalizedRepoDir() string {
	return filepath.Join(d.BuildDir(), finalizedRepoDirName)
}

func (d *BuildDirs) OstreeDir() string {
	return filepath.Join(d.BuildDir(), ostreeDirName)
}

func (d *BuildDirs) MetadataFile() string {
	return filepath.Join(d.RepoDir(), "metadata")
}

func (d *BuildDirs) FilesDir() string {
	return filepath.Join(d.RepoDir(), "files")
}

func (d *BuildDirs) VarDir() string {
	return filepath.Join(d.RepoDir(), "var")
}

// SourceDir returns the checkout directory for a module's fetched sources.
// Module names come from the manifest, so the result is confined to BuildDir
// and may be neither BuildDir itself nor anything inside a reserved entry.
func (d *BuildDirs) SourceDir(moduleName string) (string, error) {
	dir, err := securejoin.SecureJoin(d.BuildDir(), moduleName)
	if err != nil {
		return "", fmt.Errorf("invalid module name %q: %w", moduleName, err)
	}

	rel, err := filepath.Rel(d.BuildDir(), dir)
	if err != nil || rel == "." {
		return "", fmt.Errorf("invalid module name %q", moduleName)
	}
	top := strings.SplitN(rel, string(filepath.Separator), 2)[0]
	if reservedNames[top] {
		return "", fmt.Errorf("module name %q collides with %s/%s", moduleName, BuildDirName, top)
	}
	return dir, nil
}
