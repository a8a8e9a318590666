package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flatplay/flatplay/internal/errors"
)

// Manifest is a Flatpak application manifest.
type Manifest struct {
	ID             string
	SDK            string
	Runtime        string
	RuntimeVersion string
	Command        string
	XRunArgs       []string
	Modules        ModuleList
	FinishArgs     []string
	BuildOptions   map[string]any
	Cleanup        []string
}

// document mirrors the on-disk keys. Both "id" and the older "app-id" name
// the application.
type document struct {
	ID             string         `json:"id" yaml:"id"`
	AppID          string         `json:"app-id" yaml:"app-id"`
	SDK            string         `json:"sdk" yaml:"sdk"`
	Runtime        string         `json:"runtime" yaml:"runtime"`
	RuntimeVersion string         `json:"runtime-version" yaml:"runtime-version"`
	Command        string         `json:"command" yaml:"command"`
	XRunArgs       []string       `json:"x-run-args" yaml:"x-run-args"`
	Modules        ModuleList     `json:"modules" yaml:"modules"`
	FinishArgs     []string       `json:"finish-args" yaml:"finish-args"`
	BuildOptions   map[string]any `json:"build-options" yaml:"build-options"`
	Cleanup        []string       `json:"cleanup" yaml:"cleanup"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ManifestError(fmt.Sprintf("failed to read manifest %s", path), err)
	}

	m, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.ManifestError(fmt.Sprintf("invalid manifest %s", path), err)
	}
	return m, nil
}

// Parse decodes manifest content in the format named by ext.
func Parse(data []byte, ext string) (*Manifest, error) {
	var doc document

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", ext)
	}

	id := doc.ID
	if id == "" {
		id = doc.AppID
	}
	if !IsValidDBusName(id) {
		return nil, fmt.Errorf("invalid application ID: %q", id)
	}

	required := []struct{ field, value string }{
		{"sdk", doc.SDK},
		{"runtime", doc.Runtime},
		{"runtime-version", doc.RuntimeVersion},
		{"command", doc.Command},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("missing field %q", r.field)
		}
	}

	return &Manifest{
		ID:             id,
		SDK:            doc.SDK,
		Runtime:        doc.Runtime,
		RuntimeVersion: doc.RuntimeVersion,
		Command:        doc.Command,
		XRunArgs:       doc.XRunArgs,
		Modules:        doc.Modules,
		FinishArgs:     doc.FinishArgs,
		BuildOptions:   doc.BuildOptions,
		Cleanup:        doc.Cleanup,
	}, nil
}

// AppModule returns the application module, the last entry of Modules.
func (m *Manifest) AppModule() (Module, bool) {
	if len(m.Modules) == 0 {
		return nil, false
	}
	return m.Modules[len(m.Modules)-1], true
}

// IsValidDBusName reports whether name is a well-formed D-Bus well-known name
// as required for application IDs.
func IsValidDBusName(name string) bool {
	if name == "" || len(name) > 255 || !strings.Contains(name, ".") {
		return false
	}

	for _, element := range strings.Split(name, ".") {
		if element == "" {
			return false
		}
		if element[0] >= '0' && element[0] <= '9' {
			return false
		}
		for _, c := range element {
			if !isNameChar(c) {
				return false
			}
		}
	}
	return true
}

func isNameChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}
