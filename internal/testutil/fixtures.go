package testutil

import (
	"embed"
	"path/filepath"

	"github.com/flatplay/flatplay/internal/manifest"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// Fixture names.
const (
	ValidManifestFixture   = "org.example.App.json"
	DevelManifestFixture   = "org.example.App.Devel.yaml"
	InvalidManifestFixture = "invalid_manifest.json"
)

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// LoadManifestFixture parses a manifest fixture.
func LoadManifestFixture(name string) (*manifest.Manifest, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	return manifest.Parse(data, filepath.Ext(name))
}

// ValidManifest returns the release manifest fixture.
func ValidManifest() (*manifest.Manifest, error) {
	return LoadManifestFixture(ValidManifestFixture)
}

// DevelManifest returns the development manifest fixture.
func DevelManifest() (*manifest.Manifest, error) {
	return LoadManifestFixture(DevelManifestFixture)
}
