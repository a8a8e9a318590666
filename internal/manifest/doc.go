// Package manifest loads Flatpak application manifests.
//
// Manifests are JSON (.json) or YAML (.yaml, .yml) documents in the format
// consumed by flatpak-builder. Only the fields flatplay acts on are decoded.
// The last entry of the modules list is the application module; the entries
// before it are dependencies built by flatpak-builder.
package manifest
