// Package config provides the project path layout and settings for flatplay.
//
// # Path Layout
//
// BuildDirs maps a project root to the fixed layout every session uses:
//
//	<project>/.flatplay/
//	    instance.lock     advisory lock + holder metadata
//	    state.json        persisted build progress
//	    repo/             flatpak build directory (metadata, files/, var/)
//	    _build/           meson/cmake working directory
//	    flatpak-builder/  flatpak-builder state directory
//	    finalized-repo/   copy of repo/ finished for export
//	    ostree/           exported OSTree repository
//	    <module>/         fetched sources of the application module
//
// # Settings
//
// Settings are read from TOML, user file first, then the project file:
//
//	$XDG_CONFIG_HOME/flatplay/config.toml
//	<project>/flatplay.toml
//
// Example:
//
//	[takeover]
//	timeout = "5s"
//	poll_interval = "100ms"
//
//	[build]
//	ccache = true
//
// LoadSettings validates the merged result and rejects unknown keys.
package config
