// Package tui provides terminal user interface components for flatplay.
//
// This package uses the Bubble Tea framework for the interactive manifest
// picker shown by "flatplay select-manifest" when no path is given.
//
// # Manifest Picker
//
//	entries := tui.NewEntries(paths, activeManifest, projectRoot)
//	result, err := tui.RunPicker(ctx, entries)
//	switch result.Action {
//	case tui.ActionSelect:
//	    // Activate result.Path
//	case tui.ActionQuit:
//	    // Keep the current manifest
//	}
//
// When stdin or stdout is not a terminal (see IsInteractive), SimplePicker
// renders the same list as plain text instead.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
