// Package testutil provides testing utilities for flatplay.
//
// This package offers helpers for setting up isolated project directories
// with a mock executor, enabling integration-style tests of commands that
// would otherwise call flatpak and flatpak-builder.
//
// # Test Environment
//
// NewTestEnv creates a temporary project with a manifest fixture and
// replaces app.Default for the duration of the test:
//
//	func TestMyCommand(t *testing.T) {
//	    env := testutil.NewTestEnv(t)
//
//	    // Seed build progress
//	    env.SaveState(func(st *state.State) {
//	        st.ApplicationBuilt = true
//	    })
//
//	    // Run code under test...
//
//	    // Check what would have been executed
//	    lines := env.Executor.Lines()
//	}
//
// # Fixtures
//
// Manifest fixtures are embedded and available via:
//
//	m, err := testutil.ValidManifest()
//	m, err := testutil.DevelManifest()
//	data, err := testutil.LoadFixture("invalid_manifest.json")
//
// # FakeSignaler
//
// FakeSignaler records the process groups a takeover would have signalled
// so tests never deliver real signals.
package testutil
