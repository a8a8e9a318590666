// Package app provides the application context for flatplay.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Dirs        *config.BuildDirs         // project layout
//	    Settings    *config.Settings          // takeover and build settings
//	    Executor    system.CommandExecutor    // external commands
//	    FS          system.FileSystem         // file system access
//	    Oracle      process.StartTimeReader   // process identity checks
//	    Signaler    process.Signaler          // process group signalling
//	    GroupLeader func() (uint32, error)    // process group setup
//	}
//
// # Creating an App
//
// Use New with functional options:
//
//	// Production usage
//	a := app.New()
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithDirs(config.NewBuildDirs(tmpDir)),
//	    app.WithExecutor(system.NewMockExecutor()),
//	    app.WithSignaler(fakeSignaler),
//	)
//
// # Available Options
//
//	WithDirs(dirs)          // Fixed project layout
//	WithSettings(settings)  // Settings instead of TOML files
//	WithExecutor(exec)      // Custom command executor
//	WithFS(fs)              // Custom file system
//	WithOracle(oracle)      // Custom start time source
//	WithSignaler(signaler)  // Custom process group signaller
//	WithGroupLeader(fn)     // Custom process group setup
package app
