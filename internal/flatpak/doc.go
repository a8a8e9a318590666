// Package flatpak drives flatpak and flatpak-builder to build and run an
// application from a project checkout.
//
// # Pipeline
//
// A build runs up to four stages in order:
//
//  1. initialize the build directory (flatpak build-init), when missing
//  2. download dependency sources (flatpak-builder --download-only)
//  3. build dependencies (flatpak-builder --build-only)
//  4. build the application module with its own build system
//
// Stages 2 and 3 are recorded in the persisted build state and skipped on
// later runs until the manifest changes. Stage 4 always runs. A failing
// stage is not recorded, so the next run resumes at it.
//
// # Host Integration
//
// Tools wraps every external command: inside a Flatpak sandbox commands are
// forwarded to the host with host-spawn or flatpak-spawn, and inside a
// Toolbx or distrobox container flatpak-builder gets --disable-rofiles-fuse.
package flatpak
