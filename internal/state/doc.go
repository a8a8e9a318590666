// Package state persists build progress between flatplay sessions.
//
// The state file .flatplay/state.json records the active manifest, the
// SHA-256 of its content when progress was last valid, and which pipeline
// stages have completed. It is written atomically after every stage so an
// interrupted session resumes at the first incomplete stage.
//
// Only the holder of the instance lock reads or writes the file.
package state
