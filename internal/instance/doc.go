// Package instance enforces a single flatplay session per project.
//
// The session holds an exclusive flock on .flatplay/instance.lock for its
// whole lifetime and records its identity in the file:
//
//	{"process_id":4321,"process_group_id":4321,"process_start_time_ticks":987654}
//
// A new session that finds the lock held asks the recorded holder to exit by
// sending SIGTERM to its process group, then polls for the lock until a
// deadline. Recorded identities are validated against the process start time
// before any signal is sent, so a recycled pid is never signalled.
package instance
