// Package process identifies running processes and manages process groups.
//
// A process ID alone does not identify a process: the kernel recycles IDs.
// The pair (pid, start time) does. ProcFS reads the start time from
// /proc/<pid>/stat so that callers can tell a live holder from an unrelated
// process that happens to reuse its ID.
package process
