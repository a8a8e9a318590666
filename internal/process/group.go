package process

import (
	"errors"
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// ErrNoSuchGroup is returned by SignalGroup when the group has no members.
var ErrNoSuchGroup = errors.New("no such process group")

// Signaler delivers signals to process groups.
type Signaler interface {
	SignalGroup(pgid uint32, sig syscall.Signal) error
}

// GroupSignaler signals real process groups with kill(2).
type GroupSignaler struct{}

// SignalGroup sends sig to every process in pgid. Group IDs 0 and 1 address
// the caller's own group and every process respectively and are refused.
func (GroupSignaler) SignalGroup(pgid uint32, sig syscall.Signal) error {
	if pgid <= 1 {
		return fmt.Errorf("refusing to signal process group %d", pgid)
	}
	if err := unix.Kill(-int(pgid), sig); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return ErrNoSuchGroup
		}
		return fmt.Errorf("failed to signal process group %d: %w", pgid, err)
	}
	return nil
}

// BecomeGroupLeader moves the calling process into a new process group of
// its own, so that a later takeover can terminate it together with every
// child it spawned. It returns the resulting group ID.
func BecomeGroupLeader() (uint32, error) {
	if err := unix.Setpgid(0, 0); err != nil {
		// Session leaders cannot change group; they already lead one.
		if !errors.Is(err, unix.EPERM) {
			return 0, fmt.Errorf("failed to create process group: %w", err)
		}
	}
	pgid, err := unix.Getpgid(0)
	if err != nil {
		return 0, fmt.Errorf("failed to read process group: %w", err)
	}
	return uint32(pgid), nil
}

// CurrentGroup returns the caller's process group ID.
func CurrentGroup() uint32 {
	return uint32(unix.Getpgrp())
}
