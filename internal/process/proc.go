package process

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flatplay/flatplay/internal/logging"
)

// startTimeIndex is the position of starttime (field 22 of proc(5)) among the
// fields following the command name.
const startTimeIndex = 19

// ErrProcessNotFound is returned when no record exists for a pid.
var ErrProcessNotFound = errors.New("process not found")

// StartTimeReader reports the start time of a process in clock ticks since boot.
type StartTimeReader interface {
	StartTime(pid uint32) (uint64, error)
}

// ProcFS reads process records from a procfs mount.
type ProcFS struct {
	Root string
}

// NewProcFS returns a reader for /proc.
func NewProcFS() *ProcFS {
	return &ProcFS{Root: "/proc"}
}

// StartTime returns the start time recorded in <Root>/<pid>/stat.
func (p *ProcFS) StartTime(pid uint32) (uint64, error) {
	path := filepath.Join(p.Root, strconv.FormatUint(uint64(pid), 10), "stat")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrProcessNotFound
		}
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseStartTime(string(data))
}

// ParseStartTime extracts the start time from the contents of a stat record.
// The command name is parenthesised and may itself contain spaces and
// parentheses, so parsing resumes after the last ')'.
func ParseStartTime(stat string) (uint64, error) {
	end := strings.LastIndexByte(stat, ')')
	if end < 0 {
		return 0, fmt.Errorf("malformed stat record: no command name")
	}

	fields := strings.Fields(stat[end+1:])
	if len(fields) <= startTimeIndex {
		return 0, fmt.Errorf("malformed stat record: %d fields after command name", len(fields))
	}

	ticks, err := strconv.ParseUint(fields[startTimeIndex], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed stat record: start time %q: %w", fields[startTimeIndex], err)
	}
	return ticks, nil
}

// SameInstance reports whether pid still names the process that had
// startTime when it was recorded. A start time that cannot be read, whether
// the process is gone, its record is unreadable or malformed, counts as a
// different instance.
func SameInstance(reader StartTimeReader, pid uint32, startTime uint64) bool {
	current, err := reader.StartTime(pid)
	if err != nil {
		if !errors.Is(err, ErrProcessNotFound) {
			logging.Debug("cannot read process start time", "pid", pid, "error", err)
		}
		return false
	}
	return current == startTime
}
