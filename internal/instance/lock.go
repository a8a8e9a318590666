package instance

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/flatplay/flatplay/internal/config"
	"github.com/flatplay/flatplay/internal/errors"
	"github.com/flatplay/flatplay/internal/logging"
	"github.com/flatplay/flatplay/internal/process"
)

// ShutdownResult describes what RequestShutdown found.
type ShutdownResult int

const (
	// ShutdownNothingRunning means no holder was recorded.
	ShutdownNothingRunning ShutdownResult = iota
	// ShutdownStale means the recorded holder no longer exists; its
	// metadata was cleared.
	ShutdownStale
	// ShutdownSignaled means SIGTERM was delivered to the holder's group.
	ShutdownSignaled
)

func (r ShutdownResult) String() string {
	switch r {
	case ShutdownNothingRunning:
		return "nothing running"
	case ShutdownStale:
		return "stale"
	case ShutdownSignaled:
		return "signaled"
	default:
		return fmt.Sprintf("ShutdownResult(%d)", int(r))
	}
}

// Locker acquires the instance lock of one project.
type Locker struct {
	path         string
	dir          string
	wait         time.Duration
	pollInterval time.Duration
	oracle       process.StartTimeReader
	signaler     process.Signaler
	pid          uint32
	ownGroup     uint32
}

// Option configures a Locker.
type Option func(*Locker)

// WithWait sets how long AcquireOrTakeover waits for a previous holder to exit.
func WithWait(d time.Duration) Option {
	return func(l *Locker) {
		l.wait = d
	}
}

// WithPollInterval sets the delay between lock attempts while waiting.
func WithPollInterval(d time.Duration) Option {
	return func(l *Locker) {
		l.pollInterval = d
	}
}

func WithOracle(oracle process.StartTimeReader) Option {
	return func(l *Locker) {
		l.oracle = oracle
	}
}

func WithSignaler(signaler process.Signaler) Option {
	return func(l *Locker) {
		l.signaler = signaler
	}
}

// WithPID overrides the process ID recorded for this session.
func WithPID(pid uint32) Option {
	return func(l *Locker) {
		l.pid = pid
	}
}

// WithOwnGroup overrides the process group RequestShutdown refuses to signal.
func WithOwnGroup(pgid uint32) Option {
	return func(l *Locker) {
		l.ownGroup = pgid
	}
}

// New returns a Locker for the project laid out by dirs.
func New(dirs *config.BuildDirs, opts ...Option) *Locker {
	l := &Locker{
		path:         dirs.LockFile(),
		dir:          dirs.BuildDir(),
		wait:         config.DefaultTakeoverTimeout,
		pollInterval: config.DefaultTakeoverPollInterval,
		oracle:       process.NewProcFS(),
		signaler:     process.GroupSignaler{},
		pid:          uint32(os.Getpid()),
		ownGroup:     process.CurrentGroup(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock is a held instance lock.
type Lock struct {
	file *os.File
}

// Release clears the recorded metadata, unlocks and closes the lock file.
// It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	var errs []error
	if err := f.Truncate(0); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear lock metadata: %w", err))
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
		errs = append(errs, fmt.Errorf("failed to unlock: %w", err))
	}
	if err := f.Close(); err != nil {
		errs = append(errs, err)
	}
	return stderrors.Join(errs...)
}

// AcquireOrTakeover takes the instance lock, recording pgid as the group to
// signal on a later takeover. If another session holds the lock it is asked
// to shut down and the lock is polled until the configured wait elapses.
func (l *Locker) AcquireOrTakeover(ctx context.Context, pgid uint32) (*Lock, error) {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return nil, errors.LockFailed(err)
	}

	f, err := os.OpenFile(l.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.LockFailed(err)
	}

	acquired, err := tryLock(f)
	if err != nil {
		f.Close()
		return nil, errors.LockFailed(err)
	}

	if !acquired {
		logging.Debug("instance lock held, requesting shutdown", "path", l.path)

		result, err := l.RequestShutdown()
		if err != nil {
			f.Close()
			return nil, errors.LockFailed(err)
		}
		logging.Debug("shutdown requested", "result", result.String())

		if err := l.poll(ctx, f); err != nil {
			f.Close()
			return nil, err
		}
	}

	lock := &Lock{file: f}
	if err := l.writeMetadata(f, pgid); err != nil {
		lock.Release()
		return nil, errors.LockFailed(err)
	}

	logging.Debug("instance lock acquired", "path", l.path, "pid", l.pid, "pgid", pgid)
	return lock, nil
}

func (l *Locker) poll(ctx context.Context, f *os.File) error {
	deadline := time.NewTimer(l.wait)
	defer deadline.Stop()
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return errors.Interrupted()
		case <-deadline.C:
			return errors.LockTimeout(l.wait)
		case <-ticker.C:
			acquired, err := tryLock(f)
			if err != nil {
				return errors.LockFailed(err)
			}
			if acquired {
				return nil
			}
		}
	}
}

func tryLock(f *os.File) (bool, error) {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err == nil {
		return true, nil
	}
	if stderrors.Is(err, unix.EWOULDBLOCK) {
		return false, nil
	}
	return false, err
}

func (l *Locker) writeMetadata(f *os.File, pgid uint32) error {
	ticks, err := l.oracle.StartTime(l.pid)
	if err != nil {
		return fmt.Errorf("failed to read own start time: %w", err)
	}

	meta := Metadata{
		ProcessID:             l.pid,
		ProcessGroupID:        pgid,
		ProcessStartTimeTicks: ticks,
	}
	data, err := meta.encode()
	if err != nil {
		return err
	}

	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.WriteAt(data, 0); err != nil {
		return err
	}
	return f.Sync()
}

// RequestShutdown asks the recorded holder, if any, to exit. It never blocks
// on the lock and is safe to call when no session is running.
func (l *Locker) RequestShutdown() (ShutdownResult, error) {
	raw, meta, err := readMetadata(l.path)
	if err != nil {
		logging.Debug("lock metadata unreadable", "path", l.path, "error", err)
		return ShutdownNothingRunning, nil
	}
	if meta == nil {
		return ShutdownNothingRunning, nil
	}

	if !process.SameInstance(l.oracle, meta.ProcessID, meta.ProcessStartTimeTicks) {
		logging.Debug("lock holder is gone", "pid", meta.ProcessID)
		l.clearMetadata(raw)
		return ShutdownStale, nil
	}

	if meta.ProcessGroupID == l.ownGroup {
		return ShutdownNothingRunning, fmt.Errorf("refusing to signal own process group %d", meta.ProcessGroupID)
	}

	if err := l.signaler.SignalGroup(meta.ProcessGroupID, syscall.SIGTERM); err != nil {
		if stderrors.Is(err, process.ErrNoSuchGroup) {
			logging.Debug("lock holder group is gone", "pgid", meta.ProcessGroupID)
			l.clearMetadata(raw)
			return ShutdownStale, nil
		}
		return ShutdownNothingRunning, err
	}

	logging.Debug("sent SIGTERM to lock holder", "pid", meta.ProcessID, "pgid", meta.ProcessGroupID)
	return ShutdownSignaled, nil
}

// clearMetadata empties the lock file if it still holds raw, leaving
// metadata written by a newer holder in place.
func (l *Locker) clearMetadata(raw []byte) {
	current, err := os.ReadFile(l.path)
	if err != nil || string(current) != string(raw) {
		return
	}
	if err := os.Truncate(l.path, 0); err != nil {
		logging.Debug("failed to clear stale lock metadata", "error", err)
	}
}
