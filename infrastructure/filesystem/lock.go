package filesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run already holds the lock
var ErrLocked = errors.New("another run is using this video directory")

// RunLock is an advisory lock guarding one video directory
type RunLock struct {
	path string
	lock *flock.Flock
}

// LockPath returns the lock file used for videoDir. It sits next to the
// directory so deleting the video tree does not remove a held lock.
func LockPath(videoDir string) string {
	return filepath.Clean(videoDir) + ".lock"
}

// AcquireRunLock takes the lock for videoDir without blocking
func AcquireRunLock(videoDir string) (*RunLock, error) {
	path := LockPath(videoDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, path)
	}

	return &RunLock{path: path, lock: lock}, nil
}

// Path returns the lock file path
func (l *RunLock) Path() string {
	return l.path
}

// Release unlocks and removes the lock file
func (l *RunLock) Release() error {
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	_ = os.Remove(l.path)
	return nil
}
