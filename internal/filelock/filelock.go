// Package filelock provides output file locking and atomic writes so that two
// aggregator runs never interleave sections in the same output file.
package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the lock
var ErrLocked = errors.New("lock is held by another process")

// LockSuffix is appended to a target path to derive its lock file
const LockSuffix = ".lock"

// FileLock wraps a flock file lock for coordinating access to files.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created at the specified path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path
func (fl *FileLock) Path() string {
	return fl.path
}

// Lock acquires an exclusive lock on the file, blocking until the lock is available.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// TryLock attempts to acquire an exclusive lock on the file without blocking.
// Returns true if the lock was acquired, false if the lock is held by another process.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// LockSet holds the locks of every output of one run
type LockSet struct {
	locks []*FileLock
}

// AcquireOutputLocks takes a non-blocking exclusive lock on "<target>.lock" for
// each target. If any lock is already held, the locks taken so far are
// released and an error wrapping ErrLocked is returned.
func AcquireOutputLocks(targets []string) (*LockSet, error) {
	set := &LockSet{}
	for _, target := range targets {
		dir := filepath.Dir(target)
		if err := os.MkdirAll(dir, 0755); err != nil {
			set.Release()
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		lock := NewFileLock(target + LockSuffix)
		acquired, err := lock.TryLock()
		if err != nil {
			set.Release()
			return nil, err
		}
		if !acquired {
			set.Release()
			return nil, fmt.Errorf("output %s: %w", target, ErrLocked)
		}
		set.locks = append(set.locks, lock)
	}
	return set, nil
}

// Release unlocks every held lock and removes the lock files.
// Returns the first error encountered.
func (s *LockSet) Release() error {
	var firstErr error
	for _, lock := range s.locks {
		if err := lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := os.Remove(lock.path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove lock file %s: %w", lock.path, err)
		}
	}
	s.locks = nil
	return firstErr
}

// AtomicWrite writes data to a file atomically using a temp file and rename strategy.
// Readers never see a partial write; on failure the original file is unchanged.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory as target so the rename stays on one filesystem
	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	// Renamed; nothing left to clean up
	tempFile = nil

	return nil
}

// LockAndWrite acquires "<path>.lock", performs an atomic write, releases the
// lock and removes the lock file. Missing parent directories are created.
func LockAndWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	lockPath := path + LockSuffix
	lock := NewFileLock(lockPath)

	if err := lock.Lock(); err != nil {
		return err
	}
	defer func() {
		lock.Unlock()
		os.Remove(lockPath)
	}()

	return AtomicWrite(path, data)
}
