package history

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// lockTimeout bounds how long a dialog waits for another ask-user process
// that is writing the same history file.
const lockTimeout = 2 * time.Second

// withLock holds an exclusive lock on path.lock while fn runs.
func withLock(path string, fn func() error) error {
	return lockAndRun(path, false, fn)
}

// withReadLock holds a shared lock on path.lock while fn runs.
func withReadLock(path string, fn func() error) error {
	return lockAndRun(path, true, fn)
}

func lockAndRun(path string, shared bool, fn func() error) error {
	lockPath := path + ".lock"
	fileLock := flock.New(lockPath)

	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	try := fileLock.TryLockContext
	if shared {
		try = fileLock.TryRLockContext
	}
	locked, err := try(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquiring lock on %s: %w", lockPath, err)
	}
	if !locked {
		return fmt.Errorf("timed out acquiring lock on %s", lockPath)
	}
	defer fileLock.Unlock()

	return fn()
}
