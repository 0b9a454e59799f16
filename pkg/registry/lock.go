package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFile is created in the base directory to keep a second process from
// serving the same databases.
const LockFile = "storemy.lock"

// ErrBaseDirLocked is returned when another process holds the base directory.
var ErrBaseDirLocked = errors.New("base directory is locked by another process")

// LockBaseDir takes an exclusive, non-blocking lock on baseDir, creating the
// directory if needed. Release it with Unlock.
func LockBaseDir(baseDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir: %w", err)
	}

	fileLock := flock.New(filepath.Join(baseDir, LockFile))
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrBaseDirLocked, baseDir)
	}
	return fileLock, nil
}
