//go:build unix

package maintenance

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// acquireLock opens (creating if absent) the file at path and attempts a
// non-blocking advisory exclusive lock on the whole file. ok=false (with a
// nil error) means another process currently holds the lock — not an
// error, a normal outcome.
func acquireLock(path string) (f *os.File, ok bool, err error) {
	f, err = os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("maintenance: opening lock file %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("maintenance: locking %s: %w", path, err)
	}

	return f, true, nil
}

// releaseLock unlocks and closes f.
func releaseLock(f *os.File) {
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
	_ = f.Close()
}
