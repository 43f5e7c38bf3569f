//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package recordings

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ReadLocked reads the whole file while holding a shared flock so a recorder
// still writing it under an exclusive lock is waited for.
func ReadLocked(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_SH); err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	defer unix.Flock(fd, unix.LOCK_UN) //nolint:errcheck

	return io.ReadAll(f)
}
