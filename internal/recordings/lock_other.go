//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package recordings

import "os"

// ReadLocked reads the whole file. Advisory locks are not available here.
func ReadLocked(path string) ([]byte, error) {
	return os.ReadFile(path)
}
