// Package fsops implements the low-level, OS-backed filesystem primitives
// the driver needs: exclusive file creation (no TOCTOU gap between "does
// it exist?" and "create it"), mode masking, and symlink-aware unlinking
// for the Overwrite policy. The exclusive-create flags are platform
// specific and live in fsops_unix.go / fsops_windows.go.
package fsops

import (
	"io/fs"
	"os"
)

// CreateExclusive atomically creates path, failing with a wrapped
// fs.ErrExist if it already exists. On Unix this also passes O_NOFOLLOW
// so that a symlink planted at path is never silently followed.
func CreateExclusive(path string) (*os.File, error) {
	return os.OpenFile(path, createExclusiveFlags, 0o666)
}

// CreateTruncate creates path if absent or truncates it if present,
// without any existence check. Callers must have already unlinked a
// pre-existing symlink at path (see RemoveIfSymlink) before calling this,
// per the Overwrite policy's symlink-following defense.
func CreateTruncate(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
}

// RemoveIfSymlink removes path if, and only if, it currently exists and
// is a symlink. It is a no-op if path does not exist or is not a
// symlink.
func RemoveIfSymlink(path string) error {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if fi.Mode()&os.ModeSymlink == 0 {
		return nil
	}

	return os.Remove(path)
}

// Exists reports whether path exists, following symlinks.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Chmod masks mode down to the rwx bits (stripping setuid/setgid/sticky)
// before applying it to path.
func Chmod(path string, mode fs.FileMode) error {
	return os.Chmod(path, mode&0o777)
}

// MkdirAll creates path and any missing parents.
func MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}
