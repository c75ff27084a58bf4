// Package jail implements the Path Jail: a destination root canonicalized
// once at construction, plus a Join operation that refuses to produce a
// path outside that root.
//
// The jail deliberately does NOT resolve symlinks on the joined path —
// only the root is canonicalized, and only once. Re-resolving on every
// Join would let an attacker-controlled in-destination symlink (created
// between construction and an extract call) redirect writes outside the
// jail; the atomic-create and symlink-unlink discipline in the driver's
// overwrite path handles that case safely without needing to re-canonicalize
// here.
package jail

import (
	"path/filepath"
	"strings"

	"github.com/archivekit/extract/internal/errtypes"
)

// Jail confirms every entry's path, joined to its destination, resolves
// within the destination after normalization.
type Jail struct {
	root string
}

// New canonicalizes destination once and caches its absolute form as the
// jail root. It fails with *errtypes.JailError if the root cannot be
// made absolute or its symlinks cannot be resolved (for example, because
// it does not exist). It does not check that the root is a directory.
func New(destination string) (*Jail, error) {
	abs, err := filepath.Abs(destination)
	if err != nil {
		return nil, &errtypes.JailError{Path: destination, Err: err}
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, &errtypes.JailError{Path: destination, Err: err}
	}

	return &Jail{root: filepath.Clean(resolved)}, nil
}

// Root returns the cached, canonicalized destination root.
func (j *Jail) Root() string {
	return j.root
}

// Join appends name to the jail root, normalizes "." / ".." segments, and
// fails if the normalized result does not stay within root. The returned
// path is for validation only — callers rebuild the actual write path by a
// literal root+name join so that intentional in-destination symlinks are
// preserved for the Overwrite policy to act on.
func (j *Jail) Join(name string) (string, error) {
	joined := filepath.Join(j.root, filepath.FromSlash(name))

	if joined != j.root && !strings.HasPrefix(joined, j.root+string(filepath.Separator)) {
		return "", &errtypes.PathEscapeError{
			Entry:  name,
			Detail: "normalized path is not within the destination root",
		}
	}

	return joined, nil
}
