package policy

import (
	"github.com/archivekit/extract/internal/entry"
	"github.com/archivekit/extract/internal/errtypes"
)

// Behavior configures how SymlinkPolicy treats symlink entries.
type Behavior int

const (
	// SkipSymlinks is the default: symlink entries are not materialized
	// and are counted into the skipped-entries tally by the driver.
	SkipSymlinks Behavior = iota
	// ErrorOnSymlinks aborts the extraction the moment a symlink entry is
	// encountered.
	ErrorOnSymlinks
)

// SymlinkPolicy enforces the configured symlink Behavior. The engine
// never creates symlinks regardless of this setting — Skip only decides
// whether a symlink entry aborts the extraction or is silently dropped.
type SymlinkPolicy struct {
	Behavior Behavior
}

// Check implements Policy.
func (p *SymlinkPolicy) Check(e entry.Info, _ *State) error {
	if !e.IsSymlink() {
		return nil
	}

	if p.Behavior == ErrorOnSymlinks {
		return &errtypes.SymlinkNotAllowedError{Entry: e.Name, Target: e.Target}
	}

	return nil
}
