package policy

import (
	"github.com/archivekit/extract/internal/entry"
	"github.com/archivekit/extract/internal/errtypes"
)

// CountPolicy rejects a file entry once the number of files already
// extracted has reached the configured maximum — checked pre-increment,
// so the limit is inclusive of the attempted file.
type CountPolicy struct {
	MaxFileCount uint64
}

// Check implements Policy.
func (p *CountPolicy) Check(e entry.Info, state *State) error {
	if !e.IsFile() {
		return nil
	}

	if state.FilesExtracted >= p.MaxFileCount {
		return &errtypes.FileCountExceededError{Limit: p.MaxFileCount, Attempted: state.FilesExtracted + 1}
	}

	return nil
}
