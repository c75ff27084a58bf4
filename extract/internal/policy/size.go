package policy

import (
	"github.com/archivekit/extract/internal/entry"
	"github.com/archivekit/extract/internal/errtypes"
)

// SizePolicy rejects entries whose declared size exceeds the per-file
// limit, or whose declared size would push cumulative bytes written past
// the total budget.
type SizePolicy struct {
	MaxSingleFile uint64
	MaxTotalBytes uint64
}

// Check implements Policy.
func (p *SizePolicy) Check(e entry.Info, state *State) error {
	if !e.IsFile() {
		return nil
	}

	if e.Size > p.MaxSingleFile {
		return &errtypes.FileTooLargeError{Entry: e.Name, Limit: p.MaxSingleFile, Size: e.Size}
	}

	wouldBe := state.BytesWritten + e.Size
	if wouldBe > p.MaxTotalBytes {
		return &errtypes.TotalSizeExceededError{Limit: p.MaxTotalBytes, WouldBe: wouldBe}
	}

	return nil
}
