package policy

import (
	"strings"

	"github.com/archivekit/extract/internal/entry"
	"github.com/archivekit/extract/internal/errtypes"
)

// DepthPolicy rejects entries whose path has more non-"."/".." components
// than the configured maximum directory depth.
type DepthPolicy struct {
	MaxPathDepth uint64
}

// Check implements Policy.
func (p *DepthPolicy) Check(e entry.Info, _ *State) error {
	depth := uint64(0)
	for _, component := range strings.Split(e.Name, "/") {
		switch component {
		case "", ".", "..":
			continue
		default:
			depth++
		}
	}

	if depth > p.MaxPathDepth {
		return &errtypes.PathTooDeepError{Entry: e.Name, Depth: depth, Limit: p.MaxPathDepth}
	}

	return nil
}
