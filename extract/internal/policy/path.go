package policy

import (
	"github.com/archivekit/extract/internal/entry"
	"github.com/archivekit/extract/internal/filename"
	"github.com/archivekit/extract/internal/jail"
)

// PathPolicy composes the Filename Validator and the Path Jail — the
// cheapest and strictest check, and therefore first in the chain.
type PathPolicy struct {
	jail *jail.Jail
}

// NewPathPolicy builds a PathPolicy bound to the given jail.
func NewPathPolicy(j *jail.Jail) *PathPolicy {
	return &PathPolicy{jail: j}
}

// Check validates the entry name and confirms it stays within the jail
// root. The joined path is discarded — it exists only to prove the
// entry is safe; the driver rebuilds the write path itself.
func (p *PathPolicy) Check(e entry.Info, _ *State) error {
	if err := filename.Validate(e.Name); err != nil {
		return err
	}

	_, err := p.jail.Join(e.Name)
	return err
}
