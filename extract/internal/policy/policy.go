// Package policy implements the ordered Policy Chain: the set of checks
// run against every entry before it is materialized on disk. Ordering is
// fixed and security-critical — see Chain.CheckAll.
package policy

import "github.com/archivekit/extract/internal/entry"

// State is the mutable, per-extraction state that cumulative policies
// check against. It is created zero-initialized per extraction and
// mutated only by the driver after a step succeeds.
type State struct {
	FilesExtracted uint64
	DirsCreated    uint64
	EntriesSkipped uint64
	BytesWritten   uint64
}

// Policy validates one entry against the current extraction state.
type Policy interface {
	// Check returns nil if entry passes, or an error describing the
	// violation.
	Check(e entry.Info, state *State) error
}

// Chain is an ordered, immutable list of policies. Evaluation short
// circuits on the first failing policy.
type Chain struct {
	policies []Policy
}

// NewChain builds a Chain from policies, preserving call order. The
// Extraction Driver builds two chains: Path, Symlink, Depth for every
// entry, then Count, Size for entries the Filter keeps.
func NewChain(policies ...Policy) *Chain {
	return &Chain{policies: policies}
}

// CheckAll runs every policy in order against entry, stopping at the
// first failure.
func (c *Chain) CheckAll(e entry.Info, state *State) error {
	for _, p := range c.policies {
		if err := p.Check(e, state); err != nil {
			return err
		}
	}
	return nil
}
