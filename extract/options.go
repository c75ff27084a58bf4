package extract

import (
	"github.com/archivekit/extract/internal/entry"
	"github.com/archivekit/extract/internal/policy"
	"github.com/archivekit/extract/log"
)

// EntryInfo is the public view of an archive entry, handed to a
// FilterFunc before extraction decides whether to materialize it.
type EntryInfo = entry.Info

// FilterFunc decides whether an entry should be extracted. Returning
// false causes the driver to count the entry as skipped rather than
// writing it.
type FilterFunc func(EntryInfo) bool

// Overwrite configures how an Extractor treats an entry whose
// destination path already exists.
type Overwrite int

const (
	// OverwriteError fails the extraction when the destination exists.
	OverwriteError Overwrite = iota
	// OverwriteSkip counts the entry as skipped and moves on.
	OverwriteSkip
	// OverwriteReplace unlinks an existing symlink at the destination
	// (never following it), then truncates an existing regular file or
	// creates a new one and writes the new content.
	OverwriteReplace
)

// SymlinkPolicy configures how an Extractor treats symlink entries.
// SkipSymlinks silently drops them; ErrorOnSymlinks aborts the
// extraction. The Extractor itself never creates a symlink on disk,
// regardless of this setting.
type SymlinkPolicy = policy.Behavior

const (
	SkipSymlinks    = policy.SkipSymlinks
	ErrorOnSymlinks = policy.ErrorOnSymlinks
)

// Strategy selects between the two extraction modes of spec.md §4.E.
type Strategy int

const (
	// Streaming validates and writes each entry in a single pass. On
	// failure, entries already written remain on disk.
	Streaming Strategy = iota
	// ValidateFirst performs a metadata-only validation pass over the
	// whole archive before writing anything, so a rejected archive
	// leaves no partial state. TAR-family sources pay a bounded memory
	// cost to buffer content between the two passes.
	ValidateFirst
)

// Option configures an Extractor. Construct one with New or
// NewOrCreate and apply Options via functional configuration, mirroring
// the teacher's archive package options.
type Option func(*Extractor)

// WithLimits overrides the resource limits enforced by the policy
// chain. Defaults to DefaultLimits.
func WithLimits(l Limits) Option {
	return func(e *Extractor) { e.limits = l }
}

// WithOverwrite sets the behavior for pre-existing destination paths.
// Defaults to OverwriteError.
func WithOverwrite(o Overwrite) Option {
	return func(e *Extractor) { e.overwrite = o }
}

// WithSymlinkPolicy sets the behavior for symlink entries. Defaults to
// SkipSymlinks.
func WithSymlinkPolicy(b SymlinkPolicy) Option {
	return func(e *Extractor) { e.symlinkPolicy = b }
}

// WithStrategy selects the extraction strategy. Defaults to Streaming.
func WithStrategy(s Strategy) Option {
	return func(e *Extractor) { e.strategy = s }
}

// WithFilter installs a predicate deciding which entries to extract.
// A nil filter (the default) extracts every entry that passes the
// policy chain.
func WithFilter(f FilterFunc) Option {
	return func(e *Extractor) { e.filter = f }
}

// WithLogger installs a log.Factory used to build a per-extraction
// logger. Defaults to a no-op factory.
func WithLogger(f log.Factory) Option {
	return func(e *Extractor) { e.logFactory = f }
}
