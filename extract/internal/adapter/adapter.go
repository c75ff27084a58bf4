// Package adapter defines the common surface every format adapter
// normalizes its archive into: an index-addressable source for formats
// with a central directory (ZIP, 7z), and a sequential source for
// strictly-ordered streams (TAR, TAR+gzip).
package adapter

import (
	"io"

	"github.com/archivekit/extract/internal/entry"
)

// IndexedSource is implemented by adapters whose underlying format
// exposes random access to entries (ZIP's central directory, 7z's
// folder index). The driver iterates 0..Len() in order.
type IndexedSource interface {
	// Len returns the number of entries in the archive.
	Len() int
	// EntryInfo returns the normalized metadata for entry i. It may
	// fail (e.g. *errtypes.EncryptedEntryError) without touching the
	// entry's compressed content.
	EntryInfo(i int) (entry.Info, error)
	// Open returns a reader over entry i's decompressed content. The
	// caller must Close it. Only valid for file entries.
	Open(i int) (io.ReadCloser, error)
}

// SequentialSource is implemented by adapters whose underlying format
// must be read in strict archive order (TAR).
type SequentialSource interface {
	// Next advances to, and returns, the next entry. reader is non-nil
	// only for file entries and is valid only until the next Next call.
	// Next returns io.EOF once the archive is exhausted.
	Next() (info entry.Info, reader io.Reader, err error)
}

// CachedEntry is one archive member materialized into memory by
// CacheAll, for the ValidateFirst strategy on sequential sources.
type CachedEntry struct {
	Info entry.Info
	// Data holds up to (MaxSingleFile + 1) bytes of the entry's decoded
	// content — enough for the driver's size-mismatch probe — or fewer
	// if the remaining total-bytes budget was already exhausted by
	// earlier entries.
	Data []byte
}

// CacheLimits bounds how much content CacheAll reads into memory, per
// entry and across the whole archive, so that a two-pass ValidateFirst
// extraction can never grow memory past the configured budget even
// when the archive turns out to violate it.
type CacheLimits struct {
	MaxSingleFile uint64
	MaxTotalBytes uint64
}

// CachingSequentialSource is a SequentialSource that can also
// materialize itself into memory for a ValidateFirst pre-pass.
type CachingSequentialSource interface {
	SequentialSource
	// CacheAll reads the entire archive once, returning every entry's
	// metadata and (budget permitting) its content.
	CacheAll(limits CacheLimits) ([]CachedEntry, error)
}
