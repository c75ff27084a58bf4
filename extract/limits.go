package extract

// Limits bounds the resources an extraction may consume, enforced by
// the policy chain before any byte of a given entry is written.
type Limits struct {
	// MaxTotalBytes caps the sum of all extracted file content.
	MaxTotalBytes uint64
	// MaxSingleFile caps any one entry's extracted size.
	MaxSingleFile uint64
	// MaxFileCount caps the number of file entries extracted.
	MaxFileCount uint64
	// MaxPathDepth caps the number of path components in an entry name.
	MaxPathDepth uint64
}

// DefaultLimits returns a conservative profile suitable for extracting
// archives of unknown provenance: 1 GiB total, 100 MiB per file, 10000
// entries, 32 directory levels.
func DefaultLimits() Limits {
	return Limits{
		MaxTotalBytes: 1 << 30,
		MaxSingleFile: 100 << 20,
		MaxFileCount:  10000,
		MaxPathDepth:  32,
	}
}
