package extract

import (
	"os"

	"github.com/archivekit/extract/internal/errtypes"
	"github.com/archivekit/extract/internal/fsops"
	"github.com/archivekit/extract/internal/jail"
	"github.com/archivekit/extract/log"
)

// Extractor drives hardened extraction of ZIP, TAR, TAR+gzip, and 7z
// archives into a single destination directory. Build one with New or
// NewOrCreate and reuse it across calls; it holds no per-extraction
// state between calls.
type Extractor struct {
	destination   string
	jail          *jail.Jail
	limits        Limits
	overwrite     Overwrite
	symlinkPolicy SymlinkPolicy
	strategy      Strategy
	filter        FilterFunc
	logFactory    log.Factory
}

// New builds an Extractor rooted at destination. destination must
// already exist as a directory; use NewOrCreate to create it on demand.
func New(destination string, opts ...Option) (*Extractor, error) {
	fi, err := os.Stat(destination)
	if err != nil || !fi.IsDir() {
		return nil, &errtypes.DestinationNotFoundError{Path: destination}
	}

	return newExtractor(destination, opts...)
}

// NewOrCreate builds an Extractor rooted at destination, creating the
// directory (and any missing parents) first if it does not yet exist.
func NewOrCreate(destination string, opts ...Option) (*Extractor, error) {
	if !fsops.Exists(destination) {
		if err := fsops.MkdirAll(destination, 0o755); err != nil {
			return nil, &errtypes.IOError{Op: "create destination directory", Err: err}
		}
	}

	return newExtractor(destination, opts...)
}

func newExtractor(destination string, opts ...Option) (*Extractor, error) {
	j, err := jail.New(destination)
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		destination:   destination,
		jail:          j,
		limits:        DefaultLimits(),
		overwrite:     OverwriteError,
		symlinkPolicy: SkipSymlinks,
		strategy:      Streaming,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// logger builds a fresh per-extraction logger from the configured
// factory, falling back to the package-level static factory (a no-op by
// default) when none was supplied via WithLogger.
func (e *Extractor) logger() log.Logger {
	if e.logFactory != nil {
		return e.logFactory.New()
	}
	return log.New()
}
