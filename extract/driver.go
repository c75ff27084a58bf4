package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/archivekit/extract/internal/adapter"
	"github.com/archivekit/extract/internal/entry"
	"github.com/archivekit/extract/internal/errtypes"
	"github.com/archivekit/extract/internal/fsops"
	"github.com/archivekit/extract/internal/limitreader"
	"github.com/archivekit/extract/internal/policy"
	"github.com/archivekit/extract/log"
)

// buildSafetyChain assembles the policies that run unconditionally on
// every entry, before the user Filter predicate ever gets a say: Path
// (filename syntax + jail containment), Symlink, Depth. A Filter can
// skip an entry from being written, but it can never mask an entry that
// is actually dangerous.
func (e *Extractor) buildSafetyChain() *policy.Chain {
	return policy.NewChain(
		policy.NewPathPolicy(e.jail),
		&policy.SymlinkPolicy{Behavior: e.symlinkPolicy},
		&policy.DepthPolicy{MaxPathDepth: e.limits.MaxPathDepth},
	)
}

// buildBudgetChain assembles the policies that account for an entry
// against the running count/size budgets. These run after the Filter
// predicate, so a filtered-out entry never consumes budget.
func (e *Extractor) buildBudgetChain() *policy.Chain {
	return policy.NewChain(
		&policy.CountPolicy{MaxFileCount: e.limits.MaxFileCount},
		&policy.SizePolicy{MaxSingleFile: e.limits.MaxSingleFile, MaxTotalBytes: e.limits.MaxTotalBytes},
	)
}

func reportFromState(s *policy.State) Report {
	return Report{
		FilesExtracted: s.FilesExtracted,
		DirsCreated:    s.DirsCreated,
		EntriesSkipped: s.EntriesSkipped,
		BytesWritten:   s.BytesWritten,
	}
}

// advanceDry mirrors the state transition a real extraction of info
// would cause, for the metadata-only validation pass of ValidateFirst.
func advanceDry(state *policy.State, info entry.Info) {
	switch info.Kind {
	case entry.Directory:
		state.DirsCreated++
	case entry.Symlink:
		state.EntriesSkipped++
	default:
		state.FilesExtracted++
		state.BytesWritten += info.Size
	}
}

// opener lazily produces a reader over a file entry's content. It is
// nil for directory and symlink entries, which never need one.
type opener func() (io.ReadCloser, error)

// processEntry runs the safety chain unconditionally, then the Filter
// predicate, then the budget chain, then materializes the entry:
// directories are created, symlinks are always skipped (the engine
// never creates one), and files are opened and written through the
// size-mismatch probe. This ordering means a Filter can exempt an
// entry from budget accounting, but never from the safety checks —
// a dangerous entry is rejected whether or not it would later be
// filtered out.
func (e *Extractor) processEntry(info entry.Info, open opener, safety, budget *policy.Chain, state *policy.State) error {
	logger := e.logger().Field("entry", info.Name).Field("kind", info.Kind.String())

	if err := safety.CheckAll(info, state); err != nil {
		logger.Level(log.ErrorLevel).Error(err).Message("entry rejected by policy chain")
		return err
	}

	if info.Kind == entry.Symlink {
		logger.Message("symlink entry skipped")
		state.EntriesSkipped++
		return nil
	}

	if e.filter != nil && !e.filter(info) {
		logger.Message("entry skipped by filter")
		state.EntriesSkipped++
		return nil
	}

	if err := budget.CheckAll(info, state); err != nil {
		logger.Level(log.ErrorLevel).Error(err).Message("entry rejected by policy chain")
		return err
	}

	switch info.Kind {
	case entry.Directory:
		if err := e.extractDir(info, state); err != nil {
			return err
		}
		logger.Message("directory created")
		return nil
	default:
		rc, err := open()
		if err != nil {
			return err
		}
		defer rc.Close()

		if err := e.extractFile(info, rc, state); err != nil {
			return err
		}
		logger.Message("file extracted")
		return nil
	}
}

func (e *Extractor) destinationPath(name string) string {
	return filepath.Join(e.jail.Root(), filepath.FromSlash(name))
}

func (e *Extractor) extractDir(info entry.Info, state *policy.State) error {
	mode := fs.FileMode(0o755)
	if info.Mode != nil {
		mode = *info.Mode
	}

	path := e.destinationPath(info.Name)
	if err := fsops.MkdirAll(path, mode); err != nil {
		return &errtypes.IOError{Op: fmt.Sprintf("create directory %q", info.Name), Err: err}
	}

	state.DirsCreated++
	return nil
}

// extractFile writes exactly info.Size bytes of r to info's destination
// path, then probes r for one further byte directly — never through the
// file — so a lying archive is caught without ever landing the extra
// byte on disk.
func (e *Extractor) extractFile(info entry.Info, r io.Reader, state *policy.State) error {
	path := e.destinationPath(info.Name)

	if e.overwrite == OverwriteSkip && fsops.Exists(path) {
		state.EntriesSkipped++
		return nil
	}

	if err := fsops.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &errtypes.IOError{Op: "create parent directory", Err: err}
	}

	f, err := e.createDestination(path, info.Name)
	if err != nil {
		return err
	}
	defer f.Close()

	lr := limitreader.New(r, info.Size)
	written, err := io.Copy(f, lr)
	if err != nil {
		return &errtypes.IOError{Op: fmt.Sprintf("write entry %q", info.Name), Err: err}
	}

	if uint64(written) == info.Size {
		var probe [1]byte
		n, perr := r.Read(probe[:])
		// archive/zip never hands out bytes past an entry's declared size;
		// it fails that read with zip.ErrFormat, which proves the same lie.
		if n > 0 || errors.Is(perr, zip.ErrFormat) {
			return &errtypes.SizeMismatchError{Entry: info.Name, Declared: info.Size, Actual: info.Size + 1}
		}
		if perr != nil && !errors.Is(perr, io.EOF) {
			return &errtypes.IOError{Op: fmt.Sprintf("verify entry %q", info.Name), Err: perr}
		}
	}

	if info.Mode != nil {
		if err := fsops.Chmod(path, *info.Mode); err != nil {
			return &errtypes.IOError{Op: fmt.Sprintf("chmod entry %q", info.Name), Err: err}
		}
	}

	state.FilesExtracted++
	state.BytesWritten += uint64(written)
	return nil
}

// createDestination opens path for writing according to the configured
// Overwrite behavior. OverwriteSkip is handled by the caller before
// this is reached.
func (e *Extractor) createDestination(path, entryName string) (*os.File, error) {
	if e.overwrite == OverwriteReplace {
		if err := fsops.RemoveIfSymlink(path); err != nil {
			return nil, &errtypes.IOError{Op: "remove existing symlink", Err: err}
		}
		f, err := fsops.CreateTruncate(path)
		if err != nil {
			return nil, &errtypes.IOError{Op: fmt.Sprintf("create entry %q", entryName), Err: err}
		}
		return f, nil
	}

	f, err := fsops.CreateExclusive(path)
	if err != nil {
		if os.IsExist(err) {
			return nil, &errtypes.AlreadyExistsError{Entry: entryName}
		}
		return nil, &errtypes.IOError{Op: fmt.Sprintf("create entry %q", entryName), Err: err}
	}
	return f, nil
}

// driveIndexed extracts every entry of a randomly-addressable source
// (ZIP, 7z). ValidateFirst is cheap here: EntryInfo reads metadata only,
// apart from a symlink entry's content, which holds its target.
func (e *Extractor) driveIndexed(src adapter.IndexedSource) (Report, error) {
	safety := e.buildSafetyChain()
	budget := e.buildBudgetChain()

	n := src.Len()
	infos := make([]entry.Info, n)
	for i := 0; i < n; i++ {
		info, err := src.EntryInfo(i)
		if err != nil {
			return Report{}, err
		}
		infos[i] = info
	}

	if e.strategy == ValidateFirst {
		// Filter predicates are deliberately not consulted here: the
		// pre-pass validates every entry as if it will be written, so
		// the limits checked stay conservative.
		dry := &policy.State{}
		for _, info := range infos {
			if err := safety.CheckAll(info, dry); err != nil {
				return Report{}, err
			}
			if info.Kind != entry.Symlink {
				if err := budget.CheckAll(info, dry); err != nil {
					return Report{}, err
				}
			}
			advanceDry(dry, info)
		}
	}

	state := &policy.State{}
	for i, info := range infos {
		idx := i
		open := opener(func() (io.ReadCloser, error) { return src.Open(idx) })
		if err := e.processEntry(info, open, safety, budget, state); err != nil {
			return Report{}, err
		}
	}

	return reportFromState(state), nil
}

// driveSequential extracts every entry of a strictly-ordered source
// (TAR, TAR+gzip). ValidateFirst requires a CachingSequentialSource,
// since a sequential format cannot be re-read without buffering.
func (e *Extractor) driveSequential(src adapter.SequentialSource) (Report, error) {
	safety := e.buildSafetyChain()
	budget := e.buildBudgetChain()

	if e.strategy == ValidateFirst {
		caching, ok := src.(adapter.CachingSequentialSource)
		if !ok {
			return Report{}, &errtypes.IOError{
				Op:  "validate-first extraction",
				Err: errors.New("source does not support pre-validation caching"),
			}
		}
		return e.driveCached(caching, safety, budget)
	}

	state := &policy.State{}
	for {
		info, r, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Report{}, err
		}

		var open opener
		if r != nil {
			rdr := r
			open = func() (io.ReadCloser, error) { return io.NopCloser(rdr), nil }
		}

		if err := e.processEntry(info, open, safety, budget, state); err != nil {
			return Report{}, err
		}
	}

	return reportFromState(state), nil
}

func (e *Extractor) driveCached(src adapter.CachingSequentialSource, safety, budget *policy.Chain) (Report, error) {
	limits := adapter.CacheLimits{MaxSingleFile: e.limits.MaxSingleFile, MaxTotalBytes: e.limits.MaxTotalBytes}

	cached, err := src.CacheAll(limits)
	if err != nil {
		return Report{}, err
	}

	// Filter predicates are deliberately not consulted here; see driveIndexed.
	dry := &policy.State{}
	for _, ce := range cached {
		if err := safety.CheckAll(ce.Info, dry); err != nil {
			return Report{}, err
		}
		if ce.Info.Kind != entry.Symlink {
			if err := budget.CheckAll(ce.Info, dry); err != nil {
				return Report{}, err
			}
		}
		advanceDry(dry, ce.Info)
	}

	state := &policy.State{}
	for _, ce := range cached {
		data := ce.Data
		var open opener
		if ce.Info.IsFile() {
			open = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil }
		}
		if err := e.processEntry(ce.Info, open, safety, budget, state); err != nil {
			return Report{}, err
		}
	}

	return reportFromState(state), nil
}
