// Package taradapter normalizes a TAR stream into the driver's common
// entry stream. Grounded on the teacher's compression/archive/tar
// package: the same Typeflag switch and device-node skip, generalized
// into the shared adapter.SequentialSource contract and extended to
// reject devices/fifos/sparse/hardlink entries with UnsupportedEntryType
// instead of silently skipping them.
package taradapter

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/archivekit/extract/internal/adapter"
	"github.com/archivekit/extract/internal/entry"
	"github.com/archivekit/extract/internal/errtypes"
	"github.com/archivekit/extract/internal/limitreader"
)

// Adapter normalizes a *tar.Reader into the driver's SequentialSource
// and CachingSequentialSource contracts.
type Adapter struct {
	tr *tar.Reader
}

// New wraps r in a TAR reader.
func New(r io.Reader) *Adapter {
	return &Adapter{tr: tar.NewReader(r)}
}

var _ adapter.CachingSequentialSource = (*Adapter)(nil)

// Next implements adapter.SequentialSource.
func (a *Adapter) Next() (entry.Info, io.Reader, error) {
	for {
		hdr, err := a.tr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return entry.Info{}, nil, io.EOF
			}
			return entry.Info{}, nil, &errtypes.IOError{Op: "read tar entry", Err: err}
		}

		info, skip, err := translate(hdr)
		if err != nil {
			return entry.Info{}, nil, err
		}
		if skip {
			continue
		}

		if info.IsFile() {
			return info, a.tr, nil
		}
		return info, nil, nil
	}
}

// CacheAll implements adapter.CachingSequentialSource: it reads the
// entire archive once, bounding how much of each entry's content is kept
// in memory by the remaining total-bytes budget so a declared-size lie
// cannot grow the cache past the configured limit.
func (a *Adapter) CacheAll(limits adapter.CacheLimits) ([]adapter.CachedEntry, error) {
	var (
		entries        []adapter.CachedEntry
		declaredCached uint64
	)

	for {
		hdr, err := a.tr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &errtypes.IOError{Op: "read tar entry", Err: err}
		}

		info, skip, err := translate(hdr)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}

		ce := adapter.CachedEntry{Info: info}

		if info.IsFile() {
			perEntryCap := limits.MaxSingleFile + 1

			remaining := uint64(0)
			if declaredCached < limits.MaxTotalBytes {
				remaining = limits.MaxTotalBytes - declaredCached + 1
			}
			if remaining < perEntryCap {
				perEntryCap = remaining
			}

			lr := limitreader.New(a.tr, perEntryCap)
			data, err := io.ReadAll(lr)
			if err != nil {
				return nil, &errtypes.IOError{Op: fmt.Sprintf("cache tar entry %q", info.Name), Err: err}
			}
			ce.Data = data
			declaredCached += info.Size
		}

		entries = append(entries, ce)
	}

	return entries, nil
}

// translate converts a tar.Header into an entry.Info. skip is true for
// entry types archive/tar itself never surfaces as real content (PAX
// globals are consumed internally by tar.Reader, so this is mostly a
// defensive default).
func translate(hdr *tar.Header) (info entry.Info, skip bool, err error) {
	info.Name = hdr.Name

	switch hdr.Typeflag {
	case tar.TypeReg, tar.TypeRegA, tar.TypeCont:
		info.Kind = entry.File
		info.Size = uint64(hdr.Size)
	case tar.TypeDir:
		info.Kind = entry.Directory
	case tar.TypeSymlink:
		info.Kind = entry.Symlink
		info.Target = hdr.Linkname
	case tar.TypeChar:
		return entry.Info{}, false, &errtypes.UnsupportedEntryTypeError{Entry: hdr.Name, TypeName: "character device"}
	case tar.TypeBlock:
		return entry.Info{}, false, &errtypes.UnsupportedEntryTypeError{Entry: hdr.Name, TypeName: "block device"}
	case tar.TypeFifo:
		return entry.Info{}, false, &errtypes.UnsupportedEntryTypeError{Entry: hdr.Name, TypeName: "fifo"}
	case tar.TypeGNUSparse:
		return entry.Info{}, false, &errtypes.UnsupportedEntryTypeError{Entry: hdr.Name, TypeName: "sparse file"}
	case tar.TypeLink:
		return entry.Info{}, false, &errtypes.UnsupportedEntryTypeError{Entry: hdr.Name, TypeName: "hardlink"}
	case tar.TypeXHeader, tar.TypeXGlobalHeader:
		return entry.Info{}, true, nil
	default:
		return entry.Info{}, false, &errtypes.UnsupportedEntryTypeError{Entry: hdr.Name, TypeName: fmt.Sprintf("typeflag %q", string(hdr.Typeflag))}
	}

	if hdr.Typeflag == tar.TypeReg || hdr.Typeflag == tar.TypeRegA || hdr.Typeflag == tar.TypeCont {
		mode := fs.FileMode(hdr.Mode) & fs.ModePerm
		info.Mode = &mode
	} else if hdr.Typeflag == tar.TypeDir {
		mode := fs.FileMode(hdr.Mode) & fs.ModePerm
		info.Mode = &mode
	}

	return info, false, nil
}
