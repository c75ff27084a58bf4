package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/archivekit/extract/internal/adapter/zipadapter"
	"github.com/archivekit/extract/internal/errtypes"
)

// ExtractZip extracts a ZIP archive from r into the Extractor's
// destination. size must be the exact byte length of r's content, as
// required by archive/zip's central-directory lookup.
func (e *Extractor) ExtractZip(r io.ReaderAt, size int64) (Report, error) {
	a, err := zipadapter.Open(r, size)
	if err != nil {
		return Report{}, err
	}
	return e.driveIndexed(a)
}

// ExtractZipFile opens path and extracts it as a ZIP archive.
func (e *Extractor) ExtractZipFile(path string) (Report, error) {
	f, size, err := openSized(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()

	return e.ExtractZip(f, size)
}

// ListZip returns the normalized metadata of every entry in a ZIP
// archive without extracting anything.
func ListZip(r io.ReaderAt, size int64) ([]EntryInfo, error) {
	a, err := zipadapter.Open(r, size)
	if err != nil {
		return nil, err
	}

	infos := make([]EntryInfo, a.Len())
	for i := range infos {
		info, err := a.EntryInfo(i)
		if err != nil {
			return nil, err
		}
		infos[i] = info
	}
	return infos, nil
}

// ListZipFile opens path and lists it as a ZIP archive.
func ListZipFile(path string) ([]EntryInfo, error) {
	f, size, err := openSized(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ListZip(f, size)
}

// VerifyZip reads every non-directory, non-symlink entry of a ZIP
// archive to completion, relying on archive/zip's built-in CRC32 check
// to surface corruption as an error.
func VerifyZip(r io.ReaderAt, size int64) (VerifyReport, error) {
	a, err := zipadapter.Open(r, size)
	if err != nil {
		return VerifyReport{}, err
	}

	var report VerifyReport
	for i := 0; i < a.Len(); i++ {
		info, err := a.EntryInfo(i)
		if err != nil {
			return VerifyReport{}, err
		}
		if !info.IsFile() {
			continue
		}

		n, err := a.Verify(i)
		if err != nil {
			return VerifyReport{}, fmt.Errorf("verify entry %q: %w", info.Name, err)
		}

		report.EntriesVerified++
		report.BytesVerified += n
	}

	return report, nil
}

// VerifyZipFile opens path and verifies it as a ZIP archive.
func VerifyZipFile(path string) (VerifyReport, error) {
	f, size, err := openSized(path)
	if err != nil {
		return VerifyReport{}, err
	}
	defer f.Close()

	return VerifyZip(f, size)
}

// VerifyZipBytes verifies a ZIP archive already held in memory.
func VerifyZipBytes(data []byte) (VerifyReport, error) {
	return VerifyZip(bytes.NewReader(data), int64(len(data)))
}

// openSized opens path for reading and reports its size, the shape
// every *ReaderAt-based format needs.
func openSized(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, &errtypes.IOError{Op: fmt.Sprintf("open archive %q", path), Err: err}
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, &errtypes.IOError{Op: fmt.Sprintf("stat archive %q", path), Err: err}
	}

	return f, fi.Size(), nil
}
