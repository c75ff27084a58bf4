package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/archivekit/extract/internal/adapter/sevenzadapter"
)

// Extract7z extracts a 7z archive from r into the Extractor's
// destination. size must be the exact byte length of r's content.
func (e *Extractor) Extract7z(r io.ReaderAt, size int64) (Report, error) {
	a, err := sevenzadapter.Open(r, size)
	if err != nil {
		return Report{}, err
	}
	return e.driveIndexed(a)
}

// Extract7zFile opens path and extracts it as a 7z archive.
func (e *Extractor) Extract7zFile(path string) (Report, error) {
	f, size, err := openSized(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()

	return e.Extract7z(f, size)
}

// List7z returns the normalized metadata of every entry in a 7z
// archive without extracting anything.
func List7z(r io.ReaderAt, size int64) ([]EntryInfo, error) {
	a, err := sevenzadapter.Open(r, size)
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

// List7zFile opens path and lists it as a 7z archive.
func List7zFile(path string) ([]EntryInfo, error) {
	f, size, err := openSized(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return List7z(f, size)
}

// Verify7z reads every file entry of a 7z archive to completion. 7z's
// folder decoder validates its own internal digests as it decodes, so a
// corrupted folder surfaces as a read error here exactly as it would
// during extraction.
func Verify7z(r io.ReaderAt, size int64) (VerifyReport, error) {
	a, err := sevenzadapter.Open(r, size)
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

		rc, err := a.Open(i)
		if err != nil {
			return VerifyReport{}, fmt.Errorf("verify entry %q: %w", info.Name, err)
		}

		n, err := io.Copy(io.Discard, rc)
		closeErr := rc.Close()
		if err != nil {
			return VerifyReport{}, fmt.Errorf("verify entry %q: %w", info.Name, err)
		}
		if closeErr != nil {
			return VerifyReport{}, fmt.Errorf("verify entry %q: %w", info.Name, closeErr)
		}

		report.EntriesVerified++
		report.BytesVerified += uint64(n)
	}

	return report, nil
}

// Verify7zFile opens path and verifies it as a 7z archive.
func Verify7zFile(path string) (VerifyReport, error) {
	f, size, err := openSized(path)
	if err != nil {
		return VerifyReport{}, err
	}
	defer f.Close()

	return Verify7z(f, size)
}

// Verify7zBytes verifies a 7z archive already held in memory. 7z
// requires random access, so this materializes data behind a
// bytes.Reader rather than streaming it.
func Verify7zBytes(data []byte) (VerifyReport, error) {
	return Verify7z(bytes.NewReader(data), int64(len(data)))
}
