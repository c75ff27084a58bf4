package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/archivekit/extract/internal/adapter/tgzadapter"
	"github.com/archivekit/extract/internal/limitreader"
)

// ExtractTarGz extracts a gzip-compressed TAR stream from r into the
// Extractor's destination.
func (e *Extractor) ExtractTarGz(r io.Reader) (Report, error) {
	a, err := tgzadapter.New(r)
	if err != nil {
		return Report{}, err
	}
	return e.driveSequential(a)
}

// ExtractTarGzFile opens path and extracts it as a gzip-compressed TAR
// stream.
func (e *Extractor) ExtractTarGzFile(path string) (Report, error) {
	f, _, err := openSized(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()

	return e.ExtractTarGz(f)
}

// ListTarGz returns the normalized metadata of every entry in a
// gzip-compressed TAR stream without extracting anything.
func ListTarGz(r io.Reader) ([]EntryInfo, error) {
	a, err := tgzadapter.New(r)
	if err != nil {
		return nil, err
	}

	var infos []EntryInfo
	for {
		info, _, err := a.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ListTarGzFile opens path and lists it as a gzip-compressed TAR stream.
func ListTarGzFile(path string) ([]EntryInfo, error) {
	f, _, err := openSized(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ListTarGz(f)
}

// VerifyTarGz reads every file entry of a gzip-compressed TAR stream to
// completion through the declared-size probe, and additionally surfaces
// any gzip checksum/length failure on the trailing bytes.
func VerifyTarGz(r io.Reader) (VerifyReport, error) {
	a, err := tgzadapter.New(r)
	if err != nil {
		return VerifyReport{}, err
	}

	var report VerifyReport
	for {
		info, content, err := a.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return VerifyReport{}, err
		}
		if !info.IsFile() {
			continue
		}

		lr := limitreader.New(content, info.Size+1)
		if _, err := io.Copy(io.Discard, lr); err != nil {
			return VerifyReport{}, fmt.Errorf("verify entry %q: %w", info.Name, err)
		}

		written := lr.BytesRead()
		if written > info.Size {
			return VerifyReport{}, fmt.Errorf("verify entry %q: %w", info.Name, sizeMismatch(info.Name, info.Size, written))
		}

		report.EntriesVerified++
		report.BytesVerified += written
	}

	return report, nil
}

// VerifyTarGzFile opens path and verifies it as a gzip-compressed TAR
// stream.
func VerifyTarGzFile(path string) (VerifyReport, error) {
	f, _, err := openSized(path)
	if err != nil {
		return VerifyReport{}, err
	}
	defer f.Close()

	return VerifyTarGz(f)
}

// VerifyTarGzBytes verifies a gzip-compressed TAR stream already held
// in memory.
func VerifyTarGzBytes(data []byte) (VerifyReport, error) {
	return VerifyTarGz(bytes.NewReader(data))
}
