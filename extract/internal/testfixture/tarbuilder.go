package testfixture

import (
	"archive/tar"
	"bytes"
)

// TarBuilder accumulates entries into an in-memory TAR archive. Adapted
// from the teacher's compression/archive/tar/builder package and
// extended with the entry types a hardened extractor must reject.
type TarBuilder struct {
	buf *bytes.Buffer
	tw  *tar.Writer
	err error
}

// NewTar starts a new TAR archive builder.
func NewTar() *TarBuilder {
	buf := &bytes.Buffer{}
	return &TarBuilder{buf: buf, tw: tar.NewWriter(buf)}
}

// File adds a regular file entry.
func (b *TarBuilder) File(name string, content []byte, mode int64) *TarBuilder {
	return b.write(&tar.Header{
		Name:     name,
		Typeflag: tar.TypeReg,
		Mode:     mode,
		Size:     int64(len(content)),
	}, content)
}

// Dir adds a directory entry.
func (b *TarBuilder) Dir(name string, mode int64) *TarBuilder {
	return b.write(&tar.Header{Name: name, Typeflag: tar.TypeDir, Mode: mode}, nil)
}

// Symlink adds a symbolic link entry.
func (b *TarBuilder) Symlink(name, target string) *TarBuilder {
	return b.write(&tar.Header{
		Name: name, Typeflag: tar.TypeSymlink, Linkname: target, Mode: 0o777,
	}, nil)
}

// Hardlink adds a hard link entry, rejected by the adapter as an
// unsupported entry type.
func (b *TarBuilder) Hardlink(name, target string) *TarBuilder {
	return b.write(&tar.Header{
		Name: name, Typeflag: tar.TypeLink, Linkname: target, Mode: 0o644,
	}, nil)
}

// CharDevice adds a character device entry, rejected by the adapter.
func (b *TarBuilder) CharDevice(name string, major, minor int64) *TarBuilder {
	return b.write(&tar.Header{
		Name: name, Typeflag: tar.TypeChar, Mode: 0o644, Devmajor: major, Devminor: minor,
	}, nil)
}

// BlockDevice adds a block device entry, rejected by the adapter.
func (b *TarBuilder) BlockDevice(name string, major, minor int64) *TarBuilder {
	return b.write(&tar.Header{
		Name: name, Typeflag: tar.TypeBlock, Mode: 0o644, Devmajor: major, Devminor: minor,
	}, nil)
}

// Fifo adds a named pipe entry, rejected by the adapter.
func (b *TarBuilder) Fifo(name string) *TarBuilder {
	return b.write(&tar.Header{Name: name, Typeflag: tar.TypeFifo, Mode: 0o644}, nil)
}

// OversizedMode adds a regular file whose header mode carries setuid,
// setgid, or sticky bits, for exercising permission-bit stripping.
func (b *TarBuilder) OversizedMode(name string, content []byte, mode int64) *TarBuilder {
	return b.File(name, content, mode)
}

func (b *TarBuilder) write(hdr *tar.Header, content []byte) *TarBuilder {
	if b.err != nil {
		return b
	}
	if err := b.tw.WriteHeader(hdr); err != nil {
		b.err = err
		return b
	}
	if len(content) > 0 {
		if _, err := b.tw.Write(content); err != nil {
			b.err = err
		}
	}
	return b
}

// Bytes finalizes the archive and returns its encoded bytes.
func (b *TarBuilder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.tw.Close(); err != nil {
		return nil, err
	}
	return b.buf.Bytes(), nil
}
