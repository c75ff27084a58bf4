// Package testfixture builds archives in memory for tests: a ZIP
// builder and a TAR builder, the latter adapted from the teacher's
// compression/archive/tar/builder package and extended with the entry
// types a hardened extractor has to reject (devices, fifos, hardlinks)
// and with raw low-level control for constructing a declared-size lie.
package testfixture

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"hash/crc32"
	"io"
	"io/fs"
)

// ZipBuilder accumulates entries into an in-memory ZIP archive.
type ZipBuilder struct {
	buf *bytes.Buffer
	zw  *zip.Writer
	err error
}

// NewZip starts a new ZIP archive builder.
func NewZip() *ZipBuilder {
	buf := &bytes.Buffer{}
	return &ZipBuilder{buf: buf, zw: zip.NewWriter(buf)}
}

// File adds a regular file entry with the given name, content, and
// permission bits.
func (b *ZipBuilder) File(name string, content []byte, mode uint32) *ZipBuilder {
	if b.err != nil {
		return b
	}

	fh := &zip.FileHeader{Name: name, Method: zip.Deflate}
	fh.SetMode(fs.FileMode(modeOf(mode)))

	w, err := b.zw.CreateHeader(fh)
	if err != nil {
		b.err = err
		return b
	}
	if _, err := w.Write(content); err != nil {
		b.err = err
	}
	return b
}

// Dir adds a directory entry.
func (b *ZipBuilder) Dir(name string, mode uint32) *ZipBuilder {
	if b.err != nil {
		return b
	}

	if len(name) == 0 || name[len(name)-1] != '/' {
		name += "/"
	}

	fh := &zip.FileHeader{Name: name}
	fh.SetMode(fs.FileMode(modeOf(mode) | dirModeBit))

	_, err := b.zw.CreateHeader(fh)
	b.err = err
	return b
}

// Symlink adds a symlink entry whose content is the link target, the
// convention archive/zip and most unzip tools use to encode symlinks.
func (b *ZipBuilder) Symlink(name, target string) *ZipBuilder {
	if b.err != nil {
		return b
	}

	fh := &zip.FileHeader{Name: name, Method: zip.Store}
	fh.SetMode(fs.FileMode(symlinkModeBit | 0o777))

	w, err := b.zw.CreateHeader(fh)
	if err != nil {
		b.err = err
		return b
	}
	if _, err := w.Write([]byte(target)); err != nil {
		b.err = err
	}
	return b
}

// EncryptedFile adds an entry with the general-purpose encryption bit
// set, via CreateRaw so the header's Flags field is written verbatim.
// The "compressed" payload is never meant to be decrypted; it only
// needs to exist so the central directory entry is well formed.
func (b *ZipBuilder) EncryptedFile(name string, payload []byte) *ZipBuilder {
	if b.err != nil {
		return b
	}

	fh := &zip.FileHeader{
		Name:               name,
		Method:             zip.Store,
		Flags:              0x1,
		UncompressedSize64: uint64(len(payload)),
		CompressedSize64:   uint64(len(payload)),
	}
	fh.SetMode(fs.FileMode(0o644))

	w, err := b.zw.CreateRaw(fh)
	if err != nil {
		b.err = err
		return b
	}
	if _, err := w.Write(payload); err != nil {
		b.err = err
	}
	return b
}

// BombFile adds an entry via CreateRaw whose central-directory declared
// UncompressedSize64 is far smaller than what its deflate stream
// actually decompresses to — the classic zip-bomb declared-size lie.
func (b *ZipBuilder) BombFile(name string, declaredSize uint64, actualContent []byte) *ZipBuilder {
	if b.err != nil {
		return b
	}

	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, flate.BestCompression)
	if err != nil {
		b.err = err
		return b
	}
	if _, err := fw.Write(actualContent); err != nil {
		b.err = err
		return b
	}
	if err := fw.Close(); err != nil {
		b.err = err
		return b
	}

	fh := &zip.FileHeader{
		Name:               name,
		Method:             zip.Deflate,
		UncompressedSize64: declaredSize,
		CompressedSize64:   uint64(compressed.Len()),
		CRC32:              crc32.ChecksumIEEE(actualContent),
	}
	fh.SetMode(fs.FileMode(0o644))

	w, err := b.zw.CreateRaw(fh)
	if err != nil {
		b.err = err
		return b
	}
	if _, err := io.Copy(w, &compressed); err != nil {
		b.err = err
	}
	return b
}

// Bytes finalizes the archive and returns its encoded bytes.
func (b *ZipBuilder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.zw.Close(); err != nil {
		return nil, err
	}
	return b.buf.Bytes(), nil
}

const (
	dirModeBit     = 1 << 31 // os.ModeDir, mirrored so this file has no os import
	symlinkModeBit = 1 << 27 // os.ModeSymlink
)

func modeOf(perm uint32) uint32 {
	return perm & 0o777
}
