// Package limitreader implements the byte-counting wrapper the driver uses
// to terminate decompression mid-stream — the sole defense against
// archives that under-declare their uncompressed size. It plays the same
// role as the teacher's ioutil.LimitWriter, but as a Reader so the driver
// can attribute a stop to a specific bound instead of silently dropping
// bytes on the floor.
package limitreader

import "io"

// LimitReader wraps src and returns at most min(len(p), limit-read) bytes
// per Read. Once the limit is reached, subsequent reads report io.EOF and
// set HitLimit, without consulting src again.
type LimitReader struct {
	src   io.Reader
	limit uint64
	read  uint64

	// HitLimit is set once the configured limit has been reached.
	HitLimit bool
}

// New returns a LimitReader over src bounded at limit bytes.
func New(src io.Reader, limit uint64) *LimitReader {
	return &LimitReader{src: src, limit: limit}
}

// Read implements io.Reader.
func (l *LimitReader) Read(p []byte) (int, error) {
	remaining := l.limit - l.read
	if remaining == 0 {
		l.HitLimit = true
		return 0, io.EOF
	}

	if uint64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := l.src.Read(p)
	l.read += uint64(n)

	return n, err
}

// BytesRead returns the number of bytes returned to the caller so far.
func (l *LimitReader) BytesRead() uint64 {
	return l.read
}
