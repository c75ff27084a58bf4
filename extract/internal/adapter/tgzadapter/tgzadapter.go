// Package tgzadapter composes the TAR adapter with a gzip decoder,
// normalizing a gzip-compressed TAR stream the same way taradapter
// normalizes a plain one. The gzip codec itself is stdlib
// compress/gzip — out of scope to replace, per spec.md's classification
// of concrete codecs as the adapter's business.
package tgzadapter

import (
	"compress/gzip"
	"io"

	"github.com/archivekit/extract/internal/adapter"
	"github.com/archivekit/extract/internal/adapter/taradapter"
	"github.com/archivekit/extract/internal/errtypes"
)

// Adapter normalizes a gzip-compressed TAR stream.
type Adapter struct {
	*taradapter.Adapter
}

// New wraps r in a gzip decoder and hands the result to the TAR adapter.
func New(r io.Reader) (*Adapter, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, &errtypes.IOError{Op: "open gzip stream", Err: err}
	}
	return &Adapter{Adapter: taradapter.New(gr)}, nil
}

var _ adapter.CachingSequentialSource = (*Adapter)(nil)
