package testfixture

import (
	"bytes"
	"compress/gzip"
)

// Gzip compresses data as a single gzip member, for building TAR+gzip
// fixtures from a TarBuilder's output.
func Gzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
