package limitreader

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLimitReader_ExactBoundary(t *testing.T) {
	t.Parallel()

	src := bytes.NewReader([]byte("hello"))
	lr := New(src, 5)

	data, err := io.ReadAll(lr)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
	// io.ReadAll reads once more after the fifth byte, which reaches the limit.
	require.True(t, lr.HitLimit)
	require.Equal(t, uint64(5), lr.BytesRead())
}

func TestLimitReader_HitsLimit(t *testing.T) {
	t.Parallel()

	src := bytes.NewReader([]byte("hello world"))
	lr := New(src, 5)

	data, err := io.ReadAll(lr)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
	require.True(t, lr.HitLimit)
	require.Equal(t, uint64(5), lr.BytesRead())
}

func TestLimitReader_ProbeDetectsOverrun(t *testing.T) {
	t.Parallel()

	declared := uint64(5)
	src := bytes.NewReader([]byte("hello world, this is much longer than declared"))

	// The driver's probe pattern: cap the copy at exactly declared bytes,
	// then probe the raw source directly for one more — the probed byte
	// is never handed to the caller of the LimitReader.
	lr := New(src, declared)
	data, err := io.ReadAll(lr)
	require.NoError(t, err)
	require.Len(t, data, int(declared))
	require.Equal(t, declared, lr.BytesRead())

	var probe [1]byte
	n, err := src.Read(probe[:])
	require.NoError(t, err)
	require.Equal(t, 1, n, "source has more bytes than declared — the probe must see them")
}

func TestLimitReader_ZeroLimit(t *testing.T) {
	t.Parallel()

	lr := New(bytes.NewReader([]byte("x")), 0)
	n, err := lr.Read(make([]byte, 1))
	require.Equal(t, 0, n)
	require.ErrorIs(t, err, io.EOF)
	require.True(t, lr.HitLimit)
}
