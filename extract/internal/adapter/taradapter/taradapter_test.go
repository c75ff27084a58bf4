package taradapter_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/archivekit/extract/internal/adapter"
	"github.com/archivekit/extract/internal/adapter/taradapter"
	"github.com/archivekit/extract/internal/entry"
	"github.com/archivekit/extract/internal/errtypes"
	"github.com/archivekit/extract/internal/testfixture"
)

func TestNext_IteratesEntries(t *testing.T) {
	t.Parallel()

	data, err := testfixture.NewTar().
		Dir("sub", 0o755).
		File("sub/a.txt", []byte("hello"), 0o644).
		Symlink("link", "sub/a.txt").
		Bytes()
	require.NoError(t, err)

	a := taradapter.New(bytes.NewReader(data))

	var kinds []entry.Kind
	for {
		info, r, err := a.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		kinds = append(kinds, info.Kind)

		if info.IsFile() {
			content, err := io.ReadAll(r)
			require.NoError(t, err)
			require.Equal(t, "hello", string(content))
		}
	}

	require.Equal(t, []entry.Kind{entry.Directory, entry.File, entry.Symlink}, kinds)
}

func TestNext_RejectsDeviceAndFifoAndHardlink(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"char":     mustBytes(t, testfixture.NewTar().CharDevice("dev", 1, 1)),
		"block":    mustBytes(t, testfixture.NewTar().BlockDevice("dev", 1, 1)),
		"fifo":     mustBytes(t, testfixture.NewTar().Fifo("p")),
		"hardlink": mustBytes(t, testfixture.NewTar().Hardlink("h", "a.txt")),
	} {
		a := taradapter.New(bytes.NewReader(data))
		_, _, err := a.Next()
		require.Error(t, err, name)

		var unsupported *errtypes.UnsupportedEntryTypeError
		require.ErrorAs(t, err, &unsupported, name)
	}
}

func TestCacheAll_BoundsPerEntryByRemainingBudget(t *testing.T) {
	t.Parallel()

	data, err := testfixture.NewTar().
		File("a.txt", bytes.Repeat([]byte("a"), 100), 0o644).
		File("b.txt", bytes.Repeat([]byte("b"), 100), 0o644).
		Bytes()
	require.NoError(t, err)

	a := taradapter.New(bytes.NewReader(data))
	cached, err := a.CacheAll(adapter.CacheLimits{MaxSingleFile: 1000, MaxTotalBytes: 150})
	require.NoError(t, err)
	require.Len(t, cached, 2)

	require.Equal(t, "a.txt", cached[0].Info.Name)
	require.Len(t, cached[0].Data, 100)

	// Budget after a.txt (100 declared) leaves 50 + the 1-byte probe slack.
	require.Equal(t, "b.txt", cached[1].Info.Name)
	require.LessOrEqual(t, len(cached[1].Data), 51)
}

func mustBytes(t *testing.T, b *testfixture.TarBuilder) []byte {
	t.Helper()
	data, err := b.Bytes()
	require.NoError(t, err)
	return data
}
