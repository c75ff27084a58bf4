package extract_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/archivekit/extract"
	"github.com/archivekit/extract/internal/testfixture"
)

func buildTarGz(t *testing.T, b *testfixture.TarBuilder) []byte {
	t.Helper()

	tarBytes, err := b.Bytes()
	require.NoError(t, err)

	gz, err := testfixture.Gzip(tarBytes)
	require.NoError(t, err)

	return gz
}

func TestExtractTarGz_Golden(t *testing.T) {
	t.Parallel()

	data := buildTarGz(t, testfixture.NewTar().File("a.txt", []byte("hello"), 0o644))

	dst := t.TempDir()
	ex, err := extract.New(dst)
	require.NoError(t, err)

	report, err := ex.ExtractTarGz(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, uint64(1), report.FilesExtracted)

	content, err := os.ReadFile(filepath.Join(dst, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(content))
}

func TestExtractTarGz_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	data := buildTarGz(t, testfixture.NewTar().File("../escape.txt", []byte("pwned"), 0o644))

	ex, err := extract.New(t.TempDir())
	require.NoError(t, err)

	_, err = ex.ExtractTarGz(bytes.NewReader(data))
	require.Error(t, err)
	require.ErrorIs(t, err, extract.ErrPathEscape)
}

func TestListTarGz(t *testing.T) {
	t.Parallel()

	data := buildTarGz(t, testfixture.NewTar().File("a.txt", []byte("hello"), 0o644).Dir("sub", 0o755))

	infos, err := extract.ListTarGz(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, infos, 2)
}

func TestVerifyTarGz(t *testing.T) {
	t.Parallel()

	data := buildTarGz(t, testfixture.NewTar().File("a.txt", []byte("hello world"), 0o644))

	report, err := extract.VerifyTarGzBytes(data)
	require.NoError(t, err)
	require.Equal(t, uint64(1), report.EntriesVerified)
	require.Equal(t, uint64(11), report.BytesVerified)
}
