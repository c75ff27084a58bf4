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

func TestExtractZip_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	data, err := testfixture.NewZip().
		File("../../etc/passwd", []byte("pwned"), 0o644).
		Bytes()
	require.NoError(t, err)

	dst := t.TempDir()
	ex, err := extract.New(dst)
	require.NoError(t, err)

	_, err = ex.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)
	require.ErrorIs(t, err, extract.ErrPathEscape)

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestExtractZip_RejectsAbsolutePath(t *testing.T) {
	t.Parallel()

	data, err := testfixture.NewZip().File("/etc/passwd", []byte("pwned"), 0o644).Bytes()
	require.NoError(t, err)

	ex, err := extract.New(t.TempDir())
	require.NoError(t, err)

	_, err = ex.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)
	require.ErrorIs(t, err, extract.ErrInvalidFilename)
}

func TestExtractZip_Golden(t *testing.T) {
	t.Parallel()

	data, err := testfixture.NewZip().
		Dir("sub", 0o755).
		File("sub/a.txt", []byte("hello"), 0o644).
		File("top.txt", []byte("world"), 0o644).
		Bytes()
	require.NoError(t, err)

	dst := t.TempDir()
	ex, err := extract.New(dst)
	require.NoError(t, err)

	report, err := ex.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Equal(t, uint64(2), report.FilesExtracted)
	require.Equal(t, uint64(1), report.DirsCreated)
	require.Equal(t, uint64(10), report.BytesWritten)

	content, err := os.ReadFile(filepath.Join(dst, "sub", "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(content))
}

func TestExtractZip_SymlinkSkippedByDefault(t *testing.T) {
	t.Parallel()

	data, err := testfixture.NewZip().
		File("a.txt", []byte("hello"), 0o644).
		Symlink("evil", "/etc/passwd").
		Bytes()
	require.NoError(t, err)

	dst := t.TempDir()
	ex, err := extract.New(dst)
	require.NoError(t, err)

	report, err := ex.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Equal(t, uint64(1), report.EntriesSkipped)

	_, statErr := os.Lstat(filepath.Join(dst, "evil"))
	require.True(t, os.IsNotExist(statErr))
}

func TestExtractZip_SymlinkErrorsWhenConfigured(t *testing.T) {
	t.Parallel()

	data, err := testfixture.NewZip().Symlink("evil", "/etc/passwd").Bytes()
	require.NoError(t, err)

	ex, err := extract.New(t.TempDir(), extract.WithSymlinkPolicy(extract.ErrorOnSymlinks))
	require.NoError(t, err)

	_, err = ex.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)
	require.ErrorIs(t, err, extract.ErrSymlinkNotAllowed)
}

func TestExtractZip_BombFileTripsSizeMismatch(t *testing.T) {
	t.Parallel()

	const declaredSize = 10

	actual := bytes.Repeat([]byte("A"), 1<<20)
	data, err := testfixture.NewZip().BombFile("bomb.bin", declaredSize, actual).Bytes()
	require.NoError(t, err)

	dst := t.TempDir()
	ex, err := extract.New(dst)
	require.NoError(t, err)

	_, err = ex.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)
	require.ErrorIs(t, err, extract.ErrSizeMismatch)

	// The overrun probe byte must never reach disk: the file, if it
	// exists at all, is never longer than the declared size.
	fi, statErr := os.Stat(filepath.Join(dst, "bomb.bin"))
	if statErr == nil {
		require.LessOrEqual(t, fi.Size(), int64(declaredSize))
	} else {
		require.True(t, os.IsNotExist(statErr))
	}
}

func TestExtractZip_EncryptedEntryRejected(t *testing.T) {
	t.Parallel()

	data, err := testfixture.NewZip().EncryptedFile("secret.bin", []byte("x")).Bytes()
	require.NoError(t, err)

	ex, err := extract.New(t.TempDir())
	require.NoError(t, err)

	_, err = ex.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)
	require.ErrorIs(t, err, extract.ErrEncryptedEntry)
}

func TestExtractZip_ReservedDeviceNameRejected(t *testing.T) {
	t.Parallel()

	data, err := testfixture.NewZip().File("CON", []byte("x"), 0o644).Bytes()
	require.NoError(t, err)

	ex, err := extract.New(t.TempDir())
	require.NoError(t, err)

	_, err = ex.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)
	require.ErrorIs(t, err, extract.ErrInvalidFilename)
}

func TestExtractZip_MaxFileCount(t *testing.T) {
	t.Parallel()

	b := testfixture.NewZip()
	for i := 0; i < 5; i++ {
		b.File(filepath.Join("f", string(rune('a'+i))+".txt"), []byte("x"), 0o644)
	}
	data, err := b.Bytes()
	require.NoError(t, err)

	ex, err := extract.New(t.TempDir(), extract.WithLimits(extract.Limits{
		MaxTotalBytes: 1 << 20,
		MaxSingleFile: 1 << 20,
		MaxFileCount:  3,
		MaxPathDepth:  32,
	}))
	require.NoError(t, err)

	_, err = ex.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)
	require.ErrorIs(t, err, extract.ErrFileCountExceeded)
}

func TestExtractZip_OverwriteModes(t *testing.T) {
	t.Parallel()

	data, err := testfixture.NewZip().File("a.txt", []byte("first"), 0o644).Bytes()
	require.NoError(t, err)

	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dst, "a.txt"), []byte("existing"), 0o644))

	exErr, err := extract.New(dst)
	require.NoError(t, err)
	_, err = exErr.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)
	require.ErrorIs(t, err, extract.ErrAlreadyExists)

	exSkip, err := extract.New(dst, extract.WithOverwrite(extract.OverwriteSkip))
	require.NoError(t, err)
	report, err := exSkip.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Equal(t, uint64(1), report.EntriesSkipped)

	content, err := os.ReadFile(filepath.Join(dst, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "existing", string(content))

	exReplace, err := extract.New(dst, extract.WithOverwrite(extract.OverwriteReplace))
	require.NoError(t, err)
	_, err = exReplace.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	content, err = os.ReadFile(filepath.Join(dst, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "first", string(content))
}

func TestExtractZip_OverwriteReplaceUnlinksSymlinkRatherThanFollowIt(t *testing.T) {
	t.Parallel()

	outsideDir := t.TempDir()
	outsideFile := filepath.Join(outsideDir, "secret.txt")
	require.NoError(t, os.WriteFile(outsideFile, []byte("outside content"), 0o644))

	dst := t.TempDir()
	linkPath := filepath.Join(dst, "a.txt")
	require.NoError(t, os.Symlink(outsideFile, linkPath))

	data, err := testfixture.NewZip().File("a.txt", []byte("new content"), 0o644).Bytes()
	require.NoError(t, err)

	ex, err := extract.New(dst, extract.WithOverwrite(extract.OverwriteReplace))
	require.NoError(t, err)
	_, err = ex.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	fi, err := os.Lstat(linkPath)
	require.NoError(t, err)
	require.Zero(t, fi.Mode()&os.ModeSymlink)

	content, err := os.ReadFile(linkPath)
	require.NoError(t, err)
	require.Equal(t, "new content", string(content))

	outsideContent, err := os.ReadFile(outsideFile)
	require.NoError(t, err)
	require.Equal(t, "outside content", string(outsideContent))
}

func TestExtractZip_ValidateFirstLeavesNoPartialStateOnFailure(t *testing.T) {
	t.Parallel()

	data, err := testfixture.NewZip().
		File("good.txt", []byte("hello"), 0o644).
		File("../escape.txt", []byte("pwned"), 0o644).
		Bytes()
	require.NoError(t, err)

	dst := t.TempDir()
	ex, err := extract.New(dst, extract.WithStrategy(extract.ValidateFirst))
	require.NoError(t, err)

	_, err = ex.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dst, "good.txt"))
	require.True(t, os.IsNotExist(statErr), "ValidateFirst must not write any entry when validation fails")
}

func TestExtractZip_Filter(t *testing.T) {
	t.Parallel()

	data, err := testfixture.NewZip().
		File("keep.txt", []byte("a"), 0o644).
		File("drop.txt", []byte("b"), 0o644).
		Bytes()
	require.NoError(t, err)

	dst := t.TempDir()
	ex, err := extract.New(dst, extract.WithFilter(func(info extract.EntryInfo) bool {
		return info.Name == "keep.txt"
	}))
	require.NoError(t, err)

	report, err := ex.ExtractZip(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Equal(t, uint64(1), report.FilesExtracted)
	require.Equal(t, uint64(1), report.EntriesSkipped)

	require.FileExists(t, filepath.Join(dst, "keep.txt"))
	_, statErr := os.Stat(filepath.Join(dst, "drop.txt"))
	require.True(t, os.IsNotExist(statErr))
}

func TestNew_RequiresExistingDestination(t *testing.T) {
	t.Parallel()

	_, err := extract.New(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	require.ErrorIs(t, err, extract.ErrDestinationNotFound)
}

func TestNewOrCreate_CreatesDestination(t *testing.T) {
	t.Parallel()

	dst := filepath.Join(t.TempDir(), "nested", "dest")
	ex, err := extract.NewOrCreate(dst)
	require.NoError(t, err)
	require.NotNil(t, ex)
	require.DirExists(t, dst)
}
