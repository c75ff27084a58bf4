package extract

import "github.com/archivekit/extract/internal/errtypes"

// The error taxonomy of spec.md §7, re-exported from the internal
// errtypes package as type aliases so that internal components
// (filename, jail, policy, the format adapters) can construct these
// values directly without importing the public API surface, while
// callers of this package see ordinary exported types.
type (
	PathEscapeError           = errtypes.PathEscapeError
	InvalidFilenameError      = errtypes.InvalidFilenameError
	SymlinkNotAllowedError    = errtypes.SymlinkNotAllowedError
	TotalSizeExceededError    = errtypes.TotalSizeExceededError
	FileTooLargeError         = errtypes.FileTooLargeError
	SizeMismatchError         = errtypes.SizeMismatchError
	FileCountExceededError    = errtypes.FileCountExceededError
	PathTooDeepError          = errtypes.PathTooDeepError
	AlreadyExistsError        = errtypes.AlreadyExistsError
	EncryptedEntryError       = errtypes.EncryptedEntryError
	UnsupportedEntryTypeError = errtypes.UnsupportedEntryTypeError
	DestinationNotFoundError  = errtypes.DestinationNotFoundError
	IOError                   = errtypes.IOError
)

// Sentinel markers usable with errors.Is against any value returned by
// this package's operations.
var (
	ErrPathEscape          = errtypes.ErrPathEscape
	ErrJail                = errtypes.ErrJail
	ErrInvalidFilename     = errtypes.ErrInvalidFilename
	ErrSymlinkNotAllowed   = errtypes.ErrSymlinkNotAllowed
	ErrTotalSizeExceeded   = errtypes.ErrTotalSizeExceeded
	ErrFileTooLarge        = errtypes.ErrFileTooLarge
	ErrSizeMismatch        = errtypes.ErrSizeMismatch
	ErrFileCountExceeded   = errtypes.ErrFileCountExceeded
	ErrPathTooDeep         = errtypes.ErrPathTooDeep
	ErrAlreadyExists       = errtypes.ErrAlreadyExists
	ErrEncryptedEntry      = errtypes.ErrEncryptedEntry
	ErrUnsupportedEntry    = errtypes.ErrUnsupportedEntry
	ErrDestinationNotFound = errtypes.ErrDestinationNotFound
)

// sizeMismatch builds a SizeMismatchError, used by the Verify* helpers
// that detect a declared-size lie outside of a full extraction.
func sizeMismatch(entryName string, declared, actual uint64) error {
	return &errtypes.SizeMismatchError{Entry: entryName, Declared: declared, Actual: actual}
}
