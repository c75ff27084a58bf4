//go:build windows

package fsops

import "os"

// Windows has no O_NOFOLLOW; NTFS reparse points (the closest analogue to
// a symlink) are handled by the Overwrite policy's explicit
// RemoveIfSymlink call before CreateTruncate is ever reached.
const createExclusiveFlags = os.O_WRONLY | os.O_CREATE | os.O_EXCL | os.O_TRUNC
