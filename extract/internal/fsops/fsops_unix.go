//go:build unix && !darwin

package fsops

import (
	"os"
	"syscall"
)

// createExclusiveFlags adds O_NOFOLLOW on Unix so that a symlink planted
// at the destination path by a racing process is never followed by the
// exclusive-create path.
const createExclusiveFlags = os.O_WRONLY | os.O_CREATE | os.O_EXCL | os.O_TRUNC | syscall.O_NOFOLLOW
