//go:build darwin

package fsops

import (
	"os"
	"syscall"
)

const createExclusiveFlags = os.O_WRONLY | os.O_CREATE | os.O_EXCL | os.O_TRUNC | syscall.O_NOFOLLOW
