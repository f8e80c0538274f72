package rlimit

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// maxRlimit caps the hard limit at kern.maxfilesperproc, since setrlimit
// fails on darwin when asked for more.
func maxRlimit() (syscall.Rlimit, error) {
	var rlimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rlimit); err != nil {
		return rlimit, fmt.Errorf("getrlimit: %w", err)
	}
	kernMax, err := unix.SysctlUint32("kern.maxfilesperproc")
	if err != nil {
		return rlimit, fmt.Errorf("sysctl: %w", err)
	}
	rlimit.Cur = rlimit.Max
	if uint64(kernMax) < rlimit.Cur {
		rlimit.Cur = uint64(kernMax)
	}
	return rlimit, nil
}
