//go:build linux
// +build linux

// File: internal/concurrency/cputime_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-OS-thread CPU time via getrusage(RUSAGE_THREAD), the Linux
// equivalent of clock_gettime(CLOCK_THREAD_CPUTIME_ID) used by the
// reference implementation.

package concurrency

import (
	"time"

	"golang.org/x/sys/unix"
)

func cpuTime() (time.Duration, bool) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_THREAD, &ru); err != nil {
		return 0, false
	}
	return time.Duration(ru.Utime.Nano() + ru.Stime.Nano()), true
}
