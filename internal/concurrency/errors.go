// File: internal/concurrency/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "errors"

// Sentinel errors returned by Pool operations. Configuration misuse
// (out-of-range strategy or group-work fraction) is a programmer bug in
// the reference implementation and aborts the process there; here it is
// returned as an error from NewPool/the setters instead, since aborting
// a library caller's process is not idiomatic Go.
var (
	ErrInvalidStrategy  = errors.New("concurrency: invalid scheduler strategy")
	ErrInvalidGroupWork = errors.New("concurrency: multijob max group work must be in (0,1]")
)
