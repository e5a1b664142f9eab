// File: doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package jacpool is a thin, process-wide convenience wrapper around
// internal/concurrency.Pool for callers that want C-ABI-style global
// functions (set_threads, add_job, wait, shutdown, ...) instead of
// threading an explicit handle through their code. Prefer
// internal/concurrency.NewPool directly when you control the call sites.
package jacpool
