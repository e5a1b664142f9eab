// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines the job-pool contract: submission and drain for opaque,
// side-effecting callbacks scheduled across a fixed worker set.

package api

// Pool executes submitted jobs across a fixed set of workers.
type Pool interface {
	// AddJob enqueues a single job. avgElapsed and elapsed, when
	// non-nil, point into caller-owned memory that must stay valid until
	// Wait returns: avgElapsed is read-only historical timing, elapsed is
	// a write slot the worker fills in after the job runs.
	AddJob(fn func(arg any), arg any, avgElapsed, elapsed *float64) error

	// AddJobs submits a batch, optionally permuted by order so that
	// ordered[i] == jobs[order[i]] runs at position i.
	AddJobs(jobs []Job, order []int) error

	// Wait blocks until the queue is empty and every worker is idle.
	Wait()

	// Close stops accepting new work and drains running workers.
	Close()
}

// Job is a callback plus optional pointers into caller-owned timing memory.
type Job struct {
	Fn         func(arg any)
	Arg        any
	AvgElapsed *float64
	Elapsed    *float64
}
