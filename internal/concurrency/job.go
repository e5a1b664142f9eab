// File: internal/concurrency/job.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Job is the opaque unit of work the pool schedules; WorkGroup is the
// contiguous slice of jobs one worker executes in submission order.

package concurrency

import "github.com/momentics/jacpool/api"

// Job is a callback plus two optional pointers into caller-owned memory.
// AvgElapsed is a read-only historical mean the scheduler consults;
// Elapsed is a write slot the worker fills in with its own measurement.
// Both pointers remain caller-owned for the entire lifetime of a batch.
// Aliased to api.Job so Pool satisfies api.Pool without a conversion step.
type Job = api.Job

// workGroup is an ordered run of jobs executed by a single worker, plus a
// back-link used to chain pre-built groups in Static mode.
type workGroup struct {
	jobs []Job
	prev *workGroup
}
