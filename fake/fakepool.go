// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT
//
// FakePool is a trivial synchronous stand-in for api.Pool so consumers
// of this module can unit-test their own job-producing code without
// pulling in goroutines, timing, or scheduling strategy at all.

package fake

import "github.com/momentics/jacpool/api"

// FakePool runs every submitted job synchronously, in submission order
// (permuted by order when one is given), on the caller's goroutine. It
// never measures elapsed time.
type FakePool struct {
	Jobs []api.Job
}

func (f *FakePool) AddJob(fn func(arg any), arg any, avgElapsed, elapsed *float64) error {
	return f.AddJobs([]api.Job{{Fn: fn, Arg: arg, AvgElapsed: avgElapsed, Elapsed: elapsed}}, nil)
}

func (f *FakePool) AddJobs(jobs []api.Job, order []int) error {
	ordered := jobs
	if order != nil {
		ordered = make([]api.Job, len(order))
		for i, idx := range order {
			ordered[i] = jobs[idx]
		}
	}
	for _, j := range ordered {
		f.Jobs = append(f.Jobs, j)
		j.Fn(j.Arg)
	}
	return nil
}

func (f *FakePool) Wait()  {}
func (f *FakePool) Close() {}

var _ api.Pool = (*FakePool)(nil)
