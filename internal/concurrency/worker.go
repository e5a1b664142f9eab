// File: internal/concurrency/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// worker is a goroutine that loops: wait on the queue's hasJobs
// semaphore, pull one WorkGroup, run its jobs in order, repeat. Workers
// are never joined; the pool tracks liveness through threadsAlive
// instead, matching the reference implementation's detached-thread model.
//
// States: Initializing -> Idle -> Working -> Idle -> ... -> Exiting.

package concurrency

import "runtime"

// worker executes work groups pulled from the pool's queue.
type worker struct {
	id   int
	pool *Pool
}

// run is the worker's main loop. It returns once keepalive is cleared.
func (w *worker) run() {
	w.pool.countMu.Lock()
	w.pool.threadsAlive++
	w.pool.countMu.Unlock()

	for {
		w.pool.queue.hasJobs.wait()

		w.pool.countMu.Lock()
		if !w.pool.keepalive {
			w.pool.countMu.Unlock()
			break
		}
		w.pool.threadsWorking++
		w.pool.countMu.Unlock()

		group := w.pool.queue.pull(w.pool.snapshotConfig())
		w.execute(group)

		w.pool.countMu.Lock()
		w.pool.threadsWorking--
		if w.pool.threadsWorking == 0 {
			w.pool.threadsIdle.Broadcast()
		}
		w.pool.countMu.Unlock()
	}

	w.pool.countMu.Lock()
	w.pool.threadsAlive--
	w.pool.countMu.Unlock()
}

// execute runs every job in the group in order. A job with a non-nil
// Elapsed slot gets a before/after CPU-time sample; *Elapsed is only
// written when both samples succeed, left untouched otherwise. The
// goroutine is pinned to its OS thread for the duration of a measured
// job so the RUSAGE_THREAD pre/post pair reads the same thread's
// counters, matching the reference implementation's pinned pthread.
func (w *worker) execute(group *workGroup) {
	if group == nil {
		return
	}
	for _, job := range group.jobs {
		if job.Elapsed == nil {
			job.Fn(job.Arg)
			continue
		}
		runtime.LockOSThread()
		start, preOK := cpuTime()
		job.Fn(job.Arg)
		if preOK {
			if end, postOK := cpuTime(); postOK && end >= start {
				*job.Elapsed = (end - start).Seconds()
			}
		}
		runtime.UnlockOSThread()
	}
}
