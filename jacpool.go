// File: jacpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package jacpool

import (
	"sync"

	"github.com/momentics/jacpool/internal/concurrency"
)

// Strategy selects how the pool builds work groups. See SingleJob,
// MultiJob, and Static.
type Strategy = concurrency.Strategy

const (
	SingleJob = concurrency.SingleJob
	MultiJob  = concurrency.MultiJob
	Static    = concurrency.Static
)

// Job is a callback plus optional pointers into caller-owned timing memory.
type Job = concurrency.Job

var (
	mu   sync.RWMutex
	cfg  = concurrency.DefaultConfig()
	pool *concurrency.Pool
)

// SetThreads configures the pool size. Ignored once Prepare has run.
func SetThreads(n int) {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		return
	}
	cfg.NThreads = n
}

// Threads returns the configured (or, after Prepare, the active) pool size.
func Threads() int {
	mu.RLock()
	defer mu.RUnlock()
	if pool != nil {
		return pool.Threads()
	}
	return cfg.NThreads
}

// SetSchedulerStrategy configures which strategy pull() uses.
func SetSchedulerStrategy(s Strategy) {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		_ = pool.SetStrategy(s)
		return
	}
	cfg.Strategy = s
}

// SchedulerStrategy returns the current scheduling strategy.
func SchedulerStrategy() Strategy {
	mu.RLock()
	defer mu.RUnlock()
	if pool != nil {
		return pool.SchedulerStrategy()
	}
	return cfg.Strategy
}

// SetMultiJobMaxGroupWork sets the MultiJob group-size cap; v must be in (0,1].
func SetMultiJobMaxGroupWork(v float64) error {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		return pool.SetMultiJobMaxGroupWork(v)
	}
	if v <= 0 || v > 1 {
		return concurrency.ErrInvalidGroupWork
	}
	cfg.MultiJobMaxGroupWork = v
	return nil
}

// MultiJobMaxGroupWork returns the current MultiJob group-size cap.
func MultiJobMaxGroupWork() float64 {
	mu.RLock()
	defer mu.RUnlock()
	if pool != nil {
		return pool.MultiJobMaxGroupWork()
	}
	return cfg.MultiJobMaxGroupWork
}

// SetTimeMeas configures the caller's moving-average window size.
func SetTimeMeas(n int) {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		pool.SetTimeMeas(n)
		return
	}
	cfg.TimeMeas = n
}

// TimeMeas returns the configured moving-average window size.
func TimeMeas() int {
	mu.RLock()
	defer mu.RUnlock()
	if pool != nil {
		return pool.TimeMeas()
	}
	return cfg.TimeMeas
}

// SetVerbose toggles diagnostic logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		pool.SetVerbose(v)
		return
	}
	cfg.Verbose = v
}

// Verbose reports whether diagnostic logging is enabled.
func Verbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	if pool != nil {
		return pool.Verbose()
	}
	return cfg.Verbose
}

// SetDisabled toggles the inline-execution bypass.
func SetDisabled(d bool) {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		pool.SetDisabled(d)
		return
	}
	cfg.Disabled = d
}

// Disabled reports whether submissions currently bypass the pool.
func Disabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	if pool != nil {
		return pool.Disabled()
	}
	return cfg.Disabled
}

// Prepare idempotently creates the process-wide pool from the
// configuration accumulated so far. Safe to call more than once.
func Prepare() error {
	mu.Lock()
	defer mu.Unlock()
	return prepareLocked()
}

func prepareLocked() error {
	if pool != nil {
		return nil
	}
	p, err := concurrency.NewPool(cfg)
	if err != nil {
		return err
	}
	pool = p
	return nil
}

// AddJob enqueues a single job, preparing the pool on first use.
func AddJob(fn func(arg any), arg any, avgElapsed, elapsed *float64) error {
	mu.Lock()
	if err := prepareLocked(); err != nil {
		mu.Unlock()
		return err
	}
	p := pool
	mu.Unlock()
	return p.AddJob(fn, arg, avgElapsed, elapsed)
}

// AddJobs submits a batch, preparing the pool on first use.
func AddJobs(jobs []Job, order []int) error {
	mu.Lock()
	if err := prepareLocked(); err != nil {
		mu.Unlock()
		return err
	}
	p := pool
	mu.Unlock()
	return p.AddJobs(jobs, order)
}

// Wait blocks until the queue is empty and every worker is idle. It is a
// no-op if Prepare was never called.
func Wait() {
	mu.RLock()
	p := pool
	mu.RUnlock()
	if p != nil {
		p.Wait()
	}
}

// UpdateOrder is the pure reorder helper described in the reference
// design: it folds elapsed into avg and writes a descending-by-time
// permutation into order.
func UpdateOrder(avg []float64, n int, elapsed []float64, order []int) {
	concurrency.UpdateOrder(avg, n, elapsed, order)
}

// Shutdown destroys the process-wide pool. Safe to call when no pool
// exists yet.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if pool == nil {
		return
	}
	pool.Close()
	pool = nil
}
