// File: internal/concurrency/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool owns the worker set, the job queue, and the alive/working
// counters. NewPool replaces the reference implementation's lazily
// constructed process-wide singleton with an explicit handle; a thin
// process-wide convenience wrapper lives in the root jacpool package for
// callers that want C-ABI-style global functions.

package concurrency

import (
	"log"
	"sync"
	"time"

	"github.com/momentics/jacpool/api"
	"github.com/momentics/jacpool/control"
)

var (
	_ api.Pool     = (*Pool)(nil)
	_ api.Control  = (*Pool)(nil)
	_ api.Debug    = (*Pool)(nil)
	_ api.Executor = (*Pool)(nil)
)

// Pool executes submitted jobs across a fixed set of worker goroutines
// using one of three scheduling strategies.
type Pool struct {
	cfgMu sync.RWMutex
	cfg   Config

	queue *jobQueue

	countMu        sync.Mutex
	threadsIdle    *sync.Cond
	keepalive      bool
	threadsAlive   int
	threadsWorking int

	workers []*worker

	logger *log.Logger

	cfgStore *control.ConfigStore
	debug    *control.DebugProbes
	metrics  *control.MetricsRegistry
}

// NewPool creates a pool from cfg. If cfg.NThreads is zero, or
// cfg.Disabled is already set, the pool starts no workers and every
// submission runs inline on the caller's goroutine.
func NewPool(cfg Config) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, api.NewError(api.ErrCodeInvalidArgument, err.Error()).
			WithContext("n_threads", cfg.NThreads).
			WithContext("strategy", int(cfg.Strategy)).
			WithContext("multijob_max_group_work", cfg.MultiJobMaxGroupWork)
	}

	p := &Pool{
		cfg:       cfg,
		queue:     newJobQueue(),
		keepalive: true,
		logger:    log.Default(),
		cfgStore:  control.NewConfigStore(),
		debug:     control.NewDebugProbes(),
		metrics:   control.NewMetricsRegistry(),
	}
	p.threadsIdle = sync.NewCond(&p.countMu)
	p.syncConfigStore()
	control.RegisterPlatformProbes(p.debug)
	p.debug.RegisterProbe("pool.queue_len", func() any { return p.queue.hasWorkLen() })
	p.debug.RegisterProbe("pool.threads_alive", func() any { return p.snapshotThreadsAlive() })

	if cfg.NThreads == 0 {
		p.cfgMu.Lock()
		p.cfg.Disabled = true
		p.cfgMu.Unlock()
		return p, nil
	}

	// Mirrors the reference implementation's disabled check ahead of
	// thread creation: a disabled pool never spawns workers, regardless
	// of NThreads, since every submission runs inline.
	if cfg.Disabled {
		return p, nil
	}

	p.workers = make([]*worker, cfg.NThreads)
	for i := range p.workers {
		w := &worker{id: i, pool: p}
		p.workers[i] = w
		go w.run()
	}
	return p, nil
}

func (p *Pool) snapshotConfig() Config {
	p.cfgMu.RLock()
	defer p.cfgMu.RUnlock()
	return p.cfg
}

func (p *Pool) snapshotThreadsAlive() int {
	p.countMu.Lock()
	defer p.countMu.Unlock()
	return p.threadsAlive
}

// closed reports whether Close has been called. A disabled pool (no
// worker goroutines) is never considered closed, since it has nothing to
// drain and AddJobs on it always runs inline.
func (p *Pool) closed() bool {
	if p.snapshotConfig().Disabled {
		return false
	}
	p.countMu.Lock()
	defer p.countMu.Unlock()
	return !p.keepalive
}

func (p *Pool) syncConfigStore() {
	cfg := p.snapshotConfig()
	p.cfgStore.SetConfig(map[string]any{
		"n_threads":               cfg.NThreads,
		"strategy":                cfg.Strategy.String(),
		"multijob_max_group_work": cfg.MultiJobMaxGroupWork,
		"time_meas":               cfg.TimeMeas,
		"verbose":                 cfg.Verbose,
		"disabled":                cfg.Disabled,
	})
}

// Threads returns the number of worker goroutines the pool was created
// with. It never changes after NewPool: dynamic resizing is out of scope.
func (p *Pool) Threads() int {
	p.cfgMu.RLock()
	defer p.cfgMu.RUnlock()
	return p.cfg.NThreads
}

// SetStrategy changes the scheduling strategy under the config lock.
func (p *Pool) SetStrategy(s Strategy) error {
	if s < SingleJob || s > Static {
		return ErrInvalidStrategy
	}
	p.cfgMu.Lock()
	p.cfg.Strategy = s
	p.cfgMu.Unlock()
	p.syncConfigStore()
	return nil
}

// SchedulerStrategy returns the current scheduling strategy.
func (p *Pool) SchedulerStrategy() Strategy {
	p.cfgMu.RLock()
	defer p.cfgMu.RUnlock()
	return p.cfg.Strategy
}

// SetMultiJobMaxGroupWork updates the MultiJob group-size cap.
func (p *Pool) SetMultiJobMaxGroupWork(v float64) error {
	if v <= 0 || v > 1 {
		return ErrInvalidGroupWork
	}
	p.cfgMu.Lock()
	p.cfg.MultiJobMaxGroupWork = v
	p.cfgMu.Unlock()
	p.syncConfigStore()
	return nil
}

// MultiJobMaxGroupWork returns the current MultiJob group-size cap.
func (p *Pool) MultiJobMaxGroupWork() float64 {
	p.cfgMu.RLock()
	defer p.cfgMu.RUnlock()
	return p.cfg.MultiJobMaxGroupWork
}

// SetTimeMeas updates the window size assumed by the caller's moving average.
func (p *Pool) SetTimeMeas(n int) {
	p.cfgMu.Lock()
	p.cfg.TimeMeas = n
	p.cfgMu.Unlock()
	p.syncConfigStore()
}

// TimeMeas returns the configured moving-average window size.
func (p *Pool) TimeMeas() int {
	p.cfgMu.RLock()
	defer p.cfgMu.RUnlock()
	return p.cfg.TimeMeas
}

// SetVerbose toggles diagnostic logging of scheduling decisions.
func (p *Pool) SetVerbose(v bool) {
	p.cfgMu.Lock()
	p.cfg.Verbose = v
	p.cfgMu.Unlock()
	p.syncConfigStore()
}

// Verbose reports whether diagnostic logging is enabled.
func (p *Pool) Verbose() bool {
	p.cfgMu.RLock()
	defer p.cfgMu.RUnlock()
	return p.cfg.Verbose
}

// SetDisabled toggles the inline-execution bypass.
func (p *Pool) SetDisabled(d bool) {
	p.cfgMu.Lock()
	p.cfg.Disabled = d
	p.cfgMu.Unlock()
	p.syncConfigStore()
}

// Disabled reports whether submissions bypass the pool.
func (p *Pool) Disabled() bool {
	p.cfgMu.RLock()
	defer p.cfgMu.RUnlock()
	return p.cfg.Disabled
}

// AddJob enqueues a single job.
func (p *Pool) AddJob(fn func(arg any), arg any, avgElapsed, elapsed *float64) error {
	return p.AddJobs([]Job{{Fn: fn, Arg: arg, AvgElapsed: avgElapsed, Elapsed: elapsed}}, nil)
}

// AddJobs submits a batch, optionally permuted by order (ordered[i] =
// jobs[order[i]]). When the pool is disabled the jobs run synchronously
// on the calling goroutine in permuted order. Otherwise the batch is
// pushed through push/multipush, or pushStatic when strategy is Static
// and the caller supplied per-job historical timing (avg[0] > 0).
func (p *Pool) AddJobs(jobs []Job, order []int) error {
	if len(jobs) == 0 {
		return nil
	}
	if p.closed() {
		return api.ErrPoolClosed
	}

	ordered := applyOrder(jobs, order)
	cfg := p.snapshotConfig()

	if cfg.Disabled {
		for _, j := range ordered {
			j.Fn(j.Arg)
		}
		return nil
	}

	if cfg.Strategy == Static && ordered[0].AvgElapsed != nil && *ordered[0].AvgElapsed > 0 {
		avg := make([]float64, len(ordered))
		for i, j := range ordered {
			if j.AvgElapsed != nil {
				avg[i] = *j.AvgElapsed
			}
		}
		p.queue.pushStatic(ordered, avg, cfg)
		return nil
	}

	if len(ordered) == 1 {
		p.queue.push(ordered[0])
	} else {
		p.queue.multipush(ordered)
	}
	return nil
}

func applyOrder(jobs []Job, order []int) []Job {
	if order == nil {
		return jobs
	}
	ordered := make([]Job, len(order))
	for i, idx := range order {
		ordered[i] = jobs[idx]
	}
	return ordered
}

// Wait blocks until the queue is empty and every worker is idle, then
// resets the running timing totals for the next batch. The count lock is
// held while the queue lock is taken briefly (via hasWork) to check for
// queued work, closing the data race the reference implementation
// tolerates (len read outside its lock).
func (p *Pool) Wait() {
	p.countMu.Lock()
	for {
		if !p.queue.hasWork() && p.threadsWorking == 0 {
			break
		}
		p.threadsIdle.Wait()
	}
	p.countMu.Unlock()

	p.queue.resetTimings()
}

// Close stops accepting new work and drains running workers. It clears
// keepalive, then repeatedly broadcasts hasJobs for up to one second so
// idle workers notice and exit; if any are still alive after that it
// falls back to polling once a second, posting between polls, matching
// the reference implementation's detached-thread shutdown.
func (p *Pool) Close() {
	p.countMu.Lock()
	p.keepalive = false
	p.countMu.Unlock()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		p.queue.hasJobs.postAll()
		if p.snapshotThreadsAlive() == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	for p.snapshotThreadsAlive() > 0 {
		p.queue.hasJobs.postAll()
		time.Sleep(time.Second)
	}
}

// GetConfig implements api.Control.
func (p *Pool) GetConfig() map[string]any {
	return p.cfgStore.GetSnapshot()
}

// SetConfig implements api.Control. Only the recognized keys are applied;
// every key, recognized or not, is also stored verbatim in the snapshot
// GetConfig returns.
func (p *Pool) SetConfig(cfg map[string]any) error {
	if v, ok := cfg["multijob_max_group_work"].(float64); ok {
		if err := p.SetMultiJobMaxGroupWork(v); err != nil {
			return err
		}
	}
	if v, ok := cfg["verbose"].(bool); ok {
		p.SetVerbose(v)
	}
	if v, ok := cfg["disabled"].(bool); ok {
		p.SetDisabled(v)
	}
	if v, ok := cfg["time_meas"].(int); ok {
		p.SetTimeMeas(v)
	}
	p.cfgStore.SetConfig(cfg)
	return nil
}

// Stats implements api.Control.
func (p *Pool) Stats() map[string]any {
	p.countMu.Lock()
	alive := p.threadsAlive
	working := p.threadsWorking
	p.countMu.Unlock()

	p.metrics.Set("threads_alive", alive)
	p.metrics.Set("threads_working", working)
	p.metrics.Set("queue_len", p.queue.hasWorkLen())
	return p.metrics.GetSnapshot()
}

// OnReload implements api.Control.
func (p *Pool) OnReload(fn func()) {
	p.cfgStore.OnReload(fn)
}

// RegisterDebugProbe implements api.Control.
func (p *Pool) RegisterDebugProbe(name string, fn func() any) {
	p.debug.RegisterProbe(name, fn)
}

// RegisterProbe implements api.Debug.
func (p *Pool) RegisterProbe(name string, fn func() any) {
	p.debug.RegisterProbe(name, fn)
}

// DumpState implements api.Debug.
func (p *Pool) DumpState() map[string]any {
	return p.debug.DumpState()
}

// Submit implements api.Executor for callers that only need a bare
// func(). It carries no timing information, so it always takes the
// SingleJob/MultiJob fast path rather than Static bin-packing.
func (p *Pool) Submit(task func()) error {
	return p.AddJob(func(any) { task() }, nil, nil, nil)
}

// NumWorkers implements api.Executor.
func (p *Pool) NumWorkers() int {
	return p.snapshotThreadsAlive()
}

// Resize implements api.Executor. Dynamic resizing of the thread set is
// an explicit non-goal; this is a documented no-op rather than a panic
// so Pool still satisfies the interface for callers that type-switch on it.
func (p *Pool) Resize(newCount int) {
	if p.cfg.Verbose {
		p.logger.Printf("concurrency: Resize(%d) ignored, thread set is fixed at creation", newCount)
	}
}
