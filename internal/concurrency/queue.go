// File: internal/concurrency/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// jobQueue is a mutex-protected FIFO of Jobs plus a LIFO chain of
// pre-built work groups used only by the Static strategy. The FIFO is
// backed by github.com/eapache/queue, a growable ring buffer that also
// supports indexed peeks — exactly what MultiJob's greedy walk needs to
// look ahead without dequeuing.

package concurrency

import (
	"sync"
	"time"

	"github.com/eapache/queue"
)

// jobQueue holds the FIFO of individual jobs, the Static group chain, and
// the running totals pull() uses to size MultiJob groups.
type jobQueue struct {
	mu sync.Mutex

	front *queue.Queue // FIFO of Job values
	len   int

	totalTime  float64
	groupFront *workGroup

	// highestExpectedReturn is the monotonic instant the latest-dispatched
	// MultiJob group is forecast to finish. Zero means "unset".
	highestExpectedReturn time.Time

	hasJobs *bsem
}

func newJobQueue() *jobQueue {
	return &jobQueue{
		front:   queue.New(),
		hasJobs: newBSem(false),
	}
}

// push appends one job and posts hasJobs so a single worker may wake.
func (q *jobQueue) push(job Job) {
	q.mu.Lock()
	q.front.Add(job)
	q.len++
	if job.AvgElapsed != nil {
		q.totalTime += *job.AvgElapsed
	}
	q.mu.Unlock()
	q.hasJobs.post()
}

// multipush appends every job as one critical section, then broadcasts
// hasJobs once so up to N workers may wake.
func (q *jobQueue) multipush(jobs []Job) {
	q.mu.Lock()
	for _, job := range jobs {
		q.front.Add(job)
		q.len++
		if job.AvgElapsed != nil {
			q.totalTime += *job.AvgElapsed
		}
	}
	q.mu.Unlock()
	q.hasJobs.postAll()
}

// pushStatic bin-packs jobs across min(NThreads, len(jobs)) groups so
// each bin's running duration stays under the fair-share target, using a
// least-loaded tie-break when no bin has room. Only called by the caller
// when strategy is Static and avg[0] > 0.
func (q *jobQueue) pushStatic(jobs []Job, avg []float64, cfg Config) {
	n := len(jobs)
	if n == 0 {
		return
	}
	numBins := cfg.NThreads
	if numBins <= 0 || n < numBins {
		numBins = n
	}

	durations := make([]float64, numBins)
	bins := make([][]Job, numBins)

	var total float64
	for _, a := range avg {
		total += a
	}
	target := total / float64(numBins)

	for j := 0; j < n; j++ {
		placed := false
		for i := 0; i < numBins; i++ {
			next := durations[i] + avg[j]
			if next < target {
				durations[i] = next
				bins[i] = append(bins[i], jobs[j])
				placed = true
				break
			}
		}
		if !placed {
			best := 0
			bestDur := durations[0] + avg[j]
			for i := 1; i < numBins; i++ {
				next := durations[i] + avg[j]
				if next < bestDur {
					bestDur = next
					best = i
				}
			}
			durations[best] = bestDur
			bins[best] = append(bins[best], jobs[j])
		}
	}

	groups := make([]*workGroup, numBins)
	for i := range groups {
		groups[i] = &workGroup{jobs: bins[i]}
	}
	for i := 0; i < numBins-1; i++ {
		groups[i].prev = groups[i+1]
	}

	q.mu.Lock()
	groups[numBins-1].prev = q.groupFront
	q.groupFront = groups[0]
	q.mu.Unlock()

	q.hasJobs.postAll()
}

// extractSingleLocked detaches the head job. Callers must hold q.mu.
func (q *jobQueue) extractSingleLocked() Job {
	v := q.front.Peek()
	q.front.Remove()
	job := v.(Job)
	q.len--
	if job.AvgElapsed != nil {
		q.totalTime -= *job.AvgElapsed
	}
	if q.len == 0 {
		q.totalTime = 0
		q.highestExpectedReturn = time.Time{}
	}
	return job
}

// peekLocked returns the i-th queued job without removing it. Callers
// must hold q.mu and know 0 <= i < q.len.
func (q *jobQueue) peekLocked(i int) Job {
	return q.front.Get(i).(Job)
}

// hasWork reports whether the queue has anything left to hand out.
func (q *jobQueue) hasWork() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.len > 0 || q.groupFront != nil
}

// hasWorkLen returns the number of individually queued jobs, for
// diagnostics; it does not count jobs sitting in Static work groups.
func (q *jobQueue) hasWorkLen() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.len
}

// resetTimings clears the running totals once the pool has drained.
func (q *jobQueue) resetTimings() {
	q.mu.Lock()
	q.totalTime = 0
	q.highestExpectedReturn = time.Time{}
	q.mu.Unlock()
}

// pull builds the next WorkGroup for a worker per the configured
// strategy, and returns an empty group if there is nothing to hand out.
//
// Static: pop the head of the pre-built group chain if one exists.
// SingleJob, or a single job remains, or there's no timing signal at
// all (total_time <= 0): extract exactly one job.
// MultiJob: walk the FIFO from the head, accumulating duration, and stop
// before the first job that would push the running total to or past the
// target (a strict "<" test — the job that would tip it over stays
// queued for the next pull rather than joining this group).
func (q *jobQueue) pull(cfg Config) *workGroup {
	q.mu.Lock()
	defer q.mu.Unlock()

	if cfg.Strategy == Static && q.groupFront != nil {
		group := q.groupFront
		q.groupFront = group.prev
		group.prev = nil
		q.repostLocked()
		return group
	}

	if q.len == 0 {
		return &workGroup{}
	}

	if cfg.Strategy == SingleJob || q.len <= 1 || q.totalTime <= 0 {
		group := &workGroup{jobs: []Job{q.extractSingleLocked()}}
		q.repostLocked()
		return group
	}

	// MultiJob.
	head := q.peekLocked(0)
	if head.AvgElapsed == nil {
		group := &workGroup{jobs: []Job{q.extractSingleLocked()}}
		q.repostLocked()
		return group
	}

	size := 1
	duration := *head.AvgElapsed

	target := q.totalTime * cfg.MultiJobMaxGroupWork / float64(cfg.NThreads)

	now := time.Now()
	if !q.highestExpectedReturn.IsZero() {
		if minTarget := 0.9 * q.highestExpectedReturn.Sub(now).Seconds(); minTarget > target {
			target = minTarget
		}
	}
	// Cap: an over-enlarged target (stale highestExpectedReturn) can
	// never usefully exceed everything currently queued.
	if target > q.totalTime {
		target = q.totalTime
	}

	for i := 1; i < q.len; i++ {
		job := q.peekLocked(i)
		if job.AvgElapsed == nil {
			break
		}
		next := duration + *job.AvgElapsed
		if next >= target {
			break
		}
		duration = next
		size++
	}

	jobs := make([]Job, size)
	for i := 0; i < size; i++ {
		jobs[i] = q.extractSingleLocked()
	}

	expected := now.Add(time.Duration(duration * float64(time.Second)))
	if q.highestExpectedReturn.IsZero() || expected.After(q.highestExpectedReturn) {
		q.highestExpectedReturn = expected
	}

	q.repostLocked()
	return &workGroup{jobs: jobs}
}

// repostLocked re-signals hasJobs if work remains after a pull, so
// another idle worker wakes. Callers must hold q.mu.
func (q *jobQueue) repostLocked() {
	if q.len > 0 || q.groupFront != nil {
		q.hasJobs.postAll()
	}
}
