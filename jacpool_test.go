// File: jacpool_test.go
package jacpool

import (
	"sync/atomic"
	"testing"

	"github.com/momentics/jacpool/internal/concurrency"
)

// resetGlobalState tears down any pool left behind by a previous test.
func resetGlobalState(t *testing.T) {
	t.Helper()
	Shutdown()
	mu.Lock()
	cfg = concurrency.DefaultConfig()
	mu.Unlock()
}

// TestAddJobs_PermutedOrderRunsSynchronouslyWhenDisabled mirrors S6 at
// the process-wide wrapper level. SetDisabled is called while NThreads
// still holds its non-zero default, so this also guards against
// Prepare spawning worker goroutines it will never use.
func TestAddJobs_PermutedOrderRunsSynchronouslyWhenDisabled(t *testing.T) {
	resetGlobalState(t)
	defer resetGlobalState(t)

	SetDisabled(true)

	var seen []int
	jobs := []Job{
		{Fn: func(any) { seen = append(seen, 0) }},
		{Fn: func(any) { seen = append(seen, 1) }},
		{Fn: func(any) { seen = append(seen, 2) }},
	}
	if err := AddJobs(jobs, []int{2, 0, 1}); err != nil {
		t.Fatalf("AddJobs: %v", err)
	}

	want := []int{2, 0, 1}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}

	mu.RLock()
	p := pool
	mu.RUnlock()
	if p == nil {
		t.Fatal("Prepare never ran")
	}
	if p.NumWorkers() != 0 {
		t.Fatalf("NumWorkers() = %d, want 0 for a disabled pool", p.NumWorkers())
	}
}

func TestAddJobs_RunsAcrossWorkersThenWaitDrains(t *testing.T) {
	resetGlobalState(t)
	defer resetGlobalState(t)

	SetThreads(3)

	var counter int64
	jobs := make([]Job, 12)
	for i := range jobs {
		jobs[i] = Job{Fn: func(any) { atomic.AddInt64(&counter, 1) }}
	}
	if err := AddJobs(jobs, nil); err != nil {
		t.Fatalf("AddJobs: %v", err)
	}
	Wait()

	if got := atomic.LoadInt64(&counter); got != 12 {
		t.Fatalf("counter = %d, want 12", got)
	}
}

func TestPrepare_IsIdempotent(t *testing.T) {
	resetGlobalState(t)
	defer resetGlobalState(t)

	if err := Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	first := Threads()
	if err := Prepare(); err != nil {
		t.Fatalf("second Prepare: %v", err)
	}
	if Threads() != first {
		t.Fatalf("Threads changed across idempotent Prepare calls: %d -> %d", first, Threads())
	}
}

func TestShutdown_SafeWhenNoPoolExists(t *testing.T) {
	resetGlobalState(t)
	Shutdown()
}

func TestSetSchedulerStrategy_BeforeAndAfterPrepare(t *testing.T) {
	resetGlobalState(t)
	defer resetGlobalState(t)

	SetSchedulerStrategy(MultiJob)
	if SchedulerStrategy() != MultiJob {
		t.Fatalf("SchedulerStrategy() = %v, want MultiJob before Prepare", SchedulerStrategy())
	}

	if err := Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if SchedulerStrategy() != MultiJob {
		t.Fatalf("SchedulerStrategy() = %v, want MultiJob after Prepare", SchedulerStrategy())
	}

	SetSchedulerStrategy(Static)
	if SchedulerStrategy() != Static {
		t.Fatalf("SchedulerStrategy() = %v, want Static", SchedulerStrategy())
	}
}

func TestUpdateOrder_RootWrapperDelegates(t *testing.T) {
	avg := []float64{0, 0, 0}
	elapsed := []float64{1.0, 3.0, 2.0}
	order := make([]int, 3)

	UpdateOrder(avg, 0, elapsed, order)

	wantOrder := []int{2, 0, 1}
	for i := range order {
		if order[i] != wantOrder[i] {
			t.Fatalf("order = %v, want %v", order, wantOrder)
		}
	}
}
