// File: internal/concurrency/queue_test.go
package concurrency

import "testing"

func floatPtr(v float64) *float64 { return &v }

func TestQueue_PushAndExtractSingleFIFO(t *testing.T) {
	q := newJobQueue()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		q.push(Job{Fn: func(any) { order = append(order, i) }, Arg: nil})
	}
	if q.len != 3 {
		t.Fatalf("len = %d, want 3", q.len)
	}

	cfg := DefaultConfig()
	cfg.Strategy = SingleJob
	for i := 0; i < 3; i++ {
		group := q.pull(cfg)
		if len(group.jobs) != 1 {
			t.Fatalf("pull %d: got %d jobs, want 1", i, len(group.jobs))
		}
		group.jobs[0].Fn(nil)
	}
	if len(order) != 3 || order[0] != 0 || order[1] != 1 || order[2] != 2 {
		t.Fatalf("FIFO order violated: %v", order)
	}
	if q.len != 0 {
		t.Fatalf("len after drain = %d, want 0", q.len)
	}
}

func TestQueue_TotalTimeTracksAvgElapsed(t *testing.T) {
	q := newJobQueue()
	a, b := 1.5, 2.5
	q.push(Job{Fn: func(any) {}, AvgElapsed: &a})
	q.push(Job{Fn: func(any) {}, AvgElapsed: &b})
	if q.totalTime != 4.0 {
		t.Fatalf("totalTime = %v, want 4.0", q.totalTime)
	}

	cfg := DefaultConfig()
	cfg.Strategy = SingleJob
	q.pull(cfg)
	if q.totalTime != 2.5 {
		t.Fatalf("totalTime after one extract = %v, want 2.5", q.totalTime)
	}
	q.pull(cfg)
	if q.totalTime != 0 {
		t.Fatalf("totalTime after drain = %v, want 0", q.totalTime)
	}
}

// TestQueue_MultiJobStopsBeforeReachingTarget mirrors scenario S2: eight
// jobs each with avg 1s, two threads, 0.75 max group work. target =
// 8*0.75/2 = 3. Duration grows 1, 2; the third job would make it 3,
// which is not < target, so the first pull stops at size 2.
func TestQueue_MultiJobStopsBeforeReachingTarget(t *testing.T) {
	q := newJobQueue()
	avgs := make([]float64, 8)
	for i := range avgs {
		avgs[i] = 1
		q.push(Job{Fn: func(any) {}, AvgElapsed: &avgs[i]})
	}

	cfg := DefaultConfig()
	cfg.Strategy = MultiJob
	cfg.NThreads = 2
	cfg.MultiJobMaxGroupWork = 0.75

	group := q.pull(cfg)
	if len(group.jobs) != 2 {
		t.Fatalf("group size = %d, want 2", len(group.jobs))
	}
	if q.len != 6 {
		t.Fatalf("remaining len = %d, want 6", q.len)
	}
}

func TestQueue_MultiJobFallsBackToSingleWithoutTiming(t *testing.T) {
	q := newJobQueue()
	q.push(Job{Fn: func(any) {}})
	q.push(Job{Fn: func(any) {}})

	cfg := DefaultConfig()
	cfg.Strategy = MultiJob

	group := q.pull(cfg)
	if len(group.jobs) != 1 {
		t.Fatalf("group size = %d, want 1 (no timing signal)", len(group.jobs))
	}
}

// TestQueue_PushStaticBinPacking mirrors scenario S3's bound: with
// avg = [10,1,1,1,1,1] across three bins, no bin's duration should
// exceed max(avg) + total/n_threads.
func TestQueue_PushStaticBinPacking(t *testing.T) {
	q := newJobQueue()
	avg := []float64{10, 1, 1, 1, 1, 1}
	jobs := make([]Job, len(avg))
	for i := range avg {
		i := i
		jobs[i] = Job{Fn: func(any) {}, AvgElapsed: &avg[i]}
	}

	cfg := DefaultConfig()
	cfg.Strategy = Static
	cfg.NThreads = 3
	q.pushStatic(jobs, avg, cfg)

	var total float64
	for _, a := range avg {
		total += a
	}
	bound := 10.0 + total/3.0

	seen := 0
	for q.groupFront != nil {
		g := q.groupFront
		q.groupFront = g.prev
		var dur float64
		for _, j := range g.jobs {
			dur += *j.AvgElapsed
			seen++
		}
		if dur > bound {
			t.Fatalf("bin duration %v exceeds bound %v", dur, bound)
		}
	}
	if seen != len(avg) {
		t.Fatalf("saw %d jobs across bins, want %d", seen, len(avg))
	}
}

func TestQueue_StaticGroupsPulledBeforeIndividualJobs(t *testing.T) {
	q := newJobQueue()
	avg := []float64{1, 1}
	jobs := []Job{{Fn: func(any) {}, AvgElapsed: &avg[0]}, {Fn: func(any) {}, AvgElapsed: &avg[1]}}

	cfg := DefaultConfig()
	cfg.Strategy = Static
	cfg.NThreads = 2
	q.push(Job{Fn: func(any) {}})
	q.pushStatic(jobs, avg, cfg)

	if !q.hasWork() {
		t.Fatal("hasWork() false after pushStatic")
	}

	group := q.pull(cfg)
	if len(group.jobs) == 0 {
		t.Fatal("pull returned an empty group despite a chained work group")
	}
	if group.jobs[0].AvgElapsed != &avg[0] {
		t.Fatal("pull returned the individually queued job before the chained work group")
	}
}
