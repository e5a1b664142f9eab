// File: internal/concurrency/reorder.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// UpdateOrder is the pure reorder helper: it folds a fresh sample into
// the caller-owned moving average and emits a permutation that runs the
// most expensive job first, so the next batch's critical path is
// dominated by slow jobs while cheap ones fill the gaps.

package concurrency

import "sort"

// UpdateOrder updates avg in place from elapsed (unless elapsed is all
// zero, in which case avg and order are left untouched) and writes into
// order the descending-by-time rank of each job: order[i] is 0 for the
// job with the largest updated average, len(avg)-1 for the smallest.
// Ties keep their original relative order (stable sort).
func UpdateOrder(avg []float64, n int, elapsed []float64, order []int) {
	if len(avg) != len(elapsed) || len(avg) != len(order) {
		return
	}

	allZero := true
	for _, e := range elapsed {
		if e != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return
	}

	for i := range avg {
		avg[i] = (avg[i]*float64(n) + elapsed[i]) / float64(n+1)
	}

	rank := make([]int, len(avg))
	for i := range rank {
		rank[i] = i
	}
	sort.SliceStable(rank, func(a, b int) bool {
		return avg[rank[a]] > avg[rank[b]]
	})
	for position, jobIndex := range rank {
		order[jobIndex] = position
	}
}
