package sorting

import "github.com/roach88/algotrace/internal/engine"

// bogoSort shuffles the whole sequence (Fisher-Yates) until it is sorted or
// the attempt quota runs out. Each shuffle is one snapshot.
//
// Expected time is exponential. The algorithm exists to exercise
// cancellation and the attempt cap, not to sort.
func bogoSort(s *sorter) error {
	n := len(s.vals)
	quota := engine.NewQuotaEnforcer(s.cfg.maxAttempts)
	for {
		sorted, err := s.sortedRange(0, n-1)
		if err != nil {
			return err
		}
		if sorted {
			return nil
		}
		if err := quota.Check(); err != nil {
			return err
		}

		for i := n - 1; i > 0; i-- {
			if j := s.cfg.rng.IntN(i + 1); s.vals[i] != s.vals[j] {
				s.swap(i, j)
			}
		}
		if err := s.snapshot(true, active(allIndexes(n)...)...); err != nil {
			return err
		}
	}
}

func allIndexes(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
