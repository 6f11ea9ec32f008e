package sorting

// quickSort sorts with median-of-three pivot selection and a Lomuto
// partition, left partition first.
//
// Before partitioning, each sub-range is scanned once; an already sorted
// range is Settled in a single snapshot with no further recursion. This
// changes the trace length and is part of the recorded behaviour.
func quickSort(s *sorter) error {
	return s.quick(0, len(s.vals)-1)
}

func (s *sorter) quick(lo, hi int) error {
	if lo > hi {
		return nil
	}
	if lo == hi {
		s.settle(lo)
		return nil
	}

	sorted, err := s.sortedRange(lo, hi)
	if err != nil {
		return err
	}
	if sorted {
		s.settleRange(lo, hi)
		return s.snapshot(true)
	}

	p, err := s.partition(lo, hi)
	if err != nil {
		return err
	}
	if err := s.quick(lo, p-1); err != nil {
		return err
	}
	return s.quick(p+1, hi)
}

// partition places the median of vals[lo], vals[mid], vals[hi] at hi and
// partitions [lo, hi] around it. Returns the pivot's final index, which is
// Settled.
func (s *sorter) partition(lo, hi int) (int, error) {
	mid := lo + (hi-lo)/2

	// Order lo <= mid <= hi, then move the median to hi. Equal values
	// are never exchanged.
	for _, pair := range [3][2]int{{lo, mid}, {lo, hi}, {mid, hi}} {
		if err := s.compareSwap(pair[0], pair[1]); err != nil {
			return 0, err
		}
	}
	if s.vals[mid] != s.vals[hi] {
		s.swap(mid, hi)
		if err := s.snapshot(false, append(active(mid), pivot(hi))...); err != nil {
			return 0, err
		}
	}

	i := lo
	for j := lo; j < hi; j++ {
		if err := s.snapshot(false, append(active(j), pivot(hi))...); err != nil {
			return 0, err
		}
		if s.less(j, hi) {
			if i != j {
				s.swap(i, j)
				if err := s.snapshot(false, append(active(i, j), pivot(hi))...); err != nil {
					return 0, err
				}
			}
			i++
		}
	}
	if s.vals[i] != s.vals[hi] {
		s.swap(i, hi)
	}
	s.settle(i)
	if err := s.snapshot(true); err != nil {
		return 0, err
	}
	return i, nil
}

// compareSwap orders vals[a] <= vals[b], recording the comparison and the
// swap if one happens.
func (s *sorter) compareSwap(a, b int) error {
	if a == b {
		return nil
	}
	if err := s.snapshot(false, active(a, b)...); err != nil {
		return err
	}
	if !s.less(b, a) {
		return nil
	}
	s.swap(a, b)
	return s.snapshot(false, active(a, b)...)
}
