package sorting

// bubbleSort makes adjacent-pair passes. It records a snapshot before each
// comparison and after each swap. After pass p the last p+1 indices are
// Settled; a pass without swaps settles everything left and stops.
func bubbleSort(s *sorter) error {
	n := len(s.vals)
	for pass := 0; pass < n-1; pass++ {
		last := n - 1 - pass
		swapped := false
		for j := 0; j < last; j++ {
			if err := s.snapshot(false, active(j, j+1)...); err != nil {
				return err
			}
			if s.less(j+1, j) {
				s.swap(j, j+1)
				swapped = true
				if err := s.snapshot(false, active(j, j+1)...); err != nil {
					return err
				}
			}
		}
		if !swapped {
			s.settleRange(0, last)
			return s.snapshot(true)
		}
		s.settle(last)
		if err := s.snapshot(true); err != nil {
			return err
		}
	}
	return nil
}
