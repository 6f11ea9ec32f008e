package sorting

// selectionSort scans [i, n) for the minimum, shown as the Pivot, and swaps
// it into place once per position.
func selectionSort(s *sorter) error {
	n := len(s.vals)
	for i := 0; i < n-1; i++ {
		smallest := i
		for j := i + 1; j < n; j++ {
			if err := s.snapshot(false, append(active(j), pivot(smallest))...); err != nil {
				return err
			}
			if s.less(j, smallest) {
				smallest = j
			}
		}
		if smallest != i {
			s.swap(i, smallest)
			if err := s.snapshot(false, active(i, smallest)...); err != nil {
				return err
			}
		}
		s.settle(i)
		if err := s.snapshot(true); err != nil {
			return err
		}
	}
	return nil
}
