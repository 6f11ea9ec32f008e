package sorting

// heapSort builds a max-heap in place, then repeatedly swaps the root to the
// end of the shrinking heap. Each extracted position is Settled.
func heapSort(s *sorter) error {
	n := len(s.vals)
	for i := n/2 - 1; i >= 0; i-- {
		if err := s.siftDown(i, n); err != nil {
			return err
		}
	}
	if n > 1 {
		if err := s.snapshot(true); err != nil {
			return err
		}
	}

	for end := n - 1; end > 0; end-- {
		if s.vals[0] != s.vals[end] {
			s.swap(0, end)
		}
		s.settle(end)
		if err := s.snapshot(false, active(0, end)...); err != nil {
			return err
		}
		if err := s.siftDown(0, end); err != nil {
			return err
		}
		if err := s.snapshot(true); err != nil {
			return err
		}
	}
	return nil
}

// siftDown restores the heap property below root within [0, size).
func (s *sorter) siftDown(root, size int) error {
	for {
		child := 2*root + 1
		if child >= size {
			return nil
		}
		if child+1 < size {
			if err := s.snapshot(false, active(child, child+1)...); err != nil {
				return err
			}
			if s.less(child, child+1) {
				child++
			}
		}
		if err := s.snapshot(false, active(root, child)...); err != nil {
			return err
		}
		if !s.less(root, child) {
			return nil
		}
		s.swap(root, child)
		if err := s.snapshot(false, active(root, child)...); err != nil {
			return err
		}
		root = child
	}
}
