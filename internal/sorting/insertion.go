package sorting

// insertionSort shifts each key left while it is strictly smaller than its
// neighbour, recording a snapshot before and after every shift. Already
// sorted input costs one comparison per element.
func insertionSort(s *sorter) error {
	n := len(s.vals)
	for i := 1; i < n; i++ {
		for j := i; j > 0; j-- {
			if err := s.snapshot(false, active(j-1, j)...); err != nil {
				return err
			}
			if !s.less(j, j-1) {
				break
			}
			s.swap(j-1, j)
			if err := s.snapshot(false, active(j-1, j)...); err != nil {
				return err
			}
		}
		if err := s.snapshot(true); err != nil {
			return err
		}
	}
	return nil
}
