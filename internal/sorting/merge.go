package sorting

// mergeSort splits top-down to singleton ranges and merges back.
//
// Each merge first copies [lo, hi) into the Aux "merging" view, one snapshot
// per element, then writes the elements back in order, one snapshot per
// write. Ties take the left element, which keeps the sort stable.
//
// After each write the slots still to be written hold the untaken elements,
// left run first, so every snapshot is a permutation of the input.
func mergeSort(s *sorter) error {
	return s.mergeRange(0, len(s.vals))
}

// mergeRange sorts the half-open range [lo, hi).
func (s *sorter) mergeRange(lo, hi int) error {
	if hi-lo <= 1 {
		return nil
	}
	mid := lo + (hi-lo)/2
	if err := s.mergeRange(lo, mid); err != nil {
		return err
	}
	if err := s.mergeRange(mid, hi); err != nil {
		return err
	}
	return s.merge(lo, mid, hi)
}

func (s *sorter) merge(lo, mid, hi int) error {
	aux := make([]int64, 0, hi-lo)
	auxOrder := make([]int, 0, hi-lo)
	for k := lo; k < hi; k++ {
		aux = append(aux, s.vals[k])
		auxOrder = append(auxOrder, s.order[k])
		s.rec.Access(2)
		if err := s.snapshotAux(aux, active(k)...); err != nil {
			return err
		}
	}

	left, right := 0, mid-lo
	leftEnd, rightEnd := mid-lo, hi-lo
	for k := lo; k < hi; k++ {
		fromRight := false
		switch {
		case left >= leftEnd:
			fromRight = true
		case right >= rightEnd:
		default:
			s.rec.Compare()
			fromRight = aux[right] < aux[left]
		}
		take := left
		if fromRight {
			take = right
			right++
		} else {
			left++
		}

		s.vals[k] = aux[take]
		s.order[k] = auxOrder[take]
		s.rec.Access(2)
		p := k + 1
		for _, run := range [2][2]int{{left, leftEnd}, {right, rightEnd}} {
			for t := run[0]; t < run[1]; t++ {
				s.vals[p], s.order[p] = aux[t], auxOrder[t]
				p++
			}
		}
		if err := s.snapshotAux(aux, active(k)...); err != nil {
			return err
		}
	}
	return s.snapshot(true)
}
