package ir

// SortCase is one compiled sort workload.
type SortCase struct {
	Name      string  `json:"name"`
	Algorithm string  `json:"algorithm"`
	Numbers   []int64 `json:"numbers"`

	// Seed feeds the shuffle of bogo sort. Ignored by other algorithms.
	Seed int64 `json:"seed,omitempty"`
}

// SearchCase is one compiled grid search workload.
//
// Grid rows use '.' for empty, '#' for wall, 'S' for start and 'E' for end.
type SearchCase struct {
	Name      string   `json:"name"`
	Algorithm string   `json:"algorithm"`
	Grid      []string `json:"grid"`
}

// MazeCase generates a maze and solves it.
type MazeCase struct {
	Name      string `json:"name"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	Seed      int64  `json:"seed"`
	Algorithm string `json:"algorithm"`
}

// Workload groups every case found in one workload directory, in
// declaration order.
type Workload struct {
	Sorts    []SortCase   `json:"sorts,omitempty"`
	Searches []SearchCase `json:"searches,omitempty"`
	Mazes    []MazeCase   `json:"mazes,omitempty"`
}

// Len returns the total number of cases.
func (w Workload) Len() int {
	return len(w.Sorts) + len(w.Searches) + len(w.Mazes)
}
