package ir

import (
	"fmt"
	"strings"
	"time"
)

// Coord addresses one grid cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String renders the coordinate as "(row,col)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Manhattan returns the 4-connected distance between c and o.
func (c Coord) Manhattan(o Coord) int {
	return abs(c.Row-o.Row) + abs(c.Col-o.Col)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Tag classifies one index of a sort snapshot for rendering.
type Tag uint8

const (
	// TagDefault marks an index with no special role at this instant.
	TagDefault Tag = iota
	// TagActive marks an index taking part in the current comparison or swap.
	TagActive
	// TagPivot marks the pivot (quick sort) or running minimum (selection sort).
	TagPivot
	// TagSettled marks an index that will not change again in this run.
	TagSettled
)

var tagNames = [...]string{"default", "active", "pivot", "settled"}

// String returns the lower-case tag name.
func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	if int(t) >= len(tagNames) {
		return nil, fmt.Errorf("unknown tag %d", uint8(t))
	}
	return []byte(tagNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	for i, name := range tagNames {
		if name == s {
			*t = Tag(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tag %q", string(b))
}

// SortSnapshot is one recorded instant of a sort run.
//
// INVARIANTS:
//   - len(Tags) == len(Values)
//   - Values, Tags and Aux are private copies; nothing mutates them after
//     the snapshot is recorded
type SortSnapshot struct {
	Values []int64 `json:"values"`
	Tags   []Tag   `json:"tags"`

	// Aux is the merge sort "merging" view: the elements copied out of the
	// two halves currently being merged. Empty for every other algorithm.
	Aux []int64 `json:"aux,omitempty"`

	// Milestone marks a full-array state that belongs to the coarse history
	// (initial state, end of an outer pass, merge, partition or shuffle).
	Milestone bool `json:"milestone,omitempty"`
}

// Unvisited is the predecessor sentinel for cells not yet reached.
const Unvisited = -1

// Predecessors is a dense coordinate -> predecessor map over a grid.
//
// Prev[i] holds the flat index (row*Cols+col) of the predecessor of cell i,
// or Unvisited. The search origin maps to itself.
type Predecessors struct {
	Rows int   `json:"rows"`
	Cols int   `json:"cols"`
	Prev []int `json:"prev"`
}

// NewPredecessors returns a map with every cell Unvisited.
func NewPredecessors(rows, cols int) Predecessors {
	prev := make([]int, rows*cols)
	for i := range prev {
		prev[i] = Unvisited
	}
	return Predecessors{Rows: rows, Cols: cols, Prev: prev}
}

func (p Predecessors) index(c Coord) int {
	return c.Row*p.Cols + c.Col
}

func (p Predecessors) coord(i int) Coord {
	return Coord{Row: i / p.Cols, Col: i % p.Cols}
}

// Set records from as the predecessor of c.
func (p Predecessors) Set(c, from Coord) {
	p.Prev[p.index(c)] = p.index(from)
}

// Of returns the predecessor of c, or false if c is unvisited.
func (p Predecessors) Of(c Coord) (Coord, bool) {
	i := p.Prev[p.index(c)]
	if i == Unvisited {
		return Coord{}, false
	}
	return p.coord(i), true
}

// Visited reports whether c has a predecessor.
func (p Predecessors) Visited(c Coord) bool {
	return p.Prev[p.index(c)] != Unvisited
}

// Count returns the number of visited cells.
func (p Predecessors) Count() int {
	n := 0
	for _, v := range p.Prev {
		if v != Unvisited {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (p Predecessors) Clone() Predecessors {
	prev := make([]int, len(p.Prev))
	copy(prev, p.Prev)
	return Predecessors{Rows: p.Rows, Cols: p.Cols, Prev: prev}
}

// SearchSnapshot is one recorded frontier pop of a search run.
type SearchSnapshot struct {
	Current  Coord        `json:"current"`
	Frontier []Coord      `json:"frontier"`
	Visited  Predecessors `json:"visited"`
}

// Reason explains an unsuccessful outcome.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonCancelled         Reason = "cancelled"
	ReasonAttemptsExhausted Reason = "attempts_exhausted"
	ReasonUnreachable       Reason = "unreachable"
)

// Metrics are the aggregate counters of one run.
type Metrics struct {
	Comparisons int64         `json:"comparisons"`
	Swaps       int64         `json:"swaps"`
	Accesses    int64         `json:"accesses"`
	Expanded    int64         `json:"expanded"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Outcome is the terminal summary of a run.
//
// Sort runs fill Final and Order; search runs fill Path and VisitOrder.
type Outcome struct {
	Success bool   `json:"success"`
	Reason  Reason `json:"reason,omitempty"`

	// Final is the sequence as left by the run. On cancellation it equals
	// the values of the last recorded snapshot.
	Final []int64 `json:"final,omitempty"`

	// Order[i] is the input index of the element that ended at position i.
	Order []int `json:"order,omitempty"`

	Path       []Coord `json:"path,omitempty"`
	VisitOrder []Coord `json:"visit_order,omitempty"`

	// Steps is the number of snapshots recorded.
	Steps   int     `json:"steps"`
	Metrics Metrics `json:"metrics"`
}

// WireDuration is a duration split into whole seconds and nanoseconds.
type WireDuration struct {
	Secs  int64 `json:"secs"`
	Nanos int64 `json:"nanos"`
}

// NewWireDuration splits d. Negative durations clamp to zero.
func NewWireDuration(d time.Duration) WireDuration {
	if d < 0 {
		d = 0
	}
	return WireDuration{
		Secs:  int64(d / time.Second),
		Nanos: int64(d % time.Second),
	}
}
