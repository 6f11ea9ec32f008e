// Package grid provides the rectangular cell map searched by the search
// engine.
//
// A Grid has a fixed shape chosen at construction. Cell kinds may change
// (maze carving, editing) but rows and cols never do.
package grid

import (
	"fmt"
	"strings"

	"github.com/roach88/algotrace/internal/ir"
)

// Kind is the content of one cell.
type Kind uint8

const (
	Empty Kind = iota
	Wall
	Start
	End
)

// Text runes used by Parse and String.
const (
	RuneEmpty = '.'
	RuneWall  = '#'
	RuneStart = 'S'
	RuneEnd   = 'E'
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Wall:
		return "wall"
	case Start:
		return "start"
	case End:
		return "end"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Directions in neighbor enumeration order: East, South, West, North.
// Every search algorithm expands neighbors in exactly this order.
var Directions = [4]ir.Coord{
	{Row: 0, Col: 1},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: -1, Col: 0},
}

// Grid is a rows x cols matrix of cells.
type Grid struct {
	rows  int
	cols  int
	cells []Kind
}

// New creates a grid of Empty cells.
func New(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid: invalid dimensions %dx%d", rows, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: make([]Kind, rows*cols)}, nil
}

// Filled creates a grid with every cell set to k.
func Filled(rows, cols int, k Kind) (*Grid, error) {
	g, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := range g.cells {
		g.cells[i] = k
	}
	return g, nil
}

// Parse builds a grid from text rows using '.', '#', 'S' and 'E'.
// All rows must have the same length. Parse does not require a Start or End
// cell; use Validate before searching.
func Parse(lines []string) (*Grid, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("grid: no rows")
	}
	cols := len([]rune(lines[0]))
	g, err := New(len(lines), cols)
	if err != nil {
		return nil, err
	}
	for r, line := range lines {
		runes := []rune(line)
		if len(runes) != cols {
			return nil, fmt.Errorf("grid: row %d has %d cells, want %d", r, len(runes), cols)
		}
		for c, ch := range runes {
			k, err := kindOf(ch)
			if err != nil {
				return nil, fmt.Errorf("grid: row %d col %d: %w", r, c, err)
			}
			g.cells[r*cols+c] = k
		}
	}
	return g, nil
}

func kindOf(ch rune) (Kind, error) {
	switch ch {
	case RuneEmpty:
		return Empty, nil
	case RuneWall:
		return Wall, nil
	case RuneStart:
		return Start, nil
	case RuneEnd:
		return End, nil
	default:
		return Empty, fmt.Errorf("unknown cell %q", ch)
	}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Len returns rows*cols.
func (g *Grid) Len() int { return len(g.cells) }

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c ir.Coord) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// At returns the kind of c. Out-of-bounds coordinates read as Wall.
func (g *Grid) At(c ir.Coord) Kind {
	if !g.InBounds(c) {
		return Wall
	}
	return g.cells[c.Row*g.cols+c.Col]
}

// Set changes the kind of c. Out-of-bounds writes are ignored.
func (g *Grid) Set(c ir.Coord, k Kind) {
	if g.InBounds(c) {
		g.cells[c.Row*g.cols+c.Col] = k
	}
}

// Open reports whether c is inside the grid and not a Wall.
func (g *Grid) Open(c ir.Coord) bool {
	return g.InBounds(c) && g.cells[c.Row*g.cols+c.Col] != Wall
}

// Neighbors appends the open neighbors of c to dst in East, South, West,
// North order and returns the extended slice.
func (g *Grid) Neighbors(dst []ir.Coord, c ir.Coord) []ir.Coord {
	for _, d := range Directions {
		n := ir.Coord{Row: c.Row + d.Row, Col: c.Col + d.Col}
		if g.Open(n) {
			dst = append(dst, n)
		}
	}
	return dst
}

// Find returns every cell of kind k in row-major order.
func (g *Grid) Find(k Kind) []ir.Coord {
	var out []ir.Coord
	for i, cell := range g.cells {
		if cell == k {
			out = append(out, ir.Coord{Row: i / g.cols, Col: i % g.cols})
		}
	}
	return out
}

// Endpoints returns the unique Start and End cells.
// Fails with a ConfigError unless exactly one of each exists.
func (g *Grid) Endpoints() (start, end ir.Coord, err error) {
	starts := g.Find(Start)
	ends := g.Find(End)
	if len(starts) != 1 || len(ends) != 1 {
		return ir.Coord{}, ir.Coord{}, &ConfigError{Starts: len(starts), Ends: len(ends)}
	}
	return starts[0], ends[0], nil
}

// Validate checks that exactly one Start and one End cell exist.
func (g *Grid) Validate() error {
	_, _, err := g.Endpoints()
	return err
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	cells := make([]Kind, len(g.cells))
	copy(cells, g.cells)
	return &Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// Lines renders the grid as text rows (the inverse of Parse).
func (g *Grid) Lines() []string {
	lines := make([]string, g.rows)
	var b strings.Builder
	for r := 0; r < g.rows; r++ {
		b.Reset()
		for c := 0; c < g.cols; c++ {
			b.WriteRune(runeOf(g.cells[r*g.cols+c]))
		}
		lines[r] = b.String()
	}
	return lines
}

// String renders the grid as newline-separated rows.
func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}

func runeOf(k Kind) rune {
	switch k {
	case Wall:
		return RuneWall
	case Start:
		return RuneStart
	case End:
		return RuneEnd
	default:
		return RuneEmpty
	}
}

// ConfigError reports a grid that cannot be searched.
type ConfigError struct {
	Starts int
	Ends   int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("grid needs exactly one start and one end cell (found %d start, %d end)", e.Starts, e.Ends)
}
