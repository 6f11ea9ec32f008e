package testutil

import (
	"strings"
	"testing"

	"github.com/roach88/algotrace/internal/grid"
)

// Grid parses lines, failing the test on error.
func Grid(t testing.TB, lines ...string) *grid.Grid {
	t.Helper()
	g, err := grid.Parse(lines)
	if err != nil {
		t.Fatalf("parse grid: %v", err)
	}
	return g
}

// OpenLines returns a rows x cols grid with no walls, Start at the top-left
// and End at the bottom-right corner.
func OpenLines(rows, cols int) []string {
	lines := make([]string, rows)
	for r := range lines {
		lines[r] = strings.Repeat(string(grid.RuneEmpty), cols)
	}
	lines[0] = string(grid.RuneStart) + lines[0][1:]
	last := lines[rows-1]
	lines[rows-1] = last[:cols-1] + string(grid.RuneEnd)
	return lines
}

// WithWalls returns a copy of lines with '#' written at every (row, col)
// pair in cells.
func WithWalls(lines []string, cells ...[2]int) []string {
	out := make([][]rune, len(lines))
	for i, l := range lines {
		out[i] = []rune(l)
	}
	for _, c := range cells {
		out[c[0]][c[1]] = grid.RuneWall
	}
	res := make([]string, len(out))
	for i, r := range out {
		res[i] = string(r)
	}
	return res
}
