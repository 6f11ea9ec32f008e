package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/algotrace/internal/ir"
)

func TestOpenLines(t *testing.T) {
	assert.Equal(t, []string{"S..", "...", "..E"}, OpenLines(3, 3))
	assert.Equal(t, []string{"S...E"}, OpenLines(1, 5))
}

func TestWithWalls(t *testing.T) {
	lines := OpenLines(3, 3)
	walled := WithWalls(lines, [2]int{1, 0}, [2]int{1, 1})

	assert.Equal(t, []string{"S..", "##.", "..E"}, walled)
	assert.Equal(t, "...", lines[1], "input must not be modified")
}

func TestGrid(t *testing.T) {
	g := Grid(t, OpenLines(2, 4)...)
	require.NoError(t, g.Validate())
	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, 4, g.Cols())

	start, end, err := g.Endpoints()
	require.NoError(t, err)
	assert.Equal(t, ir.Coord{}, start)
	assert.Equal(t, ir.Coord{Row: 1, Col: 3}, end)
}
