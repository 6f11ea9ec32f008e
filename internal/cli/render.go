package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/algotrace/internal/ir"
)

// Tag markers used by sort frames.
var tagMarks = map[ir.Tag]byte{
	ir.TagDefault: ' ',
	ir.TagActive:  '*',
	ir.TagPivot:   '^',
	ir.TagSettled: '=',
}

// Cell overlays used by search frames.
const (
	markCurrent  = '@'
	markFrontier = '+'
	markVisited  = 'o'
	markPath     = '*'
)

// renderSortFrame writes one sort snapshot as a single line:
//
//	#   3  3* 5* 8  1
//
// Each value is followed by its tag marker. The merge view, when present,
// is appended after a bar.
func renderSortFrame(w io.Writer, index int, s ir.SortSnapshot) {
	var b strings.Builder
	fmt.Fprintf(&b, "#%4d ", index)
	for i, v := range s.Values {
		mark := byte(' ')
		if i < len(s.Tags) {
			mark = tagMarks[s.Tags[i]]
		}
		fmt.Fprintf(&b, " %3d%c", v, mark)
	}
	if len(s.Aux) > 0 {
		b.WriteString("  | merging:")
		for _, v := range s.Aux {
			fmt.Fprintf(&b, " %d", v)
		}
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
}

// renderSearchFrame writes the grid with the snapshot overlaid: the popped
// cell, the frontier and every visited cell. Start, end and walls keep
// their own runes.
func renderSearchFrame(w io.Writer, lines []string, index int, s ir.SearchSnapshot) {
	rows := overlayRows(lines)
	for r := range min(len(rows), s.Visited.Rows) {
		for c := range min(len(rows[r]), s.Visited.Cols) {
			at := ir.Coord{Row: r, Col: c}
			if !isPlain(rows[r][c]) || !s.Visited.Visited(at) {
				continue
			}
			rows[r][c] = markVisited
		}
	}
	for _, f := range s.Frontier {
		setMark(rows, f, markFrontier)
	}
	setMark(rows, s.Current, markCurrent)

	fmt.Fprintf(w, "#%d pop %s frontier %d\n", index, s.Current, len(s.Frontier))
	writeRows(w, rows)
}

// renderPath writes the grid with the final path marked.
func renderPath(w io.Writer, lines []string, path []ir.Coord) {
	rows := overlayRows(lines)
	for _, c := range path {
		setMark(rows, c, markPath)
	}
	writeRows(w, rows)
}

func overlayRows(lines []string) [][]byte {
	rows := make([][]byte, len(lines))
	for i, line := range lines {
		rows[i] = []byte(line)
	}
	return rows
}

// setMark overlays a plain cell; endpoints and walls are never hidden.
func setMark(rows [][]byte, c ir.Coord, mark byte) {
	if c.Row < 0 || c.Row >= len(rows) || c.Col < 0 || c.Col >= len(rows[c.Row]) {
		return
	}
	if isPlain(rows[c.Row][c.Col]) {
		rows[c.Row][c.Col] = mark
	}
}

func isPlain(b byte) bool {
	return b == '.' || b == markVisited || b == markFrontier
}

func writeRows(w io.Writer, rows [][]byte) {
	for _, row := range rows {
		fmt.Fprintf(w, "  %s\n", row)
	}
}
