package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/algotrace/internal/ir"
)

// Top-level workload sections.
const (
	SectionSort   = "sort"
	SectionSearch = "search"
	SectionMaze   = "maze"
)

var (
	sortFields   = []string{"algorithm", "numbers", "seed"}
	searchFields = []string{"algorithm", "grid"}
	mazeFields   = []string{"algorithm", "rows", "cols", "seed"}
)

// CompileSort parses one sort case. The case name is the struct label:
//
//	sort: reversed: {
//		algorithm: "bubble"
//		numbers: [5, 3, 8, 1]
//		seed: 7 // optional, bogo only
//	}
func CompileSort(v cue.Value) (*ir.SortCase, error) {
	if err := checkCase(v, sortFields); err != nil {
		return nil, err
	}

	c := &ir.SortCase{Name: caseName(v)}

	var err error
	if c.Algorithm, err = requiredString(v, "algorithm"); err != nil {
		return nil, err
	}

	numbersVal := v.LookupPath(cue.ParsePath("numbers"))
	if !numbersVal.Exists() {
		return nil, &CompileError{
			Field:   "numbers",
			Message: "numbers is required",
			Pos:     v.Pos(),
		}
	}
	if c.Numbers, err = intList(numbersVal, "numbers"); err != nil {
		return nil, err
	}

	if seed, ok, err := optionalInt(v, "seed"); err != nil {
		return nil, err
	} else if ok {
		c.Seed = seed
	}

	return c, nil
}

// CompileSearch parses one search case:
//
//	search: corridor: {
//		algorithm: "astar"
//		grid: ["S..#", "..#E"]
//	}
func CompileSearch(v cue.Value) (*ir.SearchCase, error) {
	if err := checkCase(v, searchFields); err != nil {
		return nil, err
	}

	c := &ir.SearchCase{Name: caseName(v)}

	var err error
	if c.Algorithm, err = requiredString(v, "algorithm"); err != nil {
		return nil, err
	}

	gridVal := v.LookupPath(cue.ParsePath("grid"))
	if !gridVal.Exists() {
		return nil, &CompileError{
			Field:   "grid",
			Message: "grid is required",
			Pos:     v.Pos(),
		}
	}
	if c.Grid, err = stringList(gridVal, "grid"); err != nil {
		return nil, err
	}

	return c, nil
}

// CompileMaze parses one maze case. algorithm defaults to "bfs" and seed
// to 0:
//
//	maze: small: {
//		rows: 9
//		cols: 9
//		seed: 42
//		algorithm: "dijkstra"
//	}
func CompileMaze(v cue.Value) (*ir.MazeCase, error) {
	if err := checkCase(v, mazeFields); err != nil {
		return nil, err
	}

	c := &ir.MazeCase{Name: caseName(v), Algorithm: "bfs"}

	rows, err := requiredInt(v, "rows")
	if err != nil {
		return nil, err
	}
	cols, err := requiredInt(v, "cols")
	if err != nil {
		return nil, err
	}
	c.Rows, c.Cols = int(rows), int(cols)

	if seed, ok, err := optionalInt(v, "seed"); err != nil {
		return nil, err
	} else if ok {
		c.Seed = seed
	}

	if v.LookupPath(cue.ParsePath("algorithm")).Exists() {
		if c.Algorithm, err = requiredString(v, "algorithm"); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// CompileWorkload compiles every case under the sort, search and maze
// sections of v, in declaration order. It stops at the first error.
func CompileWorkload(v cue.Value) (*ir.Workload, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	w := &ir.Workload{}
	err := EachCase(v, SectionSort, func(cv cue.Value) error {
		c, err := CompileSort(cv)
		if err != nil {
			return err
		}
		w.Sorts = append(w.Sorts, *c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = EachCase(v, SectionSearch, func(cv cue.Value) error {
		c, err := CompileSearch(cv)
		if err != nil {
			return err
		}
		w.Searches = append(w.Searches, *c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = EachCase(v, SectionMaze, func(cv cue.Value) error {
		c, err := CompileMaze(cv)
		if err != nil {
			return err
		}
		w.Mazes = append(w.Mazes, *c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return w, nil
}

// EachCase calls fn for every field of the named section of root. A missing
// section is not an error. Iteration stops when fn returns an error.
func EachCase(root cue.Value, section string, fn func(cue.Value) error) error {
	sectionVal := root.LookupPath(cue.ParsePath(section))
	if !sectionVal.Exists() {
		return nil
	}
	if sectionVal.IncompleteKind() != cue.StructKind {
		return &CompileError{
			Field:   section,
			Message: "must be a struct of named cases",
			Pos:     sectionVal.Pos(),
		}
	}

	iter, err := sectionVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		if err := fn(iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

// checkCase rejects non-struct cases, CUE errors and unknown fields.
func checkCase(v cue.Value, allowed []string) error {
	if err := v.Err(); err != nil {
		return formatCUEError(err)
	}
	if v.IncompleteKind() != cue.StructKind {
		return &CompileError{
			Field:   caseName(v),
			Message: "case must be a struct",
			Pos:     v.Pos(),
		}
	}

	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		label := selectorName(iter.Selector())
		if !contains(allowed, label) {
			return &CompileError{
				Field:   label,
				Message: fmt.Sprintf("unknown field (allowed: %v)", allowed),
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}

func caseName(v cue.Value) string {
	labels := v.Path().Selectors()
	if len(labels) == 0 {
		return ""
	}
	return selectorName(labels[len(labels)-1])
}

func selectorName(sel cue.Selector) string {
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}

func requiredString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", &CompileError{
			Field:   field,
			Message: "must be a string",
			Pos:     fv.Pos(),
		}
	}
	return s, nil
}

func requiredInt(v cue.Value, field string) (int64, error) {
	n, ok, err := optionalInt(v, field)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	return n, nil
}

func optionalInt(v cue.Value, field string) (int64, bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, false, nil
	}
	n, err := toInt(fv, field)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// toInt reads a concrete integer. Floats are rejected.
func toInt(v cue.Value, field string) (int64, error) {
	switch v.IncompleteKind() {
	case cue.IntKind:
	case cue.FloatKind, cue.NumberKind:
		return 0, &CompileError{
			Field:   field,
			Message: "float values are forbidden, use int instead",
			Pos:     v.Pos(),
		}
	default:
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("must be an int, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
	n, err := v.Int64()
	if err != nil {
		return 0, &CompileError{
			Field:   field,
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return n, nil
}

func intList(v cue.Value, field string) ([]int64, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: "must be a list of ints",
			Pos:     v.Pos(),
		}
	}
	out := []int64{}
	for i := 0; iter.Next(); i++ {
		n, err := toInt(iter.Value(), fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func stringList(v cue.Value, field string) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: "must be a list of strings",
			Pos:     v.Pos(),
		}
	}
	var out []string
	for i := 0; iter.Next(); i++ {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: "must be a string",
				Pos:     iter.Value().Pos(),
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
