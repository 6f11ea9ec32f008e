package compiler

import (
	"fmt"

	"github.com/roach88/algotrace/internal/grid"
	"github.com/roach88/algotrace/internal/ir"
	"github.com/roach88/algotrace/internal/search"
	"github.com/roach88/algotrace/internal/sorting"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// Sort case errors (E101-E109)
	ErrUnknownSortAlgorithm = "E101" // algorithm is not a sort engine
	ErrSortTooLong          = "E102" // numbers exceeds MaxSortLength
	ErrSeedIgnored          = "E103" // seed set on a deterministic algorithm

	// Search case errors (E110-E119)
	ErrUnknownSearchAlgorithm = "E110" // algorithm is not a search engine
	ErrInvalidGrid            = "E111" // ragged rows or unknown cell runes
	ErrGridEndpoints          = "E112" // not exactly one S and one E
	ErrGridTooLarge           = "E113" // exceeds MaxGridSide

	// Maze case errors (E120-E129)
	ErrMazeDimensions = "E120" // rows/cols out of range
)

// Size limits enforced on workload cases.
const (
	MaxSortLength = 4096
	MaxGridSide   = 256
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates a compiled case against the engines it will run on.
// Returns all errors found (does not fail-fast).
// Supports SortCase, SearchCase, MazeCase and Workload.
func Validate(v any) []ValidationError {
	switch c := v.(type) {
	case *ir.SortCase:
		return validateSort(c)
	case ir.SortCase:
		return validateSort(&c)
	case *ir.SearchCase:
		return validateSearch(c)
	case ir.SearchCase:
		return validateSearch(&c)
	case *ir.MazeCase:
		return validateMaze(c)
	case ir.MazeCase:
		return validateMaze(&c)
	case *ir.Workload:
		return validateWorkload(c)
	case ir.Workload:
		return validateWorkload(&c)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateWorkload(w *ir.Workload) []ValidationError {
	var errs []ValidationError
	for i := range w.Sorts {
		errs = append(errs, prefixed(SectionSort, w.Sorts[i].Name, validateSort(&w.Sorts[i]))...)
	}
	for i := range w.Searches {
		errs = append(errs, prefixed(SectionSearch, w.Searches[i].Name, validateSearch(&w.Searches[i]))...)
	}
	for i := range w.Mazes {
		errs = append(errs, prefixed(SectionMaze, w.Mazes[i].Name, validateMaze(&w.Mazes[i]))...)
	}
	return errs
}

func prefixed(section, name string, errs []ValidationError) []ValidationError {
	for i := range errs {
		errs[i].Field = section + "." + name + "." + errs[i].Field
	}
	return errs
}

func validateSort(c *ir.SortCase) []ValidationError {
	var errs []ValidationError

	// E101: algorithm must name a sort engine
	alg, err := sorting.ParseAlgorithm(c.Algorithm)
	if err != nil {
		errs = append(errs, ValidationError{
			Field:   "algorithm",
			Message: fmt.Sprintf("unknown sort algorithm %q (want one of %v)", c.Algorithm, sorting.Algorithms()),
			Code:    ErrUnknownSortAlgorithm,
		})
	}

	// E102: input length cap
	if len(c.Numbers) > MaxSortLength {
		errs = append(errs, ValidationError{
			Field:   "numbers",
			Message: fmt.Sprintf("%d numbers exceeds the limit of %d", len(c.Numbers), MaxSortLength),
			Code:    ErrSortTooLong,
		})
	}

	// E103: seed only drives bogo sort
	if err == nil && c.Seed != 0 && !alg.Probabilistic() {
		errs = append(errs, ValidationError{
			Field:   "seed",
			Message: fmt.Sprintf("seed has no effect on %s sort", alg.DisplayName()),
			Code:    ErrSeedIgnored,
		})
	}

	return errs
}

func validateSearch(c *ir.SearchCase) []ValidationError {
	var errs []ValidationError

	// E110: algorithm must name a search engine
	if _, err := search.ParseAlgorithm(c.Algorithm); err != nil {
		errs = append(errs, ValidationError{
			Field:   "algorithm",
			Message: fmt.Sprintf("unknown search algorithm %q (want one of %v)", c.Algorithm, search.Algorithms()),
			Code:    ErrUnknownSearchAlgorithm,
		})
	}

	// E111: grid must parse
	g, err := grid.Parse(c.Grid)
	if err != nil {
		return append(errs, ValidationError{
			Field:   "grid",
			Message: err.Error(),
			Code:    ErrInvalidGrid,
		})
	}

	// E113: size cap
	if g.Rows() > MaxGridSide || g.Cols() > MaxGridSide {
		errs = append(errs, ValidationError{
			Field:   "grid",
			Message: fmt.Sprintf("%dx%d grid exceeds %dx%d", g.Rows(), g.Cols(), MaxGridSide, MaxGridSide),
			Code:    ErrGridTooLarge,
		})
	}

	// E112: exactly one start and one end
	if err := g.Validate(); err != nil {
		errs = append(errs, ValidationError{
			Field:   "grid",
			Message: err.Error(),
			Code:    ErrGridEndpoints,
		})
	}

	return errs
}

func validateMaze(c *ir.MazeCase) []ValidationError {
	var errs []ValidationError

	// E110: algorithm must name a search engine
	if _, err := search.ParseAlgorithm(c.Algorithm); err != nil {
		errs = append(errs, ValidationError{
			Field:   "algorithm",
			Message: fmt.Sprintf("unknown search algorithm %q (want one of %v)", c.Algorithm, search.Algorithms()),
			Code:    ErrUnknownSearchAlgorithm,
		})
	}

	// E120: dimensions must fit a distinct start and end
	switch {
	case c.Rows < 1 || c.Cols < 1:
		errs = append(errs, ValidationError{
			Field:   "rows",
			Message: fmt.Sprintf("invalid dimensions %dx%d", c.Rows, c.Cols),
			Code:    ErrMazeDimensions,
		})
	case c.Rows*c.Cols < 2:
		errs = append(errs, ValidationError{
			Field:   "rows",
			Message: "a maze needs at least two cells",
			Code:    ErrMazeDimensions,
		})
	case c.Rows > MaxGridSide || c.Cols > MaxGridSide:
		errs = append(errs, ValidationError{
			Field:   "rows",
			Message: fmt.Sprintf("%dx%d maze exceeds %dx%d", c.Rows, c.Cols, MaxGridSide, MaxGridSide),
			Code:    ErrMazeDimensions,
		})
	}

	return errs
}
