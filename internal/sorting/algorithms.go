// Package sorting implements the instrumented sort engines.
//
// Every algorithm works on a private copy of the input and records an
// ir.SortSnapshot at each micro-step (comparison, swap, shift, write) through
// an engine.Recorder. Comparisons are strict: equal elements are never
// swapped.
package sorting

import (
	"strings"

	"github.com/roach88/algotrace/internal/engine"
)

// Algorithm names a sort engine.
type Algorithm string

const (
	Selection Algorithm = "selection"
	Bubble    Algorithm = "bubble"
	Insertion Algorithm = "insertion"
	Merge     Algorithm = "merge"
	Quick     Algorithm = "quick"
	Heap      Algorithm = "heap"
	Bogo      Algorithm = "bogo"
)

// algorithms lists every engine in display order.
var algorithms = []Algorithm{Selection, Bubble, Insertion, Merge, Quick, Heap, Bogo}

// Algorithms returns every supported algorithm in display order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, len(algorithms))
	copy(out, algorithms)
	return out
}

// ParseAlgorithm resolves a case-insensitive algorithm name.
// Returns an engine InvalidAlgorithm error for unknown names.
func ParseAlgorithm(name string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := runners[a]; !ok {
		return "", engine.NewAlgorithmError("sort", name)
	}
	return a, nil
}

// DisplayName returns the capitalized name ("Bubble").
func (a Algorithm) DisplayName() string {
	if a == "" {
		return ""
	}
	return strings.ToUpper(string(a[:1])) + string(a[1:])
}

// Stable reports whether the algorithm preserves the input order of equal
// elements.
func (a Algorithm) Stable() bool {
	switch a {
	case Bubble, Insertion, Merge:
		return true
	default:
		return false
	}
}

// Probabilistic reports whether the algorithm may give up without sorting.
func (a Algorithm) Probabilistic() bool {
	return a == Bogo
}
