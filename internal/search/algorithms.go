// Package search implements the instrumented grid-search engines and maze
// generation.
//
// All five algorithms expand neighbors in grid.Directions order (East,
// South, West, North) and record one ir.SearchSnapshot per frontier pop.
// The frontier loop stops as soon as the end cell is popped.
package search

import (
	"strings"

	"github.com/roach88/algotrace/internal/engine"
)

// Algorithm names a search engine.
type Algorithm string

const (
	BFS      Algorithm = "bfs"
	DFS      Algorithm = "dfs"
	Dijkstra Algorithm = "dijkstra"
	AStar    Algorithm = "astar"
	Swarm    Algorithm = "swarm"
)

var algorithms = []Algorithm{BFS, DFS, Dijkstra, AStar, Swarm}

var displayNames = map[Algorithm]string{
	BFS:      "BFS",
	DFS:      "DFS",
	Dijkstra: "Dijkstra",
	AStar:    "A*",
	Swarm:    "Swarm",
}

// Algorithms returns every search algorithm in display order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, len(algorithms))
	copy(out, algorithms)
	return out
}

// ParseAlgorithm resolves a case-insensitive name. "a*" is accepted for A*.
func ParseAlgorithm(name string) (Algorithm, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "a*" {
		s = string(AStar)
	}
	a := Algorithm(s)
	if _, ok := displayNames[a]; !ok {
		return "", engine.NewAlgorithmError("search", name)
	}
	return a, nil
}

// DisplayName returns the human-readable name.
func (a Algorithm) DisplayName() string {
	return displayNames[a]
}

// Optimal reports whether the algorithm always finds a shortest path.
func (a Algorithm) Optimal() bool {
	switch a {
	case BFS, Dijkstra, AStar:
		return true
	default:
		return false
	}
}
