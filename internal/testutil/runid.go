package testutil

import (
	"fmt"
	"sync/atomic"
)

// FixedRunID generates the same run ID every time.
//
// Scenario runs use it so that journal rows and golden traces are
// byte-identical across executions.
//
// Thread-safety: FixedRunID is stateless and safe for concurrent use.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a generator for id. An empty id becomes
// "test-run-default".
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed ID.
//
// Implements engine.RunIDGenerator.
func (g *FixedRunID) Generate() string {
	return g.id
}

// SequentialRunIDs generates prefix-0001, prefix-0002, ...
//
// Thread-safety: SequentialRunIDs is safe for concurrent use (atomic counter).
type SequentialRunIDs struct {
	prefix string
	n      atomic.Int64
}

// NewSequentialRunIDs creates a generator with the given prefix.
func NewSequentialRunIDs(prefix string) *SequentialRunIDs {
	return &SequentialRunIDs{prefix: prefix}
}

// Generate returns the next ID.
//
// Implements engine.RunIDGenerator.
func (g *SequentialRunIDs) Generate() string {
	return fmt.Sprintf("%s-%04d", g.prefix, g.n.Add(1))
}
