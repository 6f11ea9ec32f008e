package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/algotrace/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a sort run summary with minimal required fields.
func createTestRun(id string, seq int64, algorithm string) Run {
	return Run{
		ID:        id,
		Seq:       seq,
		Kind:      KindSort,
		Algorithm: algorithm,
		Input:     "[3,1,2]",
		State:     "completed",
		Success:   true,
		Steps:     7,
		Metrics: ir.Metrics{
			Comparisons: 3,
			Swaps:       2,
			Accesses:    14,
			Elapsed:     1500 * time.Microsecond,
		},
		TraceHash:     "deadbeef",
		EngineVersion: ir.EngineVersion,
		TraceVersion:  ir.TraceVersion,
	}
}
