package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run summary.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - a run journaled twice
// keeps its first row. Other constraint violations still return errors.
func (s *Store) WriteRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, kind, algorithm, input, seed, state, success, reason, steps,
		 comparisons, swaps, accesses, expanded, elapsed_ns,
		 trace_hash, engine_version, trace_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.ID,
		r.Seq,
		string(r.Kind),
		r.Algorithm,
		r.Input,
		r.Seed,
		r.State,
		boolToInt(r.Success),
		string(r.Reason),
		r.Steps,
		r.Metrics.Comparisons,
		r.Metrics.Swaps,
		r.Metrics.Accesses,
		r.Metrics.Expanded,
		int64(r.Metrics.Elapsed),
		r.TraceHash,
		r.EngineVersion,
		r.TraceVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
