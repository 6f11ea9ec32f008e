package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/algotrace/internal/ir"
)

const runColumns = `
	id, seq, kind, algorithm, input, seed, state, success, reason, steps,
	comparisons, swaps, accesses, expanded, elapsed_ns,
	trace_hash, engine_version, trace_version`

// DefaultListLimit caps ListRuns when no limit is given.
const DefaultListLimit = 50

// ListFilter narrows ListRuns. Zero values match everything.
type ListFilter struct {
	Kind      Kind
	Algorithm string
	Limit     int
}

// ReadRun retrieves a single run by ID.
// Returns an error wrapping sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT`+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return r, nil
}

// ListRuns returns the most recent runs, newest first.
// Ordering is deterministic: ORDER BY seq DESC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, f ListFilter) ([]Run, error) {
	var (
		where []string
		args  []any
	)
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.Algorithm != "" {
		where = append(where, "algorithm = ?")
		args = append(args, f.Algorithm)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT` + runColumns + ` FROM runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC, id COLLATE BINARY ASC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// MaxSeq returns the highest journaled seq, or 0 for an empty journal.
// Used to resume the logical clock after a restart.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("query max seq: %w", err)
	}
	return seq.Int64, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		r         Run
		kind      string
		success   int
		reason    string
		elapsedNs int64
	)
	err := row.Scan(
		&r.ID, &r.Seq, &kind, &r.Algorithm, &r.Input, &r.Seed, &r.State,
		&success, &reason, &r.Steps,
		&r.Metrics.Comparisons, &r.Metrics.Swaps, &r.Metrics.Accesses, &r.Metrics.Expanded,
		&elapsedNs,
		&r.TraceHash, &r.EngineVersion, &r.TraceVersion,
	)
	if err != nil {
		return Run{}, err
	}
	r.Kind = Kind(kind)
	r.Success = success == 1
	r.Reason = ir.Reason(reason)
	r.Metrics.Elapsed = time.Duration(elapsedNs)
	return r, nil
}
