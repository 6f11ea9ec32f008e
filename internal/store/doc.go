// Package store provides the SQLite-backed run journal.
//
// Each finished run is journaled as one summary row: what ran (kind,
// algorithm, canonical input, seed), how it ended (state, outcome, metrics)
// and the SHA-256 trace hash. Snapshots themselves are never persisted; a
// run can be reproduced from its input and checked against the hash.
//
// # Ordering
//
//   - Runs are ordered by seq INTEGER (logical clock), never timestamps
//   - Listing queries use ORDER BY seq DESC, id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode, set through the go-sqlite3 DSN
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - Schema upgrades are numbered migrations tracked in user_version
//
// The default path ":memory:" keeps the journal for the life of the process
// only.
package store
