package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// MemoryPath opens a journal that lives only as long as the Store.
const MemoryPath = ":memory:"

// connParams are go-sqlite3 DSN options applied to every connection.
// synchronous=NORMAL is enough under WAL: a crash can lose the last run,
// never corrupt the journal.
const connParams = "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"

// migration upgrades a journal created by an older binary. Version is the
// user_version the journal has once Stmt ran.
type migration struct {
	Version int
	Name    string
	Stmt    string
}

// migrations run in order, each in its own transaction. Fresh journals
// still run them: schema.sql only holds the version 0 tables.
var migrations = []migration{
	{
		Version: 1,
		Name:    "filtered listing index",
		Stmt:    `CREATE INDEX IF NOT EXISTS idx_runs_kind_algorithm ON runs(kind, algorithm, seq)`,
	},
}

// schemaVersion is the user_version of an up-to-date journal.
func schemaVersion() int {
	return migrations[len(migrations)-1].Version
}

// Store is the run journal. All access goes through one connection, so
// writes are serialized and an in-memory journal is shared by every call.
type Store struct {
	db *sql.DB
}

// Open creates or opens a journal at path and brings its schema up to date.
// Pass MemoryPath for a process-lifetime journal. Opening the same file
// again is safe.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?"+connParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to journal %s: %w", path, err)
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare journal %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the journal. A zero Store closes cleanly.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// migrate creates the base tables and applies every migration newer than
// the journal's user_version.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version > schemaVersion() {
		return fmt.Errorf("journal schema v%d is newer than this binary (v%d)", version, schemaVersion())
	}

	for _, m := range migrations {
		if m.Version <= version {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return err
		}
		slog.Debug("journal migrated", "version", m.Version, "migration", m.Name)
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration v%d: %w", m.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.Stmt); err != nil {
		return fmt.Errorf("migration v%d (%s): %w", m.Version, m.Name, err)
	}
	// PRAGMA takes no bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("migration v%d: set user_version: %w", m.Version, err)
	}
	return tx.Commit()
}

// pragma reads the current value of a connection pragma.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return value, nil
}
