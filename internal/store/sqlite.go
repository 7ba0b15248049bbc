package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/pinlog/internal/pin"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added UNIQUE index on pins.ts
const currentSchemaVersion = 1

// SQLiteStore persists the pin log in a local SQLite file.
// Uses WAL mode for concurrent read access.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens a SQLite pin log at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ReadAll returns every persisted row in append order.
func (s *SQLiteStore) ReadAll(ctx context.Context) ([]StoredRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, unpinned, posted_at, user, body
		FROM pins
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("read pins: %w", err)
	}
	defer rows.Close()

	var out []StoredRow
	for rows.Next() {
		var (
			id       int64
			marker   string
			postedAt string
			row      pin.Row
		)
		if err := rows.Scan(&id, &row.Timestamp, &marker, &postedAt, &row.User, &row.Text); err != nil {
			return nil, fmt.Errorf("read pins: scan: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, postedAt)
		if err != nil {
			return nil, fmt.Errorf("read pins: posted_at %q: %w", postedAt, err)
		}
		row.PostedAt = t
		row.Pinned = pinnedFrom(marker)
		out = append(out, StoredRow{Row: row, Ref: RowRef(id)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read pins: %w", err)
	}
	return out, nil
}

// Append inserts a new row at the end of the log.
func (s *SQLiteStore) Append(ctx context.Context, row pin.Row) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pins (ts, unpinned, posted_at, user, body)
		VALUES (?, ?, ?, ?, ?)
	`,
		row.Timestamp,
		markerFor(row.Pinned),
		row.PostedAt.UTC().Format(time.RFC3339Nano),
		row.User,
		row.Text,
	)
	if err != nil {
		return fmt.Errorf("append pin: %w", err)
	}
	return nil
}

// Rewrite replaces the row at ref in place.
func (s *SQLiteStore) Rewrite(ctx context.Context, ref RowRef, row pin.Row) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE pins
		SET ts = ?, unpinned = ?, posted_at = ?, user = ?, body = ?
		WHERE id = ?
	`,
		row.Timestamp,
		markerFor(row.Pinned),
		row.PostedAt.UTC().Format(time.RFC3339Nano),
		row.User,
		row.Text,
		int64(ref),
	)
	if err != nil {
		return fmt.Errorf("rewrite pin: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rewrite pin: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rewrite pin: no row at ref %d", ref)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
		version = 1
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the UNIQUE index on pins.ts for existing databases.
// New databases get this from schema.sql, but databases created before
// v1 need the index added explicitly.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_pins_ts
		ON pins(ts)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *SQLiteStore) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
