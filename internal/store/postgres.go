package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/lib/pq"

	"github.com/roach88/pinlog/internal/pin"
)

const (
	postgresTableName        = "pin_log"
	postgresOperationTimeout = 5 * time.Second
)

type sqlOpenFunc func(driverName, dsn string) (*sql.DB, error)

// PostgresStore persists the pin log in a Postgres table. The
// connection and schema are initialized lazily on first use so that
// constructing the store never touches the network.
type PostgresStore struct {
	dsn       string
	tableName string
	openDB    sqlOpenFunc

	initOnce sync.Once
	initErr  error
	db       *sql.DB
}

// OpenPostgres creates a Postgres-backed pin log from a connection DSN.
func OpenPostgres(dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, pin.NewConfigurationError("postgres store requires a non-empty DSN")
	}
	return &PostgresStore{
		dsn:       dsn,
		tableName: postgresTableName,
		openDB:    sql.Open,
	}, nil
}

// Close closes the database connection if one was opened.
func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ReadAll returns every persisted row in append order.
func (s *PostgresStore) ReadAll(ctx context.Context) ([]StoredRow, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT id, ts, unpinned, posted_at, "user", body
		FROM %s
		ORDER BY id`, postgresQuoteIdentifier(s.tableName))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read pins: %w", err)
	}
	defer rows.Close()

	var out []StoredRow
	for rows.Next() {
		var (
			id     int64
			marker string
			row    pin.Row
		)
		if err := rows.Scan(&id, &row.Timestamp, &marker, &row.PostedAt, &row.User, &row.Text); err != nil {
			return nil, fmt.Errorf("read pins: scan: %w", err)
		}
		row.PostedAt = row.PostedAt.UTC()
		row.Pinned = pinnedFrom(marker)
		out = append(out, StoredRow{Row: row, Ref: RowRef(id)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read pins: %w", err)
	}
	return out, nil
}

// Append inserts a new row at the end of the log.
func (s *PostgresStore) Append(ctx context.Context, row pin.Row) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (ts, unpinned, posted_at, "user", body)
		VALUES ($1, $2, $3, $4, $5)`, postgresQuoteIdentifier(s.tableName))
	_, err := s.db.ExecContext(ctx, query,
		row.Timestamp,
		markerFor(row.Pinned),
		row.PostedAt.UTC(),
		row.User,
		row.Text,
	)
	if err != nil {
		return fmt.Errorf("append pin: %w", err)
	}
	return nil
}

// Rewrite replaces the row at ref in place.
func (s *PostgresStore) Rewrite(ctx context.Context, ref RowRef, row pin.Row) error {
	if err := s.ensureReady(); err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET ts = $1, unpinned = $2, posted_at = $3, "user" = $4, body = $5
		WHERE id = $6`, postgresQuoteIdentifier(s.tableName))
	res, err := s.db.ExecContext(ctx, query,
		row.Timestamp,
		markerFor(row.Pinned),
		row.PostedAt.UTC(),
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

func (s *PostgresStore) ensureReady() error {
	s.initOnce.Do(func() {
		db, err := s.openDB("postgres", s.dsn)
		if err != nil {
			s.initErr = err
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), postgresOperationTimeout)
		defer cancel()

		query := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				ts TEXT NOT NULL UNIQUE,
				unpinned TEXT NOT NULL DEFAULT '',
				posted_at TIMESTAMPTZ NOT NULL,
				"user" TEXT NOT NULL,
				body TEXT NOT NULL
			)`, postgresQuoteIdentifier(s.tableName))
		if _, err := db.ExecContext(ctx, query); err != nil {
			_ = db.Close()
			s.initErr = err
			return
		}
		s.db = db
	})
	return s.initErr
}

// postgresQuoteIdentifier quotes a table or index name for safe
// interpolation into DDL and DML text.
func postgresQuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
