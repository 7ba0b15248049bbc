package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pinlog/internal/pin"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "pins.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRow(ts string) pin.Row {
	return pin.Row{
		Timestamp: ts,
		PostedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		User:      "alice",
		Text:      "hello",
		Pinned:    true,
	}
}

func TestSQLite_OpenAppliesPragmas(t *testing.T) {
	s := openTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
}

func TestSQLite_AppendReadAllRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, testRow("1700000000.000100")))
	require.NoError(t, s.Append(ctx, testRow("1700000000.000200")))

	rows, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "1700000000.000100", rows[0].Row.Timestamp)
	assert.Equal(t, "1700000000.000200", rows[1].Row.Timestamp)
	assert.True(t, rows[0].Row.Pinned)
	assert.Equal(t, "alice", rows[0].Row.User)
	assert.Equal(t, "hello", rows[0].Row.Text)
	assert.Equal(t, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), rows[0].Row.PostedAt)
}

func TestSQLite_ReadAllPreservesAppendOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Timestamps deliberately out of lexical order.
	for _, ts := range []string{"9.0", "1.0", "5.0"} {
		require.NoError(t, s.Append(ctx, testRow(ts)))
	}

	rows, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "9.0", rows[0].Row.Timestamp)
	assert.Equal(t, "1.0", rows[1].Row.Timestamp)
	assert.Equal(t, "5.0", rows[2].Row.Timestamp)
}

func TestSQLite_RewriteClearsPinnedFlag(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, testRow("1.0")))
	rows, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	updated := rows[0].Row
	updated.Pinned = false
	require.NoError(t, s.Rewrite(ctx, rows[0].Ref, updated))

	rows, err = s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1, "rewrite must not add or remove rows")
	assert.False(t, rows[0].Row.Pinned)
	assert.Equal(t, "1.0", rows[0].Row.Timestamp)
	assert.Equal(t, "hello", rows[0].Row.Text, "body survives the flag flip")
}

func TestSQLite_RewriteUnknownRef(t *testing.T) {
	s := openTestStore(t)

	err := s.Rewrite(context.Background(), RowRef(42), testRow("1.0"))
	require.Error(t, err)
}

func TestSQLite_DuplicateTimestampRejected(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, testRow("1.0")))
	err := s.Append(ctx, testRow("1.0"))
	require.Error(t, err, "ts carries a UNIQUE index")
}

func TestSQLite_OpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pins.db")

	s1, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s1.Append(context.Background(), testRow("1.0")))
	require.NoError(t, s1.Close())

	s2, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s2.Close()

	rows, err := s2.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("mysql", "dsn")
	require.Error(t, err)
	assert.True(t, pin.IsConfigurationError(err))
}
