package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pinlog/internal/pin"
)

func TestMemory_AppendRewriteReadAll(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, pin.Row{Timestamp: "1.0", Pinned: true}))
	require.NoError(t, s.Append(ctx, pin.Row{Timestamp: "2.0", Pinned: true}))

	rows, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	updated := rows[0].Row
	updated.Pinned = false
	require.NoError(t, s.Rewrite(ctx, rows[0].Ref, updated))

	rows, err = s.ReadAll(ctx)
	require.NoError(t, err)
	assert.False(t, rows[0].Row.Pinned)
	assert.True(t, rows[1].Row.Pinned)
}

func TestMemory_RewriteOutOfRange(t *testing.T) {
	s := NewMemoryStore()
	err := s.Rewrite(context.Background(), RowRef(0), pin.Row{})
	require.Error(t, err)
}
