package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/pinlog/internal/pin"
)

// MemoryStore keeps the pin log in process memory. It exists for tests
// and dry runs; nothing survives the process.
type MemoryStore struct {
	mu   sync.Mutex
	rows []pin.Row
}

// NewMemoryStore creates an empty in-memory pin log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Seed appends rows without going through Append, for test setup.
func (s *MemoryStore) Seed(rows ...pin.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

// ReadAll returns every row in append order.
func (s *MemoryStore) ReadAll(ctx context.Context) ([]StoredRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StoredRow, len(s.rows))
	for i, row := range s.rows {
		out[i] = StoredRow{Row: row, Ref: RowRef(i)}
	}
	return out, nil
}

// Append adds a row at the end of the log.
func (s *MemoryStore) Append(ctx context.Context, row pin.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return nil
}

// Rewrite replaces the row at ref in place.
func (s *MemoryStore) Rewrite(ctx context.Context, ref RowRef, row pin.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := int(ref)
	if i < 0 || i >= len(s.rows) {
		return fmt.Errorf("rewrite pin: no row at ref %d", ref)
	}
	s.rows[i] = row
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
