package store

import (
	"context"

	"github.com/roach88/pinlog/internal/pin"
)

// UnpinnedMarker is the value persisted in the unpinned column for rows
// whose item has left the pinned set. Rows still pinned carry the empty
// string.
const UnpinnedMarker = "unpinned"

// RowRef is an opaque handle to a persisted row's location. It is only
// valid against the store that produced it, and only until that store's
// next mutation batch completes.
type RowRef int64

// StoredRow pairs a decoded row with the handle needed to rewrite it.
type StoredRow struct {
	Row pin.Row
	Ref RowRef
}

// TabularStore is the persistence contract for the pin log.
//
// ReadAll returns every row ever written, oldest first. Append adds a
// new row at the end of the log. Rewrite replaces the row at ref in
// place; it is the only mutation applied to existing rows and is used
// solely to clear the pinned flag.
type TabularStore interface {
	ReadAll(ctx context.Context) ([]StoredRow, error)
	Append(ctx context.Context, row pin.Row) error
	Rewrite(ctx context.Context, ref RowRef, row pin.Row) error
	Close() error
}

// markerFor converts the in-memory pinned flag to its column value.
func markerFor(pinned bool) string {
	if pinned {
		return ""
	}
	return UnpinnedMarker
}

// pinnedFrom converts the column value back to the pinned flag. Any
// non-empty marker means unpinned; only the exact empty string means
// the row's item is still in the pinned set.
func pinnedFrom(marker string) bool {
	return marker == ""
}
