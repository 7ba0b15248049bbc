// Package pin defines the canonical row model for the pinned-item log.
//
// A Row is the unit of persisted state: one row per pinned message or
// shared file, keyed by its upstream timestamp. The Formatter turns raw
// remote items into Rows; everything downstream (diffing, persistence)
// operates on Rows only and never sees the remote item shapes again.
package pin
