// Package store persists the append-only pin log.
//
// The log is tabular: one row per pinned item, keyed by the item's
// verbatim timestamp text. Rows are appended when an item is first seen
// pinned and rewritten in place (pinned flag cleared) when it
// disappears from the channel. Rows are never deleted.
//
// Three backends implement the same contract: SQLite for the default
// local file, Postgres for shared deployments, and an in-memory store
// for tests.
package store
