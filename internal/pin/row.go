package pin

import (
	"fmt"
	"time"
)

// Row is the canonical persisted/pending record for one pinned item.
//
// Timestamp is the identity key: the upstream timestamp (or file id)
// kept verbatim as text. PostedAt is purely derivative display state
// and takes no part in identity.
type Row struct {
	Timestamp string
	PostedAt  time.Time
	User      string
	Text      string
	Pinned    bool
}

// Key returns the row's identity key.
func (r Row) Key() string { return r.Timestamp }

// Hyperlink renders the hyperlink literal used as the Text of file
// rows. The store persists it verbatim; the literal syntax is part of
// the tabular column contract.
func Hyperlink(url, title string) string {
	return fmt.Sprintf("=HYPERLINK(%q, %q)", url, title)
}

// postedAtFromMillis converts an epoch-milliseconds value into the
// display instant, in UTC.
func postedAtFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
