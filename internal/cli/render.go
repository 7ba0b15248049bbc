package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/roach88/pinlog/internal/store"
)

// historyRow is the JSON shape of one log row in history output.
type historyRow struct {
	Timestamp string `json:"timestamp"`
	PostedAt  string `json:"posted_at"`
	User      string `json:"user"`
	Text      string `json:"text"`
	Pinned    bool   `json:"pinned"`
}

func historyRowFrom(stored store.StoredRow) historyRow {
	return historyRow{
		Timestamp: stored.Row.Timestamp,
		PostedAt:  stored.Row.PostedAt.UTC().Format(time.RFC3339),
		User:      stored.Row.User,
		Text:      stored.Row.Text,
		Pinned:    stored.Row.Pinned,
	}
}

// RenderHistory renders log rows as an aligned text table, oldest
// first. The output is deterministic for a given input.
func RenderHistory(rows []store.StoredRow) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "TIMESTAMP\tSTATE\tPOSTED\tUSER\tBODY")
	for _, stored := range rows {
		state := "pinned"
		if !stored.Row.Pinned {
			state = store.UnpinnedMarker
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			stored.Row.Timestamp,
			state,
			stored.Row.PostedAt.UTC().Format(time.RFC3339),
			stored.Row.User,
			sanitizeCell(stored.Row.Text),
		)
	}
	w.Flush()
	return b.String()
}

// sanitizeCell keeps multi-line message bodies on one table row.
func sanitizeCell(text string) string {
	text = strings.ReplaceAll(text, "\t", " ")
	return strings.ReplaceAll(text, "\n", "⏎")
}
