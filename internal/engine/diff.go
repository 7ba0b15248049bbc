package engine

import (
	"github.com/roach88/pinlog/internal/pin"
	"github.com/roach88/pinlog/internal/store"
)

// Changes is the outcome of diffing the fetched pinned set against the
// persisted log.
type Changes struct {
	// Added holds fetched rows whose timestamp is absent from the
	// persisted log, in fetch order.
	Added []pin.Row

	// Removed holds persisted rows whose timestamp is absent from the
	// fetched set, in log order. Historical rows already marked
	// unpinned land here too when their item stays gone.
	Removed []store.StoredRow
}

// Empty reports whether the diff found nothing to apply.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Diff computes the keyed set difference between the currently fetched
// rows and the persisted log. Identity is the verbatim timestamp text;
// row content is never compared, so an edited message whose timestamp
// is unchanged produces no change.
//
// A duplicated timestamp within either input is a DUPLICATE_KEY error.
// Diff is pure: it reads both inputs and mutates neither.
func Diff(current []pin.Row, previous []store.StoredRow) (Changes, error) {
	currentKeys := make(map[string]struct{}, len(current))
	for _, row := range current {
		if _, dup := currentKeys[row.Key()]; dup {
			return Changes{}, pin.NewDuplicateKeyError(row.Key())
		}
		currentKeys[row.Key()] = struct{}{}
	}

	previousKeys := make(map[string]struct{}, len(previous))
	for _, stored := range previous {
		if _, dup := previousKeys[stored.Row.Key()]; dup {
			return Changes{}, pin.NewDuplicateKeyError(stored.Row.Key())
		}
		previousKeys[stored.Row.Key()] = struct{}{}
	}

	var changes Changes
	for _, row := range current {
		if _, ok := previousKeys[row.Key()]; !ok {
			changes.Added = append(changes.Added, row)
		}
	}
	for _, stored := range previous {
		if _, ok := currentKeys[stored.Row.Key()]; !ok {
			changes.Removed = append(changes.Removed, stored)
		}
	}
	return changes, nil
}
