// Package engine drives one reconciliation run of the pin log.
//
// A run is a linear pipeline: fetch the pinned items and member list,
// format them into canonical rows, load the persisted log, diff the
// two sets by timestamp key, then apply the changes (append newly
// pinned rows, clear the pinned flag on rows whose item disappeared).
// Any error aborts the run; there is no retry inside a run, and a
// partially applied run is converged by the next one.
package engine
