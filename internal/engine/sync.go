package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/pinlog/internal/pin"
	"github.com/roach88/pinlog/internal/store"
)

// Stage names the phase a reconciliation run is in. Runs move through
// the stages strictly in order; a failure freezes the run at
// StageFailed with FailedStage recording where it stopped.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageFetching   Stage = "fetching"
	StageFormatting Stage = "formatting"
	StageLoading    Stage = "loading"
	StageDiffing    Stage = "diffing"
	StageApplying   Stage = "applying"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Source fetches the remote state a run reconciles against.
type Source interface {
	// ListPinnedItems returns the channel's currently pinned items in
	// the order the API delivers them.
	ListPinnedItems(ctx context.Context, channel string) ([]pin.Item, error)

	// ListMembers returns a fresh member directory snapshot.
	ListMembers(ctx context.Context) (pin.MemberDirectory, error)
}

// Result summarizes one reconciliation run.
type Result struct {
	// RunToken identifies the run in logs.
	RunToken string

	// Stage is the final stage: StageDone or StageFailed.
	Stage Stage

	// FailedStage is the stage a failed run stopped in; empty on
	// success.
	FailedStage Stage

	// Fetched is the number of pinned items returned by the source.
	Fetched int

	// Appended is the number of newly pinned rows written to the log.
	Appended int

	// Unpinned is the number of rows whose pinned flag was cleared.
	Unpinned int

	// Skipped is the number of removed rows left untouched because they
	// were already marked unpinned by an earlier run.
	Skipped int

	// DryRun reports whether mutations were suppressed.
	DryRun bool
}

// Options tunes a Syncer. The zero value is production behavior.
type Options struct {
	// DryRun computes and reports changes without touching the store.
	DryRun bool

	// RunTokens overrides the run token generator. Nil means UUIDv7.
	RunTokens RunTokenGenerator
}

// Syncer reconciles a channel's pinned items into the persisted log.
type Syncer struct {
	source Source
	store  store.TabularStore
	tokens RunTokenGenerator
	dryRun bool
}

// NewSyncer wires a Syncer over a source and a store.
func NewSyncer(source Source, st store.TabularStore, opts Options) *Syncer {
	tokens := opts.RunTokens
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}
	return &Syncer{
		source: source,
		store:  st,
		tokens: tokens,
		dryRun: opts.DryRun,
	}
}

// SyncOnce performs a single reconciliation run against channel.
//
// The run is fatal-on-error: the first failure aborts the remaining
// stages and is returned as a SyncError. A failure during apply leaves
// the log partially updated; the next run converges it, because every
// appended row also disappears from the next diff and every cleared
// flag is skipped.
func (s *Syncer) SyncOnce(ctx context.Context, channel string) (Result, error) {
	result := Result{
		RunToken: s.tokens.Generate(),
		DryRun:   s.dryRun,
	}
	log := slog.With("run", result.RunToken, "channel", channel)

	fail := func(stage Stage, err error) (Result, error) {
		result.Stage = StageFailed
		result.FailedStage = stage
		log.Error("run failed", "stage", string(stage), "error", err)
		return result, err
	}

	log.Debug("run starting", "dry_run", s.dryRun)

	// Fetching: both remote snapshots, pins first.
	items, err := s.source.ListPinnedItems(ctx, channel)
	if err != nil {
		return fail(StageFetching, err)
	}
	dir, err := s.source.ListMembers(ctx)
	if err != nil {
		return fail(StageFetching, err)
	}
	result.Fetched = len(items)
	log.Debug("fetched", "items", len(items), "members", dir.Len())

	// Formatting: items become canonical rows, all tagged pinned.
	current, err := pin.NewFormatter(dir).FormatAll(items)
	if err != nil {
		return fail(StageFormatting, err)
	}

	// Loading: the full persisted log, historical unpinned rows included.
	previous, err := s.store.ReadAll(ctx)
	if err != nil {
		return fail(StageLoading, err)
	}

	// Diffing.
	changes, err := Diff(current, previous)
	if err != nil {
		return fail(StageDiffing, err)
	}
	log.Debug("diffed", "added", len(changes.Added), "removed", len(changes.Removed))

	// Applying: appends first, then flag flips. Removed rows already
	// marked unpinned by an earlier run need no rewrite, which is what
	// makes a no-change rerun mutation-free.
	for _, row := range changes.Added {
		if !s.dryRun {
			if err := s.store.Append(ctx, row); err != nil {
				return fail(StageApplying, err)
			}
		}
		result.Appended++
	}
	for _, stored := range changes.Removed {
		if !stored.Row.Pinned {
			result.Skipped++
			continue
		}
		if !s.dryRun {
			unpinned := stored.Row
			unpinned.Pinned = false
			if err := s.store.Rewrite(ctx, stored.Ref, unpinned); err != nil {
				return fail(StageApplying, err)
			}
		}
		result.Unpinned++
	}

	result.Stage = StageDone
	log.Info("run complete",
		"fetched", result.Fetched,
		"appended", result.Appended,
		"unpinned", result.Unpinned,
		"skipped", result.Skipped,
		"dry_run", s.dryRun,
	)
	return result, nil
}
