package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pinlog/internal/engine"
	"github.com/roach88/pinlog/internal/pin"
	"github.com/roach88/pinlog/internal/slackapi"
	"github.com/roach88/pinlog/internal/store"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	ConfigPath string
	DryRun     bool

	// Source allows overriding the remote source (for testing).
	// If nil, a Slack client is built from the config.
	Source engine.Source

	// Store allows overriding the log backend (for testing).
	// If nil, the config's store is opened.
	Store store.TabularStore

	// RunTokens allows overriding the run token generator (for testing).
	RunTokens engine.RunTokenGenerator
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the channel's pinned items into the log",
		Long: `Fetch the configured channel's pinned items, diff them against the
persisted log, append newly pinned rows and clear the pinned flag on
rows whose item disappeared. Rows are never deleted.

Example:
  pinlog sync --config ./pinlog.yaml
  pinlog sync --dry-run --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", DefaultConfigPath, "path to config file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report changes without writing them")

	return cmd
}

func runSync(opts *SyncOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		_ = formatter.Error(string(pin.CodeOf(err)), err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	src := opts.Source
	if src == nil {
		src = slackapi.New(cfg.Slack.Token)
	}

	st := opts.Store
	if st == nil {
		opened, err := store.Open(cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			_ = formatter.Error(string(pin.CodeOf(err)), err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open store", err)
		}
		defer func() {
			if closeErr := opened.Close(); closeErr != nil {
				slog.Error("error closing store", "error", closeErr)
			}
		}()
		st = opened
	}

	syncer := engine.NewSyncer(src, st, engine.Options{
		DryRun:    opts.DryRun,
		RunTokens: opts.RunTokens,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := syncer.SyncOnce(ctx, cfg.Slack.Channel)
	if err != nil {
		_ = formatter.Error(string(pin.CodeOf(err)), err.Error(), map[string]any{
			"run":   result.RunToken,
			"stage": string(result.FailedStage),
		})
		return WrapExitError(ExitFailure, "sync failed", err)
	}

	return formatter.Success(syncSummary(result))
}

// syncSummary renders a run result for text output. JSON output
// serializes the struct directly.
type syncResultView struct {
	Run      string `json:"run"`
	Fetched  int    `json:"fetched"`
	Appended int    `json:"appended"`
	Unpinned int    `json:"unpinned"`
	Skipped  int    `json:"skipped"`
	DryRun   bool   `json:"dry_run"`
}

func (v syncResultView) String() string {
	suffix := ""
	if v.DryRun {
		suffix = " (dry run)"
	}
	return fmt.Sprintf("run %s: fetched %d, appended %d, unpinned %d, skipped %d%s",
		v.Run, v.Fetched, v.Appended, v.Unpinned, v.Skipped, suffix)
}

func syncSummary(result engine.Result) syncResultView {
	return syncResultView{
		Run:      result.RunToken,
		Fetched:  result.Fetched,
		Appended: result.Appended,
		Unpinned: result.Unpinned,
		Skipped:  result.Skipped,
		DryRun:   result.DryRun,
	}
}

// configureLogging routes slog to stderr at the level the verbose flag
// selects.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
