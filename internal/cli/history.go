package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/pinlog/internal/pin"
	"github.com/roach88/pinlog/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	ConfigPath string
	PinnedOnly bool

	// Store allows overriding the log backend (for testing).
	Store store.TabularStore
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the persisted pin log",
		Long: `Print every row of the pin log, oldest first. Rows whose item has
left the pinned set are kept and shown in the unpinned state.

Example:
  pinlog history --config ./pinlog.yaml
  pinlog history --pinned --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", DefaultConfigPath, "path to config file")
	cmd.Flags().BoolVar(&opts.PinnedOnly, "pinned", false, "show only rows still pinned")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st := opts.Store
	if st == nil {
		cfg, err := LoadConfig(opts.ConfigPath)
		if err != nil {
			_ = formatter.Error(string(pin.CodeOf(err)), err.Error(), nil)
			return WrapExitError(ExitCommandError, "invalid configuration", err)
		}
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

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := st.ReadAll(ctx)
	if err != nil {
		_ = formatter.Error("STORE_ERROR", err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to read log", err)
	}

	if opts.PinnedOnly {
		kept := rows[:0:0]
		for _, stored := range rows {
			if stored.Row.Pinned {
				kept = append(kept, stored)
			}
		}
		rows = kept
	}

	if opts.Format == "json" {
		views := make([]historyRow, 0, len(rows))
		for _, stored := range rows {
			views = append(views, historyRowFrom(stored))
		}
		return formatter.Success(views)
	}

	_, err = cmd.OutOrStdout().Write([]byte(RenderHistory(rows)))
	return err
}
