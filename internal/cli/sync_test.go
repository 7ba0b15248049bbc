package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pinlog/internal/engine"
	"github.com/roach88/pinlog/internal/pin"
	"github.com/roach88/pinlog/internal/store"
)

// stubSource serves canned items without touching the network.
type stubSource struct {
	items []pin.Item
}

func (s *stubSource) ListPinnedItems(ctx context.Context, channel string) ([]pin.Item, error) {
	return s.items, nil
}

func (s *stubSource) ListMembers(ctx context.Context) (pin.MemberDirectory, error) {
	return pin.NewMemberDirectory([]pin.Member{{ID: "U1", Name: "alice"}}), nil
}

func testCommand(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd
}

func TestRunSync_TextSummary(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, `
slack:
  token: xoxb-test
  channel: C123
`)

	mem := store.NewMemoryStore()
	opts := &SyncOptions{
		RootOptions: &RootOptions{Format: "text"},
		ConfigPath:  path,
		Source: &stubSource{items: []pin.Item{
			{Type: pin.ItemTypeMessage, Message: &pin.MessageItem{Timestamp: "1.0", User: "U1", Text: "hi"}},
		}},
		Store:     mem,
		RunTokens: engine.NewFixedGenerator("run-1"),
	}

	var out bytes.Buffer
	err := runSync(opts, testCommand(&out))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "run run-1: fetched 1, appended 1, unpinned 0, skipped 0")

	rows, err := mem.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRunSync_DryRunLeavesStoreUntouched(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, `
slack:
  token: xoxb-test
  channel: C123
`)

	mem := store.NewMemoryStore()
	opts := &SyncOptions{
		RootOptions: &RootOptions{Format: "text"},
		ConfigPath:  path,
		DryRun:      true,
		Source: &stubSource{items: []pin.Item{
			{Type: pin.ItemTypeMessage, Message: &pin.MessageItem{Timestamp: "1.0", User: "U1", Text: "hi"}},
		}},
		Store:     mem,
		RunTokens: engine.NewFixedGenerator("run-1"),
	}

	var out bytes.Buffer
	require.NoError(t, runSync(opts, testCommand(&out)))
	assert.Contains(t, out.String(), "(dry run)")

	rows, err := mem.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRunSync_BadConfigExitsWithCommandError(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfig(t, `
slack:
  channel: C123
`)

	opts := &SyncOptions{
		RootOptions: &RootOptions{Format: "text"},
		ConfigPath:  path,
		Store:       store.NewMemoryStore(),
		Source:      &stubSource{},
	}

	var out bytes.Buffer
	err := runSync(opts, testCommand(&out))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out.String(), "CONFIGURATION_ERROR")
}

func TestRunHistory_PinnedFilter(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.Seed(
		pin.Row{Timestamp: "1.0", User: "alice", Text: "kept", Pinned: true},
		pin.Row{Timestamp: "2.0", User: "alice", Text: "gone", Pinned: false},
	)

	opts := &HistoryOptions{
		RootOptions: &RootOptions{Format: "text"},
		PinnedOnly:  true,
		Store:       mem,
	}

	var out bytes.Buffer
	require.NoError(t, runHistory(opts, testCommand(&out)))
	assert.Contains(t, out.String(), "kept")
	assert.NotContains(t, out.String(), "gone")
}

func TestRunHistory_JSONOutput(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.Seed(pin.Row{Timestamp: "1.0", User: "alice", Text: "hi", Pinned: true})

	opts := &HistoryOptions{
		RootOptions: &RootOptions{Format: "json"},
		Store:       mem,
	}

	var out bytes.Buffer
	require.NoError(t, runHistory(opts, testCommand(&out)))
	assert.Contains(t, out.String(), `"status":"ok"`)
	assert.Contains(t, out.String(), `"timestamp":"1.0"`)
}
