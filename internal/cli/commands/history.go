package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/sqlrestore/internal/cli/output"
	"github.com/leapstack-labs/sqlrestore/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect previously restored statements",
		Long: `List, show and clear restored statements.

Statements are recorded when history is enabled (--history, history.enabled
in sqlrestore.yaml or SQLRESTORE_HISTORY__ENABLED=true). These commands read
the configured database whether or not recording is currently enabled.`,
	}

	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

// withHistory opens the configured history store for the duration of fn.
func withHistory(cmd *cobra.Command, fn func(*CommandContext, *history.Store) error) error {
	cmdCtx := NewCommandContextWithoutHistory(cmd)
	store, err := openHistory(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return fn(cmdCtx, store)
}

func newHistoryListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent restores, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHistory(cmd, func(cmdCtx *CommandContext, store *history.Store) error {
				entries, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}

				r := cmdCtx.Renderer
				switch r.EffectiveMode() {
				case output.ModeJSON:
					if entries == nil {
						entries = []history.Entry{}
					}
					return r.JSON(entries)
				case output.ModeMarkdown:
					r.Header("History")
					renderHistory(r.Writer(), entries, true)
				default:
					if len(entries) == 0 {
						r.Println("No history.")
						return nil
					}
					renderHistory(r.Writer(), entries, false)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries (0 for all)")
	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one restored statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, func(cmdCtx *CommandContext, store *history.Store) error {
				e, err := store.Get(cmd.Context(), args[0])
				if errors.Is(err, history.ErrNotFound) {
					return fmt.Errorf("no history entry %q", args[0])
				}
				if err != nil {
					return err
				}

				r := cmdCtx.Renderer
				if r.EffectiveMode() == output.ModeJSON {
					return r.JSON(e)
				}
				if r.EffectiveMode() == output.ModeMarkdown {
					r.Header(e.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				}
				r.SQL(e.SQL)
				return nil
			})
		},
	}
}

func newHistoryClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHistory(cmd, func(cmdCtx *CommandContext, store *history.Store) error {
				n, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				if cmdCtx.Renderer.EffectiveMode() == output.ModeJSON {
					return cmdCtx.Renderer.JSON(map[string]int64{"deleted": n})
				}
				cmdCtx.Renderer.Printf("Deleted %d entries.\n", n)
				return nil
			})
		},
	}
}
