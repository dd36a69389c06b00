package commands

import (
	"context"
	"errors"

	"github.com/leapstack-labs/sqlrestore/internal/restore"
	"github.com/leapstack-labs/sqlrestore/internal/watch"
	"github.com/spf13/cobra"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Explain  bool
	NoFormat bool
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Follow a log file and restore each new statement",
		Long: `Watch a log file and print the newest statement whenever the file changes.

The file does not have to exist yet. Press Ctrl+C to stop.`,
		Example: `  sqlrestore watch logs/app.log`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Explain, "explain", false, "Show how parameters map to placeholders")
	cmd.Flags().BoolVar(&opts.NoFormat, "no-format", false, "Print the substituted statement without formatting")

	return cmd
}

func runWatch(cmd *cobra.Command, path string, opts *WatchOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	printOpts := &RestoreOptions{Explain: opts.Explain, NoFormat: opts.NoFormat}
	w, err := watch.New(path, func(ctx context.Context, text string) {
		res, err := cmdCtx.Service.Restore(ctx, text)
		if errors.Is(err, restore.ErrEmptyInput) || errors.Is(err, restore.ErrNoStatement) {
			cmdCtx.Logger.Debug("no statement in watched file", "file", path)
			return
		}
		if err != nil {
			cmdCtx.Renderer.Error(err)
			return
		}
		if err := printResult(cmdCtx.Renderer, res, printOpts); err != nil {
			cmdCtx.Renderer.Error(err)
		}
		cmdCtx.Renderer.Println("")
	}, cmdCtx.Logger)
	if err != nil {
		return err
	}

	cmdCtx.Logger.Info("watching", "file", path)
	return w.Run(cmd.Context())
}
