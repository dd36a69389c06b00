package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/leapstack-labs/sqlrestore/internal/restore"
	"github.com/leapstack-labs/sqlrestore/internal/server"
	"github.com/leapstack-labs/sqlrestore/internal/watch"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Addr  string
	Watch string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the restore API over HTTP",
		Long: `Start an HTTP server exposing restore and format.

Endpoints:
  POST /api/restore       log text (plain body or {"log": "..."})
  POST /api/format        SQL text (plain body or {"sql": "..."})
  GET  /api/events        server-sent events with the latest restore
  GET  /api/history       recent restores (when history is enabled)
  GET  /api/history/{id}  one restore
  GET  /healthz

With --watch, statements written to the file are restored and pushed to
/api/events subscribers.`,
		Example: `  sqlrestore serve --addr 127.0.0.1:8740
  sqlrestore serve --history --watch logs/app.log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", fmt.Sprintf("Listen address (default %s)", server.DefaultAddr))
	cmd.Flags().StringVar(&opts.Watch, "watch", "", "Log file to follow")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := cmdCtx.Cfg.Serve.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	srv := server.New(server.Config{
		Service: cmdCtx.Service,
		History: cmdCtx.History,
		Addr:    addr,
		Logger:  cmdCtx.Logger,
	})

	if opts.Watch != "" {
		notifier := srv.Notifier()
		w, err := watch.New(opts.Watch, func(ctx context.Context, text string) {
			res, err := cmdCtx.Service.Restore(ctx, text)
			if errors.Is(err, restore.ErrEmptyInput) || errors.Is(err, restore.ErrNoStatement) {
				return
			}
			if err != nil {
				cmdCtx.Logger.Error("restore failed", "file", opts.Watch, "error", err)
				return
			}
			notifier.Publish(res)
		}, cmdCtx.Logger)
		if err != nil {
			return err
		}
		srv.Go(w.Run)
	}

	return srv.Serve(cmd.Context())
}
