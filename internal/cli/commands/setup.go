package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/sqlrestore/internal/cli/config"
	"github.com/leapstack-labs/sqlrestore/internal/cli/output"
	"github.com/leapstack-labs/sqlrestore/internal/history"
	"github.com/leapstack-labs/sqlrestore/internal/restore"
	"github.com/leapstack-labs/sqlrestore/pkg/compose"
	"github.com/leapstack-labs/sqlrestore/pkg/format"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Service  *restore.Service
	History  *history.Store
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with the restore service and,
// when enabled, the history store.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cctx := NewCommandContextWithoutHistory(cmd)
	cleanup := func() {}

	var opts []restore.Option
	if cctx.Cfg.History.Enabled {
		store, err := openHistory(cctx.Cfg, cctx.Logger)
		if err != nil {
			return nil, nil, err
		}
		cctx.History = store
		opts = append(opts, restore.WithRecorder(store))
		cleanup = func() {
			if err := store.Close(); err != nil {
				cctx.Logger.Warn("failed to close history", "error", err)
			}
		}
	}

	cctx.Service = newService(cctx.Cfg, cctx.Logger, opts...)
	return cctx, cleanup, nil
}

// NewCommandContextWithoutHistory creates a CommandContext that never
// touches the history database.
func NewCommandContextWithoutHistory(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode, _ := output.ParseMode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Service:  newService(cfg, logger),
		Renderer: r,
	}
}

// getConfig returns the current configuration, or the defaults when the
// command runs outside the root command.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

func newService(cfg *config.Config, logger *slog.Logger, opts ...restore.Option) *restore.Service {
	c := compose.New(format.Formatter{}, cfg.FormatOptions(), logger)
	return restore.New(c, logger, opts...)
}

func openHistory(cfg *config.Config, logger *slog.Logger) (*history.Store, error) {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	store.SetLimit(cfg.History.Limit)

	version, err := store.MigrationVersion()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to read history schema version: %w", err)
	}
	logger.Debug("history opened", "path", store.Path(), "schema_version", version)
	return store, nil
}

// readInput returns the text to work on: the arguments joined by spaces,
// the named file ("-" for stdin), or piped stdin.
func readInput(cmd *cobra.Command, args []string, file string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case file == "-":
		return readAll(cmd.InOrStdin(), "stdin")
	case file != "":
		content, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(content), nil
	case !isTerminal(cmd.InOrStdin()):
		return readAll(cmd.InOrStdin(), "stdin")
	default:
		return "", nil
	}
}

func readAll(r io.Reader, name string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(content), nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
