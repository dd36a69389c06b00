package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const (
	replPrompt = "sqlrestore> "
	replCont   = "       ...> "
)

// lineReader is the part of readline the REPL loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Paste log text interactively",
		Long: `Start an interactive session. Paste log output, then press Enter on an
empty line to restore it. Multi-line pastes are collected until the blank line.

Commands:
  .raw      Toggle printing the substituted statement without formatting
  .explain  Toggle the parameter table
  .clear    Discard the pending input
  .help     Show this help
  .quit     Exit`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var historyFile string
	if cmdCtx.History != nil {
		historyFile = filepath.Join(filepath.Dir(cmdCtx.History.Path()), "repl_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "sqlrestore REPL")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Paste log text and press Enter on an empty line. Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	return replLoop(cmd.Context(), rl, cmdCtx)
}

// replLoop reads pasted text until a blank line and restores it.
func replLoop(ctx context.Context, rl lineReader, cmdCtx *CommandContext) error {
	opts := &RestoreOptions{}
	var buf strings.Builder

	submit := func() {
		text := buf.String()
		buf.Reset()
		rl.SetPrompt(replPrompt)
		if strings.TrimSpace(text) == "" {
			return
		}

		res, err := cmdCtx.Service.Restore(ctx, text)
		if err != nil {
			cmdCtx.Renderer.Error(err)
			return
		}
		if err := printResult(cmdCtx.Renderer, res, opts); err != nil {
			cmdCtx.Renderer.Error(err)
		}
		cmdCtx.Renderer.Println("")
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			submit()
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			submit()
			continue
		}

		if strings.HasPrefix(trimmed, ".") {
			if strings.EqualFold(trimmed, ".clear") {
				buf.Reset()
				rl.SetPrompt(replPrompt)
			}
			if quit := handleDotCommand(cmdCtx, opts, trimmed); quit {
				return nil
			}
			continue
		}

		buf.WriteString(line)
		buf.WriteString("\n")
		rl.SetPrompt(replCont)
	}
}

// handleDotCommand runs a REPL command and reports whether to exit.
func handleDotCommand(cmdCtx *CommandContext, opts *RestoreOptions, line string) bool {
	r := cmdCtx.Renderer
	switch strings.ToLower(strings.Fields(line)[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(r.Writer())
	case ".raw":
		opts.NoFormat = !opts.NoFormat
		r.Println("raw mode " + onOff(opts.NoFormat))
	case ".explain":
		opts.Explain = !opts.Explain
		r.Println("explain " + onOff(opts.Explain))
	case ".clear":
		r.Println("cleared")
	default:
		r.Warn(fmt.Sprintf("unknown command %s (type .help)", line))
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func printREPLHelp(w io.Writer) {
	_, _ = fmt.Fprintln(w, `Paste log text, then press Enter on an empty line.

  .raw      Toggle printing the substituted statement without formatting
  .explain  Toggle the parameter table
  .clear    Discard the pending input
  .help     Show this help
  .quit     Exit`)
}
