package commands

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/sqlrestore/internal/cli/config"
	"github.com/leapstack-labs/sqlrestore/internal/cli/output"
	"github.com/leapstack-labs/sqlrestore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader replays lines and then reports EOF.
type scriptedReader struct {
	lines   []string
	prompts []string
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	if line == "^C" {
		return "", readline.ErrInterrupt
	}
	return line, nil
}

func (r *scriptedReader) SetPrompt(p string) {
	r.prompts = append(r.prompts, p)
}

func newREPLContext(t *testing.T) (*CommandContext, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	logger := testutil.NewTestLogger(t)
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Service:  newService(cfg, logger),
		Renderer: output.NewRendererWithTTY(out, errOut, false, output.ModeText),
	}, out, errOut
}

func TestREPLLoop_MultiLinePaste(t *testing.T) {
	cmdCtx, out, _ := newREPLContext(t)
	rl := &scriptedReader{lines: []string{
		"==>  Preparing: SELECT 1 WHERE a = ?",
		"==> Parameters: 2(Integer)",
		"",
	}}

	require.NoError(t, replLoop(context.Background(), rl, cmdCtx))
	assert.Contains(t, out.String(), "SELECT\n  1\nWHERE\n  a = 2\n")
	assert.Contains(t, rl.prompts, replCont)
}

func TestREPLLoop_DotCommands(t *testing.T) {
	cmdCtx, out, errOut := newREPLContext(t)
	rl := &scriptedReader{lines: []string{
		".raw",
		"Preparing: SELECT a FROM t WHERE id = ? Parameters: 9(Long)",
		"",
		".help",
		".bogus",
		".quit",
		"Preparing: SELECT never",
		"",
	}}

	require.NoError(t, replLoop(context.Background(), rl, cmdCtx))
	assert.Contains(t, out.String(), "raw mode on")
	assert.Contains(t, out.String(), "SELECT a FROM t WHERE id = 9\n")
	assert.Contains(t, out.String(), ".explain")
	assert.NotContains(t, out.String(), "never")
	assert.Contains(t, errOut.String(), "unknown command .bogus")
}

func TestREPLLoop_ClearAndInterrupt(t *testing.T) {
	cmdCtx, out, _ := newREPLContext(t)
	rl := &scriptedReader{lines: []string{
		"Preparing: SELECT discarded",
		".clear",
		"Preparing: SELECT interrupted",
		"^C",
		"Preparing: SELECT kept",
	}}

	require.NoError(t, replLoop(context.Background(), rl, cmdCtx))
	assert.NotContains(t, out.String(), "discarded")
	assert.NotContains(t, out.String(), "interrupted")
	assert.Contains(t, out.String(), "kept", "pending input is restored at EOF")
}

func TestREPLLoop_ErrorsDoNotStop(t *testing.T) {
	cmdCtx, out, errOut := newREPLContext(t)
	rl := &scriptedReader{lines: []string{
		"no sql here",
		"",
		"Preparing: SELECT 5",
		"",
	}}

	require.NoError(t, replLoop(context.Background(), rl, cmdCtx))
	assert.Contains(t, errOut.String(), "error: no SQL statement found")
	assert.Contains(t, out.String(), "SELECT\n  5")
}
