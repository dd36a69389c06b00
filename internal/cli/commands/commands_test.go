package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlrestore/internal/cli/config"
	"github.com/leapstack-labs/sqlrestore/internal/history"
	"github.com/leapstack-labs/sqlrestore/internal/restore"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = "Preparing: SELECT * FROM t WHERE id = ? Parameters: 5(Integer)"

// useConfig loads content as the current configuration. The history
// database is placed in a temporary directory.
func useConfig(t *testing.T, content string, withHistory bool) string {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	content += fmt.Sprintf("history:\n  enabled: %t\n  path: %q\n", withHistory, dbPath)

	path := filepath.Join(dir, "sqlrestore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	_, err := config.LoadConfig(path, nil)
	require.NoError(t, err)
	return dbPath
}

// execute runs cmd with args and stdin, returning stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewRestoreCommand(), "restore [log text]", []string{"file", "explain", "no-format"}},
		{NewFormatCommand(), "format [sql]", []string{"file"}},
		{NewREPLCommand(), "repl", nil},
		{NewWatchCommand(), "watch <file>", []string{"explain", "no-format"}},
		{NewServeCommand(), "serve", []string{"addr", "watch"}},
		{NewHistoryCommand(), "history", nil},
		{NewConfigCommand(), "config", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestHistoryCommand_Subcommands(t *testing.T) {
	cmd := NewHistoryCommand()
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"list", "show", "clear"}, names)
}

func TestRestoreCommand(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantOut string
	}{
		{
			name:    "argument",
			args:    []string{sampleLog},
			wantOut: "SELECT\n  *\nFROM\n  t\nWHERE\n  id = 5\n",
		},
		{
			name:    "stdin",
			stdin:   "noise\n==>  Preparing: SELECT a FROM t WHERE b = ?\n==> Parameters: x(String)\n<==      Total: 1\n",
			wantOut: "SELECT\n  a\nFROM\n  t\nWHERE\n  b = 'x'\n",
		},
		{
			name:    "no format",
			args:    []string{"--no-format", sampleLog},
			wantOut: "SELECT * FROM t WHERE id = 5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useConfig(t, "", false)
			out, _, err := execute(t, NewRestoreCommand(), tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}

func TestRestoreCommand_File(t *testing.T) {
	useConfig(t, "keyword_case: lower\n", false)
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0600))

	out, _, err := execute(t, NewRestoreCommand(), "", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "select\n  *\nfrom\n  t\nwhere\n  id = 5\n", out)
}

func TestRestoreCommand_Explain(t *testing.T) {
	useConfig(t, "", false)
	out, _, err := execute(t, NewRestoreCommand(), "",
		"--explain", "Preparing: SELECT ? FROM t Parameters: John(String), 7(Long)")
	require.NoError(t, err)

	assert.Contains(t, out, "'John'")
	assert.Contains(t, out, "String")
	assert.Contains(t, out, "Long")
	assert.Contains(t, out, "(unused)")
}

func TestRestoreCommand_CountMismatchWarns(t *testing.T) {
	useConfig(t, "", false)
	out, errOut, err := execute(t, NewRestoreCommand(), "", "Preparing: SELECT ?, ? Parameters: 1(Integer)")
	require.NoError(t, err)

	assert.Contains(t, out, "1,\n  ?")
	assert.Contains(t, errOut, "statement has 2 placeholders but 1 parameters")
}

func TestRestoreCommand_JSON(t *testing.T) {
	useConfig(t, "output: json\n", false)
	out, _, err := execute(t, NewRestoreCommand(), "", sampleLog)
	require.NoError(t, err)

	var res restore.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "SELECT * FROM t WHERE id = ?", res.Template)
	assert.Equal(t, "SELECT * FROM t WHERE id = 5", res.Substituted)
	require.Len(t, res.Params, 1)
	assert.Equal(t, "Integer", res.Params[0].Type)
}

func TestRestoreCommand_Errors(t *testing.T) {
	useConfig(t, "", false)

	_, _, err := execute(t, NewRestoreCommand(), "just some text")
	assert.ErrorIs(t, err, restore.ErrNoStatement)

	_, _, err = execute(t, NewRestoreCommand(), "")
	assert.ErrorIs(t, err, restore.ErrEmptyInput)

	_, _, err = execute(t, NewRestoreCommand(), "", "--file", filepath.Join(t.TempDir(), "missing.log"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestRestoreCommand_RecordsHistory(t *testing.T) {
	dbPath := useConfig(t, "", true)

	_, _, err := execute(t, NewRestoreCommand(), "", sampleLog)
	require.NoError(t, err)

	store, err := history.Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	entries, err := store.List(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "SELECT * FROM t WHERE id = ?", entries[0].Template)
}

func TestOpenHistory_LogsSchemaVersion(t *testing.T) {
	useConfig(t, "", true)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store, err := openHistory(config.GetCurrentConfig(), logger)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Contains(t, logs.String(), "history opened")
	assert.Contains(t, logs.String(), "schema_version=1")
}

func TestFormatCommand(t *testing.T) {
	useConfig(t, "", false)

	out, _, err := execute(t, NewFormatCommand(), "", "select a from t")
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  a\nFROM\n  t\n", out)

	out, _, err = execute(t, NewFormatCommand(), "select 'open")
	require.NoError(t, err)
	assert.Equal(t, "select 'open\n", out, "unformattable input is printed unchanged")

	_, _, err = execute(t, NewFormatCommand(), "   ")
	assert.ErrorIs(t, err, restore.ErrEmptyInput)
}

func TestHistoryCommands(t *testing.T) {
	useConfig(t, "", true)

	_, _, err := execute(t, NewRestoreCommand(), "", sampleLog)
	require.NoError(t, err)

	out, _, err := execute(t, NewHistoryCommand(), "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT * FROM t WHERE id = 5")

	config.GetCurrentConfig().OutputFormat = "json"
	out, _, err = execute(t, NewHistoryCommand(), "", "list")
	require.NoError(t, err)
	var entries []history.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)

	config.GetCurrentConfig().OutputFormat = "text"
	out, _, err = execute(t, NewHistoryCommand(), "", "show", entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entries[0].SQL+"\n", out)

	_, _, err = execute(t, NewHistoryCommand(), "", "show", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no history entry "missing"`)

	out, _, err = execute(t, NewHistoryCommand(), "", "clear")
	require.NoError(t, err)
	assert.Equal(t, "Deleted 1 entries.\n", out)

	out, _, err = execute(t, NewHistoryCommand(), "", "list")
	require.NoError(t, err)
	assert.Equal(t, "No history.\n", out)
}

func TestConfigShowCommand(t *testing.T) {
	useConfig(t, "dialect: mysql\n", false)

	out, _, err := execute(t, NewConfigCommand(), "", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "dialect: mysql")
	assert.Contains(t, out, "keyword_case: upper")
	assert.Contains(t, out, "history:")
}

func TestConfigPathCommand(t *testing.T) {
	useConfig(t, "", false)

	out, _, err := execute(t, NewConfigCommand(), "", "path")
	require.NoError(t, err)
	assert.Equal(t, config.GetConfigFileUsed()+"\n", out)
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.log")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0600))

	tests := []struct {
		name  string
		args  []string
		file  string
		stdin string
		want  string
	}{
		{"args joined", []string{"a", "b"}, "", "ignored", "a b"},
		{"file", nil, path, "ignored", "from file"},
		{"dash reads stdin", nil, "-", "from stdin", "from stdin"},
		{"piped stdin", nil, "", "piped", "piped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{}
			cmd.SetIn(strings.NewReader(tt.stdin))
			got, err := readInput(cmd, tt.args, tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "SELECT a FROM t", preview("SELECT\n  a\nFROM\n  t"))

	long := strings.Repeat("x", 100)
	got := preview(long)
	assert.Len(t, got, maxPreview)
	assert.True(t, strings.HasSuffix(got, "..."))
}
