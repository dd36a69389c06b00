package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leapstack-labs/sqlrestore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for statement")
		return ""
	}
}

func TestWatcher_ReportsNewestStatement(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("==>  Preparing: SELECT 1\n"), 0o600))

	got := make(chan string, 4)
	w, err := New(path, func(_ context.Context, text string) { got <- text }, testutil.NewTestLogger(t))
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Equal(t, "==>  Preparing: SELECT 1\n", receive(t, got))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("==>  Preparing: SELECT 2 WHERE a = ?\n==> Parameters: 3(Integer)\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Equal(t, "==>  Preparing: SELECT 2 WHERE a = ?\n==> Parameters: 3(Integer)\n", receive(t, got))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	got := make(chan string, 4)
	w, err := New(path, func(_ context.Context, text string) { got <- text }, nil)
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.log"), []byte("Preparing: SELECT 9"), 0o600))

	select {
	case s := <-got:
		t.Fatalf("unexpected statement %q", s)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_HandlerCallsDoNotOverlap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("Preparing: SELECT 0\n"), 0o600))

	var active, overlaps, calls atomic.Int32
	got := make(chan string, 16)
	handler := func(_ context.Context, text string) {
		if active.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(30 * time.Millisecond)
		calls.Add(1)
		active.Add(-1)
		got <- text
	}

	w, err := New(path, handler, nil)
	require.NoError(t, err)
	w.SetDebounce(time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	receive(t, got)
	for i := 1; i <= 5; i++ {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
		require.NoError(t, err)
		_, err = f.WriteString("Preparing: SELECT " + string(rune('0'+i)) + "\n")
		require.NoError(t, err)
		require.NoError(t, f.Close())
		time.Sleep(5 * time.Millisecond)
	}
	receive(t, got)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop")
	}

	assert.Zero(t, active.Load(), "no handler runs after Run returns")
	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, calls.Load(), "no handler starts after Run returns")
	assert.Zero(t, overlaps.Load())
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "app.log"), func(context.Context, string) {}, nil)
	assert.Error(t, err)
}
