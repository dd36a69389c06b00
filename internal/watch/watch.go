// Package watch follows a log file and reports the newest statement each
// time the file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/sqlrestore/pkg/extract"
)

// DefaultDebounce is how long the file must be quiet before it is read.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives the log text of the newest statement.
type Handler func(ctx context.Context, text string)

// Watcher follows one file.
type Watcher struct {
	path     string
	handler  Handler
	logger   *slog.Logger
	debounce time.Duration
	watcher  *fsnotify.Watcher
	last     string
}

// New starts watching path. The file's directory is watched so editors
// that replace the file on save are followed.
func New(path string, handler Handler, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		handler:  handler,
		logger:   logger,
		debounce: DefaultDebounce,
		watcher:  fw,
	}, nil
}

// SetDebounce changes the quiet period. Call before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run processes the current file content, then every change, until ctx is
// cancelled. The handler is only ever called from Run, so calls never
// overlap and none is in flight once Run returns. It closes the underlying
// watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	if _, err := os.Stat(w.path); err == nil {
		w.process(ctx)
	}

	debounceTimer := time.NewTimer(w.debounce)
	debounceTimer.Stop()
	defer debounceTimer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounceTimer.Reset(w.debounce)
			pending = debounceTimer.C

		case <-pending:
			pending = nil
			w.logger.Debug("file changed", "file", w.path)
			w.process(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// process reads the file and hands the newest statement to the handler
// unless it is the one reported last time.
func (w *Watcher) process(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Error("failed to read watched file", "file", w.path, "error", err)
		return
	}

	text := extract.LastStatement(string(data))
	if text == w.last {
		return
	}
	w.last = text
	w.handler(ctx, text)
}
