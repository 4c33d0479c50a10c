// Package deckwatch re-runs a callback whenever a deck file changes on disk.
package deckwatch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Options configures Watch.
type Options struct {
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watch calls fn once immediately and again after every write, create or
// rename of path, debounced, until ctx is cancelled. Errors returned by fn
// are logged and do not stop the watch. The parent directory is watched so
// that editors replacing the file atomically are still seen.
func Watch(ctx context.Context, path string, opts Options, fn func(context.Context) error) (err error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve deck path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch deck directory: %w", err)
	}

	run := func() {
		if err := fn(ctx); err != nil {
			logger.Warn("Deck recalculation failed", zap.String("path", abs), zap.Error(err))
		}
	}
	run()

	timer := time.NewTimer(opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("Deck file changed", zap.String("path", abs), zap.String("op", event.Op.String()))
			timer.Reset(opts.Debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error", zap.Error(err))
		case <-timer.C:
			run()
		}
	}
}
