package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce batches the rapid writes of editors saving a file
var watchDebounce = 200 * time.Millisecond

// fileWatcher calls a function after a file was written.
// The directory of the file is watched because many editors
// replace files instead of writing them in place.
type fileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger
}

func newFileWatcher(path string, logger *zap.Logger) (*fileWatcher, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err = watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	return &fileWatcher{path: path, watcher: watcher, logger: logger}, nil
}

// Run calls onChange for settled writes to the watched file
// until ctx is cancelled.
// Errors of onChange are logged and don't stop watching.
func (w *fileWatcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	w.logger.Info("watching for changes", zap.String("file", w.path))

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("stopped watching", zap.String("file", w.path))
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("file event", zap.Stringer("op", event.Op), zap.String("file", event.Name))
			debounce.Reset(watchDebounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", zap.Error(err))

		case <-debounce.C:
			if err := onChange(ctx); err != nil {
				w.logger.Error("handling file change failed", zap.String("file", w.path), zap.Error(err))
			}
		}
	}
}

func (w *fileWatcher) Close() error {
	return w.watcher.Close()
}
