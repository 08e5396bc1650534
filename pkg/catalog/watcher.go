package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/testgen/tgv/pkg/logging"
)

// DefaultDebounce coalesces bursts of writes from editors and generators.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a single catalog file.
//
// The parent directory is watched rather than the file itself so that
// atomic replace-by-rename saves are still seen.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger
}

// NewWatcher creates a watcher for path. Call Run to start it.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch catalog directory: %w", err)
	}
	return &Watcher{
		path:     abs,
		watcher:  w,
		debounce: DefaultDebounce,
		logger:   logging.OrNop(logger),
	}, nil
}

// SetDebounce changes the quiet period before onChange fires.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run calls onChange after the file was written or created (renamed into
// place), once per burst of events. It blocks until ctx is cancelled and
// releases the underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

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
			timer.Reset(w.debounce)

		case <-timer.C:
			w.logger.Debug("catalog changed", zap.String("path", w.path))
			onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			// Errors are logged but don't stop the watcher
			w.logger.Warn("catalog watcher error", zap.Error(err))
		}
	}
}
