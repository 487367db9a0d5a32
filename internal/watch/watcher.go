package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before a change fires
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a single playlist file. The parent directory
// is watched so editors that save by rename are still seen.
type Watcher struct {
	path     string
	dir      string
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	pending time.Time
}

// New creates a watcher for path
func New(path string, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		path:     abs,
		dir:      filepath.Dir(abs),
		debounce: DefaultDebounce,
		logger:   logger,
	}, nil
}

// WithDebounce overrides the quiet period before a change is reported
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Run blocks until ctx is done, calling onChange once per settled burst
// of writes to the file. onChange runs on the watcher goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Debug("Watching playlist", zap.String("path", w.path))

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", zap.Error(err))

		case <-ticker.C:
			if w.settled() {
				onChange(w.path)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.logger.Debug("Playlist event", zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

// settled reports whether a pending change has been quiet for the
// debounce window, clearing it if so
func (w *Watcher) settled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		return false
	}
	w.pending = time.Time{}
	return true
}
