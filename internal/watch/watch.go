// Package watch rebuilds the site when files below the watched directories
// change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for events to settle.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc is called after a burst of changes. Errors are logged and the
// watcher keeps running.
type RebuildFunc func(ctx context.Context) error

type options struct {
	debounce time.Duration
	logger   *slog.Logger
	ignore   []string
}

// Option configures Run.
type Option func(*options)

// WithDebounce sets the settle time between the last event and a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithIgnore excludes paths, typically the output directory, from watching.
func WithIgnore(paths ...string) Option {
	return func(o *options) {
		for _, p := range paths {
			if abs, err := filepath.Abs(p); err == nil {
				o.ignore = append(o.ignore, abs)
			}
		}
	}
}

// Run watches dirs recursively and calls rebuild after changes until ctx is
// canceled. Directories created later are added as they appear. At most one
// rebuild runs at a time; changes during a rebuild schedule one more.
func Run(ctx context.Context, dirs []string, rebuild RebuildFunc, opts ...Option) error {
	o := options{debounce: DefaultDebounce, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("watch %s: not a directory", dir)
		}
		o.addDirsRecursive(watcher, dir)
	}

	rebuildReq, trigger, stop := newDebouncer(o.debounce)
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.rebuildWorker(ctx, rebuildReq, rebuild)
	}()

	o.logger.Info("Watching for changes", logfields.Count(len(dirs)))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			o.handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// newDebouncer returns a request channel, a trigger that fires it once
// events have been quiet for d, and a stop function.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return rebuildReq, trigger, stop
}

// rebuildWorker serializes rebuilds. The request channel has capacity one,
// so requests arriving during a rebuild collapse into a single follow-up.
func (o *options) rebuildWorker(ctx context.Context, rebuildReq <-chan struct{}, rebuild RebuildFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			o.logger.Info("Change detected; rebuilding")
			start := time.Now()
			if err := rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				o.logger.Warn("Rebuild failed", logfields.Error(err))
				continue
			}
			o.logger.Info("Rebuild complete", logfields.Duration(time.Since(start)))
		}
	}
}

func (o *options) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) || o.ignored(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			o.addDirsRecursive(watcher, ev.Name)
		}
	}
	o.logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func (o *options) addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (strings.HasPrefix(d.Name(), ".") || o.ignored(path)) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			o.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

func (o *options) ignored(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, ig := range o.ignore {
		if abs == ig || strings.HasPrefix(abs, ig+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including .DS_Store and emacs lock files (.#name)
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
