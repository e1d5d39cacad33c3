// Package watch triggers processing when illustration files appear in a
// directory.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultExtensions are the file types handed to the handler.
var DefaultExtensions = []string{".xlsx", ".xlsm", ".csv", ".zip"}

const defaultDebounce = 500 * time.Millisecond

// Handler is called once a file has settled.
type Handler func(ctx context.Context, path string)

// Options configures a Watcher.
type Options struct {
	// Debounce is how long a file must go without events before it is
	// handled. Spreadsheet tools often write in several bursts.
	Debounce   time.Duration
	Extensions []string
	// Ignore, when set, suppresses paths it returns true for.
	Ignore func(path string) bool
}

// Watcher watches one directory (not recursively).
type Watcher struct {
	dir     string
	opts    Options
	handle  Handler
	fs      *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// Start begins watching dir. Call Run to dispatch events.
func Start(dir string, handle Handler, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, eris.Wrap(err, "watch: create watcher")
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close() //nolint:errcheck
		return nil, eris.Wrapf(err, "watch: add %s", dir)
	}

	return &Watcher{
		dir:     dir,
		opts:    opts,
		handle:  handle,
		fs:      fsw,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Run dispatches settled files to the handler until ctx is done. It waits
// for in-flight handlers before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.wg.Wait()
	defer w.stopPending()
	defer w.fs.Close() //nolint:errcheck

	log := zap.L().With(zap.String("dir", w.dir))
	log.Info("watch: started")

	for {
		select {
		case <-ctx.Done():
			log.Info("watch: stopping")
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if path, ok := w.relevant(ev); ok {
				w.schedule(ctx, path)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch: fsnotify error", zap.Error(err))
		}
	}
}

// relevant filters events down to created or written files with a wanted
// extension. Directories, hidden files and Office lock files are skipped.
func (w *Watcher) relevant(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return "", false
	}

	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return "", false
	}
	if !w.wantExt(base) {
		return "", false
	}
	if w.opts.Ignore != nil && w.opts.Ignore(ev.Name) {
		return "", false
	}

	info, err := os.Stat(ev.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return ev.Name, true
}

func (w *Watcher) wantExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range w.opts.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		if t.Stop() {
			t.Reset(w.opts.Debounce)
			return
		}
		// Timer already fired; its handler owns the previous write.
	}

	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.opts.Debounce, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.pending[path] == t {
			delete(w.pending, path)
		}
		w.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		w.handle(ctx, path)
	})
	w.pending[path] = t
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
}
