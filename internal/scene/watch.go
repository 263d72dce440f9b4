package scene

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long a watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// ErrWatcherClosed is returned by Run after Close.
var ErrWatcherClosed = errors.New("watcher closed")

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the settle delay.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(l zerolog.Logger) WatchOption {
	return func(w *Watcher) { w.log = l }
}

// Watcher reloads a scene whenever its file, or a script file it
// references, changes. Editors often replace files instead of writing
// them, so the containing directories are watched.
type Watcher struct {
	path     string
	debounce time.Duration
	log      zerolog.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	tracked map[string]bool
	dirs    map[string]bool

	reloads int64
	errors  int64

	closeOnce sync.Once
	closeCh   chan struct{}
}

// NewWatcher watches the scene at path.
func NewWatcher(path string, opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		log:      zerolog.Nop(),
		fsw:      fsw,
		tracked:  make(map[string]bool),
		dirs:     make(map[string]bool),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.track(nil); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run loads the scene once, then again after every change, passing each
// result to onLoad. It blocks until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onLoad func(*Scene, error)) error {
	w.load(onLoad)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			stop(timer)
			return ctx.Err()

		case <-w.closeCh:
			stop(timer)
			return ErrWatcherClosed

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("scene file changed")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				stop(timer)
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			atomic.AddInt64(&w.errors, 1)
			w.log.Warn().Err(err).Msg("watch error")

		case <-fire:
			fire = nil
			w.load(onLoad)
		}
	}
}

// Reloads returns how many times the scene was loaded.
func (w *Watcher) Reloads() int64 { return atomic.LoadInt64(&w.reloads) }

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) load(onLoad func(*Scene, error)) {
	atomic.AddInt64(&w.reloads, 1)
	sc, err := Load(w.path)
	if err == nil {
		if terr := w.track(sc); terr != nil {
			w.log.Warn().Err(terr).Msg("cannot watch script files")
		}
	}
	onLoad(sc, err)
}

// track watches the scene file and the script files sc references.
func (w *Watcher) track(sc *Scene) error {
	files := []string{w.path}
	if sc != nil {
		base := filepath.Dir(w.path)
		for _, o := range sc.Objects {
			for _, s := range o.Scripts {
				if s.File != "" {
					files = append(files, filepath.Join(base, s.File))
				}
			}
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.tracked = make(map[string]bool, len(files))
	for _, f := range files {
		f = filepath.Clean(f)
		w.tracked[f] = true
		dir := filepath.Dir(f)
		if w.dirs[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	return nil
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tracked[filepath.Clean(ev.Name)]
}

func stop(t *time.Timer) {
	if t != nil && !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
