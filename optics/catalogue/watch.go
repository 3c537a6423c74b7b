package catalogue

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last file event before a
// watcher rebuilds.
const DefaultDebounce = 250 * time.Millisecond

// minTick bounds how often the loop polls for a quiet period.
const minTick = time.Millisecond

// Watcher rebuilds and saves a catalogue when files in its UserData
// directory change.
type Watcher struct {
	Dir string
	// Rebuilds receives the result of every rebuild. Results are dropped
	// when nobody reads them.
	Rebuilds <-chan error

	cat      *Catalogue
	debounce time.Duration
	results  chan error
	done     chan struct{}
	watcher  *fsnotify.Watcher
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher for the UserData directory of c.
func NewWatcher(c *Catalogue, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan error, 16)
	w := &Watcher{
		Dir:      filepath.Join(c.root, DatabaseUserData),
		Rebuilds: ch,
		cat:      c,
		debounce: DefaultDebounce,
		results:  ch,
		done:     make(chan struct{}),
		watcher:  fw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. Rebuilds run on the watcher goroutine with ctx,
// so at most one runs at a time.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.Dir); err != nil {
		w.watcher.Close()
		close(w.done)
		return err
	}
	go w.loop(ctx)
	return nil
}

// Stop closes the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	var last time.Time
	ticker := time.NewTicker(max(w.debounce/2, minTick))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isTextFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.cat.logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
				last = time.Now()
			}

		case <-ticker.C:
			if last.IsZero() || time.Since(last) < w.debounce {
				continue
			}
			last = time.Time{}
			w.report(w.refresh(ctx))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.cat.logger.Warn("watch error", "path", w.Dir, "err", err)
		}
	}
}

func (w *Watcher) refresh(ctx context.Context) error {
	if err := w.cat.Rebuild(ctx); err != nil {
		w.cat.logger.Error("rebuild failed", "path", w.Dir, "err", err)
		return err
	}
	if err := w.cat.Save(); err != nil {
		w.cat.logger.Error("save failed", "path", w.cat.file, "err", err)
		return err
	}
	return nil
}

func (w *Watcher) report(err error) {
	select {
	case w.results <- err:
	default:
	}
}
