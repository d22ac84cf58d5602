package server

import (
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a directory and delivers a debounced signal on C whenever
// its contents change. Rapid event bursts (a wasm rebuild touching several
// files) collapse into a single signal.
type Watcher struct {
	C chan struct{}

	fsw      *fsnotify.Watcher
	debounce time.Duration
	wg       sync.WaitGroup
}

// NewWatcher starts watching dir. The caller must Close the watcher.
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		C:        make(chan struct{}, 1),
		fsw:      fsw,
		debounce: debounce,
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var debounceTimer *time.Timer
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			// Chmod fires on every stat-ish touch; not a content change.
			if event.Op&fsnotify.Chmod != 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Reset(w.debounce)
			} else {
				debounceTimer = time.AfterFunc(w.debounce, func() {
					select {
					case w.C <- struct{}{}:
					default:
					}
				})
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)
		}
	}
}

// Close stops the watcher and waits for its event loop to exit.
func (w *Watcher) Close() {
	if err := w.fsw.Close(); err != nil {
		slog.Warn("Failed to close file watcher", "error", err)
	}
	w.wg.Wait()
}
