package ui

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"zapret-launcher/internal/debuglog"
)

// watchDebounce coalesces bursts of file events into one refresh.
const watchDebounce = 300 * time.Millisecond

// DirWatcher calls onChange after files in a directory change.
type DirWatcher struct {
	watcher  *fsnotify.Watcher
	onChange func()

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// WatchDir starts watching dir. Close stops it.
func WatchDir(dir string, onChange func()) (*DirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	dw := &DirWatcher{watcher: w, onChange: onChange, done: make(chan struct{})}
	go dw.loop()
	return dw, nil
}

func (dw *DirWatcher) loop() {
	defer close(dw.done)
	for {
		select {
		case ev, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Write) {
				dw.schedule()
			}
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			debuglog.WarnLog("DirWatcher: %v", err)
		}
	}
}

func (dw *DirWatcher) schedule() {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.timer != nil {
		dw.timer.Stop()
	}
	dw.timer = time.AfterFunc(watchDebounce, dw.onChange)
}

// Close stops watching and cancels a pending notification.
func (dw *DirWatcher) Close() error {
	err := dw.watcher.Close()
	<-dw.done
	dw.mu.Lock()
	if dw.timer != nil {
		dw.timer.Stop()
	}
	dw.mu.Unlock()
	return err
}
