package channel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/commit-browser/internal/logging"
	"github.com/atomicstack/commit-browser/internal/logging/events"
	"github.com/fsnotify/fsnotify"
)

const pollInterval = 250 * time.Millisecond

var newFSWatcher = fsnotify.NewWatcher

// Watcher tails a channel while the level's picker is running and reports
// control commands as soon as they are written.
type Watcher struct {
	path      string
	onControl func(cmd string)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	offset int64
}

// Watch starts tailing the channel. onControl is called from the watcher
// goroutine for every break or exit line. File notifications are used when
// available, otherwise the file is polled.
func (c *Channel) Watch(onControl func(cmd string)) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:      c.path,
		onControl: onControl,
		ctx:       ctx,
		cancel:    cancel,
	}

	fsw, err := newFSWatcher()
	if err == nil {
		if err = fsw.Add(c.path); err != nil {
			_ = fsw.Close()
		}
	}
	w.wg.Add(1)
	if err != nil {
		events.Channel.WatchFallback(c.path, err)
		go w.poll(newThrottle(pollInterval))
	} else {
		go w.notify(fsw)
	}
	return w
}

// Stop cancels the watcher. Use Wait when the goroutine must be gone.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watcher goroutine has exited.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) notify(fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer fsw.Close()

	w.scan()
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.scan()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logging.Error(fmt.Errorf("watch %s: %w", w.path, err))
		}
	}
}

func (w *Watcher) poll(t *throttle) {
	defer w.wg.Done()
	for t.wait(w.ctx.Done()) {
		w.scan()
	}
}

func (w *Watcher) scan() {
	w.mu.Lock()
	lines, next, err := readFrom(w.path, w.offset)
	if err == nil {
		w.offset = next
	}
	w.mu.Unlock()
	if err != nil {
		return
	}
	for _, line := range lines {
		if IsControl(line) && w.onControl != nil {
			w.onControl(line)
		}
	}
}
