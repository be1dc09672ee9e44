package channel

import (
	"sync"
	"time"
)

// throttle spaces successive polls of the channel file at least interval
// apart.
type throttle struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{}
	}
	return &throttle{interval: interval}
}

// wait blocks until the next poll is due or done is closed. It reports false
// when done closed first.
func (t *throttle) wait(done <-chan struct{}) bool {
	if t == nil || t.interval <= 0 {
		select {
		case <-done:
			return false
		default:
			return true
		}
	}
	for {
		t.mu.Lock()
		wait := time.Until(t.next)
		if wait <= 0 {
			t.next = time.Now().Add(t.interval)
			t.mu.Unlock()
			return true
		}
		t.mu.Unlock()
		if wait > t.interval {
			wait = t.interval
		}
		timer := time.NewTimer(wait)
		select {
		case <-done:
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}
