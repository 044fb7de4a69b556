package bytesocket

import (
	"sync"
	"time"
)

// stopper is the part of *time.Timer used by timeoutGuard.
type stopper interface {
	Stop() bool
}

// timeoutGuard bounds a pending connect attempt with at most one timer.
// Each Arm starts a new round; the callback of a round runs at most once and
// never after the round was cancelled or replaced.
type timeoutGuard struct {
	mu    sync.Mutex
	timer stopper
	round uint64

	afterFunc func(time.Duration, func()) stopper
}

func newTimeoutGuard() *timeoutGuard {
	return &timeoutGuard{
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
}

// Arm starts a timer that calls onElapse after d, replacing any active timer.
func (g *timeoutGuard) Arm(d time.Duration, onElapse func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.stopLocked()
	round := g.round
	g.timer = g.afterFunc(d, func() {
		g.mu.Lock()
		if g.round != round || g.timer == nil {
			g.mu.Unlock()
			return
		}
		g.timer = nil
		g.round++
		g.mu.Unlock()

		onElapse()
	})
}

// Cancel stops the active timer. It reports whether a timer was active.
func (g *timeoutGuard) Cancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	active := g.timer != nil
	g.stopLocked()
	return active
}

// Active reports whether a timer is armed.
func (g *timeoutGuard) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timer != nil
}

func (g *timeoutGuard) stopLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.round++
}
