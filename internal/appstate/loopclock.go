package appstate

import (
	"sync/atomic"
	"time"

	"github.com/example/pixelpane/internal/interact"
)

// callEvent carries a deferred call onto the event loop.
type callEvent struct {
	timer *loopTimer
	fn    func()
}

// run calls fn unless its timer was stopped first.
func (e callEvent) run() {
	if e.timer.stopped.Swap(true) {
		return
	}
	e.fn()
}

type loopTimer struct {
	t       *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.t.Stop()
	return !t.stopped.Swap(true)
}

// loopClock defers calls by posting a callEvent through send once the
// delay passed, so they run on the goroutine reading the events.
type loopClock struct {
	send func(event any)
}

func (c loopClock) Now() time.Time { return time.Now() }

func (c loopClock) AfterFunc(d time.Duration, fn func()) interact.Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() { c.send(callEvent{timer: lt, fn: fn}) })
	return lt
}
