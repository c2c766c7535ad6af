package interact

import (
	"time"

	"github.com/example/pixelpane/internal/frameclock"
)

// frameEpoch anchors frame timestamps to a time.Time far from the zero
// value, so the first hover update is never throttled.
var frameEpoch = time.Unix(0, 0)

// FrameClock is a Clock measured in frame timestamps. Deferred calls run
// from frame callbacks, on the goroutine driving the frames.
type FrameClock struct {
	frames frameclock.Clock
	now    time.Duration
}

// NewFrameClock returns a Clock driven by frames.
func NewFrameClock(frames frameclock.Clock) *FrameClock {
	return &FrameClock{frames: frames}
}

// Now returns the time of the latest frame this clock saw.
func (c *FrameClock) Now() time.Time { return frameEpoch.Add(c.now) }

// AfterFunc runs fn from the first frame at least d after Now.
func (c *FrameClock) AfterFunc(d time.Duration, fn func()) Timer {
	t := &frameTimer{clock: c, deadline: c.now + d, fn: fn}
	t.handle = c.frames.RequestFrame(t.tick)
	return t
}

type frameTimer struct {
	clock    *FrameClock
	deadline time.Duration
	fn       func()
	handle   frameclock.Handle
	done     bool
}

func (t *frameTimer) tick(now time.Duration) {
	if now > t.clock.now {
		t.clock.now = now
	}
	if t.done {
		return
	}
	if t.clock.now < t.deadline {
		t.handle = t.clock.frames.RequestFrame(t.tick)
		return
	}
	t.done = true
	t.fn()
}

func (t *frameTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.handle.Cancel()
	return true
}
