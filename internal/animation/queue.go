// Package animation drives time-based view changes from frame callbacks.
package animation

import (
	"slices"
	"time"

	"github.com/example/pixelpane/internal/frameclock"
)

// Animation advances with each frame until it reports Finished.
type Animation interface {
	// Progress moves the animation to timestamp now. The first call only
	// establishes the start time.
	Progress(now time.Duration)
	Finished() bool
	// Cancel finishes the animation where it stands.
	Cancel()
}

// Queue runs animations from the frame clock. While it holds animations it
// owns the frame loop: every tick progresses all of them, drops the
// finished ones and redraws once.
type Queue struct {
	clock  frameclock.Clock
	redraw func()

	items     []Animation
	frame     frameclock.Handle
	destroyed bool
}

// NewQueue creates a Queue that calls redraw after progressing each tick.
func NewQueue(clock frameclock.Clock, redraw func()) *Queue {
	return &Queue{clock: clock, redraw: redraw}
}

// Add enqueues a and makes sure a tick is scheduled.
func (q *Queue) Add(a Animation) {
	if q.destroyed {
		return
	}
	if !slices.Contains(q.items, a) {
		q.items = append(q.items, a)
	}
	q.schedule()
}

// Remove drops a without cancelling it.
func (q *Queue) Remove(a Animation) {
	if i := slices.Index(q.items, a); i >= 0 {
		q.items = slices.Delete(q.items, i, i+1)
	}
}

// Len returns the number of queued animations.
func (q *Queue) Len() int { return len(q.items) }

// Active reports whether any animation is queued.
func (q *Queue) Active() bool { return len(q.items) > 0 }

// Progress advances every queued animation to now and removes those that
// finished.
func (q *Queue) Progress(now time.Duration) {
	for _, a := range slices.Clone(q.items) {
		a.Progress(now)
	}
	q.items = slices.DeleteFunc(q.items, Animation.Finished)
}

func (q *Queue) schedule() {
	if q.frame != nil || q.destroyed {
		return
	}
	q.frame = q.clock.RequestFrame(q.tick)
}

func (q *Queue) tick(now time.Duration) {
	q.frame = nil
	if q.destroyed {
		return
	}
	q.Progress(now)
	q.redraw()
	if len(q.items) > 0 {
		q.schedule()
	}
}

// Destroy cancels the pending tick and forgets every animation.
func (q *Queue) Destroy() {
	if q.frame != nil {
		q.frame.Cancel()
		q.frame = nil
	}
	q.items = nil
	q.destroyed = true
}
