// Package schedule coalesces render requests into at most one frame
// callback and lets callers group or silence them.
package schedule

import (
	"time"

	"github.com/example/pixelpane/internal/frameclock"
	"github.com/example/pixelpane/internal/logging"
)

// Scheduler turns any number of render requests into a single draw on the
// next frame. It is not safe for concurrent use.
type Scheduler struct {
	clock frameclock.Clock
	draw  func()
	hold  func() bool

	frame        frameclock.Handle
	batchDepth   int
	batchPending bool
	suspendDepth int
	destroyed    bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithHold installs a predicate checked on every request. While it returns
// true requests are dropped; the animation driver uses this to own the
// frame loop while animations run.
func WithHold(fn func() bool) Option { return func(s *Scheduler) { s.hold = fn } }

// New creates a Scheduler that calls draw from clock's frame callbacks.
func New(clock frameclock.Clock, draw func(), opts ...Option) *Scheduler {
	s := &Scheduler{clock: clock, draw: draw}
	for _, o := range opts {
		o(s)
	}
	return s
}

// RequestRender asks for a draw on the next frame.
func (s *Scheduler) RequestRender() {
	switch {
	case s.suspendDepth > 0:
		return
	case s.batchDepth > 0:
		s.batchPending = true
		return
	}
	s.request()
}

func (s *Scheduler) request() {
	if s.destroyed || s.frame != nil {
		return
	}
	if s.hold != nil && s.hold() {
		return
	}
	s.frame = s.clock.RequestFrame(s.onFrame)
}

func (s *Scheduler) onFrame(time.Duration) {
	s.frame = nil
	if s.destroyed {
		return
	}
	s.draw()
}

// StartBatch opens a batch. Requests made inside a batch collapse into one
// request when the outermost batch commits.
func (s *Scheduler) StartBatch() { s.batchDepth++ }

// CommitBatch closes a batch. Committing with no open batch is ignored.
func (s *Scheduler) CommitBatch() {
	if s.batchDepth <= 0 {
		s.batchDepth = 0
		logging.For("schedule").Debug("commit without open batch")
		return
	}
	s.batchDepth--
	if s.batchDepth == 0 && s.batchPending {
		s.batchPending = false
		if s.suspendDepth == 0 {
			s.request()
		}
	}
}

// SuspendRender drops every request until the matching ResumeRender,
// including one deferred by an open batch. Dropped requests are not
// replayed.
func (s *Scheduler) SuspendRender() {
	s.suspendDepth++
	s.batchPending = false
}

// ResumeRender undoes one SuspendRender. Extra calls are ignored.
func (s *Scheduler) ResumeRender() {
	s.suspendDepth--
	if s.suspendDepth < 0 {
		s.suspendDepth = 0
	}
}

// FramePending reports whether a frame callback is outstanding.
func (s *Scheduler) FramePending() bool { return s.frame != nil }

// BatchDepth returns the number of open batches.
func (s *Scheduler) BatchDepth() int { return s.batchDepth }

// Suspended reports whether requests are currently dropped.
func (s *Scheduler) Suspended() bool { return s.suspendDepth > 0 }

// Destroy cancels any outstanding frame. Later requests and stray callbacks
// do nothing.
func (s *Scheduler) Destroy() {
	if s.frame != nil {
		s.frame.Cancel()
		s.frame = nil
	}
	s.destroyed = true
}
