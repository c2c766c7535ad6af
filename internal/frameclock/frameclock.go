// Package frameclock abstracts the host's "call me before the next frame"
// facility so the scheduler can run against a window, a headless renderer or
// a test.
package frameclock

import "time"

// Handle identifies a requested frame callback.
type Handle interface {
	// Cancel prevents the callback from running. Cancelling a callback that
	// already ran is harmless.
	Cancel()
}

// Clock delivers frame callbacks. Callbacks run on the goroutine that
// drives the clock, one at a time.
type Clock interface {
	RequestFrame(fn func(now time.Duration)) Handle
}

type request struct {
	fn        func(time.Duration)
	cancelled bool
}

func (r *request) Cancel() { r.cancelled = true }

// Queue is a Clock whose frames are delivered by calling Fire. It does not
// start goroutines; Wake, when set, is called each time the queue goes from
// empty to non-empty so a host loop can arrange the next Fire.
type Queue struct {
	now     time.Duration
	pending []*request

	Wake func()
}

// NewQueue returns an empty queue.
func NewQueue(wake func()) *Queue {
	return &Queue{Wake: wake}
}

// RequestFrame queues fn for the next Fire.
func (q *Queue) RequestFrame(fn func(now time.Duration)) Handle {
	r := &request{fn: fn}
	q.pending = append(q.pending, r)
	if len(q.pending) == 1 && q.Wake != nil {
		q.Wake()
	}
	return r
}

// Fire runs every callback queued before the call with timestamp now.
// Callbacks queued while firing wait for the next Fire.
func (q *Queue) Fire(now time.Duration) int {
	if now > q.now {
		q.now = now
	}
	batch := q.pending
	q.pending = nil
	ran := 0
	for _, r := range batch {
		if r.cancelled {
			continue
		}
		r.cancelled = true
		r.fn(q.now)
		ran++
	}
	return ran
}

// Advance moves the queue's time forward by d and fires.
func (q *Queue) Advance(d time.Duration) int {
	return q.Fire(q.now + d)
}

// Now returns the timestamp of the last Fire.
func (q *Queue) Now() time.Duration { return q.now }

// Pending returns the number of live callbacks waiting for the next Fire.
func (q *Queue) Pending() int {
	n := 0
	for _, r := range q.pending {
		if !r.cancelled {
			n++
		}
	}
	return n
}
