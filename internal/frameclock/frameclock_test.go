package frameclock

import (
	"testing"
	"time"
)

func TestQueueFiresOnlyEarlierRequests(t *testing.T) {
	q := NewQueue(nil)
	var got []time.Duration
	q.RequestFrame(func(now time.Duration) {
		got = append(got, now)
		q.RequestFrame(func(now time.Duration) { got = append(got, now) })
	})

	if n := q.Advance(16 * time.Millisecond); n != 1 {
		t.Fatalf("first advance ran %d callbacks", n)
	}
	if q.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", q.Pending())
	}
	q.Advance(16 * time.Millisecond)
	if len(got) != 2 || got[0] != 16*time.Millisecond || got[1] != 32*time.Millisecond {
		t.Fatalf("timestamps = %v", got)
	}
}

func TestQueueCancel(t *testing.T) {
	q := NewQueue(nil)
	ran := false
	h := q.RequestFrame(func(time.Duration) { ran = true })
	h.Cancel()
	q.Advance(time.Millisecond)
	if ran {
		t.Fatalf("cancelled callback ran")
	}
}

func TestQueueWake(t *testing.T) {
	wakes := 0
	q := NewQueue(func() { wakes++ })
	q.RequestFrame(func(time.Duration) {})
	q.RequestFrame(func(time.Duration) {})
	if wakes != 1 {
		t.Fatalf("wakes = %d, want 1", wakes)
	}
	q.Fire(time.Second)
	q.RequestFrame(func(time.Duration) {})
	if wakes != 2 {
		t.Fatalf("wakes = %d, want 2", wakes)
	}
}
