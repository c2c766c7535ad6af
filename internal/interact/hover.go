// Package interact dispatches pointer hover and click to the feature sets.
package interact

import (
	"time"

	"github.com/example/pixelpane/internal/event"
	"github.com/example/pixelpane/internal/model"
)

// Default hover throttling.
const (
	DefaultInterval          = 50 * time.Millisecond
	DefaultExpensiveInterval = 150 * time.Millisecond
)

// Picker resolves viewport points to features.
type Picker interface {
	FeatureAt(x, y float64) *model.Feature
	IsExpensive(x, y float64) bool
}

// Timer is a pending deferred call.
type Timer interface {
	Stop() bool
}

// Clock supplies time to Hover. AfterFunc must run fn on the goroutine that
// owns the Hover.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Hover tracks the feature under the pointer. Picking is throttled: a
// query the picker reports as expensive waits longer.
type Hover struct {
	sets   *model.FeatureSets
	picker Picker
	clock  Clock

	interval, expensive time.Duration

	x, y        float64
	initialized bool
	last        time.Time
	pending     Timer
	current     *model.Feature

	// Changed fires with the new feature (nil when none) whenever the
	// feature under the pointer changes.
	Changed event.Source[*model.Feature]
}

// Option configures Hover.
type Option func(*Hover)

// WithClock replaces the clock passed to NewHover.
func WithClock(c Clock) Option { return func(h *Hover) { h.clock = c } }

// WithIntervals sets the throttle for cheap and expensive queries.
func WithIntervals(cheap, expensive time.Duration) Option {
	return func(h *Hover) {
		if cheap >= 0 {
			h.interval = cheap
		}
		if expensive >= h.interval {
			h.expensive = expensive
		}
	}
}

// NewHover dispatches pointer events for sets using picker. Deferred
// updates run through clock.
func NewHover(sets *model.FeatureSets, picker Picker, clock Clock, opts ...Option) *Hover {
	h := &Hover{
		sets:      sets,
		picker:    picker,
		clock:     clock,
		interval:  DefaultInterval,
		expensive: DefaultExpensiveInterval,
	}
	for _, o := range opts {
		o(h)
	}
	if h.expensive < h.interval {
		h.expensive = h.interval
	}
	return h
}

// Update records the pointer position and re-evaluates the hovered
// feature, at most once per interval.
func (h *Hover) Update(x, y float64) {
	h.x, h.y = x, y
	h.initialized = true
	h.Refresh()
}

// Refresh re-evaluates the hovered feature at the last pointer position,
// for example after the view moved underneath it.
func (h *Hover) Refresh() {
	if !h.initialized || h.pending != nil {
		return
	}
	wait := h.interval
	if h.picker.IsExpensive(h.x, h.y) {
		wait = h.expensive
	}
	elapsed := h.clock.Now().Sub(h.last)
	if elapsed > wait {
		h.update()
		return
	}
	h.pending = h.clock.AfterFunc(wait-elapsed, func() {
		h.pending = nil
		h.update()
	})
}

func (h *Hover) update() {
	f := h.picker.FeatureAt(h.x, h.y)
	if f != h.current {
		if old := h.current; old != nil {
			if s, ok := h.sets.Owner(old); ok {
				s.NotifyPointerLeave(old)
			}
		}
		if f != nil {
			if s, ok := h.sets.Owner(f); ok {
				s.NotifyPointerEnter(f)
			}
		}
		h.current = f
		h.Changed.Fire(f)
	}
	h.last = h.clock.Now()
}

// Current returns the hovered feature.
func (h *Hover) Current() *model.Feature { return h.current }

// Position returns the last pointer position and whether one was seen.
func (h *Hover) Position() (float64, float64, bool) { return h.x, h.y, h.initialized }

// Click fires Click on the set owning the feature at (x, y).
func (h *Hover) Click(x, y float64) {
	f := h.picker.FeatureAt(x, y)
	if f == nil {
		return
	}
	if s, ok := h.sets.Owner(f); ok {
		s.NotifyClick(f)
	}
}

// Stop cancels a deferred update.
func (h *Hover) Stop() {
	if h.pending != nil {
		h.pending.Stop()
		h.pending = nil
	}
}
