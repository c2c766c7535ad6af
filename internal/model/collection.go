package model

import (
	"github.com/example/pixelpane/internal/event"
	"github.com/example/pixelpane/internal/generation"
)

// Collection is an ordered set. Indices are positions: removing an item
// shifts the ones after it down by one.
type Collection[T comparable] struct {
	gen   generation.Counter
	items []T
	index map[T]struct{}

	Added   event.Source[T]
	Removed event.Source[T]
}

// NewCollection returns an empty collection.
func NewCollection[T comparable]() *Collection[T] {
	c := &Collection[T]{}
	c.init()
	return c
}

func (c *Collection[T]) init() {
	c.gen.Attach()
	c.index = make(map[T]struct{})
}

func (c *Collection[T]) Generation() uint64 { return c.gen.Generation() }

// Add appends item. Adding an item already present does nothing.
func (c *Collection[T]) Add(item T) bool {
	if _, ok := c.index[item]; ok {
		return false
	}
	c.items = append(c.items, item)
	c.index[item] = struct{}{}
	c.gen.Bump()
	c.Added.Fire(item)
	return true
}

// Remove deletes item and reports whether it was present.
func (c *Collection[T]) Remove(item T) bool {
	if _, ok := c.index[item]; !ok {
		return false
	}
	i := c.Index(item)
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	delete(c.index, item)
	c.gen.Bump()
	c.Removed.Fire(item)
	return true
}

func (c *Collection[T]) Contains(item T) bool {
	_, ok := c.index[item]
	return ok
}

// At returns the item at i. It panics when i is out of range.
func (c *Collection[T]) At(i int) T { return c.items[i] }

func (c *Collection[T]) Len() int { return len(c.items) }

// Index returns the position of item or -1.
func (c *Collection[T]) Index(item T) int {
	for i, cur := range c.items {
		if cur == item {
			return i
		}
	}
	return -1
}

// Each calls fn for every item in order.
func (c *Collection[T]) Each(fn func(i int, item T)) {
	for i, item := range c.items {
		fn(i, item)
	}
}

// Items returns a copy of the items in order.
func (c *Collection[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Find returns the first item matching pred.
func (c *Collection[T]) Find(pred func(T) bool) (T, bool) {
	for _, item := range c.items {
		if pred(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
