// Package event is a small synchronous publish/subscribe helper. Handlers
// run on the goroutine that fires the event, in subscription order.
package event

// Subscription is returned by Subscribe and detaches its handler.
type Subscription interface {
	Release()
}

type entry[T any] struct {
	fn       func(T)
	released bool
}

// Source fans a value out to its subscribers. The zero value is ready.
type Source[T any] struct {
	entries []*entry[T]
}

type handle[T any] struct {
	src *Source[T]
	e   *entry[T]
}

// Release detaches the handler. Releasing twice is harmless.
func (h *handle[T]) Release() {
	if h.e == nil || h.e.released {
		return
	}
	h.e.released = true
	h.src.remove(h.e)
	h.e = nil
}

// Subscribe registers fn and returns its handle.
func (s *Source[T]) Subscribe(fn func(T)) Subscription {
	e := &entry[T]{fn: fn}
	s.entries = append(s.entries, e)
	return &handle[T]{src: s, e: e}
}

func (s *Source[T]) remove(e *entry[T]) {
	for i, cur := range s.entries {
		if cur == e {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			return
		}
	}
}

// Fire calls every handler subscribed at the moment of the call. Handlers
// released during dispatch are skipped.
func (s *Source[T]) Fire(v T) {
	snapshot := s.entries
	for _, e := range snapshot {
		if !e.released {
			e.fn(v)
		}
	}
}

// Len returns the number of live subscriptions.
func (s *Source[T]) Len() int { return len(s.entries) }

// Signal is a Source that carries no value.
type Signal = Source[struct{}]

// Notify fires a Signal.
func Notify(s *Signal) { s.Fire(struct{}{}) }
