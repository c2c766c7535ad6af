package generation

// Tracker remembers, per producer, the generation a consumer last acted on.
// A producer the tracker has never seen is stale.
type Tracker struct {
	seen map[Producer]uint64
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[Producer]uint64)}
}

func (t *Tracker) init() {
	if t.seen == nil {
		t.seen = make(map[Producer]uint64)
	}
}

// IsCurrent reports whether p has not been mutated since it was last marked
// current.
func (t *Tracker) IsCurrent(p Producer) bool {
	g, ok := t.seen[p]
	return ok && g == p.Generation()
}

// SetCurrent records p's live generation.
func (t *Tracker) SetCurrent(p Producer) {
	t.init()
	t.seen[p] = p.Generation()
}

// SetAllCurrent records the live generation of every producer.
func (t *Tracker) SetAllCurrent(ps ...Producer) {
	for _, p := range ps {
		t.SetCurrent(p)
	}
}

// AllCurrent reports whether every producer is current. An empty list is
// current.
func (t *Tracker) AllCurrent(ps ...Producer) bool {
	for _, p := range ps {
		if !t.IsCurrent(p) {
			return false
		}
	}
	return true
}

// Update runs fn when p is stale and marks p current. The generation is
// captured before fn runs, so a mutation made by fn leaves p stale.
func (t *Tracker) Update(p Producer, fn func()) bool {
	if t.IsCurrent(p) {
		return false
	}
	g := p.Generation()
	fn()
	t.init()
	t.seen[p] = g
	return true
}

// UpdateAll runs fn at most once when any producer is stale and then marks
// all of them current with the generations observed before fn ran.
func (t *Tracker) UpdateAll(ps []Producer, fn func()) bool {
	if t.AllCurrent(ps...) {
		return false
	}
	snapshot := make([]uint64, len(ps))
	for i, p := range ps {
		snapshot[i] = p.Generation()
	}
	fn()
	t.init()
	for i, p := range ps {
		t.seen[p] = snapshot[i]
	}
	return true
}

// Forget drops p so the tracker does not keep removed producers alive.
func (t *Tracker) Forget(p Producer) {
	delete(t.seen, p)
}

// Reset forgets every producer.
func (t *Tracker) Reset() {
	t.seen = make(map[Producer]uint64)
}

// Len returns the number of tracked producers.
func (t *Tracker) Len() int { return len(t.seen) }
