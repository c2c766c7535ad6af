package generation

import "testing"

type entity struct {
	Counter
}

func newEntity() *entity {
	e := &entity{}
	e.Attach()
	return e
}

func TestCounterBump(t *testing.T) {
	e := newEntity()
	if g := e.Generation(); g != 0 {
		t.Fatalf("initial generation = %d, want 0", g)
	}
	for i := 1; i <= 5; i++ {
		e.Bump()
		if g := e.Generation(); g != uint64(i) {
			t.Fatalf("after %d bumps generation = %d", i, g)
		}
	}
}

func TestBumpUnattachedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	var c Counter
	c.Bump()
}

func TestTrackerUnknownIsStale(t *testing.T) {
	tr := NewTracker()
	e := newEntity()
	if tr.IsCurrent(e) {
		t.Fatalf("unknown producer reported current")
	}
	tr.SetCurrent(e)
	if !tr.IsCurrent(e) {
		t.Fatalf("producer not current after SetCurrent")
	}
	e.Bump()
	if tr.IsCurrent(e) {
		t.Fatalf("producer current after bump")
	}
}

func TestTrackerZeroValueUsable(t *testing.T) {
	var tr Tracker
	e := newEntity()
	calls := 0
	tr.Update(e, func() { calls++ })
	tr.Update(e, func() { calls++ })
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestUpdateRunsOnlyWhenStale(t *testing.T) {
	tr := NewTracker()
	e := newEntity()
	calls := 0
	fn := func() { calls++ }

	if !tr.Update(e, fn) {
		t.Fatalf("first update did not run")
	}
	if tr.Update(e, fn) {
		t.Fatalf("second update ran without mutation")
	}
	e.Bump()
	tr.Update(e, fn)
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestUpdateAllIsAllOrNothing(t *testing.T) {
	tr := NewTracker()
	a, b, c := newEntity(), newEntity(), newEntity()
	ps := []Producer{a, b, c}
	calls := 0
	fn := func() { calls++ }

	tr.UpdateAll(ps, fn)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	b.Bump()
	c.Bump()
	tr.UpdateAll(ps, fn)
	if calls != 2 {
		t.Fatalf("two stale producers ran fn %d times in total, want 2", calls)
	}
	if !tr.AllCurrent(a, b, c) {
		t.Fatalf("producers not all current after UpdateAll")
	}
	tr.UpdateAll(ps, fn)
	if calls != 2 {
		t.Fatalf("UpdateAll ran with nothing stale")
	}
}

func TestMutationDuringUpdateStaysStale(t *testing.T) {
	tr := NewTracker()
	e := newEntity()
	tr.Update(e, func() { e.Bump() })
	if tr.IsCurrent(e) {
		t.Fatalf("mutation inside fn was swallowed")
	}

	other := newEntity()
	tr.UpdateAll([]Producer{e, other}, func() { other.Bump() })
	if tr.IsCurrent(other) {
		t.Fatalf("mutation inside UpdateAll fn was swallowed")
	}
	if !tr.IsCurrent(e) {
		t.Fatalf("untouched producer should be current")
	}
}

func TestAllCurrentEmpty(t *testing.T) {
	tr := NewTracker()
	if !tr.AllCurrent() {
		t.Fatalf("empty producer list should be current")
	}
	if tr.UpdateAll(nil, func() { t.Fatalf("fn ran for empty list") }) {
		t.Fatalf("UpdateAll reported a run for empty list")
	}
}

func TestForget(t *testing.T) {
	tr := NewTracker()
	e := newEntity()
	tr.SetCurrent(e)
	tr.Forget(e)
	if tr.Len() != 0 || tr.IsCurrent(e) {
		t.Fatalf("forgotten producer still tracked")
	}
}
