package model

import (
	"github.com/example/pixelpane/internal/event"
)

// FeatureSet is an ordered collection of features that also reports changes
// of its members. It carries the pointer events the viewer dispatches for
// its features.
type FeatureSet struct {
	Collection[*Feature]

	Name string

	// Changed fires with the member whose state changed.
	Changed      event.Source[*Feature]
	PointerEnter event.Source[*Feature]
	PointerLeave event.Source[*Feature]
	Click        event.Source[*Feature]

	members event.Group
}

// NewFeatureSet creates an empty set holding the given features.
func NewFeatureSet(name string, features ...*Feature) *FeatureSet {
	s := &FeatureSet{Name: name}
	s.init()
	s.Added.Subscribe(s.onAdd)
	s.Removed.Subscribe(s.onRemove)
	for _, f := range features {
		s.Add(f)
	}
	return s
}

func (s *FeatureSet) onAdd(f *Feature) {
	s.members.Add(f, f.Changed.Subscribe(func(struct{}) {
		s.gen.Bump()
		s.Changed.Fire(f)
	}))
}

func (s *FeatureSet) onRemove(f *Feature) {
	s.members.ReleaseTarget(f)
}

// NotifyPointerEnter fires PointerEnter when f belongs to the set.
func (s *FeatureSet) NotifyPointerEnter(f *Feature) {
	if s.Contains(f) {
		s.PointerEnter.Fire(f)
	}
}

// NotifyPointerLeave fires PointerLeave when f belongs to the set.
func (s *FeatureSet) NotifyPointerLeave(f *Feature) {
	if s.Contains(f) {
		s.PointerLeave.Fire(f)
	}
}

// NotifyClick fires Click when f belongs to the set.
func (s *FeatureSet) NotifyClick(f *Feature) {
	if s.Contains(f) {
		s.Click.Fire(f)
	}
}

// Release drops the subscriptions the set holds on its members.
func (s *FeatureSet) Release() {
	s.members.ReleaseAll()
}

// FeatureSets is the ordered list of sets shown by a viewer.
type FeatureSets struct {
	Collection[*FeatureSet]
}

// NewFeatureSets returns an empty list.
func NewFeatureSets() *FeatureSets {
	c := &FeatureSets{}
	c.init()
	return c
}

// Owner returns the set containing f.
func (c *FeatureSets) Owner(f *Feature) (*FeatureSet, bool) {
	if f == nil {
		return nil, false
	}
	return c.Find(func(s *FeatureSet) bool { return s.Contains(f) })
}
