package event

// Group keeps subscriptions filed under the object they listen to so they can
// be dropped together when that object goes away.
type Group struct {
	subs map[any][]Subscription
}

// Add files sub under target.
func (g *Group) Add(target any, sub Subscription) *Group {
	if g.subs == nil {
		g.subs = make(map[any][]Subscription)
	}
	g.subs[target] = append(g.subs[target], sub)
	return g
}

// ReleaseTarget releases every subscription filed under target.
func (g *Group) ReleaseTarget(target any) {
	for _, s := range g.subs[target] {
		s.Release()
	}
	delete(g.subs, target)
}

// ReleaseAll releases everything.
func (g *Group) ReleaseAll() {
	for target := range g.subs {
		g.ReleaseTarget(target)
	}
}

// Len returns the number of targets with live subscriptions.
func (g *Group) Len() int { return len(g.subs) }
