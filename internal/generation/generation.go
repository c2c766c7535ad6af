// Package generation tracks mutations of viewer entities with monotonically
// increasing counters and lets consumers memoise work against them.
package generation

// Producer is anything whose state can be observed through a generation
// number. Two producers are the same producer when they are the same pointer.
type Producer interface {
	Generation() uint64
}

// Counter is embedded in a trackable entity. The zero value is unattached;
// Attach must run once in the entity's constructor.
type Counter struct {
	value    uint64
	attached bool
}

// Attach starts the counter at zero.
func (c *Counter) Attach() {
	c.value = 0
	c.attached = true
}

// Attached reports whether Attach has run.
func (c *Counter) Attached() bool { return c.attached }

// Bump records a mutation. Bumping an unattached counter panics.
func (c *Counter) Bump() {
	if !c.attached {
		panic("generation: bump on unattached counter")
	}
	c.value++
}

// Generation returns the live value.
func (c *Counter) Generation() uint64 { return c.value }
