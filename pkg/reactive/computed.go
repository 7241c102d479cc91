package reactive

// Computed is a read-only cell whose value is produced by a getter and
// cached until any of the getter's dependencies change.
//
// Invalidation is itself an effect: its scheduler flips a dirty flag and
// propagates a single trigger to the computed cell's own dependents.
// Recomputation happens lazily on the next read, so N upstream writes
// between reads cost one recomputation, independent of dependent count.
type Computed[T any] struct {
	rt     *Runtime
	getter func() T
	value  T
	dirty  bool
	eff    *Effect
}

// NewComputed creates a computed cell. The getter does not run until the
// first read.
func NewComputed[T any](rt *Runtime, getter func() T) *Computed[T] {
	c := &Computed[T]{rt: rt, getter: getter, dirty: true}
	c.eff = rt.NewEffect(func() {
		c.value = c.getter()
	}, Lazy(), WithScheduler(func() {
		if !c.dirty {
			c.dirty = true
			rt.Trigger(c, KeyValue)
		}
	}))
	return c
}

// Get returns the cached value, recomputing first if any dependency changed
// since the last read. The active effect is tracked as a dependent.
func (c *Computed[T]) Get() T {
	c.rt.Track(c, KeyValue)
	if c.dirty {
		c.dirty = false
		c.eff.Run()
	}
	return c.value
}

// Peek returns the value without tracking, still recomputing when dirty.
func (c *Computed[T]) Peek() T {
	if c.dirty {
		c.dirty = false
		c.eff.Run()
	}
	return c.value
}

// Stop detaches the computed cell from its dependencies. Subsequent reads
// return the last cached value.
func (c *Computed[T]) Stop() {
	c.eff.Stop()
}

func (c *Computed[T]) getAny() any  { return c.Get() }
func (c *Computed[T]) peekAny() any { return c.Peek() }
