package reactive

import "reflect"

// KeyValue is the property key tracked by cell reads (Ref and Computed).
const KeyValue = "value"

// KeyLength is the pseudo-key triggered by list operations that change the
// number of elements.
const KeyLength = "length"

type sizeKey struct{}
type iterateKey struct{}

// KeySize is the pseudo-key tracked by Map.Len and Set.Len. It is a sentinel
// type rather than a string so it can never collide with a real entry key.
var KeySize any = sizeKey{}

// KeyIterate is the pseudo-key tracked by enumeration over a Map or Set.
// Adding or removing any entry triggers it, invalidating anything that
// walked the whole collection.
var KeyIterate any = iterateKey{}

// depSet is an ordered set of effects dependent on one (target, key) pair.
// Order is insertion order of first tracking, which fixes the relative run
// order of dependents within a single Trigger call.
type depSet struct {
	effects []*Effect
}

func (d *depSet) add(e *Effect) bool {
	for _, existing := range d.effects {
		if existing == e {
			return false
		}
	}
	d.effects = append(d.effects, e)
	return true
}

func (d *depSet) remove(e *Effect) {
	for i, existing := range d.effects {
		if existing == e {
			d.effects = append(d.effects[:i], d.effects[i+1:]...)
			return
		}
	}
}

// Runtime owns the dependency graph and the wrapper-identity cache for one
// logical render tree. Construct one per tree with NewRuntime and pass it to
// every cell, container and effect that should participate in the same graph.
type Runtime struct {
	// deps maps target identity -> property key -> dependent effects.
	// Targets are always pointers (cells or container wrappers), so the
	// interface comparison is an identity comparison.
	deps map[any]map[any]*depSet

	// wrapCache maps the data pointer of a raw map/slice to its wrapper so
	// repeated wrapping returns the same instance. Keys are uintptrs and do
	// not keep the underlying data alive.
	wrapCache map[uintptr]any

	// stack is the active-effect call stack. The top entry is the effect
	// whose reads are currently being tracked.
	stack []*Effect

	nextID uint64
}

// NewRuntime creates an empty reactivity runtime.
func NewRuntime() *Runtime {
	return &Runtime{
		deps:      make(map[any]map[any]*depSet),
		wrapCache: make(map[uintptr]any),
	}
}

// Track registers the currently-running effect, if any, as a dependent of
// (target, key). No-op when no effect is active.
func (rt *Runtime) Track(target, key any) {
	e := rt.activeEffect()
	if e == nil || !e.active {
		return
	}

	keys := rt.deps[target]
	if keys == nil {
		keys = make(map[any]*depSet)
		rt.deps[target] = keys
	}
	set := keys[key]
	if set == nil {
		set = &depSet{}
		keys[key] = set
	}
	if set.add(e) {
		e.deps = append(e.deps, set)
	}
}

// Trigger re-runs (or hands to its scheduler) every effect dependent on
// (target, key). It iterates a snapshot of the dependency set so effects
// that re-track during the run cannot cause unbounded iteration. Effects
// already on the active stack are skipped.
func (rt *Runtime) Trigger(target, key any) {
	keys := rt.deps[target]
	if keys == nil {
		return
	}
	set := keys[key]
	if set == nil || len(set.effects) == 0 {
		return
	}

	snapshot := make([]*Effect, len(set.effects))
	copy(snapshot, set.effects)

	for _, e := range snapshot {
		if !e.active || rt.onStack(e) {
			continue
		}
		if e.scheduler != nil {
			e.scheduler()
		} else {
			e.Run()
		}
	}
}

// activeEffect returns the effect currently tracking reads, or nil.
func (rt *Runtime) activeEffect() *Effect {
	if len(rt.stack) == 0 {
		return nil
	}
	return rt.stack[len(rt.stack)-1]
}

// onStack reports whether e is anywhere on the active-effect call stack.
func (rt *Runtime) onStack(e *Effect) bool {
	for _, s := range rt.stack {
		if s == e {
			return true
		}
	}
	return false
}

func (rt *Runtime) allocID() uint64 {
	rt.nextID++
	return rt.nextID
}

// cachedWrapper returns the existing wrapper for the raw container value, if
// one was created before. The cache key is the container's data pointer.
func (rt *Runtime) cachedWrapper(raw any) (any, bool) {
	ptr := dataPointer(raw)
	if ptr == 0 {
		return nil, false
	}
	w, ok := rt.wrapCache[ptr]
	return w, ok
}

func (rt *Runtime) storeWrapper(raw, wrapper any) {
	if ptr := dataPointer(raw); ptr != 0 {
		rt.wrapCache[ptr] = wrapper
	}
}

// dataPointer returns the identity of a raw map or slice, or 0 for values
// without a stable data pointer (nil or empty slices included).
func dataPointer(raw any) uintptr {
	v := reflect.ValueOf(raw)
	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return 0
		}
		return v.Pointer()
	case reflect.Slice:
		if v.IsNil() || v.Cap() == 0 {
			return 0
		}
		return v.Pointer()
	default:
		return 0
	}
}
