package reactive

import "reflect"

// cell is the type-erased view of a value container. Container reads use it
// to unwrap Ref and Computed values transparently.
type cell interface {
	// getAny tracks the cell and returns its inner value.
	getAny() any
	// peekAny returns the inner value without tracking.
	peekAny() any
}

// Ref is a single trackable value cell. Reads track the cell's "value" key;
// writes trigger dependents only when the new value actually differs.
type Ref[T any] struct {
	rt    *Runtime
	value T
	equal func(T, T) bool
}

// NewRef creates a cell holding the initial value.
func NewRef[T any](rt *Runtime, initial T) *Ref[T] {
	return &Ref[T]{rt: rt, value: initial}
}

// Get returns the current value, tracking the active effect.
func (r *Ref[T]) Get() T {
	r.rt.Track(r, KeyValue)
	return r.value
}

// Peek returns the current value without creating a dependency.
func (r *Ref[T]) Peek() T {
	return r.value
}

// Set stores a new value and triggers dependents if it differs from the
// current one. The comparison is a reference/value inequality test, not a
// deep structural diff of wrapped containers.
func (r *Ref[T]) Set(value T) {
	if r.equals(r.value, value) {
		return
	}
	r.value = value
	r.rt.Trigger(r, KeyValue)
}

// Update applies fn to the current value and stores the result.
func (r *Ref[T]) Update(fn func(T) T) {
	r.Set(fn(r.value))
}

// WithEquals overrides the equality test used to gate writes.
func (r *Ref[T]) WithEquals(fn func(T, T) bool) *Ref[T] {
	r.equal = fn
	return r
}

func (r *Ref[T]) equals(a, b T) bool {
	if r.equal != nil {
		return r.equal(a, b)
	}
	return defaultEquals(a, b)
}

func (r *Ref[T]) getAny() any  { return r.Get() }
func (r *Ref[T]) peekAny() any { return r.value }

// Unwrap returns the inner value if v is a cell, untracked; otherwise v.
func Unwrap(v any) any {
	if c, ok := v.(cell); ok {
		return c.peekAny()
	}
	return v
}

// defaultEquals provides type-appropriate equality: == for the common
// comparable kinds, reflect.DeepEqual for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case nil:
		return any(b) == nil
	case int:
		bv, ok := any(b).(int)
		return ok && av == bv
	case int8:
		bv, ok := any(b).(int8)
		return ok && av == bv
	case int16:
		bv, ok := any(b).(int16)
		return ok && av == bv
	case int32:
		bv, ok := any(b).(int32)
		return ok && av == bv
	case int64:
		bv, ok := any(b).(int64)
		return ok && av == bv
	case uint:
		bv, ok := any(b).(uint)
		return ok && av == bv
	case uint8:
		bv, ok := any(b).(uint8)
		return ok && av == bv
	case uint16:
		bv, ok := any(b).(uint16)
		return ok && av == bv
	case uint32:
		bv, ok := any(b).(uint32)
		return ok && av == bv
	case uint64:
		bv, ok := any(b).(uint64)
		return ok && av == bv
	case float32:
		bv, ok := any(b).(float32)
		return ok && av == bv
	case float64:
		bv, ok := any(b).(float64)
		return ok && av == bv
	case string:
		bv, ok := any(b).(string)
		return ok && av == bv
	case bool:
		bv, ok := any(b).(bool)
		return ok && av == bv
	default:
		return sameIdentityOrDeepEqual(any(a), any(b))
	}
}

// valueEqual is the untyped form of defaultEquals used by containers.
func valueEqual(a, b any) bool {
	return defaultEquals(a, b)
}

// sameIdentityOrDeepEqual treats pointer-like values as equal only when they
// are the same reference; other values fall back to reflect.DeepEqual.
func sameIdentityOrDeepEqual(a, b any) bool {
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() {
		return av.IsValid() == bv.IsValid()
	}
	switch av.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		if bv.Kind() != av.Kind() {
			return false
		}
		if av.IsNil() || bv.IsNil() {
			return av.IsNil() == bv.IsNil()
		}
		return av.Pointer() == bv.Pointer()
	}
	return reflect.DeepEqual(a, b)
}
