package reactive

import "reflect"

// Object is a reactive wrapper around a string-keyed bag of values.
// Reads track the specific key; writes trigger it only on actual change.
// Nested raw containers are wrapped lazily, on first read, and cell values
// are unwrapped transparently.
type Object struct {
	rt  *Runtime
	raw map[string]any
}

// WrapObject wraps a raw map. Wrapping the same map twice returns the same
// wrapper, so downstream identity checks keep working.
func (rt *Runtime) WrapObject(raw map[string]any) *Object {
	if raw == nil {
		raw = make(map[string]any)
	}
	if w, ok := rt.cachedWrapper(raw); ok {
		if o, ok := w.(*Object); ok {
			return o
		}
	}
	o := &Object{rt: rt, raw: raw}
	rt.storeWrapper(raw, o)
	return o
}

// Get reads a key, tracking it.
func (o *Object) Get(key string) any {
	o.rt.Track(o, key)
	return o.rt.emerge(o.raw[key])
}

// Peek reads a key without tracking and without unwrapping.
func (o *Object) Peek(key string) any {
	return o.raw[key]
}

// Has reports key presence, tracking the key.
func (o *Object) Has(key string) bool {
	o.rt.Track(o, key)
	_, ok := o.raw[key]
	return ok
}

// Set writes a key. Writing the current value is a no-op. When the stored
// value is a cell, the write goes through the cell instead of replacing it.
func (o *Object) Set(key string, value any) {
	old, had := o.raw[key]
	if r, ok := old.(SettableCell); ok {
		if _, isCell := value.(cell); !isCell {
			r.SetAny(value)
			return
		}
	}
	if had && valueEqual(old, value) {
		return
	}
	o.raw[key] = value
	o.rt.Trigger(o, key)
	if !had {
		o.rt.Trigger(o, KeyIterate)
	}
}

// Delete removes a key, triggering it if present.
func (o *Object) Delete(key string) {
	if _, had := o.raw[key]; !had {
		return
	}
	delete(o.raw, key)
	o.rt.Trigger(o, key)
	o.rt.Trigger(o, KeyIterate)
}

// Keys returns all keys, tracking enumeration.
func (o *Object) Keys() []string {
	o.rt.Track(o, KeyIterate)
	keys := make([]string, 0, len(o.raw))
	for k := range o.raw {
		keys = append(keys, k)
	}
	return keys
}

// Raw returns the underlying map. Mutating it bypasses tracking.
func (o *Object) Raw() map[string]any {
	return o.raw
}

// SettableCell is a cell that accepts type-erased writes; only Ref
// implements it (Computed is read-only). Container writes and state
// seeding use it to store through an existing cell instead of replacing
// the cell itself.
type SettableCell interface {
	cell
	SetAny(v any)
}

// SetAny stores a type-erased value. Numeric values of a different Go type
// are converted (JSON round trips deliver every number as float64); other
// mismatched types are ignored.
func (r *Ref[T]) SetAny(v any) {
	if tv, ok := v.(T); ok {
		r.Set(tv)
		return
	}
	rv := reflect.ValueOf(v)
	target := reflect.TypeOf(r.value)
	if target == nil || !rv.IsValid() {
		return
	}
	if isNumericKind(rv.Kind()) && isNumericKind(target.Kind()) && rv.Type().ConvertibleTo(target) {
		if tv, ok := rv.Convert(target).Interface().(T); ok {
			r.Set(tv)
		}
	}
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// List is a reactive wrapper around a slice. Index reads track the index;
// length reads track KeyLength; structural mutations trigger KeyLength in
// addition to any index-specific trigger.
type List struct {
	rt  *Runtime
	raw []any
}

// WrapList wraps a raw slice. The wrapper owns the slice from then on;
// identity caching is keyed by the original backing array.
func (rt *Runtime) WrapList(raw []any) *List {
	if w, ok := rt.cachedWrapper(raw); ok {
		if l, ok := w.(*List); ok {
			return l
		}
	}
	l := &List{rt: rt, raw: raw}
	rt.storeWrapper(raw, l)
	return l
}

// Get reads the element at i, tracking the index.
func (l *List) Get(i int) any {
	l.rt.Track(l, i)
	if i < 0 || i >= len(l.raw) {
		return nil
	}
	return l.rt.emerge(l.raw[i])
}

// Set writes the element at i, equality-gated.
func (l *List) Set(i int, value any) {
	if i < 0 || i >= len(l.raw) {
		return
	}
	if valueEqual(l.raw[i], value) {
		return
	}
	l.raw[i] = value
	l.rt.Trigger(l, i)
}

// Len returns the element count, tracking KeyLength.
func (l *List) Len() int {
	l.rt.Track(l, KeyLength)
	return len(l.raw)
}

// Push appends values, triggering each newly occupied index and KeyLength.
func (l *List) Push(values ...any) {
	if len(values) == 0 {
		return
	}
	start := len(l.raw)
	l.raw = append(l.raw, values...)
	for i := start; i < len(l.raw); i++ {
		l.rt.Trigger(l, i)
	}
	l.rt.Trigger(l, KeyLength)
}

// Pop removes and returns the last element, triggering its index and
// KeyLength.
func (l *List) Pop() any {
	if len(l.raw) == 0 {
		return nil
	}
	last := l.raw[len(l.raw)-1]
	l.raw = l.raw[:len(l.raw)-1]
	l.rt.Trigger(l, len(l.raw))
	l.rt.Trigger(l, KeyLength)
	return last
}

// Insert places a value at index i, shifting later elements. Triggers every
// shifted index and KeyLength.
func (l *List) Insert(i int, value any) {
	if i < 0 || i > len(l.raw) {
		return
	}
	l.raw = append(l.raw, nil)
	copy(l.raw[i+1:], l.raw[i:])
	l.raw[i] = value
	for j := i; j < len(l.raw); j++ {
		l.rt.Trigger(l, j)
	}
	l.rt.Trigger(l, KeyLength)
}

// RemoveAt deletes the element at index i. Triggers every shifted index and
// KeyLength.
func (l *List) RemoveAt(i int) {
	if i < 0 || i >= len(l.raw) {
		return
	}
	copy(l.raw[i:], l.raw[i+1:])
	l.raw = l.raw[:len(l.raw)-1]
	for j := i; j <= len(l.raw); j++ {
		l.rt.Trigger(l, j)
	}
	l.rt.Trigger(l, KeyLength)
}

// Slice returns a copy of the elements, tracking KeyLength and every index.
func (l *List) Slice() []any {
	l.rt.Track(l, KeyLength)
	out := make([]any, len(l.raw))
	for i := range l.raw {
		l.rt.Track(l, i)
		out[i] = l.rt.emerge(l.raw[i])
	}
	return out
}

// Raw returns the underlying slice. Mutating it bypasses tracking.
func (l *List) Raw() []any {
	return l.raw
}

// Map is a reactive wrapper around an arbitrarily keyed map. Per-entry
// reads and writes track/trigger the specific key; Len goes through
// KeySize; enumeration goes through KeyIterate.
type Map struct {
	rt  *Runtime
	raw map[any]any
}

// WrapMap wraps a raw keyed map with identity caching.
func (rt *Runtime) WrapMap(raw map[any]any) *Map {
	if raw == nil {
		raw = make(map[any]any)
	}
	if w, ok := rt.cachedWrapper(raw); ok {
		if m, ok := w.(*Map); ok {
			return m
		}
	}
	m := &Map{rt: rt, raw: raw}
	rt.storeWrapper(raw, m)
	return m
}

// Get reads an entry, tracking its key.
func (m *Map) Get(key any) any {
	m.rt.Track(m, key)
	return m.rt.emerge(m.raw[key])
}

// Has reports entry presence, tracking the key.
func (m *Map) Has(key any) bool {
	m.rt.Track(m, key)
	_, ok := m.raw[key]
	return ok
}

// Set writes an entry. New keys additionally trigger KeySize and
// KeyIterate; overwrites are equality-gated and trigger only the key.
func (m *Map) Set(key, value any) {
	old, had := m.raw[key]
	if had && valueEqual(old, value) {
		return
	}
	m.raw[key] = value
	m.rt.Trigger(m, key)
	if !had {
		m.rt.Trigger(m, KeySize)
		m.rt.Trigger(m, KeyIterate)
	}
}

// Delete removes an entry, triggering its key, KeySize and KeyIterate.
func (m *Map) Delete(key any) {
	if _, had := m.raw[key]; !had {
		return
	}
	delete(m.raw, key)
	m.rt.Trigger(m, key)
	m.rt.Trigger(m, KeySize)
	m.rt.Trigger(m, KeyIterate)
}

// Len returns the entry count, tracking KeySize.
func (m *Map) Len() int {
	m.rt.Track(m, KeySize)
	return len(m.raw)
}

// ForEach visits every entry, tracking KeyIterate.
func (m *Map) ForEach(fn func(key, value any)) {
	m.rt.Track(m, KeyIterate)
	for k, v := range m.raw {
		fn(k, m.rt.emerge(v))
	}
}

// Raw returns the underlying map. Mutating it bypasses tracking.
func (m *Map) Raw() map[any]any {
	return m.raw
}

// Set is a reactive wrapper around a unique-value collection. Has tracks
// the specific value; enumeration tracks KeyIterate; Add/Delete trigger the
// value plus KeySize and KeyIterate.
type Set struct {
	rt  *Runtime
	raw map[any]struct{}
}

// NewSet creates an empty reactive set.
func (rt *Runtime) NewSet() *Set {
	return &Set{rt: rt, raw: make(map[any]struct{})}
}

// Add inserts a value; inserting a present value is a no-op.
func (s *Set) Add(value any) {
	if _, had := s.raw[value]; had {
		return
	}
	s.raw[value] = struct{}{}
	s.rt.Trigger(s, value)
	s.rt.Trigger(s, KeySize)
	s.rt.Trigger(s, KeyIterate)
}

// Delete removes a value if present.
func (s *Set) Delete(value any) {
	if _, had := s.raw[value]; !had {
		return
	}
	delete(s.raw, value)
	s.rt.Trigger(s, value)
	s.rt.Trigger(s, KeySize)
	s.rt.Trigger(s, KeyIterate)
}

// Has reports membership, tracking the value.
func (s *Set) Has(value any) bool {
	s.rt.Track(s, value)
	_, ok := s.raw[value]
	return ok
}

// Len returns the member count, tracking KeySize.
func (s *Set) Len() int {
	s.rt.Track(s, KeySize)
	return len(s.raw)
}

// Values returns all members, tracking KeyIterate.
func (s *Set) Values() []any {
	s.rt.Track(s, KeyIterate)
	out := make([]any, 0, len(s.raw))
	for v := range s.raw {
		out = append(out, v)
	}
	return out
}

// emerge converts a stored value into what a reader should see: cells are
// unwrapped (and tracked), raw containers are wrapped lazily, everything
// else passes through. Wrapping happens only on read, so the up-front cost
// of WrapObject is O(1) regardless of nesting depth.
func (rt *Runtime) emerge(v any) any {
	switch tv := v.(type) {
	case cell:
		return tv.getAny()
	case *Object, *List, *Map, *Set:
		return tv
	case map[string]any:
		return rt.WrapObject(tv)
	case map[any]any:
		return rt.WrapMap(tv)
	case []any:
		return rt.WrapList(tv)
	default:
		return v
	}
}
