package reactive

// Effect is a tracked computation. Running it records every (target, key)
// pair read during the run; a later Trigger on any of those pairs re-runs
// the effect, or calls its scheduler instead when one is configured.
//
// A scheduler decouples "something this effect read has changed" from
// "run the effect now". The component render effect uses this to coalesce
// state writes into a single queued update instead of re-rendering
// synchronously inside an unrelated write.
type Effect struct {
	id uint64
	rt *Runtime

	fn        func()
	scheduler func()

	// deps are the dependency sets this effect currently belongs to.
	// Cleared and rebuilt on every run.
	deps []*depSet

	// active is false once the effect has been stopped. A stopped effect
	// still runs its function when asked, but untracked, and can never be
	// triggered again.
	active bool

	// lazy skips the initial run at creation time.
	lazy bool
}

// EffectOption configures an Effect at creation time.
type EffectOption func(*Effect)

// WithScheduler makes triggers call fn instead of re-running the effect.
func WithScheduler(fn func()) EffectOption {
	return func(e *Effect) {
		e.scheduler = fn
	}
}

// Lazy skips the initial run. The caller is expected to call Run itself;
// Computed uses this to defer the first computation until the first read.
func Lazy() EffectOption {
	return func(e *Effect) {
		e.lazy = true
	}
}

// NewEffect creates an effect and runs it immediately unless Lazy was given.
func (rt *Runtime) NewEffect(fn func(), opts ...EffectOption) *Effect {
	e := &Effect{
		id:     rt.allocID(),
		rt:     rt,
		fn:     fn,
		active: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if !e.lazy {
		e.Run()
	}
	return e
}

// Run executes the effect function with this effect as the currently
// tracking effect. Re-entrant runs of an effect already on the call stack
// are a no-op. Stopped effects run untracked.
func (e *Effect) Run() {
	if !e.active {
		e.fn()
		return
	}
	if e.rt.onStack(e) {
		return
	}

	e.cleanupDeps()
	e.rt.stack = append(e.rt.stack, e)
	defer func() {
		e.rt.stack = e.rt.stack[:len(e.rt.stack)-1]
	}()
	e.fn()
}

// Stop removes the effect from every dependency set and marks it
// permanently inert. No trigger after this point can resurrect it.
func (e *Effect) Stop() {
	if !e.active {
		return
	}
	e.cleanupDeps()
	e.active = false
}

// Active reports whether the effect can still be triggered.
func (e *Effect) Active() bool {
	return e.active
}

// ID returns the runtime-unique identifier of this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// cleanupDeps removes the effect from every set it belongs to. Called
// before each run so membership always reflects the most recent run only.
func (e *Effect) cleanupDeps() {
	for _, set := range e.deps {
		set.remove(e)
	}
	e.deps = e.deps[:0]
}
