package vdom

import (
	"github.com/conradklek/webs/pkg/reactive"
)

// Mode selects how an instance attaches its first subtree.
type Mode uint8

const (
	// ModeClient creates host nodes for the initial subtree.
	ModeClient Mode = iota
	// ModeHydrate walks an existing host tree and binds to it.
	ModeHydrate
	// ModeString renders once, synchronously, with no render effect.
	ModeString
)

type hookKind uint8

const (
	hookBeforeMount hookKind = iota
	hookMounted
	hookBeforeUpdate
	hookUpdated
	hookUnmounted
	hookCount
)

// Provides is an explicit layered lookup chain for context injection. Each
// component that provides values gets its own layer pointing at the
// parent's, so a child sees everything an ancestor exposed and can shadow
// it locally.
type Provides struct {
	parent *Provides
	values map[string]any
}

// Lookup walks the chain from the nearest layer outward.
func (p *Provides) Lookup(key string) (any, bool) {
	for layer := p; layer != nil; layer = layer.parent {
		if layer.values != nil {
			if v, ok := layer.values[key]; ok {
				return v, true
			}
		}
	}
	return nil, false
}

// Instance is a live component: a definition bound to resolved props, a
// parent-scoped injection chain, lifecycle hooks and a render effect.
type Instance struct {
	env     *Env
	patcher *Patcher
	vnode   *VNode
	def     *Definition
	parent  *Instance
	mode    Mode

	// Props holds values declared in the definition's schema, as a
	// reactive object so setup code can subscribe to them.
	Props    *reactive.Object
	rawProps map[string]any

	// Attrs holds everything the caller passed that the schema does not
	// declare; merged onto the rendered root unless it is a fragment.
	Attrs map[string]any

	// Slots holds the caller-supplied children; key "" is the default slot.
	Slots map[string][]*VNode

	provides *Provides

	// state is the merged bag: props, then the setup return, then the
	// externally supplied snapshot seeded into any cells it names.
	state    *reactive.Object
	rawState map[string]any
	seed     map[string]any

	hooks   [hookCount][]func()
	inSetup bool

	renderFn RenderFunc
	ctx      *RenderContext

	subTree       *VNode
	isMounted     bool
	updatePending bool
	effect        *reactive.Effect

	// attach position for ModeClient, recomputed at update time.
	container any
	anchor    any

	// hydration cursor for ModeHydrate.
	hydrateFrom   any
	hydrateParent any
	nextNode      any
}

// NewInstance constructs an instance for a component vnode. The patcher may
// be nil for ModeString; seed is the externally supplied initial-state
// snapshot (usually only set on the hydration root).
func NewInstance(env *Env, patcher *Patcher, vnode *VNode, parent *Instance, mode Mode, seed map[string]any) *Instance {
	inst := &Instance{
		env:     env,
		patcher: patcher,
		vnode:   vnode,
		def:     vnode.Def,
		parent:  parent,
		mode:    mode,
		seed:    seed,
	}
	if parent != nil {
		inst.provides = parent.provides
	}
	vnode.Component = inst
	return inst
}

// Name returns the definition name the instance was created from.
func (inst *Instance) Name() string { return inst.def.Name }

// ProvideRoot installs an injection layer above the instance, for values
// supplied by the embedding application rather than an ancestor component.
func (inst *Instance) ProvideRoot(values map[string]any) {
	if len(values) == 0 {
		return
	}
	inst.provides = &Provides{parent: inst.provides, values: values}
}

// RunSetup partitions incoming properties, runs the definition's setup
// function, assembles the state bag and resolves the render function.
func (inst *Instance) RunSetup() {
	inst.partitionProps(inst.vnode.Props)
	inst.Slots = slotsOf(inst.vnode)
	inst.Props = inst.env.Runtime.WrapObject(inst.rawProps)

	var setupResult map[string]any
	if inst.def.Setup != nil {
		inst.inSetup = true
		setupResult = inst.def.Setup(inst.Props, &SetupContext{inst: inst})
		inst.inSetup = false
	}

	inst.rawState = make(map[string]any, len(inst.rawProps)+len(setupResult))
	for k, v := range inst.rawProps {
		inst.rawState[k] = v
	}
	for k, v := range setupResult {
		inst.rawState[k] = v
	}
	// Seed values land inside existing cells where possible, so the
	// reactive wiring set up by the component survives state restoration.
	for k, v := range inst.seed {
		if existing, ok := inst.rawState[k]; ok {
			if c, ok := existing.(reactive.SettableCell); ok {
				c.SetAny(v)
				continue
			}
		}
		inst.rawState[k] = v
	}

	inst.state = inst.env.Runtime.WrapObject(inst.rawState)
	inst.ctx = &RenderContext{inst: inst}
	inst.renderFn = inst.env.renderFunc(inst.def)
}

// partitionProps splits incoming values into declared props (with schema
// defaults applied) and fallthrough attrs.
func (inst *Instance) partitionProps(incoming Props) {
	inst.rawProps = make(map[string]any, len(inst.def.Props))
	attrs := make(map[string]any)

	for name, schema := range inst.def.Props {
		if v, ok := incoming[name]; ok {
			inst.rawProps[name] = v
		} else {
			inst.rawProps[name] = schema.Default
		}
	}
	for name, v := range incoming {
		if name == "key" {
			continue
		}
		if _, declared := inst.def.Props[name]; declared {
			continue
		}
		attrs[name] = v
	}
	inst.Attrs = attrs
}

// applyProps re-partitions props from an updated vnode and writes changed
// declared values through the reactive props and state objects.
func (inst *Instance) applyProps(n *VNode) {
	incoming := n.Props
	for name, schema := range inst.def.Props {
		next, ok := incoming[name]
		if !ok {
			next = schema.Default
		}
		inst.rawProps[name] = next
		inst.Props.Set(name, next)
		inst.state.Set(name, next)
	}
	attrs := make(map[string]any)
	for name, v := range incoming {
		if name == "key" {
			continue
		}
		if _, declared := inst.def.Props[name]; declared {
			continue
		}
		attrs[name] = v
	}
	inst.Attrs = attrs
	inst.Slots = slotsOf(n)
}

// renderOnce renders the subtree and merges fallthrough attributes onto a
// non-fragment root.
func (inst *Instance) renderOnce() *VNode {
	tree := inst.renderFn(inst.ctx)
	if tree == nil {
		tree = Comment("")
	}
	if len(inst.Attrs) > 0 && tree.Kind != KindFragment {
		if tree.Props == nil {
			tree.Props = make(Props, len(inst.Attrs))
		}
		for k, v := range inst.Attrs {
			if _, explicit := tree.Props[k]; !explicit {
				tree.Props[k] = v
			}
		}
	}
	return tree
}

// RenderOnce renders the subtree a single time with no effect attached.
// This is the ModeString path used by the string renderer.
func (inst *Instance) RenderOnce() *VNode {
	return inst.renderOnce()
}

// StateSnapshot returns a plain copy of the resolved state bag with cell
// values unwrapped, suitable for serialization. Function values are
// behavior, not state; they never serialize.
func (inst *Instance) StateSnapshot() map[string]any {
	out := make(map[string]any, len(inst.rawState))
	for k, v := range inst.rawState {
		v = reactive.Unwrap(v)
		if isFunc(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func (inst *Instance) invokeHooks(kind hookKind) {
	for _, fn := range inst.hooks[kind] {
		fn()
	}
}

func (inst *Instance) addHook(kind hookKind, fn func()) {
	if !inst.inSetup {
		inst.env.Log.Warn().Str("component", inst.def.Name).
			Msg("lifecycle hook registered outside setup; ignored")
		return
	}
	inst.hooks[kind] = append(inst.hooks[kind], fn)
}

// slotsOf collects a component vnode's children into the default slot.
func slotsOf(n *VNode) map[string][]*VNode {
	if len(n.Children) == 0 {
		return nil
	}
	return map[string][]*VNode{"": n.Children}
}

// SetupContext is handed to a component's setup function. Its methods are
// only valid during setup.
type SetupContext struct {
	inst *Instance
}

// Runtime returns the reactivity runtime the instance belongs to; setup
// code uses it to create refs and computed cells on the right graph.
func (c *SetupContext) Runtime() *reactive.Runtime {
	return c.inst.env.Runtime
}

// Attrs returns the fallthrough attributes.
func (c *SetupContext) Attrs() map[string]any {
	return c.inst.Attrs
}

// Slots returns the caller-supplied children keyed by slot name.
func (c *SetupContext) Slots() map[string][]*VNode {
	return c.inst.Slots
}

// Provide exposes a value to this component's descendants, shadowing any
// ancestor value under the same key.
func (c *SetupContext) Provide(key string, value any) {
	inst := c.inst
	var parentChain *Provides
	if inst.parent != nil {
		parentChain = inst.parent.provides
	}
	if inst.provides == nil || inst.provides == parentChain {
		inst.provides = &Provides{parent: parentChain, values: make(map[string]any)}
	}
	inst.provides.values[key] = value
}

// Inject resolves a value provided by the nearest ancestor, or fallback.
func (c *SetupContext) Inject(key string, fallback any) any {
	if v, ok := c.inst.provides.Lookup(key); ok {
		return v
	}
	return fallback
}

// OnBeforeMount registers a hook run before the first render attaches.
func (c *SetupContext) OnBeforeMount(fn func()) { c.inst.addHook(hookBeforeMount, fn) }

// OnMounted registers a hook run after the subtree is attached.
func (c *SetupContext) OnMounted(fn func()) { c.inst.addHook(hookMounted, fn) }

// OnBeforeUpdate registers a hook run before each re-render.
func (c *SetupContext) OnBeforeUpdate(fn func()) { c.inst.addHook(hookBeforeUpdate, fn) }

// OnUpdated registers a hook run after each re-render is reconciled.
func (c *SetupContext) OnUpdated(fn func()) { c.inst.addHook(hookUpdated, fn) }

// OnUnmounted registers a hook run when the instance is torn down.
func (c *SetupContext) OnUnmounted(fn func()) { c.inst.addHook(hookUnmounted, fn) }

// RenderContext is the object template-generated code renders against.
// Bare identifiers resolve through a fixed order: local components first
// (precomputed per definition), then the state bag, the injection chain,
// and finally app globals.
type RenderContext struct {
	inst *Instance
}

// Get resolves a bare identifier.
func (c *RenderContext) Get(name string) any {
	inst := c.inst
	if def := inst.def.componentFor(name); def != nil {
		return def
	}
	if inst.state.Has(name) {
		return inst.state.Get(name)
	}
	if v, ok := inst.provides.Lookup(name); ok {
		return v
	}
	if v, ok := inst.env.Globals[name]; ok {
		return v
	}
	if def, ok := inst.env.Components[name]; ok {
		return def
	}
	return nil
}

// Set writes into the state bag.
func (c *RenderContext) Set(name string, value any) {
	c.inst.state.Set(name, value)
}

// State returns the merged reactive state bag.
func (c *RenderContext) State() *reactive.Object {
	return c.inst.state
}

// Slot returns the content of a named slot; "" is the default slot.
func (c *RenderContext) Slot(name string) []*VNode {
	return c.inst.Slots[name]
}

// ComponentDef resolves a child component definition by tag name, checking
// the definition's own registry before the app-level one.
func (c *RenderContext) ComponentDef(name string) *Definition {
	if def := c.inst.def.componentFor(name); def != nil {
		return def
	}
	return c.inst.env.Components[name]
}
