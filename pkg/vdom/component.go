package vdom

import "github.com/conradklek/webs/pkg/reactive"

// patchComponent mounts a fresh instance or carries the existing one over
// and re-renders it with the new props.
func (p *Patcher) patchComponent(old, new *VNode, container, anchor any, parent *Instance) {
	if old == nil {
		p.mountComponent(new, container, anchor, parent)
		return
	}

	inst := old.Component
	new.Component = inst
	inst.vnode = new
	prevAttrs := inst.Attrs
	inst.applyProps(new)

	// Declared prop writes queue an update through the reactive graph, but
	// fallthrough attrs bypass it; an attrs-only change still has to reach
	// the rendered root, so it forces an update directly.
	if !inst.updatePending && !attrsEqual(prevAttrs, inst.Attrs) {
		inst.updatePending = true
	}
	// Running the effect now keeps parent and child in the same flush.
	if inst.updatePending {
		inst.updatePending = false
		inst.effect.Run()
	}
}

// mountComponent sets up a new instance and attaches its first subtree
// through a render effect, so later state changes re-render it.
func (p *Patcher) mountComponent(n *VNode, container, anchor any, parent *Instance) {
	var seed map[string]any
	if parent == nil {
		seed = p.rootSeed
		p.rootSeed = nil
	}

	inst := NewInstance(p.env, p, n, parent, ModeClient, seed)
	if parent == nil {
		inst.ProvideRoot(p.rootProvides)
		p.rootProvides = nil
	}
	inst.RunSetup()
	inst.container = container
	inst.anchor = anchor
	p.setupRenderEffect(inst)
}

// setupRenderEffect wires the instance's render into the dependency graph.
// The first run mounts; every later run diffs the previous subtree. A
// scheduler queues re-runs on the patcher, collapsing multiple triggers
// into one update per flush.
func (p *Patcher) setupRenderEffect(inst *Instance) {
	inst.effect = p.env.Runtime.NewEffect(func() {
		if !inst.isMounted {
			inst.invokeHooks(hookBeforeMount)
			subTree := inst.renderOnce()
			inst.subTree = subTree
			if inst.mode == ModeHydrate {
				p.hydrateSubTree(inst, subTree)
			} else {
				p.patch(nil, subTree, inst.container, inst.anchor, inst)
			}
			inst.isMounted = true
			inst.invokeHooks(hookMounted)
			return
		}
		p.componentUpdate(inst)
	}, reactive.WithScheduler(func() {
		if inst.updatePending {
			return
		}
		inst.updatePending = true
		p.queue = append(p.queue, inst)
	}))
}

// componentUpdate re-renders a mounted instance and reconciles against the
// previous subtree.
func (p *Patcher) componentUpdate(inst *Instance) {
	inst.invokeHooks(hookBeforeUpdate)
	prev := inst.subTree
	next := inst.renderOnce()
	inst.subTree = next
	p.patch(prev, next, p.containerOf(prev, inst), nil, inst)
	inst.invokeHooks(hookUpdated)
}

// containerOf finds the host container the previous subtree lives in, so
// replacement nodes insert next to the old ones rather than appended to
// the original mount container.
func (p *Patcher) containerOf(prev *VNode, inst *Instance) any {
	if prev != nil {
		if host := prev.HostNode(); host != nil {
			if parent := p.host.Parent(host); parent != nil {
				return parent
			}
		}
	}
	return inst.container
}
