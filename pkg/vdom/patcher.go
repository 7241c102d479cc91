package vdom

import (
	"fmt"
	"reflect"
)

// Patcher diffs virtual-node trees and converges the host tree through
// Host operations. One Patcher drives one render tree.
type Patcher struct {
	env  *Env
	host Host

	// queue holds instances whose render effect was triggered. Flush
	// drains it; nothing re-renders synchronously inside a state write.
	queue []*Instance

	// rootSeed and rootProvides configure the next root component mount
	// (initial-state snapshot and payload context values).
	rootSeed     map[string]any
	rootProvides map[string]any

	hyd *hydrator
}

// NewPatcher creates a patch engine bound to an environment and a host.
func NewPatcher(env *Env, host Host) *Patcher {
	return &Patcher{env: env, host: host}
}

// Env returns the patcher's environment.
func (p *Patcher) Env() *Env { return p.env }

// Host returns the host binding.
func (p *Patcher) Host() Host { return p.host }

// SetRootSeed supplies the initial-state snapshot for the next root
// component mount (the client side of the SSR round trip).
func (p *Patcher) SetRootSeed(seed map[string]any) { p.rootSeed = seed }

// SetRootProvides supplies values injected above the root component.
func (p *Patcher) SetRootProvides(values map[string]any) { p.rootProvides = values }

// Mount attaches a fresh tree into container.
func (p *Patcher) Mount(n *VNode, container any) {
	p.patch(nil, n, container, nil, nil)
}

// Patch converges the host tree from old to new inside container.
func (p *Patcher) Patch(old, new *VNode, container, anchor any) {
	p.patch(old, new, container, anchor, nil)
}

// Unmount tears down a mounted tree.
func (p *Patcher) Unmount(n *VNode) {
	p.unmount(n)
}

// Flush runs every queued component update. Call it after event handlers
// or any batch of state writes. Updates scheduled while flushing run in
// the same call.
func (p *Patcher) Flush() {
	for len(p.queue) > 0 {
		queue := p.queue
		p.queue = nil
		for _, inst := range queue {
			inst.updatePending = false
			if inst.effect.Active() {
				inst.effect.Run()
			}
		}
	}
}

// HasPendingUpdates reports whether any instance update is queued.
func (p *Patcher) HasPendingUpdates() bool {
	return len(p.queue) > 0
}

// patch reconciles one (old, new) pair. A nil old mounts new from scratch.
func (p *Patcher) patch(old, new *VNode, container, anchor any, parent *Instance) {
	if new == nil {
		if old != nil {
			p.unmount(old)
		}
		return
	}
	if old != nil && !sameVNode(old, new) {
		// Incompatible discriminators: no host-node reuse across types.
		anchor = p.nextHostNode(old)
		p.unmount(old)
		old = nil
	}

	switch new.Kind {
	case KindText:
		p.patchText(old, new, container, anchor)
	case KindComment:
		p.patchComment(old, new, container, anchor)
	case KindFragment:
		p.patchFragment(old, new, container, anchor, parent)
	case KindTeleport:
		p.patchTeleport(old, new, parent)
	case KindElement:
		p.patchElement(old, new, container, anchor, parent)
	case KindComponent:
		p.patchComponent(old, new, container, anchor, parent)
	}
}

func (p *Patcher) patchText(old, new *VNode, container, anchor any) {
	if old == nil {
		new.El = p.host.CreateText(new.Text)
		p.host.Insert(new.El, container, anchor)
		return
	}
	new.El = old.El
	if old.Text != new.Text {
		p.host.SetText(new.El, new.Text)
	}
}

func (p *Patcher) patchComment(old, new *VNode, container, anchor any) {
	if old == nil {
		new.El = p.host.CreateComment(new.Text)
		p.host.Insert(new.El, container, anchor)
		return
	}
	new.El = old.El
	if old.Text != new.Text {
		p.host.SetText(new.El, new.Text)
	}
}

// patchFragment has no host node of its own; children reconcile against
// the same container.
func (p *Patcher) patchFragment(old, new *VNode, container, anchor any, parent *Instance) {
	if old == nil {
		for _, c := range new.Children {
			p.patch(nil, c, container, anchor, parent)
		}
		return
	}
	// Growth must land before whatever follows the fragment, not at the
	// container's end. The node after the old output is still in place
	// here, so it becomes the anchor for every fresh mount below.
	if next := p.nextHostNode(old); next != nil {
		anchor = next
	}
	p.patchChildren(old.Children, new.Children, container, anchor, parent)
}

// patchTeleport reconciles children against the container resolved from
// the "to" selector. An unresolvable target is non-fatal: nothing renders
// there and the failure is logged.
func (p *Patcher) patchTeleport(old, new *VNode, parent *Instance) {
	selector, _ := new.Props["to"].(string)
	target := p.host.QuerySelector(selector)
	if target == nil {
		p.env.Log.Warn().Str("target", selector).Msg("teleport target not found")
		return
	}
	if old == nil {
		for _, c := range new.Children {
			p.patch(nil, c, target, nil, parent)
		}
		return
	}
	p.patchChildren(old.Children, new.Children, target, nil, parent)
}

func (p *Patcher) patchElement(old, new *VNode, container, anchor any, parent *Instance) {
	if old == nil {
		p.mountElement(new, container, anchor, parent)
		return
	}

	el := old.El
	new.El = el
	p.patchProps(el, old.Props, new.Props)

	// Single-string children replace the element's text content outright.
	if new.Text != "" || (old.Text != "" && len(new.Children) == 0) {
		if len(old.Children) > 0 {
			for _, c := range old.Children {
				p.unmount(c)
			}
		}
		if old.Text != new.Text {
			p.host.SetElementText(el, new.Text)
		}
		return
	}
	if old.Text != "" {
		// Old text content gives way to an array of children.
		p.host.SetElementText(el, "")
		for _, c := range new.Children {
			p.patch(nil, c, el, nil, parent)
		}
		return
	}

	p.patchChildren(old.Children, new.Children, el, nil, parent)
}

func (p *Patcher) mountElement(n *VNode, container, anchor any, parent *Instance) {
	el := p.host.CreateElement(n.Tag)
	n.El = el
	for key, value := range n.Props {
		if key == "key" {
			continue
		}
		p.host.PatchProp(el, key, nil, value)
	}
	if n.Text != "" {
		p.host.SetElementText(el, n.Text)
	} else {
		for _, c := range n.Children {
			p.patch(nil, c, el, nil, parent)
		}
	}
	p.host.Insert(el, container, anchor)
}

// patchProps sets only keys whose value changed and removes keys absent
// from the new props.
func (p *Patcher) patchProps(el any, oldProps, newProps Props) {
	for key, next := range newProps {
		if key == "key" {
			continue
		}
		prev := oldProps[key]
		if !propsEqual(prev, next) {
			p.host.PatchProp(el, key, prev, next)
		}
	}
	for key, prev := range oldProps {
		if key == "key" {
			continue
		}
		if _, kept := newProps[key]; !kept {
			p.host.PatchProp(el, key, prev, nil)
		}
	}
}

// patchChildren dispatches children reconciliation: empty lists mount or
// unmount wholesale; any explicit key selects the keyed algorithm.
func (p *Patcher) patchChildren(oldCh, newCh []*VNode, container, anchor any, parent *Instance) {
	switch {
	case len(newCh) == 0:
		for _, c := range oldCh {
			p.unmount(c)
		}
	case len(oldCh) == 0:
		for _, c := range newCh {
			p.patch(nil, c, container, anchor, parent)
		}
	case hasKeys(newCh):
		p.patchKeyedChildren(oldCh, newCh, container, anchor, parent)
	default:
		p.patchUnkeyedChildren(oldCh, newCh, container, anchor, parent)
	}
}

// patchUnkeyedChildren matches positionally: patch the overlapping prefix,
// then mount or unmount the length difference. No move detection.
func (p *Patcher) patchUnkeyedChildren(oldCh, newCh []*VNode, container, anchor any, parent *Instance) {
	common := len(oldCh)
	if len(newCh) < common {
		common = len(newCh)
	}
	for i := 0; i < common; i++ {
		p.patch(oldCh[i], newCh[i], container, nil, parent)
	}
	if len(newCh) > common {
		for _, c := range newCh[common:] {
			p.patch(nil, c, container, anchor, parent)
		}
		return
	}
	for _, c := range oldCh[common:] {
		p.unmount(c)
	}
}

// unmount tears a subtree down: components stop their render effect and
// fire unmounted hooks, fragments and teleports recurse into children,
// host-backed nodes are removed after their descendants' lifecycles run.
func (p *Patcher) unmount(n *VNode) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindComponent:
		p.unmountComponent(n.Component)
	case KindFragment:
		for _, c := range n.Children {
			p.unmount(c)
		}
	case KindTeleport:
		for _, c := range n.Children {
			p.unmount(c)
		}
	case KindElement:
		for _, c := range n.Children {
			p.teardown(c)
		}
		if n.El != nil {
			p.host.Remove(n.El)
		}
	default:
		if n.El != nil {
			p.host.Remove(n.El)
		}
	}
}

// teardown runs component lifecycles inside a subtree whose host nodes are
// removed with an ancestor element; it performs no host operations.
func (p *Patcher) teardown(n *VNode) {
	if n == nil {
		return
	}
	if n.Kind == KindComponent {
		inst := n.Component
		if inst == nil {
			return
		}
		inst.effect.Stop()
		inst.invokeHooks(hookUnmounted)
		p.teardown(inst.subTree)
		return
	}
	for _, c := range n.Children {
		p.teardown(c)
	}
}

func (p *Patcher) unmountComponent(inst *Instance) {
	if inst == nil {
		return
	}
	inst.effect.Stop()
	inst.invokeHooks(hookUnmounted)
	p.unmount(inst.subTree)
}

// nextHostNode returns the host node immediately following a vnode's
// rendered output, used as the anchor when replacing it.
func (p *Patcher) nextHostNode(n *VNode) any {
	last := n.lastHostNode()
	if last == nil {
		return nil
	}
	return p.host.NextSibling(last)
}

// move physically relocates a vnode's host output before anchor.
func (p *Patcher) move(n *VNode, container, anchor any) {
	switch n.Kind {
	case KindComponent:
		if n.Component != nil {
			p.move(n.Component.subTree, container, anchor)
		}
	case KindFragment:
		for _, c := range n.Children {
			p.move(c, container, anchor)
		}
	case KindTeleport:
		// Teleport output lives in its own target container.
	default:
		if n.El != nil {
			p.host.Insert(n.El, container, anchor)
		}
	}
}

// propsEqual compares two prop values, with fast paths for the common
// scalar types. Functions are never equal unless both nil: event handler
// identity cannot be compared reliably, and re-applying one is harmless.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	if isFunc(a) || isFunc(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// attrsEqual compares two fallthrough-attr maps key by key.
func attrsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !propsEqual(av, bv) {
			return false
		}
	}
	return true
}

func isFunc(v any) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Func
}

// IsHandlerProp reports whether a prop carries client behavior rather than
// serializable data. Handlers are function values, conventionally under
// "on"-prefixed keys.
func IsHandlerProp(key string, v any) bool {
	return isFunc(v)
}

// AttrString formats a prop value as an attribute string.
func AttrString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}
