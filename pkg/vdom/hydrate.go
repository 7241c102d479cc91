package vdom

import (
	"fmt"
	"strings"
)

// Mismatch records one divergence between the server-rendered host tree
// and the client render during hydration. Parent and Markup carry the
// nearest enclosing element and its serialized content at the time the
// divergence was seen.
type Mismatch struct {
	Expected string
	Found    string
	Parent   string
	Markup   string
}

// HydrateReport collects every mismatch seen while hydrating. Hydration
// never fails: text divergence is overwritten in place so the bound node
// matches the client render, while a structural divergence leaves that
// branch unbound. Nothing is synthesized into the host tree.
type HydrateReport struct {
	Mismatches []Mismatch
}

// Clean reports whether hydration bound the whole tree without mismatches.
func (r *HydrateReport) Clean() bool { return len(r.Mismatches) == 0 }

// Hydrate binds a vnode tree to the pre-rendered children of container
// instead of creating host nodes. The host must support tree inspection.
func (p *Patcher) Hydrate(n *VNode, container any) (*HydrateReport, error) {
	hh, ok := p.host.(HydrationHost)
	if !ok {
		return nil, ErrHostNotHydratable
	}
	report := &HydrateReport{}
	p.hyd = &hydrator{p: p, host: hh, report: report}
	defer func() { p.hyd = nil }()

	node := hh.FirstChild(container)
	p.hyd.hydrateNode(node, container, n, nil)
	return report, nil
}

// hydrateSubTree is the ModeHydrate branch of a component's first render:
// the subtree claims nodes starting at the instance's cursor.
func (p *Patcher) hydrateSubTree(inst *Instance, subTree *VNode) {
	inst.nextNode = p.hyd.hydrateNode(inst.hydrateFrom, inst.hydrateParent, subTree, inst)
	inst.container = inst.hydrateParent
}

type hydrator struct {
	p      *Patcher
	host   HydrationHost
	report *HydrateReport
}

// Markers written by the string renderer. "[" and "]" bracket dynamic
// text so adjacent text nodes stay separable; "[]" fills an otherwise
// empty element; "teleport" stands in for content rendered elsewhere.
const (
	markerDynamicOpen  = "["
	markerDynamicClose = "]"
	markerEmpty        = "[]"
	markerTeleport     = "teleport"
)

// hydrateNode binds one vnode to the host node at the cursor and returns
// the host node following everything the vnode consumed.
func (h *hydrator) hydrateNode(node, container any, v *VNode, parent *Instance) any {
	if v == nil {
		return node
	}
	if v.Kind != KindText {
		node = h.skipWhitespace(node)
	}

	switch v.Kind {
	case KindText:
		return h.hydrateText(node, container, v)
	case KindComment:
		return h.hydrateComment(node, container, v)
	case KindFragment:
		for _, c := range v.Children {
			node = h.hydrateNode(node, container, c, parent)
		}
		return node
	case KindTeleport:
		return h.hydrateTeleport(node, container, v, parent)
	case KindElement:
		return h.hydrateElement(node, container, v, parent)
	case KindComponent:
		return h.hydrateComponent(node, container, v, parent)
	}
	return node
}

func (h *hydrator) hydrateText(node, container any, v *VNode) any {
	if v.Dynamic && node != nil && h.host.NodeKind(node) == NodeComment &&
		h.host.NodeText(node) == markerDynamicOpen {
		return h.hydrateDynamicText(node, container, v)
	}
	if node == nil || h.host.NodeKind(node) != NodeText {
		return h.bail(node, container, v)
	}
	v.El = node
	if got := h.host.NodeText(node); got != v.Text {
		h.record(v.describe(), "text "+quoteShort(got), container)
		h.host.SetText(node, v.Text)
	}
	return h.host.NextSibling(node)
}

// hydrateDynamicText consumes an open marker, the optional text node, and
// the close marker. Empty dynamic text has no node between the markers, so
// one is created for later patches to write into.
func (h *hydrator) hydrateDynamicText(open, container any, v *VNode) any {
	node := h.host.NextSibling(open)
	if node != nil && h.host.NodeKind(node) == NodeText {
		v.El = node
		if got := h.host.NodeText(node); got != v.Text {
			h.record(v.describe(), "text "+quoteShort(got), container)
			h.host.SetText(node, v.Text)
		}
		node = h.host.NextSibling(node)
	} else {
		if v.Text != "" {
			h.record(v.describe(), "empty dynamic text slot", container)
		}
		v.El = h.p.host.CreateText(v.Text)
		h.p.host.Insert(v.El, container, node)
	}
	if node != nil && h.host.NodeKind(node) == NodeComment &&
		h.host.NodeText(node) == markerDynamicClose {
		return h.host.NextSibling(node)
	}
	h.record(v.describe(), "missing dynamic text close marker", container)
	return node
}

func (h *hydrator) hydrateComment(node, container any, v *VNode) any {
	if node == nil || h.host.NodeKind(node) != NodeComment {
		return h.bail(node, container, v)
	}
	v.El = node
	return h.host.NextSibling(node)
}

// hydrateTeleport claims the placeholder comment and mounts the children
// fresh into the resolved target, which the server never rendered into.
func (h *hydrator) hydrateTeleport(node, container any, v *VNode, parent *Instance) any {
	next := node
	if node != nil && h.host.NodeKind(node) == NodeComment &&
		h.host.NodeText(node) == markerTeleport {
		v.El = node
		next = h.host.NextSibling(node)
	} else {
		h.record(v.describe(), h.describeNode(node), container)
	}

	selector, _ := v.Props["to"].(string)
	target := h.p.host.QuerySelector(selector)
	if target == nil {
		h.p.env.Log.Warn().Str("target", selector).Msg("teleport target not found")
		return next
	}
	for _, c := range v.Children {
		h.p.patch(nil, c, target, nil, parent)
	}
	return next
}

func (h *hydrator) hydrateElement(node, container any, v *VNode, parent *Instance) any {
	if node == nil || h.host.NodeKind(node) != NodeElement ||
		!strings.EqualFold(h.host.TagName(node), v.Tag) {
		return h.bail(node, container, v)
	}
	v.El = node

	// Static attributes are already serialized; only behavior needs to
	// attach on the client.
	for key, value := range v.Props {
		if key == "key" {
			continue
		}
		if isFunc(value) {
			h.p.host.PatchProp(node, key, nil, value)
		}
	}

	if v.Text != "" {
		child := h.host.FirstChild(node)
		if child == nil || h.host.NodeKind(child) != NodeText ||
			h.host.NodeText(child) != v.Text {
			h.record(v.describe(), "element text mismatch", node)
			h.p.host.SetElementText(node, v.Text)
		}
		return h.host.NextSibling(node)
	}

	child := h.host.FirstChild(node)
	// The renderer fills empty elements with a placeholder comment so the
	// walker always has a node to stand on; nothing binds to it.
	if child != nil && h.host.NodeKind(child) == NodeComment &&
		h.host.NodeText(child) == markerEmpty {
		child = h.host.NextSibling(child)
	}
	for _, c := range v.Children {
		child = h.hydrateNode(child, node, c, parent)
	}
	return h.host.NextSibling(node)
}

func (h *hydrator) hydrateComponent(node, container any, v *VNode, parent *Instance) any {
	p := h.p
	var seed map[string]any
	if parent == nil {
		seed = p.rootSeed
		p.rootSeed = nil
	}
	inst := NewInstance(p.env, p, v, parent, ModeHydrate, seed)
	if parent == nil {
		inst.ProvideRoot(p.rootProvides)
		p.rootProvides = nil
	}
	inst.RunSetup()
	inst.hydrateFrom = node
	inst.hydrateParent = container
	p.setupRenderEffect(inst)
	return inst.nextNode
}

// bail handles a structural mismatch: the branch is recorded and left
// unbound. The host tree keeps what the server rendered; synthesizing the
// client's version here would only mask that server and client disagreed
// about the structure. The stray host node is stepped over so later
// siblings keep their alignment.
func (h *hydrator) bail(node, container any, v *VNode) any {
	h.record(v.describe(), h.describeNode(node), container)
	if node == nil {
		return nil
	}
	return h.host.NextSibling(node)
}

// record captures a mismatch together with the nearest parent element and
// its markup at the time of the divergence.
func (h *hydrator) record(expected, found string, container any) {
	m := Mismatch{Expected: expected, Found: found}
	if container != nil && h.host.NodeKind(container) == NodeElement {
		m.Parent = h.host.TagName(container)
		m.Markup = h.host.OuterHTML(container)
	}
	h.report.Mismatches = append(h.report.Mismatches, m)
	h.p.env.Log.Warn().Str("expected", expected).Str("found", found).
		Str("parent", m.Parent).Msg("hydration mismatch")
}

// skipWhitespace advances past whitespace-only text nodes, which the
// server emits for source formatting and no vnode accounts for.
func (h *hydrator) skipWhitespace(node any) any {
	for node != nil && h.host.NodeKind(node) == NodeText &&
		strings.TrimSpace(h.host.NodeText(node)) == "" {
		node = h.host.NextSibling(node)
	}
	return node
}

func (h *hydrator) describeNode(node any) string {
	if node == nil {
		return "end of host children"
	}
	switch h.host.NodeKind(node) {
	case NodeElement:
		return fmt.Sprintf("element <%s>", h.host.TagName(node))
	case NodeText:
		return "text " + quoteShort(h.host.NodeText(node))
	case NodeComment:
		return "comment " + quoteShort(h.host.NodeText(node))
	}
	return "unknown node"
}
