// Package remote drives a live page over a websocket: the render tree and
// patch engine run server-side against a mirror of the page, and every
// host operation streams to a thin client as a protocol op.
package remote

import (
	"github.com/conradklek/webs/pkg/protocol"
	"github.com/conradklek/webs/pkg/vdom"
)

// RootID is the node ID of the client's mount container.
const RootID uint64 = 0

// mirrorNode is the server-side shadow of one client node. The mirror
// exists so traversal accessors (Parent, NextSibling) and event dispatch
// work without round trips.
type mirrorNode struct {
	id       uint64
	kind     vdom.NodeKind
	tag      string
	text     string
	parent   *mirrorNode
	children []*mirrorNode
	handlers map[string]any
}

// Host implements the host binding over a mirror tree, buffering one
// protocol op per mutation. The session drains the buffer into frames.
type Host struct {
	nextID    uint64
	nodes     map[uint64]*mirrorNode
	selectors map[string]*mirrorNode
	root      *mirrorNode
	ops       []protocol.Op
}

// NewHost creates a remote host with an empty mirror rooted at the
// client's mount container.
func NewHost() *Host {
	root := &mirrorNode{id: RootID, kind: vdom.NodeElement}
	return &Host{
		nodes:     map[uint64]*mirrorNode{RootID: root},
		selectors: make(map[string]*mirrorNode),
		root:      root,
	}
}

// Root returns the mount container node.
func (h *Host) Root() any { return h.root }

// TakeOps returns the buffered ops and resets the buffer.
func (h *Host) TakeOps() []protocol.Op {
	ops := h.ops
	h.ops = nil
	return ops
}

// HasOps reports whether any mutation is waiting to be sent.
func (h *Host) HasOps() bool { return len(h.ops) > 0 }

func (h *Host) alloc(kind vdom.NodeKind) *mirrorNode {
	h.nextID++
	n := &mirrorNode{id: h.nextID, kind: kind}
	h.nodes[n.id] = n
	return n
}

func (h *Host) CreateElement(tag string) any {
	n := h.alloc(vdom.NodeElement)
	n.tag = tag
	h.ops = append(h.ops, protocol.NewCreateElementOp(n.id, tag))
	return n
}

func (h *Host) CreateText(text string) any {
	n := h.alloc(vdom.NodeText)
	n.text = text
	h.ops = append(h.ops, protocol.NewCreateTextOp(n.id, text))
	return n
}

func (h *Host) CreateComment(text string) any {
	n := h.alloc(vdom.NodeComment)
	n.text = text
	h.ops = append(h.ops, protocol.NewCreateCommentOp(n.id, text))
	return n
}

func (h *Host) SetElementText(el any, text string) {
	n := el.(*mirrorNode)
	for _, c := range n.children {
		h.forget(c)
	}
	n.children = nil
	n.text = text
	h.ops = append(h.ops, protocol.NewSetElementTextOp(n.id, text))
}

func (h *Host) SetText(node any, text string) {
	n := node.(*mirrorNode)
	n.text = text
	h.ops = append(h.ops, protocol.NewSetTextOp(n.id, text))
}

func (h *Host) Insert(child, parent, anchor any) {
	c := child.(*mirrorNode)
	p := parent.(*mirrorNode)

	if c.parent != nil {
		c.detach()
	}
	c.parent = p

	var anchorID uint64
	if anchor != nil {
		a := anchor.(*mirrorNode)
		anchorID = a.id
		for i, sib := range p.children {
			if sib == a {
				p.children = append(p.children[:i], append([]*mirrorNode{c}, p.children[i:]...)...)
				h.ops = append(h.ops, protocol.NewInsertOp(c.id, p.id, anchorID))
				return
			}
		}
	}
	p.children = append(p.children, c)
	h.ops = append(h.ops, protocol.NewInsertOp(c.id, p.id, anchorID))
}

func (h *Host) Remove(node any) {
	n := node.(*mirrorNode)
	n.detach()
	h.forget(n)
	h.ops = append(h.ops, protocol.NewRemoveOp(n.id))
}

func (h *Host) PatchProp(el any, key string, prev, next any) {
	n := el.(*mirrorNode)

	if vdom.IsHandlerProp(key, next) {
		if n.handlers == nil {
			n.handlers = make(map[string]any)
		}
		if _, had := n.handlers[key]; !had {
			h.ops = append(h.ops, protocol.NewListenOp(n.id, key))
		}
		n.handlers[key] = next
		return
	}
	if next == nil {
		if vdom.IsHandlerProp(key, prev) {
			delete(n.handlers, key)
			h.ops = append(h.ops, protocol.NewUnlistenOp(n.id, key))
			return
		}
		h.ops = append(h.ops, protocol.NewRemoveAttrOp(n.id, key))
		return
	}
	h.ops = append(h.ops, protocol.NewSetAttrOp(n.id, key, vdom.AttrString(next)))
}

// QuerySelector binds a fresh node ID to the client's first selector
// match. The mirror cannot verify the match; the binding is assumed good
// and reused for repeat queries.
func (h *Host) QuerySelector(selector string) any {
	if n, ok := h.selectors[selector]; ok {
		return n
	}
	n := h.alloc(vdom.NodeElement)
	h.selectors[selector] = n
	h.ops = append(h.ops, protocol.NewSelectTargetOp(n.id, selector))
	return n
}

func (h *Host) Parent(node any) any {
	if p := node.(*mirrorNode).parent; p != nil {
		return p
	}
	return nil
}

func (h *Host) NextSibling(node any) any {
	n := node.(*mirrorNode)
	if n.parent == nil {
		return nil
	}
	sibs := n.parent.children
	for i, sib := range sibs {
		if sib == n && i+1 < len(sibs) {
			return sibs[i+1]
		}
	}
	return nil
}

// HandleEvent dispatches a client event to the handler registered on the
// target node. It reports whether a handler ran.
func (h *Host) HandleEvent(ev *protocol.Event) bool {
	n, ok := h.nodes[ev.Node]
	if !ok {
		return false
	}
	handler, ok := n.handlers[ev.Name]
	if !ok {
		return false
	}
	switch fn := handler.(type) {
	case func():
		fn()
	case func(any):
		fn(ev.Payload)
	case func(map[string]any):
		fn(ev.Payload)
	default:
		return false
	}
	return true
}

// forget drops a node and its subtree from the ID table. The client
// removes the whole subtree on one Remove op.
func (h *Host) forget(n *mirrorNode) {
	delete(h.nodes, n.id)
	for _, c := range n.children {
		h.forget(c)
	}
}

func (n *mirrorNode) detach() {
	if n.parent == nil {
		return
	}
	sibs := n.parent.children
	for i, sib := range sibs {
		if sib == n {
			n.parent.children = append(sibs[:i], sibs[i+1:]...)
			break
		}
	}
	n.parent = nil
}
