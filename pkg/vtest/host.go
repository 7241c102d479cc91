// Package vtest provides an in-memory host tree for exercising the patch
// engine, the hydration walker and full server-to-client round trips
// without a browser.
package vtest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/conradklek/webs/pkg/vdom"
)

// MemNode is one node of the in-memory host tree.
type MemNode struct {
	Kind     vdom.NodeKind
	Tag      string
	Text     string
	Attrs    map[string]string
	Handlers map[string]any

	Parent   *MemNode
	Children []*MemNode
}

// MemHost implements the host interface over MemNodes and records every
// mutating operation, so tests can assert on exactly which host work a
// patch performed.
type MemHost struct {
	Root *MemNode
	Ops  []string
}

// NewHost creates a host with an empty root container element.
func NewHost() *MemHost {
	return &MemHost{Root: &MemNode{Kind: vdom.NodeElement, Tag: "root"}}
}

// NewHostWithRoot creates a host over an existing tree, typically one
// built by ParseHTML from server-rendered markup.
func NewHostWithRoot(root *MemNode) *MemHost {
	return &MemHost{Root: root}
}

// ResetOps clears the operation log, usually after the initial mount so a
// test can assert on update operations alone.
func (h *MemHost) ResetOps() {
	h.Ops = nil
}

func (h *MemHost) op(format string, args ...any) {
	h.Ops = append(h.Ops, fmt.Sprintf(format, args...))
}

func (h *MemHost) CreateElement(tag string) any {
	h.op("create-element %s", tag)
	return &MemNode{Kind: vdom.NodeElement, Tag: tag}
}

func (h *MemHost) CreateText(text string) any {
	h.op("create-text %q", text)
	return &MemNode{Kind: vdom.NodeText, Text: text}
}

func (h *MemHost) CreateComment(text string) any {
	h.op("create-comment %q", text)
	return &MemNode{Kind: vdom.NodeComment, Text: text}
}

func (h *MemHost) SetElementText(el any, text string) {
	n := el.(*MemNode)
	h.op("set-element-text <%s> %q", n.Tag, text)
	n.Children = nil
	if text != "" {
		child := &MemNode{Kind: vdom.NodeText, Text: text, Parent: n}
		n.Children = []*MemNode{child}
	}
}

func (h *MemHost) SetText(node any, text string) {
	n := node.(*MemNode)
	h.op("set-text %q", text)
	n.Text = text
}

// Insert places child before anchor inside parent. Inserting a node that
// already has a parent detaches it first and logs a move instead.
func (h *MemHost) Insert(child, parent, anchor any) {
	c := child.(*MemNode)
	p := parent.(*MemNode)

	if c.Parent != nil {
		detach(c)
		h.op("move %s", nodeLabel(c))
	} else {
		h.op("insert %s", nodeLabel(c))
	}

	c.Parent = p
	if anchor == nil {
		p.Children = append(p.Children, c)
		return
	}
	a := anchor.(*MemNode)
	for i, sib := range p.Children {
		if sib == a {
			p.Children = append(p.Children[:i], append([]*MemNode{c}, p.Children[i:]...)...)
			return
		}
	}
	p.Children = append(p.Children, c)
}

func (h *MemHost) Remove(node any) {
	n := node.(*MemNode)
	h.op("remove %s", nodeLabel(n))
	detach(n)
}

func (h *MemHost) PatchProp(el any, key string, prev, next any) {
	n := el.(*MemNode)
	if vdom.IsHandlerProp(key, next) {
		h.op("set-handler <%s> %s", n.Tag, key)
		if n.Handlers == nil {
			n.Handlers = make(map[string]any)
		}
		n.Handlers[key] = next
		return
	}
	if next == nil {
		if vdom.IsHandlerProp(key, prev) {
			h.op("remove-handler <%s> %s", n.Tag, key)
			delete(n.Handlers, key)
			return
		}
		h.op("remove-attr <%s> %s", n.Tag, key)
		delete(n.Attrs, key)
		return
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	val := vdom.AttrString(next)
	h.op("set-attr <%s> %s=%q", n.Tag, key, val)
	n.Attrs[key] = val
}

// QuerySelector supports "#id" and bare tag-name selectors, which covers
// teleport targets.
func (h *MemHost) QuerySelector(selector string) any {
	var match func(*MemNode) bool
	if strings.HasPrefix(selector, "#") {
		id := selector[1:]
		match = func(n *MemNode) bool { return n.Attrs["id"] == id }
	} else {
		match = func(n *MemNode) bool { return n.Tag == selector }
	}
	if found := findNode(h.Root, match); found != nil {
		return found
	}
	return nil
}

func (h *MemHost) Parent(node any) any {
	if p := node.(*MemNode).Parent; p != nil {
		return p
	}
	return nil
}

func (h *MemHost) NextSibling(node any) any {
	n := node.(*MemNode)
	if n.Parent == nil {
		return nil
	}
	sibs := n.Parent.Children
	for i, sib := range sibs {
		if sib == n && i+1 < len(sibs) {
			return sibs[i+1]
		}
	}
	return nil
}

func (h *MemHost) FirstChild(node any) any {
	n := node.(*MemNode)
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

func (h *MemHost) NodeKind(node any) vdom.NodeKind {
	return node.(*MemNode).Kind
}

func (h *MemHost) NodeText(node any) string {
	return node.(*MemNode).Text
}

func (h *MemHost) TagName(node any) string {
	return node.(*MemNode).Tag
}

func (h *MemHost) OuterHTML(node any) string {
	var buf strings.Builder
	writeNode(&buf, node.(*MemNode))
	return buf.String()
}

// HTML serializes the root's children, the shape a document body would
// have.
func (h *MemHost) HTML() string {
	var buf strings.Builder
	for _, c := range h.Root.Children {
		writeNode(&buf, c)
	}
	return buf.String()
}

// Fire invokes a node's registered event handler. Handlers are plain
// func() or func(any) values.
func (h *MemHost) Fire(node any, event string, payload any) {
	n := node.(*MemNode)
	handler := n.Handlers[event]
	switch fn := handler.(type) {
	case func():
		fn()
	case func(any):
		fn(payload)
	}
}

// CountOps returns how many logged operations have the given prefix.
func (h *MemHost) CountOps(prefix string) int {
	count := 0
	for _, op := range h.Ops {
		if strings.HasPrefix(op, prefix) {
			count++
		}
	}
	return count
}

func detach(n *MemNode) {
	if n.Parent == nil {
		return
	}
	sibs := n.Parent.Children
	for i, sib := range sibs {
		if sib == n {
			n.Parent.Children = append(sibs[:i], sibs[i+1:]...)
			break
		}
	}
	n.Parent = nil
}

func findNode(n *MemNode, match func(*MemNode) bool) *MemNode {
	if n.Kind == vdom.NodeElement && match(n) {
		return n
	}
	for _, c := range n.Children {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func nodeLabel(n *MemNode) string {
	switch n.Kind {
	case vdom.NodeElement:
		return "<" + n.Tag + ">"
	case vdom.NodeText:
		return fmt.Sprintf("text %q", n.Text)
	case vdom.NodeComment:
		return fmt.Sprintf("comment %q", n.Text)
	}
	return "unknown"
}

func writeNode(buf *strings.Builder, n *MemNode) {
	switch n.Kind {
	case vdom.NodeText:
		buf.WriteString(n.Text)
	case vdom.NodeComment:
		buf.WriteString("<!--" + n.Text + "-->")
	case vdom.NodeElement:
		buf.WriteString("<" + n.Tag)
		keys := make([]string, 0, len(n.Attrs))
		for k := range n.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(buf, " %s=%q", k, n.Attrs[k])
		}
		buf.WriteString(">")
		for _, c := range n.Children {
			writeNode(buf, c)
		}
		buf.WriteString("</" + n.Tag + ">")
	}
}
