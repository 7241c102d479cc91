package el

import "github.com/conradklek/webs/pkg/vdom"

// VNode and Props re-export the vdom primitives the DSL builds.
type VNode = vdom.VNode
type Props = vdom.Props

// Attr is one attribute or event binding applied to the element being
// constructed.
type Attr struct {
	Key   string
	Value any
}

// E builds an element from a mixed argument list. Attrs become props,
// *VNode values and strings become children, []*VNode splices, nil is
// skipped.
func E(tag string, args ...any) *VNode {
	var props vdom.Props
	var children []*vdom.VNode

	setProp := func(key string, value any) {
		if props == nil {
			props = make(vdom.Props)
		}
		props[key] = value
	}

	for _, arg := range args {
		switch a := arg.(type) {
		case nil:
		case Attr:
			setProp(a.Key, a.Value)
		case []Attr:
			for _, attr := range a {
				setProp(attr.Key, attr.Value)
			}
		case vdom.Props:
			for k, v := range a {
				setProp(k, v)
			}
		case *vdom.VNode:
			if a != nil {
				children = append(children, a)
			}
		case []*vdom.VNode:
			children = append(children, a...)
		case string:
			children = append(children, vdom.Text(a))
		}
	}

	return vdom.El(tag, props, children...)
}

// Text creates a static text node.
func Text(content string) *VNode { return vdom.Text(content) }

// Interp creates a dynamic interpolation text node.
func Interp(content string) *VNode { return vdom.Interp(content) }

// Fragment groups children without a wrapper element.
func Fragment(children ...*VNode) *VNode { return vdom.Fragment(children...) }

// Teleport renders children into the target selector's container.
func Teleport(to string, children ...*VNode) *VNode {
	return vdom.Teleport(to, children...)
}

// If returns node when the condition holds, otherwise nil. Nil children
// are dropped by the constructors.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse picks one of two nodes by condition.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When defers construction until the condition holds, for branches that
// are invalid to build otherwise.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Map renders one node per item. Give each node a key when the list can
// reorder.
func Map[T any](items []T, fn func(item T) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for _, item := range items {
		if n := fn(item); n != nil {
			out = append(out, n)
		}
	}
	return out
}
