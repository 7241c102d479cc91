package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComment                // Comment node
	KindFragment               // Grouping without wrapper
	KindTeleport               // Children rendered into another container
	KindComponent              // Nested component
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	case KindTeleport:
		return "Teleport"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Props holds attributes and event handlers.
type Props map[string]any

// VNode is the virtual node.
type VNode struct {
	Kind     VKind
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes and event handlers
	Children []*VNode // Child nodes
	Key      string   // Reconciliation key, compared only among siblings
	Text     string   // Content for KindText/KindComment, or an element's single-string children
	Dynamic  bool     // Marks interpolated text, bracketed by markers in SSR output

	// Def is set for KindComponent nodes.
	Def *Definition

	// El is the bound host node. Unset until the node is attached to (or
	// hydrated against) the host tree.
	El any

	// Component is the live instance, set once a component node mounts.
	Component *Instance
}

// sameVNode reports whether old and new describe the same logical node and
// may therefore be patched in place. Differing kind, tag, key or component
// definition means the old subtree is unmounted and the new one created.
func sameVNode(a, b *VNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind == b.Kind && a.Tag == b.Tag && a.Key == b.Key && a.Def == b.Def
}

// hostNode returns the first host node rendered by this virtual node, used
// as an insertion anchor. Components delegate to their subtree, fragments
// and teleports to their first child.
func (n *VNode) hostNode() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindComponent:
		if n.Component != nil {
			return n.Component.subTree.hostNode()
		}
		return nil
	case KindFragment:
		for _, c := range n.Children {
			if el := c.hostNode(); el != nil {
				return el
			}
		}
		return nil
	case KindTeleport:
		return nil
	default:
		return n.El
	}
}

// lastHostNode returns the last host node rendered by this virtual node.
func (n *VNode) lastHostNode() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindComponent:
		if n.Component != nil {
			return n.Component.subTree.lastHostNode()
		}
		return nil
	case KindFragment:
		for i := len(n.Children) - 1; i >= 0; i-- {
			if el := n.Children[i].lastHostNode(); el != nil {
				return el
			}
		}
		return nil
	case KindTeleport:
		return nil
	default:
		return n.El
	}
}

// HostNode returns the first host node bound to this virtual node, or nil
// if the node is not attached yet.
func (n *VNode) HostNode() any {
	return n.hostNode()
}

// describe renders a short human-readable description for diagnostics.
func (n *VNode) describe() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindElement:
		return "element <" + n.Tag + ">"
	case KindText:
		return "text " + quoteShort(n.Text)
	case KindComment:
		return "comment " + quoteShort(n.Text)
	case KindFragment:
		return "fragment"
	case KindTeleport:
		return "teleport"
	case KindComponent:
		name := "?"
		if n.Def != nil && n.Def.Name != "" {
			name = n.Def.Name
		}
		return "component " + name
	default:
		return "unknown"
	}
}

func quoteShort(s string) string {
	const max = 32
	if len(s) > max {
		s = s[:max] + "..."
	}
	return "\"" + s + "\""
}

// hasKeys reports whether any sibling carries an explicit key.
func hasKeys(children []*VNode) bool {
	for _, c := range children {
		if c != nil && c.Key != "" {
			return true
		}
	}
	return false
}
