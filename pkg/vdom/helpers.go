package vdom

// El creates a host element node.
func El(tag string, props Props, children ...*VNode) *VNode {
	n := &VNode{Kind: KindElement, Tag: tag, Props: props, Children: compact(children)}
	n.Key = keyFromProps(props)
	return n
}

// ElText creates a host element whose children are a single string. The
// patch engine treats this form specially: the string replaces the
// element's text content outright.
func ElText(tag string, props Props, text string) *VNode {
	n := &VNode{Kind: KindElement, Tag: tag, Props: props, Text: text}
	n.Key = keyFromProps(props)
	return n
}

// Text creates a static text node.
func Text(text string) *VNode {
	return &VNode{Kind: KindText, Text: text}
}

// Interp creates a dynamic interpolation text node. The string renderer
// brackets it with marker comments so hydration can locate the dynamic
// segment even when static text is adjacent.
func Interp(text string) *VNode {
	return &VNode{Kind: KindText, Text: text, Dynamic: true}
}

// Comment creates a comment node.
func Comment(text string) *VNode {
	return &VNode{Kind: KindComment, Text: text}
}

// Fragment groups children without a wrapper node of its own.
func Fragment(children ...*VNode) *VNode {
	return &VNode{Kind: KindFragment, Children: compact(children)}
}

// Teleport renders children into the container resolved by the "to"
// selector instead of the current container.
func Teleport(to string, children ...*VNode) *VNode {
	return &VNode{Kind: KindTeleport, Props: Props{"to": to}, Children: compact(children)}
}

// Comp creates a component node. Children become the component's default
// slot content.
func Comp(def *Definition, props Props, children ...*VNode) *VNode {
	n := &VNode{Kind: KindComponent, Def: def, Props: props, Children: compact(children)}
	n.Key = keyFromProps(props)
	return n
}

// WithKey sets the reconciliation key and returns the node.
func (n *VNode) WithKey(key string) *VNode {
	n.Key = key
	return n
}

func keyFromProps(props Props) string {
	if props == nil {
		return ""
	}
	if key, ok := props["key"].(string); ok {
		return key
	}
	return ""
}

func compact(children []*VNode) []*VNode {
	out := children[:0]
	for _, c := range children {
		if c != nil {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
