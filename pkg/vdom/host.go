package vdom

import "errors"

// NodeKind classifies a host node for hydration walking.
type NodeKind uint8

const (
	NodeElement NodeKind = iota
	NodeText
	NodeComment
)

// Host is the binding interface supplied by the embedding environment. The
// patch engine calls these operations exclusively and never touches a
// concrete host API, so one reconciliation implementation serves different
// host-tree backends.
//
// Host nodes are opaque to the core; every node value handed to an
// operation came from a Create* call or a traversal accessor of the same
// Host.
type Host interface {
	CreateElement(tag string) any
	CreateText(text string) any
	CreateComment(text string) any

	// SetElementText replaces an element's entire content with text.
	SetElementText(el any, text string)
	// SetText updates the content of a text or comment node.
	SetText(node any, text string)

	// Insert places child before anchor inside parent; a nil anchor appends.
	Insert(child, parent, anchor any)
	Remove(child any)

	// PatchProp applies one property change. A nil next removes the
	// property.
	PatchProp(el any, key string, prev, next any)

	// QuerySelector resolves a teleport target. May return nil.
	QuerySelector(selector string) any

	Parent(node any) any
	NextSibling(node any) any
}

// HydrationHost extends Host with the read accessors the hydration engine
// needs to walk a pre-existing tree.
type HydrationHost interface {
	Host

	FirstChild(node any) any
	NodeKind(node any) NodeKind
	// NodeText returns the content of a text or comment node.
	NodeText(node any) string
	TagName(node any) string
	// OuterHTML serializes a node for mismatch diagnostics.
	OuterHTML(node any) string
}

// ErrHostNotHydratable is returned when Hydrate is called against a Host
// that does not implement HydrationHost.
var ErrHostNotHydratable = errors.New("vdom: host does not support hydration walking")
