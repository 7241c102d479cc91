package vdom

import (
	"sync"

	"github.com/conradklek/webs/pkg/reactive"
)

// RenderFunc produces a component's subtree from its render context.
// Compiled templates and hand-written components share this signature.
type RenderFunc func(ctx *RenderContext) *VNode

// SetupFunc runs once per instance, before the first render. It receives
// the declared props as a reactive object and returns the component's state
// bag. Hook registration and provide/inject are only valid for the duration
// of the call.
type SetupFunc func(props *reactive.Object, ctx *SetupContext) map[string]any

// PropType declares the expected shape of a prop value.
type PropType uint8

const (
	PropAny PropType = iota
	PropString
	PropNumber
	PropBool
	PropFunc
	PropList
	PropMap
)

// PropSchema declares one prop: its type and the default applied when the
// caller omits it.
type PropSchema struct {
	Type    PropType
	Default any
}

// Definition describes a component. Definitions are identity-keyed: two
// component nodes update in place only when they share the same Definition
// pointer, and compiled templates are cached per Definition.
type Definition struct {
	Name string

	// Props is the declared property schema. Incoming values not named
	// here become fallthrough attributes.
	Props map[string]PropSchema

	Setup SetupFunc

	// Render is the precompiled render function. When nil, Template is
	// compiled on first use through the environment's compiler.
	Render   RenderFunc
	Template string

	// Components maps child tag names to definitions for resolving custom
	// tags inside this component's render output.
	Components map[string]*Definition

	resolveOnce sync.Once
	components  map[string]*Definition
}

// componentFor resolves a locally registered child component by name.
// The lookup table is built once per definition.
func (d *Definition) componentFor(name string) *Definition {
	d.resolveOnce.Do(func() {
		d.components = make(map[string]*Definition, len(d.Components))
		for n, def := range d.Components {
			d.components[n] = def
		}
	})
	return d.components[name]
}
