// Package el is the element DSL over the vdom core.
//
// It offers per-tag constructors taking a mixed argument list, so render
// functions read close to the markup they produce:
//
//	import . "github.com/conradklek/webs/el"
//
//	Div(Class("card"),
//		H1(Text("Hello")),
//		Button(OnClick(save), Text("Save")),
//	)
//
// Arguments may be Attr values, event handlers, child nodes, strings
// (static text) or nil (skipped).
package el
