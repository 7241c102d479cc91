// Package vdom implements the virtual-node model, the component instance
// model, the patch engine and the hydration engine.
//
// A VNode describes one host-tree node or component instance. The Patcher
// converts one VNode tree into another through a small set of host
// operations expressed by the Host interface; it never touches a concrete
// host API, which lets the same reconciliation logic drive an in-memory
// tree, a browser bridge, or a remote patch stream.
//
// Hydration uses the same instance-construction path as patching but walks
// an existing host tree instead of creating nodes, binding each virtual
// node to the structurally matching host node and reporting mismatches as
// values rather than failing.
package vdom
