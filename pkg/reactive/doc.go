// Package reactive implements the fine-grained reactivity engine: a
// dependency graph keyed by target identity and property key, effects that
// automatically re-track their reads on every run, equality-gated value
// cells (Ref), lazily cached derivations (Computed), and reactive container
// wrappers for objects, lists, maps and sets.
//
// All graph state lives on a Runtime instance rather than in package-level
// globals, so independent render trees (for example concurrent server
// renders) never share trigger graphs.
//
// The engine is single-threaded by contract: all reads and writes of
// reactive state are expected to originate from one logical thread of
// control, and the Runtime performs no locking of its own.
package reactive
