// Package namespace provides a hierarchical, name-addressed store for
// decoded resources.
//
// Nodes form a tree: a parent owns its children, and each child keeps a
// back-reference to its parent that is only used for traversal. Every node
// holds its own keyed entries.
//
// Two recursive lookups are offered. Find searches a node's own entries and
// then its subtree, depth first, with children visited in name order.
// FindFromRoot runs the same search from the tree root, for references that
// point into a shared namespace rather than the current subtree. Resolve
// combines them: self first, root as fallback.
//
//	root := namespace.New[Resource]()
//	fx := root.Child("effects")
//	fx.Child("fire").Define("emitter:7", smoke)
//
//	v, ok := fx.Resolve("emitter:7")
//
// # Thread Safety
//
// All methods are safe for concurrent use. Lookups can run while other
// goroutines mount unrelated subtrees.
package namespace
