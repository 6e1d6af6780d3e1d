package namespace

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Node is a named group of resources with child groups.
type Node[T any] struct {
	entries  map[string]T
	children map[string]*Node[T]
	parent   *Node[T]
	name     string
	mu       sync.RWMutex
}

// New creates a root node
func New[T any]() *Node[T] {
	return &Node[T]{
		entries:  make(map[string]T),
		children: make(map[string]*Node[T]),
	}
}

// Name returns the node name
func (n *Node[T]) Name() string {
	return n.name
}

// Parent returns the parent node, or nil for the root
func (n *Node[T]) Parent() *Node[T] {
	return n.parent
}

// Root returns the root of the tree containing n
func (n *Node[T]) Root() *Node[T] {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// FullPath returns the slash separated path from the root, like "effects/fire"
func (n *Node[T]) FullPath() string {
	if n.parent == nil {
		return n.name
	}
	parentPath := n.parent.FullPath()
	if parentPath == "" {
		return n.name
	}
	return parentPath + "/" + n.name
}

// Child returns or creates a child node with the given name.
func (n *Node[T]) Child(name string) *Node[T] {
	n.mu.Lock()
	defer n.mu.Unlock()

	if child, ok := n.children[name]; ok {
		return child
	}

	child := &Node[T]{
		name:     name,
		entries:  make(map[string]T),
		children: make(map[string]*Node[T]),
		parent:   n,
	}
	n.children[name] = child
	return child
}

// GetChild returns a child node by name, or nil if not found
func (n *Node[T]) GetChild(name string) *Node[T] {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.children[name]
}

// Define stores v under key in this node, replacing any existing entry.
func (n *Node[T]) Define(key string, v T) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries[key] = v
}

// Get returns the entry stored under key in this node only
func (n *Node[T]) Get(key string) (T, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.entries[key]
	return v, ok
}

// Find searches this node and then its subtree, depth first, children in
// name order.
func (n *Node[T]) Find(key string) (T, bool) {
	if v, ok := n.Get(key); ok {
		return v, true
	}
	for _, child := range n.sortedChildren() {
		if v, ok := child.Find(key); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// FindFromRoot runs Find from the root of the tree.
func (n *Node[T]) FindFromRoot(key string) (T, bool) {
	return n.Root().Find(key)
}

// Resolve tries Find and falls back to FindFromRoot.
func (n *Node[T]) Resolve(key string) (T, bool) {
	if v, ok := n.Find(key); ok {
		return v, true
	}
	if n.parent == nil {
		var zero T
		return zero, false
	}
	return n.FindFromRoot(key)
}

// Lookup finds an entry by exact path: "effects/fire#emitter:7".
// A path without '#' names an entry of n itself.
func (n *Node[T]) Lookup(path string) (T, bool) {
	nodePath, key := "", path
	if idx := strings.LastIndex(path, "#"); idx >= 0 {
		nodePath, key = path[:idx], path[idx+1:]
	}

	target := n.resolveNode(nodePath)
	if target == nil {
		var zero T
		return zero, false
	}
	return target.Get(key)
}

// resolveNode walks a slash separated path of child names
func (n *Node[T]) resolveNode(path string) *Node[T] {
	current := n
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		current = current.GetChild(seg)
		if current == nil {
			return nil
		}
	}
	return current
}

// Keys returns the entry keys of this node in sorted order
func (n *Node[T]) Keys() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Sorted(maps.Keys(n.entries))
}

// Children returns all child nodes
func (n *Node[T]) Children() map[string]*Node[T] {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return maps.Clone(n.children)
}

// sortedChildren snapshots the children so the lock is not held while
// descending.
func (n *Node[T]) sortedChildren() []*Node[T] {
	n.mu.RLock()
	names := slices.Sorted(maps.Keys(n.children))
	out := make([]*Node[T], len(names))
	for i, name := range names {
		out[i] = n.children[name]
	}
	n.mu.RUnlock()
	return out
}
