package ast

// ParentIndex maps every node of a tree to its parent. It is a lookup
// structure only: it is rebuilt after the tree changes and never owns
// nodes.
type ParentIndex struct {
	root    Node
	parents map[Node]Node
	order   map[Node]int
}

// NewParentIndex indexes the tree rooted at root.
func NewParentIndex(root Node) *ParentIndex {
	idx := &ParentIndex{
		root:    root,
		parents: make(map[Node]Node),
		order:   make(map[Node]int),
	}
	idx.build(root, nil)
	return idx
}

func (idx *ParentIndex) build(node, parent Node) {
	idx.parents[node] = parent
	idx.order[node] = len(idx.order)
	for _, child := range Children(node) {
		idx.build(child, node)
	}
}

// Root returns the indexed root.
func (idx *ParentIndex) Root() Node { return idx.root }

// Parent returns the parent of node, or nil for the root and for nodes
// that are not part of the indexed tree.
func (idx *ParentIndex) Parent(node Node) Node {
	return idx.parents[node]
}

// Contains reports whether node belongs to the indexed tree.
func (idx *ParentIndex) Contains(node Node) bool {
	_, ok := idx.parents[node]
	return ok
}

// Order returns the pre-order position of node, or -1.
func (idx *ParentIndex) Order(node Node) int {
	if o, ok := idx.order[node]; ok {
		return o
	}
	return -1
}

// Ancestors returns the parents of node from the nearest to the root.
func (idx *ParentIndex) Ancestors(node Node) []Node {
	var out []Node
	for p := idx.parents[node]; p != nil; p = idx.parents[p] {
		out = append(out, p)
	}
	return out
}

// IsAncestor reports whether anc is a proper ancestor of node.
func (idx *ParentIndex) IsAncestor(anc, node Node) bool {
	for p := idx.parents[node]; p != nil; p = idx.parents[p] {
		if p == anc {
			return true
		}
	}
	return false
}
