// Package tree holds the view state of a hierarchical selection tree: per-node
// expand, hidden and selected flags, filtering, expand/collapse and the single
// and multi-select engines.
//
// Everything here runs synchronously on the caller's goroutine. A Tree is
// owned by exactly one view and is not safe for concurrent use.
package tree

import (
	"github.com/testgen/tgv/pkg/model"
)

// Node is a raw model.Node annotated with view state.
type Node struct {
	ID          string
	Label       string
	Icon        string
	Classes     []string
	GeneralType model.GeneralType

	Children []*Node // Child nodes, nil for a leaf
	Parent   *Node   // Back-reference used for selection recompute and navigation
	Level    int     // Nesting level (0 = root)

	Expanded bool // Is this node expanded?
	Hidden   bool // Filtered out (and no descendant matches)
	Selected bool // Multi-select flag; derived for internal nodes
}

// IsInternal returns true if the node has children.
func (n *Node) IsInternal() bool {
	return len(n.Children) > 0
}

// Ancestors returns the ancestors of a node from root to parent.
func (n *Node) Ancestors() []*Node {
	var ancestors []*Node
	for current := n.Parent; current != nil; current = current.Parent {
		ancestors = append([]*Node{current}, ancestors...)
	}
	return ancestors
}

// Build annotates a raw forest and reports whether selectedID was found.
//
// Levels start at 0. A node starts expanded iff it or one of its descendants
// is selectedID, so the initial selection is always on screen. Hidden and
// Selected start false regardless of selectedID. An empty selectedID never
// matches.
func Build(raw []model.Node, selectedID string) ([]*Node, bool) {
	roots := make([]*Node, 0, len(raw))
	found := false
	for i := range raw {
		node, hit := buildNode(&raw[i], 0, nil, selectedID)
		roots = append(roots, node)
		found = found || hit
	}
	return roots, found
}

// buildNode recursively builds a node and its children, returning whether the
// subtree contains selectedID.
func buildNode(raw *model.Node, level int, parent *Node, selectedID string) (*Node, bool) {
	node := &Node{
		ID:          raw.ID,
		Label:       raw.Label,
		Icon:        raw.Icon,
		Classes:     raw.Classes,
		GeneralType: raw.GeneralType,
		Parent:      parent,
		Level:       level,
	}

	hit := selectedID != "" && raw.ID == selectedID
	if len(raw.Children) > 0 {
		node.Children = make([]*Node, 0, len(raw.Children))
	}
	for i := range raw.Children {
		child, childHit := buildNode(&raw.Children[i], level+1, node, selectedID)
		node.Children = append(node.Children, child)
		hit = hit || childHit
	}
	node.Expanded = hit

	return node, hit
}

// Walk visits every node in pre-order. Returning false from fn skips the
// node's subtree.
func Walk(nodes []*Node, fn func(*Node) bool) {
	for _, node := range nodes {
		if node == nil {
			continue
		}
		if fn(node) {
			Walk(node.Children, fn)
		}
	}
}

// Index returns an ID lookup for the forest.
func Index(nodes []*Node) map[string]*Node {
	index := make(map[string]*Node)
	Walk(nodes, func(n *Node) bool {
		index[n.ID] = n
		return true
	})
	return index
}
