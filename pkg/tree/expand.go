package tree

// ExpandOrCollapse sets Expanded on every internal node of the given subtrees.
// Leaves have no expand state and are left untouched.
func ExpandOrCollapse(nodes []*Node, expanded bool) {
	for _, node := range nodes {
		if node == nil || !node.IsInternal() {
			continue
		}
		node.Expanded = expanded
		ExpandOrCollapse(node.Children, expanded)
	}
}

// ExpandPath expands every ancestor of node so that it becomes reachable.
func ExpandPath(node *Node) {
	for current := node.Parent; current != nil; current = current.Parent {
		current.Expanded = true
	}
}

// HasCollapsed reports whether any internal node in the forest is collapsed.
func HasCollapsed(nodes []*Node) bool {
	collapsed := false
	Walk(nodes, func(n *Node) bool {
		if n.IsInternal() && !n.Expanded {
			collapsed = true
		}
		return !collapsed
	})
	return collapsed
}
