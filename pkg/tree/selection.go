package tree

// Origin tells a multi-select click handler where the click came from.
type Origin int

const (
	// OriginSelf is a direct click on the node's own row.
	OriginSelf Origin = iota
	// OriginChild is a notification that one of the node's children changed.
	// It never toggles anything; the node only recomputes its derived flag.
	OriginChild
)

func (o Origin) String() string {
	if o == OriginChild {
		return "child"
	}
	return "self"
}

// SelectTree sets Selected on node and its descendants, skipping hidden nodes
// in both directions. Internal nodes visited on the way recompute their
// derived flag from their children.
func SelectTree(node *Node, selected bool) {
	if node == nil || node.Hidden {
		return
	}
	if !node.IsInternal() {
		node.Selected = selected
		return
	}
	for _, child := range node.Children {
		SelectTree(child, selected)
	}
	recompute(node)
}

// Toggle applies a multi-select click to node and propagates the derived
// Selected flag up to the root.
//
// A self click on a leaf flips it. A self click on a fully selected internal
// node clears its visible children; otherwise it selects its visible
// children. A child-originated click only recomputes.
func Toggle(node *Node, origin Origin) {
	if node == nil {
		return
	}

	switch {
	case origin == OriginChild:
		recompute(node)
	case !node.IsInternal():
		node.Selected = !node.Selected
	default:
		target := !node.Selected
		for _, child := range node.Children {
			SelectTree(child, target)
		}
		recompute(node)
	}

	if node.Parent != nil {
		Toggle(node.Parent, OriginChild)
	}
}

// recompute derives an internal node's Selected from its children.
func recompute(node *Node) {
	if !node.IsInternal() {
		return
	}
	for _, child := range node.Children {
		if !child.Selected {
			node.Selected = false
			return
		}
	}
	node.Selected = true
}

// Indeterminate reports the tri-state checkbox middle state: the node is not
// selected but at least one descendant is.
func Indeterminate(node *Node) bool {
	if node == nil || node.Selected || !node.IsInternal() {
		return false
	}
	return anyDescendantSelected(node)
}

func anyDescendantSelected(node *Node) bool {
	for _, child := range node.Children {
		if child.Selected || anyDescendantSelected(child) {
			return true
		}
	}
	return false
}

// ClearSelection resets Selected on every node, hidden or not.
func ClearSelection(nodes []*Node) {
	Walk(nodes, func(n *Node) bool {
		n.Selected = false
		return true
	})
}

// CountSelectedLeaves returns the number of selected leaves in the forest.
func CountSelectedLeaves(nodes []*Node) int {
	count := 0
	Walk(nodes, func(n *Node) bool {
		if !n.IsInternal() && n.Selected {
			count++
		}
		return true
	})
	return count
}
