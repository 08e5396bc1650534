package tree

import (
	"github.com/testgen/tgv/pkg/model"
)

// MultiSelection extracts the minimal covering of the selected leaves.
//
// Post-order: a selected leaf yields {id}. An internal node yields nothing if
// nothing beneath it is selected, {id, all:true, children} when every child is
// fully covered, and {id, all:false, children} otherwise, where children holds
// only the non-empty child entries.
//
// all:true therefore requires more than one entry per child: each child entry
// must itself be a leaf or all:true. A group whose tables are all partially
// selected yields all:false even though every table has an entry.
func MultiSelection(nodes []*Node) []model.SelectedNode {
	var result []model.SelectedNode
	for _, node := range nodes {
		if entry, ok := selectionEntry(node); ok {
			result = append(result, entry)
		}
	}
	return result
}

func selectionEntry(node *Node) (model.SelectedNode, bool) {
	if node == nil {
		return model.SelectedNode{}, false
	}
	if !node.IsInternal() {
		if node.Selected {
			return model.SelectedNode{ID: node.ID}, true
		}
		return model.SelectedNode{}, false
	}

	children := MultiSelection(node.Children)
	if len(children) == 0 {
		return model.SelectedNode{}, false
	}

	all := len(children) == len(node.Children)
	for _, child := range children {
		if !child.IsFullyCovered() {
			all = false
			break
		}
	}
	return model.SelectedNode{ID: node.ID, All: &all, Children: children}, true
}
