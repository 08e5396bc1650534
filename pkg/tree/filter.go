package tree

import (
	"strings"

	"github.com/testgen/tgv/pkg/model"
)

// HiddenFunc reports whether a node fails the active filter on its own,
// without looking at its descendants.
type HiddenFunc func(*Node) bool

// Filters is the external filter hook consumed by a Tree.
type Filters interface {
	IsNodeHidden(node *Node) bool
	HasActiveFilters() bool
	ResetFilters()
}

// Filter recomputes Hidden for the whole forest, children before parents.
//
// A leaf is hidden iff isNodeHidden says so. An internal node is hidden iff it
// fails the predicate itself and every child is hidden, so an ancestor of a
// visible match is never hidden. The result depends only on the predicate and
// the node content, never on the previous Hidden values.
func Filter(nodes []*Node, isNodeHidden HiddenFunc) {
	for _, node := range nodes {
		filterNode(node, isNodeHidden)
	}
}

func filterNode(node *Node, isNodeHidden HiddenFunc) {
	ownHidden := isNodeHidden(node)
	if !node.IsInternal() {
		node.Hidden = ownHidden
		return
	}

	allChildrenHidden := true
	for _, child := range node.Children {
		filterNode(child, isNodeHidden)
		if !child.Hidden {
			allChildrenHidden = false
		}
	}
	node.Hidden = ownHidden && allChildrenHidden
}

// NoMatches is true iff every top-level node is hidden.
func NoMatches(nodes []*Node) bool {
	for _, node := range nodes {
		if !node.Hidden {
			return false
		}
	}
	return true
}

// SearchHidden returns the label search predicate: a node is hidden when its
// label does not contain term (case-insensitive). A blank term hides nothing.
func SearchHidden(term string) HiddenFunc {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return func(*Node) bool { return false }
	}
	return func(node *Node) bool {
		return !strings.Contains(strings.ToLower(node.Label), needle)
	}
}

// AnyHidden combines predicates: a node is hidden if any predicate hides it.
func AnyHidden(preds ...HiddenFunc) HiddenFunc {
	return func(node *Node) bool {
		for _, pred := range preds {
			if pred != nil && pred(node) {
				return true
			}
		}
		return false
	}
}

// TypeFilter is a Filters implementation that keeps only columns of the
// chosen general types. Nodes without a general type (groups, tables) never
// match on their own and stay visible only through a matching descendant.
type TypeFilter struct {
	types map[model.GeneralType]bool
}

// NewTypeFilter creates a type filter with the given types enabled.
func NewTypeFilter(types ...model.GeneralType) *TypeFilter {
	f := &TypeFilter{types: make(map[model.GeneralType]bool)}
	for _, gt := range types {
		f.types[gt] = true
	}
	return f
}

// Toggle enables or disables a general type.
func (f *TypeFilter) Toggle(gt model.GeneralType) {
	if f.types[gt] {
		delete(f.types, gt)
		return
	}
	f.types[gt] = true
}

// Enabled reports whether gt is part of the filter.
func (f *TypeFilter) Enabled(gt model.GeneralType) bool {
	return f.types[gt]
}

// IsNodeHidden implements Filters.
func (f *TypeFilter) IsNodeHidden(node *Node) bool {
	if len(f.types) == 0 {
		return false
	}
	if node.GeneralType == "" {
		return true
	}
	return !f.types[node.GeneralType]
}

// HasActiveFilters implements Filters.
func (f *TypeFilter) HasActiveFilters() bool {
	return len(f.types) > 0
}

// ResetFilters implements Filters.
func (f *TypeFilter) ResetFilters() {
	f.types = make(map[model.GeneralType]bool)
}
