package tree

import (
	"github.com/testgen/tgv/pkg/model"
)

// Tree owns an annotated forest together with the single-select scalar, the
// search term and the external filters.
type Tree struct {
	roots []*Node
	index map[string]*Node

	multiSelect    bool
	selectedID     string // Single-select scalar, "" when nothing is selected
	searchTerm     string
	filters        Filters
	expandOnSearch bool
}

// Option configures a Tree.
type Option func(*Tree)

// WithMultiSelect starts the tree in multi-select mode.
func WithMultiSelect(on bool) Option {
	return func(t *Tree) { t.multiSelect = on }
}

// WithSelectedID sets the initial single-select id.
func WithSelectedID(id string) Option {
	return func(t *Tree) { t.selectedID = id }
}

// WithFilters installs the external filter hooks.
func WithFilters(f Filters) Option {
	return func(t *Tree) { t.filters = f }
}

// WithExpandOnSearch controls whether a non-empty search expands everything.
// Enabled by default.
func WithExpandOnSearch(on bool) Option {
	return func(t *Tree) { t.expandOnSearch = on }
}

// New creates an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		index:          make(map[string]*Node),
		expandOnSearch: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Load replaces the forest. A selected id that no longer exists is reset to
// "". The current search and filters are re-applied.
func (t *Tree) Load(raw []model.Node) {
	roots, found := Build(raw, t.selectedID)
	t.roots = roots
	t.index = Index(roots)
	if !found {
		t.selectedID = ""
	}
	t.Refilter()
	if t.expandOnSearch && t.searchTerm != "" {
		ExpandOrCollapse(t.roots, true)
	}
}

// Roots returns the top-level nodes.
func (t *Tree) Roots() []*Node {
	return t.roots
}

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id string) *Node {
	return t.index[id]
}

// Len returns the total number of nodes.
func (t *Tree) Len() int {
	return len(t.index)
}

// MultiSelect reports whether the tree is in multi-select mode.
func (t *Tree) MultiSelect() bool {
	return t.multiSelect
}

// SetMultiSelect switches selection mode. Leaving multi-select clears every
// per-node Selected flag.
func (t *Tree) SetMultiSelect(on bool) {
	if t.multiSelect && !on {
		ClearSelection(t.roots)
	}
	t.multiSelect = on
}

// SelectedID returns the single-select scalar.
func (t *Tree) SelectedID() string {
	return t.selectedID
}

// SelectedNode returns the single-selected node, or nil.
func (t *Tree) SelectedNode() *Node {
	return t.index[t.selectedID]
}

// Click handles a click on a node's row. In single-select mode the scalar is
// set to id unconditionally; in multi-select mode the node is toggled.
// Returns false if id is unknown.
func (t *Tree) Click(id string) bool {
	node := t.index[id]
	if node == nil {
		return false
	}
	if !t.multiSelect {
		t.selectedID = id
		return true
	}
	Toggle(node, OriginSelf)
	return true
}

// ToggleExpanded flips the expand state of an internal node. Selection is
// never touched. Returns false for unknown ids and leaves.
func (t *Tree) ToggleExpanded(id string) bool {
	node := t.index[id]
	if node == nil || !node.IsInternal() {
		return false
	}
	node.Expanded = !node.Expanded
	return true
}

// ExpandAll expands every internal node.
func (t *Tree) ExpandAll() {
	ExpandOrCollapse(t.roots, true)
}

// CollapseAll collapses every internal node.
func (t *Tree) CollapseAll() {
	ExpandOrCollapse(t.roots, false)
}

// InSelectedPath reports whether node is the single-selected node or one of
// its ancestors.
func (t *Tree) InSelectedPath(node *Node) bool {
	selected := t.SelectedNode()
	for current := selected; current != nil; current = current.Parent {
		if current == node {
			return true
		}
	}
	return false
}

// SearchTerm returns the current search term.
func (t *Tree) SearchTerm() string {
	return t.searchTerm
}

// ApplySearch sets the search term and re-filters synchronously. A non-empty
// term also expands the whole tree so matches are never hidden behind a
// collapsed ancestor.
func (t *Tree) ApplySearch(term string) {
	t.searchTerm = term
	t.Refilter()
	if t.expandOnSearch && term != "" {
		ExpandOrCollapse(t.roots, true)
	}
}

// SetFilters replaces the external filter hooks and re-filters.
func (t *Tree) SetFilters(f Filters) {
	t.filters = f
	t.Refilter()
}

// Filters returns the external filter hooks, or nil.
func (t *Tree) Filters() Filters {
	return t.filters
}

// Refilter recomputes Hidden from the search term and the external filters.
func (t *Tree) Refilter() {
	Filter(t.roots, t.hiddenFunc())
}

// hiddenFunc combines the search predicate with the external filters.
func (t *Tree) hiddenFunc() HiddenFunc {
	if t.filters == nil {
		return SearchHidden(t.searchTerm)
	}
	return AnyHidden(SearchHidden(t.searchTerm), t.filters.IsNodeHidden)
}

// HasActiveFilters reports whether a search term or external filter is set.
func (t *Tree) HasActiveFilters() bool {
	if t.searchTerm != "" {
		return true
	}
	return t.filters != nil && t.filters.HasActiveFilters()
}

// ResetFilters clears the search term and the external filters.
func (t *Tree) ResetFilters() {
	t.searchTerm = ""
	if t.filters != nil {
		t.filters.ResetFilters()
	}
	t.Refilter()
}

// NoMatches is true when filtering hid every top-level node.
func (t *Tree) NoMatches() bool {
	return NoMatches(t.roots)
}

// MultiSelection returns the minimal covering of the selected leaves.
func (t *Tree) MultiSelection() []model.SelectedNode {
	return MultiSelection(t.roots)
}

// VisibleRows flattens the forest into the rows a view would draw: hidden
// nodes are skipped and children are only included under expanded parents.
func (t *Tree) VisibleRows() []*Node {
	var rows []*Node
	var appendVisible func(node *Node)
	appendVisible = func(node *Node) {
		if node == nil || node.Hidden {
			return
		}
		rows = append(rows, node)
		if node.Expanded {
			for _, child := range node.Children {
				appendVisible(child)
			}
		}
	}
	for _, root := range t.roots {
		appendVisible(root)
	}
	return rows
}
