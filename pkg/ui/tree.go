package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/testgen/tgv/pkg/model"
	"github.com/testgen/tgv/pkg/tree"
)

// typeKeys maps the number keys to the general type they toggle.
var typeKeys = map[string]model.GeneralType{
	"1": model.TypeAlpha,
	"2": model.TypeBoolean,
	"3": model.TypeDatetime,
	"4": model.TypeNumeric,
	"5": model.TypeTime,
	"6": model.TypeUnknown,
}

// SelectionChangedMsg is produced when a click changed the selection.
type SelectionChangedMsg struct {
	Multi      bool
	SelectedID string
	Selection  []model.SelectedNode
}

// TreeModel renders a tree.Tree and handles keyboard interaction.
type TreeModel struct {
	tree           *tree.Tree
	types          *tree.TypeFilter
	flatList       []*tree.Node // Visible rows in display order
	cursor         int          // Index into flatList
	viewportOffset int          // Index of first rendered row
	theme          Theme
	keys           KeyMap
	width          int
	height         int
	labelWidth     int

	search    textinput.Model
	searching bool
}

// NewTreeModel creates a view over t. A type filter is installed unless t
// already has external filters.
func NewTreeModel(t *tree.Tree, theme Theme) TreeModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search labels"
	ti.CharLimit = 128

	m := TreeModel{
		tree:       t,
		theme:      theme,
		keys:       DefaultKeyMap(),
		labelWidth: 60,
		search:     ti,
	}
	if tf, ok := t.Filters().(*tree.TypeFilter); ok {
		m.types = tf
	} else if t.Filters() == nil {
		m.types = tree.NewTypeFilter()
		t.SetFilters(m.types)
	}
	m.rebuildFlatList()
	m.SelectByID(t.SelectedID())
	return m
}

// Tree returns the underlying tree state.
func (m *TreeModel) Tree() *tree.Tree {
	return m.tree
}

// SetSize updates the available dimensions for the tree view
func (m *TreeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.search.Width = width - 4
	m.ensureCursorVisible()
}

// SetTheme switches the colours used for rendering.
func (m *TreeModel) SetTheme(theme Theme) {
	m.theme = theme
}

// SetLabelWidth caps the rendered label width in cells.
func (m *TreeModel) SetLabelWidth(w int) {
	if w > 0 {
		m.labelWidth = w
	}
}

// Load replaces the nodes and keeps the cursor on the same id when it
// survived the reload.
func (m *TreeModel) Load(nodes []model.Node) {
	current := m.CursorID()
	m.tree.Load(nodes)
	m.rebuildFlatList()
	if !m.SelectByID(current) {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

// Searching reports whether the search input has focus.
func (m *TreeModel) Searching() bool {
	return m.searching
}

// StartSearch focuses the search input.
func (m *TreeModel) StartSearch() tea.Cmd {
	m.searching = true
	m.search.SetValue(m.tree.SearchTerm())
	m.search.CursorEnd()
	return m.search.Focus()
}

// ApplySearch filters by term and refreshes the rows.
func (m *TreeModel) ApplySearch(term string) {
	m.tree.ApplySearch(term)
	m.rebuildFlatList()
}

// ResetFilters clears the search term and the type filter.
func (m *TreeModel) ResetFilters() {
	m.search.SetValue("")
	m.tree.ResetFilters()
	m.rebuildFlatList()
}

// ToggleType toggles a general type in the type filter.
func (m *TreeModel) ToggleType(gt model.GeneralType) {
	if m.types == nil {
		return
	}
	m.types.Toggle(gt)
	m.tree.Refilter()
	m.rebuildFlatList()
}

// ActiveTypes lists the enabled type filters in key order.
func (m *TreeModel) ActiveTypes() []model.GeneralType {
	if m.types == nil {
		return nil
	}
	var out []model.GeneralType
	for _, k := range []string{"1", "2", "3", "4", "5", "6"} {
		if gt := typeKeys[k]; m.types.Enabled(gt) {
			out = append(out, gt)
		}
	}
	return out
}

// Update handles key input for the tree.
func (m TreeModel) Update(msg tea.Msg) (TreeModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searching {
		return m.updateSearch(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.MoveUp()
	case key.Matches(keyMsg, m.keys.Down):
		m.MoveDown()
	case key.Matches(keyMsg, m.keys.PageUp):
		m.PageUp()
	case key.Matches(keyMsg, m.keys.PageDown):
		m.PageDown()
	case key.Matches(keyMsg, m.keys.Top):
		m.JumpToTop()
	case key.Matches(keyMsg, m.keys.Bottom):
		m.JumpToBottom()
	case key.Matches(keyMsg, m.keys.Left):
		m.CollapseOrJumpToParent()
	case key.Matches(keyMsg, m.keys.Right):
		m.ExpandOrMoveToChild()
	case key.Matches(keyMsg, m.keys.Toggle):
		m.ToggleExpand()
	case key.Matches(keyMsg, m.keys.ExpandAll):
		m.ExpandAll()
	case key.Matches(keyMsg, m.keys.CollapseAll):
		m.CollapseAll()
	case key.Matches(keyMsg, m.keys.Search):
		cmd := m.StartSearch()
		return m, cmd
	case key.Matches(keyMsg, m.keys.Reset):
		m.ResetFilters()
	case key.Matches(keyMsg, m.keys.TypeFilter):
		m.ToggleType(typeKeys[keyMsg.String()])
	case key.Matches(keyMsg, m.keys.MultiSelect):
		m.tree.SetMultiSelect(!m.tree.MultiSelect())
		return m, m.selectionChanged()
	case key.Matches(keyMsg, m.keys.Select):
		if m.ClickCursor() {
			return m, m.selectionChanged()
		}
	}
	return m, nil
}

func (m TreeModel) updateSearch(msg tea.KeyMsg) (TreeModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.ApplySearch("")
		return m, nil
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.ApplySearch(after)
	}
	return m, cmd
}

func (m *TreeModel) selectionChanged() tea.Cmd {
	msg := SelectionChangedMsg{
		Multi:      m.tree.MultiSelect(),
		SelectedID: m.tree.SelectedID(),
	}
	if msg.Multi {
		msg.Selection = m.tree.MultiSelection()
	}
	return func() tea.Msg { return msg }
}

// ClickCursor clicks the node under the cursor.
func (m *TreeModel) ClickCursor() bool {
	node := m.CursorNode()
	if node == nil {
		return false
	}
	return m.tree.Click(node.ID)
}

// View renders the tree view.
func (m *TreeModel) View() string {
	var sb strings.Builder

	if m.searching || m.tree.SearchTerm() != "" {
		if m.searching {
			sb.WriteString(m.search.View())
		} else {
			muted := m.theme.Renderer.NewStyle().Foreground(m.theme.Muted)
			sb.WriteString(muted.Render("/ " + m.tree.SearchTerm()))
		}
		sb.WriteString("\n")
	}

	switch {
	case m.tree.Len() == 0:
		sb.WriteString(m.renderEmptyState())
		return sb.String()
	case m.tree.NoMatches():
		sb.WriteString(m.renderNoMatches())
		return sb.String()
	}

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		node := m.flatList[i]
		line := m.renderNode(node)
		if i == m.cursor {
			line = m.theme.Selected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderEmptyState renders the view when there are no nodes.
func (m *TreeModel) renderEmptyState() string {
	r := m.theme.Renderer
	titleStyle := r.NewStyle().Foreground(m.theme.Primary).Bold(true)
	mutedStyle := r.NewStyle().Foreground(m.theme.Muted)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Catalog"))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("No tables to display."))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("Load a catalog with --data FILE or --db FILE."))
	return sb.String()
}

// renderNoMatches renders the view when the filters hide every row.
func (m *TreeModel) renderNoMatches() string {
	r := m.theme.Renderer
	titleStyle := r.NewStyle().Foreground(m.theme.Secondary).Bold(true)
	mutedStyle := r.NewStyle().Foreground(m.theme.Muted)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("No matches"))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("Nothing matches the current search and filters."))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("Press R to reset filters."))
	return sb.String()
}

// renderNode renders a single row with tree characters and styling.
func (m *TreeModel) renderNode(node *tree.Node) string {
	r := m.theme.Renderer
	var sb strings.Builder

	prefix := m.buildTreePrefix(node)
	sb.WriteString(prefix)

	indicatorStyle := r.NewStyle().Foreground(m.theme.Secondary)
	sb.WriteString(indicatorStyle.Render(getExpandIndicator(node)))
	sb.WriteString(" ")

	if m.tree.MultiSelect() {
		boxStyle := r.NewStyle().Foreground(m.theme.Primary)
		sb.WriteString(boxStyle.Render(checkbox(node)))
		sb.WriteString(" ")
	}

	if icon := node.Icon; icon != "" {
		sb.WriteString(icon)
		sb.WriteString(" ")
	} else if node.GeneralType != "" {
		glyph, color := m.theme.GetTypeIcon(node.GeneralType)
		sb.WriteString(r.NewStyle().Foreground(color).Render(glyph))
		sb.WriteString(" ")
	}

	maxLen := m.labelWidth
	if m.width > 0 {
		if avail := m.width - lipgloss.Width(prefix) - 12; avail < maxLen {
			maxLen = avail
		}
	}
	if maxLen < 10 {
		maxLen = 10
	}
	label := truncateLabel(node.Label, maxLen)

	labelStyle := m.theme.Base
	if !m.tree.MultiSelect() && m.tree.InSelectedPath(node) {
		labelStyle = m.theme.Path
		if node.ID == m.tree.SelectedID() {
			labelStyle = labelStyle.Bold(true)
		}
	}
	sb.WriteString(labelStyle.Render(label))
	return sb.String()
}

// buildTreePrefix builds the indentation and branch characters for a node.
// Hidden siblings are ignored so the last visible child gets the corner.
func (m *TreeModel) buildTreePrefix(node *tree.Node) string {
	if node.Level == 0 {
		return ""
	}

	treeStyle := m.theme.Renderer.NewStyle().Foreground(m.theme.Muted)
	var parts []string

	// The root draws no column of its own.
	ancestors := node.Ancestors()
	for _, ancestor := range ancestors[1:] {
		if m.hasSiblingsBelow(ancestor) {
			parts = append(parts, "│   ")
		} else {
			parts = append(parts, "    ")
		}
	}

	if m.hasSiblingsBelow(node) {
		parts = append(parts, "├── ")
	} else {
		parts = append(parts, "└── ")
	}
	return treeStyle.Render(strings.Join(parts, ""))
}

// hasSiblingsBelow reports whether a visible sibling follows node.
func (m *TreeModel) hasSiblingsBelow(node *tree.Node) bool {
	siblings := m.tree.Roots()
	if node.Parent != nil {
		siblings = node.Parent.Children
	}
	after := false
	for _, s := range siblings {
		if s == node {
			after = true
			continue
		}
		if after && !s.Hidden {
			return true
		}
	}
	return false
}

// getExpandIndicator returns the expand/collapse indicator for a node.
func getExpandIndicator(node *tree.Node) string {
	if !node.IsInternal() {
		return "•" // Leaf node
	}
	if node.Expanded {
		return "▾" // Expanded
	}
	return "▸" // Collapsed
}

// checkbox renders the tri-state selection box of a node.
func checkbox(node *tree.Node) string {
	switch {
	case node.Selected:
		return "[x]"
	case tree.Indeterminate(node):
		return "[-]"
	default:
		return "[ ]"
	}
}

// truncateLabel truncates a label to maxLen display cells with an ellipsis.
func truncateLabel(label string, maxLen int) string {
	if maxLen <= 1 {
		return "…"
	}
	return runewidth.Truncate(label, maxLen, "…")
}

// CursorNode returns the node under the cursor, or nil.
func (m *TreeModel) CursorNode() *tree.Node {
	if m.cursor >= 0 && m.cursor < len(m.flatList) {
		return m.flatList[m.cursor]
	}
	return nil
}

// CursorID returns the id under the cursor, or "".
func (m *TreeModel) CursorID() string {
	if node := m.CursorNode(); node != nil {
		return node.ID
	}
	return ""
}

// MoveDown moves the cursor down in the flat list.
func (m *TreeModel) MoveDown() {
	if m.cursor < len(m.flatList)-1 {
		m.cursor++
	}
	m.ensureCursorVisible()
}

// MoveUp moves the cursor up in the flat list.
func (m *TreeModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
	m.ensureCursorVisible()
}

// ToggleExpand expands or collapses the node under the cursor.
func (m *TreeModel) ToggleExpand() {
	if node := m.CursorNode(); node != nil && m.tree.ToggleExpanded(node.ID) {
		m.rebuildFlatList()
	}
}

// ExpandAll expands all nodes in the tree.
func (m *TreeModel) ExpandAll() {
	m.tree.ExpandAll()
	m.rebuildFlatList()
}

// CollapseAll collapses all nodes in the tree.
func (m *TreeModel) CollapseAll() {
	current := m.CursorNode()
	m.tree.CollapseAll()
	m.rebuildFlatList()
	// Keep the cursor on the root that contained it
	for current != nil && current.Parent != nil {
		current = current.Parent
	}
	if current != nil {
		m.SelectByID(current.ID)
	}
}

// JumpToTop moves cursor to the first node.
func (m *TreeModel) JumpToTop() {
	m.cursor = 0
	m.ensureCursorVisible()
}

// JumpToBottom moves cursor to the last node.
func (m *TreeModel) JumpToBottom() {
	if len(m.flatList) > 0 {
		m.cursor = len(m.flatList) - 1
	}
	m.ensureCursorVisible()
}

// JumpToParent moves cursor to the parent of the node under the cursor.
func (m *TreeModel) JumpToParent() {
	node := m.CursorNode()
	if node == nil || node.Parent == nil {
		return
	}
	m.SelectByID(node.Parent.ID)
}

// ExpandOrMoveToChild handles the → / l key:
// - collapsed internal node: expand it
// - expanded internal node: move to its first visible child
// - leaf: do nothing
func (m *TreeModel) ExpandOrMoveToChild() {
	node := m.CursorNode()
	if node == nil || !node.IsInternal() {
		return
	}
	if !node.Expanded {
		m.tree.ToggleExpanded(node.ID)
		m.rebuildFlatList()
		return
	}
	for _, child := range node.Children {
		if !child.Hidden {
			m.SelectByID(child.ID)
			return
		}
	}
}

// CollapseOrJumpToParent handles the ← / h key:
// - expanded internal node: collapse it
// - otherwise: jump to parent
func (m *TreeModel) CollapseOrJumpToParent() {
	node := m.CursorNode()
	if node == nil {
		return
	}
	if node.IsInternal() && node.Expanded {
		m.tree.ToggleExpanded(node.ID)
		m.rebuildFlatList()
		return
	}
	m.JumpToParent()
}

func (m *TreeModel) pageSize() int {
	if m.height/2 < 1 {
		return 5
	}
	return m.height / 2
}

// PageDown moves cursor down by half a viewport.
func (m *TreeModel) PageDown() {
	m.cursor += m.pageSize()
	if m.cursor >= len(m.flatList) {
		m.cursor = len(m.flatList) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

// PageUp moves cursor up by half a viewport.
func (m *TreeModel) PageUp() {
	m.cursor -= m.pageSize()
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

func (m *TreeModel) rowsAvailable() int {
	rows := m.height
	if m.searching || m.tree.SearchTerm() != "" {
		rows--
	}
	if rows <= 0 {
		rows = 20
	}
	return rows
}

// ensureCursorVisible scrolls so the cursor row is rendered.
func (m *TreeModel) ensureCursorVisible() {
	rows := m.rowsAvailable()
	if m.cursor < m.viewportOffset {
		m.viewportOffset = m.cursor
	}
	if m.cursor >= m.viewportOffset+rows {
		m.viewportOffset = m.cursor - rows + 1
	}
	if m.viewportOffset < 0 {
		m.viewportOffset = 0
	}
}

// visibleRange returns the [start, end) rows to render.
func (m *TreeModel) visibleRange() (start, end int) {
	if len(m.flatList) == 0 {
		return 0, 0
	}
	rows := m.rowsAvailable()
	start = m.viewportOffset
	end = start + rows
	if end > len(m.flatList) {
		end = len(m.flatList)
		start = end - rows
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

// SelectByID moves cursor to the row with the given id.
// Returns true if found, false otherwise.
func (m *TreeModel) SelectByID(id string) bool {
	if id == "" {
		return false
	}
	for i, node := range m.flatList {
		if node.ID == id {
			m.cursor = i
			m.ensureCursorVisible()
			return true
		}
	}
	return false
}

// rebuildFlatList rebuilds the flattened list of visible nodes.
func (m *TreeModel) rebuildFlatList() {
	m.flatList = m.tree.VisibleRows()
	if m.cursor >= len(m.flatList) {
		m.cursor = len(m.flatList) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureCursorVisible()
}

// RowCount returns the number of visible rows.
func (m *TreeModel) RowCount() int {
	return len(m.flatList)
}
