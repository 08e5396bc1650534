package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the tree view bindings.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Left        key.Binding
	Right       key.Binding
	Toggle      key.Binding
	Select      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Search      key.Binding
	Reset       key.Binding
	TypeFilter  key.Binding
	MultiSelect key.Binding
	Export      key.Binding
	Profile     key.Binding
	Tags        key.Binding
	Schedule    key.Binding
	Reload      key.Binding
	Help        key.Binding
	InputHelp   key.Binding
	Theme       key.Binding
	Close       key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse/parent")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand/child")),
		Toggle:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "expand/collapse")),
		Select:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "select")),
		ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Reset:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset filters")),
		TypeFilter:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "type filter")),
		MultiSelect: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "multi-select")),
		Export:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		Profile:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "run profiling")),
		Tags:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "edit tags")),
		Schedule:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "schedule")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:        key.NewBinding(key.WithKeys("?", "f1"), key.WithHelp("?", "help")),
		InputHelp:   key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help while typing")),
		Theme:       key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "next theme")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
