package ui

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/testgen/tgv/pkg/events"
	"github.com/testgen/tgv/pkg/logging"
	"github.com/testgen/tgv/pkg/model"
	"github.com/testgen/tgv/pkg/tree"
)

// AppConfig wires the application model to its collaborators.
type AppConfig struct {
	Theme Theme
	// ThemeName picks a registered theme, overriding Theme when found
	ThemeName string
	Registry  *Registry
	Emitter  events.Emitter
	Logger   *zap.Logger

	// Worker is asked to reload on the reload key; may be nil
	Worker *CatalogWorker
	// Context bounds background reloads
	Context context.Context

	Schedule       string // Initial cron expression for the schedule editor
	PreviewSamples int
	Location       *time.Location
	LabelWidth     int
}

// App is the top-level bubbletea model: the catalog tree plus overlays for
// help, schedule editing and tags.
type App struct {
	cfg      AppConfig
	tree     TreeModel
	cron     CronEditorModel
	tags     textinput.Model
	help     viewport.Model
	md       *MarkdownRenderer
	registry *Registry
	emitter  events.Emitter
	logger   *zap.Logger
	keys     KeyMap

	schedule string
	tagsByID map[string][]string
	status   string
	width    int
	height   int
}

// NewApp creates the application model over t.
func NewApp(t *tree.Tree, cfg AppConfig) App {
	if cfg.Registry == nil {
		cfg.Registry = NewRegistry()
	}
	if theme, ok := cfg.Registry.Theme(cfg.ThemeName); ok {
		cfg.Theme = theme
	} else if cfg.Theme.Renderer == nil {
		cfg.Theme = DefaultTheme(lipgloss.DefaultRenderer())
	}
	if len(cfg.Registry.ThemeNames()) == 0 {
		RegisterBuiltinThemes(cfg.Registry, cfg.Theme.Renderer)
	}
	if cfg.ThemeName == "" {
		cfg.ThemeName = ThemeDefault
	}
	if cfg.PreviewSamples <= 0 {
		cfg.PreviewSamples = 5
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	logger := logging.OrNop(cfg.Logger)
	var emitter events.Emitter = events.Nop{}
	if cfg.Emitter != nil {
		emitter = events.Safe{Emitter: cfg.Emitter, Logger: logger}
	}

	tv := NewTreeModel(t, cfg.Theme)
	tv.SetLabelWidth(cfg.LabelWidth)

	ti := textinput.New()
	ti.Placeholder = "tag1, tag2"
	ti.CharLimit = 256

	return App{
		cfg:      cfg,
		tree:     tv,
		tags:     ti,
		md:       NewMarkdownRendererWithTheme(60, cfg.Theme),
		registry: cfg.Registry,
		emitter:  emitter,
		logger:   logger,
		keys:     DefaultKeyMap(),
		schedule: cfg.Schedule,
		tagsByID: make(map[string][]string),
	}
}

// Init implements tea.Model.
func (m App) Init() tea.Cmd {
	return nil
}

// Tree returns the tree view.
func (m *App) Tree() *TreeModel {
	return &m.tree
}

// Schedule returns the last applied cron expression.
func (m *App) Schedule() string {
	return m.schedule
}

// Tags returns the tags recorded for a node.
func (m *App) Tags(id string) []string {
	return m.tagsByID[id]
}

// Status returns the status line text.
func (m *App) Status() string {
	return m.status
}

// Update implements tea.Model.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.tree.SetSize(msg.Width, max(msg.Height-2, 1))
		m.cron.SetSize(msg.Width, msg.Height)
		return m, nil

	case CatalogLoadedMsg:
		t := m.tree.Tree()
		beforeID, beforeSel := t.SelectedID(), t.MultiSelection()
		m.tree.Load(msg.Nodes)
		m.status = fmt.Sprintf("catalog reloaded (%d nodes)", model.CountNodes(msg.Nodes))
		// A reload rebuilds every multi-select flag, so the covering can
		// shrink even when the single-select id survives.
		changed := beforeID != t.SelectedID()
		if t.MultiSelect() && !reflect.DeepEqual(beforeSel, t.MultiSelection()) {
			changed = true
		}
		if changed {
			m.emitSelection(events.TreeSelectionChanged)
		}
		return m, nil

	case CatalogErrorMsg:
		if msg.Err != nil {
			m.status = "reload failed: " + msg.Err.Cause.Error()
		}
		return m, nil

	case SelectionChangedMsg:
		m.emitSelection(events.TreeSelectionChanged)
		return m, nil

	case ScheduleAppliedMsg:
		m.schedule = msg.Expression
		m.registry.Close(OverlayCron)
		m.status = "schedule: " + msg.Expression
		m.emit(events.ScheduleChanged, events.SchedulePayload{Expression: msg.Expression, Sample: msg.Sample})
		return m, nil

	case CronEditorClosedMsg:
		m.registry.Close(OverlayCron)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if top, ok := m.registry.Top(); ok {
		switch top {
		case OverlayHelp:
			if key.Matches(msg, m.keys.Close, m.keys.Help, m.keys.Quit) {
				m.registry.CloseTop()
				return m, nil
			}
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			return m, cmd
		case OverlayCron:
			// "?" is only free while no text field has focus.
			if key.Matches(msg, m.keys.InputHelp) ||
				(m.cron.currentField() != fieldCustom && key.Matches(msg, m.keys.Help)) {
				m.openHelp()
				return m, nil
			}
			var cmd tea.Cmd
			m.cron, cmd = m.cron.Update(msg)
			return m, cmd
		case OverlayTags:
			if key.Matches(msg, m.keys.InputHelp) {
				m.openHelp()
				return m, nil
			}
			return m.updateTags(msg)
		}
	}

	if m.tree.Searching() {
		if key.Matches(msg, m.keys.InputHelp) {
			m.openHelp()
			return m, nil
		}
		var cmd tea.Cmd
		m.tree, cmd = m.tree.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.openHelp()
		return m, nil
	case key.Matches(msg, m.keys.Export):
		m.emitSelection(events.ExportClicked)
		m.status = "exported selection"
		return m, nil
	case key.Matches(msg, m.keys.Profile):
		m.emitSelection(events.RunProfilingClicked)
		m.status = "profiling requested"
		return m, nil
	case key.Matches(msg, m.keys.Tags):
		node := m.tree.CursorNode()
		if node == nil {
			return m, nil
		}
		m.tags.SetValue(strings.Join(m.tagsByID[node.ID], ", "))
		m.tags.CursorEnd()
		m.registry.Open(OverlayTags)
		cmd := m.tags.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Schedule):
		m.cron = NewCronEditorModel(m.schedule, m.cfg.PreviewSamples, m.cfg.Location, m.cfg.Theme)
		m.cron.SetSize(m.width, m.height)
		m.registry.Open(OverlayCron)
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		if m.cfg.Worker != nil {
			m.cfg.Worker.TriggerRefresh(m.cfg.Context)
			m.status = "reloading…"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tree, cmd = m.tree.Update(msg)
	return m, cmd
}

func (m App) updateTags(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.tags.Blur()
		m.registry.Close(OverlayTags)
		return m, nil
	case tea.KeyEnter:
		m.tags.Blur()
		m.registry.Close(OverlayTags)
		node := m.tree.CursorNode()
		if node == nil {
			return m, nil
		}
		tags := ParseTags(m.tags.Value())
		m.tagsByID[node.ID] = tags
		m.emit(events.TagsChanged, events.TagsPayload{NodeID: node.ID, Tags: tags})
		m.status = fmt.Sprintf("tags for %s: %d", node.Label, len(tags))
		return m, nil
	}
	var cmd tea.Cmd
	m.tags, cmd = m.tags.Update(msg)
	return m, cmd
}

// ThemeName returns the name of the active theme.
func (m *App) ThemeName() string {
	return m.cfg.ThemeName
}

// cycleTheme switches to the next registered theme in name order.
func (m *App) cycleTheme() {
	names := m.registry.ThemeNames()
	if len(names) == 0 {
		return
	}
	next := names[0]
	for i, name := range names {
		if name == m.cfg.ThemeName {
			next = names[(i+1)%len(names)]
			break
		}
	}
	theme, _ := m.registry.Theme(next)
	m.cfg.ThemeName = next
	m.cfg.Theme = theme
	m.tree.SetTheme(theme)
	m.md.SetWidthWithTheme(0, theme)
	m.status = "theme: " + next
}

// ParseTags splits a comma separated list, trimming blanks and duplicates.
func ParseTags(s string) []string {
	tags := []string{}
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// selectionPayload describes the current selection for the host.
func (m *App) selectionPayload() events.SelectionPayload {
	t := m.tree.Tree()
	p := events.SelectionPayload{Multi: t.MultiSelect(), SelectedID: t.SelectedID()}
	if p.Multi {
		p.SelectedID = ""
		p.Selection = t.MultiSelection()
	}
	return p
}

func (m *App) emitSelection(name string) {
	m.emit(name, m.selectionPayload())
}

func (m *App) emit(name string, payload any) {
	m.logger.Debug("emit event", zap.String("event", name))
	_ = m.emitter.Emit(name, payload)
}

// openHelp renders the help for the current context into a scrollable
// viewport.
func (m *App) openHelp() {
	content := RenderContextHelp(m.helpContext(), m.cfg.Theme, m.md, m.width)
	w, h := lipgloss.Width(content), lipgloss.Height(content)
	if m.height > 2 && h > m.height-2 {
		h = m.height - 2
	}
	m.help = viewport.New(w, h)
	m.help.SetContent(content)
	m.registry.Open(OverlayHelp)
}

// helpContext picks the help page for the current state.
func (m *App) helpContext() Context {
	switch {
	case m.registry.IsOpen(OverlayCron):
		return ContextCronEditor
	case m.registry.IsOpen(OverlayTags):
		return ContextTags
	case m.tree.Searching():
		return ContextSearch
	case m.tree.Tree().MultiSelect():
		return ContextMulti
	default:
		return ContextTree
	}
}

// View implements tea.Model.
func (m App) View() string {
	if top, ok := m.registry.Top(); ok {
		switch top {
		case OverlayHelp:
			return m.place(m.help.View())
		case OverlayCron:
			return m.cron.View()
		case OverlayTags:
			return m.place(m.renderTags())
		}
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(m.tree.View())
	sb.WriteString(m.renderStatus())
	return sb.String()
}

func (m *App) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *App) renderHeader() string {
	t := m.cfg.Theme
	r := t.Renderer
	title := r.NewStyle().Foreground(t.Primary).Bold(true).Render("TestGen Catalog")

	var parts []string
	if t := m.tree.Tree(); t.MultiSelect() {
		parts = append(parts, fmt.Sprintf("multi-select: %d selected", tree.CountSelectedLeaves(t.Roots())))
	}
	if types := m.tree.ActiveTypes(); len(types) > 0 {
		names := make([]string, len(types))
		for i, gt := range types {
			names[i] = gt.DisplayName()
		}
		parts = append(parts, "types: "+strings.Join(names, ","))
	}
	if m.schedule != "" {
		parts = append(parts, "schedule: "+m.schedule)
	}
	if len(parts) == 0 {
		return title
	}
	muted := r.NewStyle().Foreground(t.Muted)
	return title + "  " + muted.Render(strings.Join(parts, " │ "))
}

func (m *App) renderStatus() string {
	t := m.cfg.Theme
	style := t.Renderer.NewStyle().Foreground(t.Muted).Italic(true)
	text := m.status
	if text == "" {
		text = "? help │ q quit"
		if tree.HasCollapsed(m.tree.Tree().Roots()) {
			text = "? help │ E expand all │ q quit"
		}
	}
	return style.Render(text)
}

func (m *App) renderTags() string {
	t := m.cfg.Theme
	r := t.Renderer
	label := ""
	if node := m.tree.CursorNode(); node != nil {
		label = node.Label
	}
	lines := []string{
		r.NewStyle().Foreground(t.Primary).Bold(true).Render("Tags: " + label),
		"",
		m.tags.View(),
		"",
		r.NewStyle().Foreground(t.Secondary).Italic(true).Render("enter: save | esc: cancel"),
	}
	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(48).
		Render(strings.Join(lines, "\n"))
}
