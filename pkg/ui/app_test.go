package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/testgen/tgv/pkg/events"
	"github.com/testgen/tgv/pkg/tree"
)

func newTestApp(rec *events.Recorder, opts ...tree.Option) App {
	t := tree.New(opts...)
	t.Load(sampleCatalog())
	app := NewApp(t, AppConfig{
		Theme:          newTestTheme(),
		Emitter:        rec,
		Schedule:       "15 */3 * * *",
		PreviewSamples: 3,
	})
	next, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(App)
}

func step(t *testing.T, m App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(App)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return app, cmd
}

func lastPayload[T any](t *testing.T, rec *events.Recorder, name string) T {
	t.Helper()
	ev, ok := rec.Last(name)
	if !ok {
		t.Fatalf("no %s event recorded", name)
	}
	p, ok := ev.Payload.(T)
	if !ok {
		t.Fatalf("%s payload is %T", name, ev.Payload)
	}
	return p
}

func TestApp_SingleSelectEmitsSelectedID(t *testing.T) {
	rec := &events.Recorder{}
	m := newTestApp(rec)

	m, _ = step(t, m, runeKey("j"))
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected selection command")
	}
	m, _ = step(t, m, cmd())

	p := lastPayload[events.SelectionPayload](t, rec, events.TreeSelectionChanged)
	if p.Multi || p.SelectedID != "g2" || p.Selection != nil {
		t.Errorf("payload = %+v", p)
	}
}

func TestApp_MultiSelectEmitsCovering(t *testing.T) {
	rec := &events.Recorder{}
	m := newTestApp(rec, tree.WithMultiSelect(true))

	m.Tree().ExpandAll()
	m.Tree().SelectByID("t2")
	m, cmd := step(t, m, runeKey(" "))
	m, _ = step(t, m, cmd())

	p := lastPayload[events.SelectionPayload](t, rec, events.TreeSelectionChanged)
	if !p.Multi || p.SelectedID != "" {
		t.Errorf("payload = %+v", p)
	}
	if len(p.Selection) != 1 || p.Selection[0].ID != "g1" || len(p.Selection[0].Children) != 1 {
		t.Fatalf("selection = %+v", p.Selection)
	}
	if got := p.Selection[0].Children[0]; got.ID != "t2" || !got.IsFullyCovered() {
		t.Errorf("child = %+v", got)
	}

	m, _ = step(t, m, runeKey("x"))
	export := lastPayload[events.SelectionPayload](t, rec, events.ExportClicked)
	if len(export.Selection) != 1 {
		t.Errorf("export payload = %+v", export)
	}

	m, _ = step(t, m, runeKey("p"))
	if _, ok := rec.Last(events.RunProfilingClicked); !ok {
		t.Error("expected RunProfilingClicked")
	}
	if !strings.Contains(m.Status(), "profiling") {
		t.Errorf("status = %q", m.Status())
	}
}

func TestApp_SearchModeSwallowsShortcuts(t *testing.T) {
	rec := &events.Recorder{}
	m := newTestApp(rec)

	m, _ = step(t, m, runeKey("/"))
	m, _ = step(t, m, runeKey("x"))
	m, _ = step(t, m, runeKey("q"))
	if len(rec.Events()) != 0 {
		t.Errorf("shortcuts fired during search: %+v", rec.Events())
	}
	if m.Tree().Tree().SearchTerm() != "xq" {
		t.Errorf("search term = %q", m.Tree().Tree().SearchTerm())
	}
}

func TestApp_TagsOverlay(t *testing.T) {
	rec := &events.Recorder{}
	m := newTestApp(rec)

	m, _ = step(t, m, runeKey("t"))
	if !m.registry.IsOpen(OverlayTags) {
		t.Fatal("t should open the tags overlay")
	}
	if !strings.Contains(m.View(), "Tags: Sales") {
		t.Errorf("tags view:\n%s", m.View())
	}
	for _, r := range "pii, gdpr,pii" {
		m, _ = step(t, m, runeKey(string(r)))
	}
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.registry.IsOpen(OverlayTags) {
		t.Error("enter should close the overlay")
	}
	p := lastPayload[events.TagsPayload](t, rec, events.TagsChanged)
	if p.NodeID != "g1" || strings.Join(p.Tags, ",") != "pii,gdpr" {
		t.Errorf("payload = %+v", p)
	}
	if strings.Join(m.Tags("g1"), ",") != "pii,gdpr" {
		t.Errorf("stored tags = %v", m.Tags("g1"))
	}

	m, _ = step(t, m, runeKey("t"))
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if len(rec.Events()) != 1 {
		t.Error("esc should not emit")
	}
}

func TestApp_ScheduleEditor(t *testing.T) {
	rec := &events.Recorder{}
	m := newTestApp(rec)

	m, _ = step(t, m, runeKey("s"))
	if !m.registry.IsOpen(OverlayCron) {
		t.Fatal("s should open the schedule editor")
	}
	if !strings.Contains(m.View(), "Edit Schedule") {
		t.Error("expected the editor view")
	}

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = step(t, m, runeKey("l"))
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected apply command")
	}
	m, _ = step(t, m, cmd())

	if m.registry.IsOpen(OverlayCron) {
		t.Error("applying should close the editor")
	}
	if m.Schedule() != "15 */4 * * *" {
		t.Errorf("schedule = %q", m.Schedule())
	}
	p := lastPayload[events.SchedulePayload](t, rec, events.ScheduleChanged)
	if p.Expression != "15 */4 * * *" || len(p.Sample.Samples) != 3 || p.Sample.Error != "" {
		t.Errorf("payload = %+v", p)
	}

	m, _ = step(t, m, runeKey("s"))
	m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = step(t, m, cmd())
	if m.registry.IsOpen(OverlayCron) {
		t.Error("esc should close the editor")
	}
	if len(rec.Events()) != 1 {
		t.Errorf("cancel should not emit, got %d events", len(rec.Events()))
	}
}

func TestApp_HelpOverlay(t *testing.T) {
	m := newTestApp(&events.Recorder{})

	m, _ = step(t, m, runeKey("?"))
	if !strings.Contains(m.View(), "Quick Reference") {
		t.Errorf("expected help view:\n%s", m.View())
	}
	m, _ = step(t, m, runeKey("j"))
	if !m.registry.IsOpen(OverlayHelp) {
		t.Error("other keys should not close help")
	}
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.registry.Len() != 0 {
		t.Error("esc should close help")
	}
}

func TestApp_CatalogMessages(t *testing.T) {
	rec := &events.Recorder{}
	m := newTestApp(rec, tree.WithSelectedID("c4"))

	nodes := sampleCatalog()[:1]
	m, _ = step(t, m, CatalogLoadedMsg{Nodes: nodes, Hash: "abc"})
	if m.Tree().Tree().Len() != 6 {
		t.Errorf("tree has %d nodes after reload", m.Tree().Tree().Len())
	}
	if !strings.Contains(m.Status(), "6 nodes") {
		t.Errorf("status = %q", m.Status())
	}
	p := lastPayload[events.SelectionPayload](t, rec, events.TreeSelectionChanged)
	if p.SelectedID != "" {
		t.Errorf("removed selection should be reported as cleared, got %+v", p)
	}

	m, _ = step(t, m, CatalogErrorMsg{Err: &WorkerError{Phase: "load", Cause: errTest}})
	if !strings.Contains(m.Status(), "reload failed") {
		t.Errorf("status = %q", m.Status())
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("disk on fire")

func TestApp_Quit(t *testing.T) {
	m := newTestApp(&events.Recorder{})
	_, cmd := step(t, m, runeKey("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestApp_ViewHeader(t *testing.T) {
	m := newTestApp(&events.Recorder{}, tree.WithMultiSelect(true))
	m, _ = step(t, m, runeKey("4"))
	view := m.View()
	for _, want := range []string{"TestGen Catalog", "multi-select", "types: Numeric", "schedule: 15 */3 * * *"} {
		if !strings.Contains(view, want) {
			t.Errorf("header missing %q:\n%s", want, view)
		}
	}
}

type failingEmitter struct{}

func (failingEmitter) Emit(string, any) error { return errTest }

func TestApp_EmitFailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	tr := tree.New()
	tr.Load(sampleCatalog())
	m := NewApp(tr, AppConfig{Theme: newTestTheme(), Emitter: failingEmitter{}, Logger: zap.New(core)})

	m, _ = step(t, m, runeKey("x"))
	if logs.FilterMessage("event emit failed").Len() != 1 {
		t.Errorf("expected a logged emit failure, got %v", logs.All())
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a", "a"},
		{" a , b ,, a ", "a,b"},
		{",,,", ""},
	}
	for _, tt := range tests {
		if got := strings.Join(ParseTags(tt.in), ","); got != tt.want {
			t.Errorf("ParseTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if ParseTags("") == nil {
		t.Error("ParseTags should return an empty slice, not nil")
	}
}

func countEvents(rec *events.Recorder, name string) int {
	n := 0
	for _, ev := range rec.Events() {
		if ev.Name == name {
			n++
		}
	}
	return n
}

func TestApp_HelpOverScheduleEditor(t *testing.T) {
	m := newTestApp(&events.Recorder{})

	m, _ = step(t, m, runeKey("s"))
	m, _ = step(t, m, runeKey("?"))
	if top, _ := m.registry.Top(); top != OverlayHelp {
		t.Fatalf("top overlay = %q, want help", top)
	}
	if !strings.Contains(m.View(), "Schedule Editor") {
		t.Errorf("expected schedule editor help:\n%s", m.View())
	}

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if top, _ := m.registry.Top(); top != OverlayCron {
		t.Errorf("closing help should return to the editor, top = %q", top)
	}
}

func TestApp_QuestionMarkTypesIntoCustomExpression(t *testing.T) {
	m := newTestApp(&events.Recorder{})
	m.schedule = "*/5 * * * *"

	m, _ = step(t, m, runeKey("s"))
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.cron.currentField() != fieldCustom {
		t.Fatalf("cursor on field %d, want the custom expression", m.cron.currentField())
	}
	m, _ = step(t, m, runeKey("?"))
	if m.registry.IsOpen(OverlayHelp) {
		t.Error("? in the expression field should be typed, not open help")
	}

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if top, _ := m.registry.Top(); top != OverlayHelp {
		t.Errorf("f1 should open help, top = %q", top)
	}
}

func TestApp_HelpWhileTyping(t *testing.T) {
	tests := []struct {
		name  string
		open  tea.KeyMsg
		title string
	}{
		{"Tags", runeKey("t"), "Tags"},
		{"Search", runeKey("/"), "Search"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestApp(&events.Recorder{})
			m, _ = step(t, m, tt.open)

			m, _ = step(t, m, runeKey("?"))
			if m.registry.IsOpen(OverlayHelp) {
				t.Fatal("? should be typed into the input")
			}
			m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyF1})
			if !m.registry.IsOpen(OverlayHelp) {
				t.Fatal("f1 should open help")
			}
			if !strings.Contains(m.View(), tt.title) {
				t.Errorf("expected %s help:\n%s", tt.title, m.View())
			}

			m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
			if m.registry.IsOpen(OverlayHelp) {
				t.Error("esc should close help")
			}
		})
	}
}

func TestApp_ThemeCycling(t *testing.T) {
	m := newTestApp(&events.Recorder{})
	if m.ThemeName() != ThemeDefault {
		t.Fatalf("theme = %q, want %q", m.ThemeName(), ThemeDefault)
	}

	m, _ = step(t, m, runeKey("T"))
	if m.ThemeName() != ThemeHighContrast {
		t.Errorf("theme = %q after T, want %q", m.ThemeName(), ThemeHighContrast)
	}
	contrast := HighContrastTheme(newTestTheme().Renderer)
	if m.tree.theme.Primary != contrast.Primary || m.md.theme.Primary != contrast.Primary {
		t.Error("tree and help did not switch colours")
	}
	if m.Status() != "theme: high-contrast" {
		t.Errorf("status = %q", m.Status())
	}

	m, _ = step(t, m, runeKey("T"))
	if m.ThemeName() != ThemeDefault {
		t.Errorf("theme = %q, want wrap to %q", m.ThemeName(), ThemeDefault)
	}
}

func TestApp_ThemeNameSelectsRegisteredTheme(t *testing.T) {
	reg := NewRegistry()
	RegisterBuiltinThemes(reg, newTestTheme().Renderer)
	tr := tree.New()
	tr.Load(sampleCatalog())

	m := NewApp(tr, AppConfig{Registry: reg, ThemeName: ThemeHighContrast})
	if m.ThemeName() != ThemeHighContrast {
		t.Errorf("theme = %q", m.ThemeName())
	}
	if m.cfg.Theme.Primary != HighContrastTheme(newTestTheme().Renderer).Primary {
		t.Error("high-contrast colours not applied")
	}
}

func TestApp_StatusHintsExpandAll(t *testing.T) {
	m := newTestApp(&events.Recorder{})
	if !strings.Contains(m.View(), "E expand all") {
		t.Errorf("collapsed tree should hint at expand all:\n%s", m.View())
	}
	m, _ = step(t, m, runeKey("E"))
	if strings.Contains(m.View(), "E expand all") {
		t.Errorf("fully expanded tree should drop the hint:\n%s", m.View())
	}
}

func TestApp_HeaderCountsSelectedColumns(t *testing.T) {
	m := newTestApp(&events.Recorder{}, tree.WithMultiSelect(true))
	m.Tree().Tree().Click("t1")
	if !strings.Contains(m.View(), "multi-select: 2 selected") {
		t.Errorf("header should count the two columns of orders:\n%s", m.View())
	}
}

func TestApp_ReloadReportsClearedMultiSelection(t *testing.T) {
	rec := &events.Recorder{}
	m := newTestApp(rec, tree.WithMultiSelect(true))

	m, _ = step(t, m, CatalogLoadedMsg{Nodes: sampleCatalog()})
	if n := countEvents(rec, events.TreeSelectionChanged); n != 0 {
		t.Fatalf("reload without a selection emitted %d events", n)
	}

	m.Tree().Tree().Click("t1")
	m, _ = step(t, m, CatalogLoadedMsg{Nodes: sampleCatalog()})
	if n := countEvents(rec, events.TreeSelectionChanged); n != 1 {
		t.Fatalf("expected one selection event after reload, got %d", n)
	}
	p := lastPayload[events.SelectionPayload](t, rec, events.TreeSelectionChanged)
	if !p.Multi || len(p.Selection) != 0 {
		t.Errorf("payload = %+v, want an empty multi selection", p)
	}
}
