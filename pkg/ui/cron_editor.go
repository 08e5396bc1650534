package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/testgen/tgv/pkg/cron"
)

// cronField identifies an editable row of the cron editor.
type cronField int

const (
	fieldMode cronField = iota
	fieldHours
	fieldDays
	fieldWeekdays
	fieldHour
	fieldMinute
	fieldCustom
)

// fieldsFor lists the rows shown for a mode, top to bottom.
func fieldsFor(mode cron.Mode) []cronField {
	switch mode {
	case cron.ModeXHours:
		return []cronField{fieldMode, fieldHours, fieldMinute}
	case cron.ModeXDays:
		return []cronField{fieldMode, fieldDays, fieldHour, fieldMinute}
	case cron.ModeCertainDays:
		return []cronField{fieldMode, fieldWeekdays, fieldHour, fieldMinute}
	default:
		return []cronField{fieldMode, fieldCustom}
	}
}

// ScheduleAppliedMsg is produced when the user confirms a valid schedule.
type ScheduleAppliedMsg struct {
	Expression string      `json:"expression"`
	Sample     cron.Sample `json:"sample"`
}

// CronEditorClosedMsg is produced when the editor is dismissed.
type CronEditorClosedMsg struct{}

// CronEditorModel provides the schedule editing modal
type CronEditorModel struct {
	state      cron.State
	original   string // Expression the editor was opened with
	fieldIndex int    // Which row of fieldsFor(mode) has focus
	dayCursor  cron.Weekday
	custom     textinput.Model

	sample cron.Sample
	err    error

	samples int
	loc     *time.Location
	now     func() time.Time

	width  int
	height int
	theme  Theme
}

// NewCronEditorModel creates an editor for expr. samples and loc control the
// preview; loc may be nil for UTC.
func NewCronEditorModel(expr string, samples int, loc *time.Location, theme Theme) CronEditorModel {
	ti := textinput.New()
	ti.Placeholder = "m h dom mon dow"
	ti.CharLimit = 100
	ti.Prompt = ""

	m := CronEditorModel{
		state:    cron.NewState(expr),
		original: expr,
		custom:   ti,
		samples:  samples,
		loc:      loc,
		now:      time.Now,
		theme:    theme,
	}
	m.custom.SetValue(m.state.Custom)
	m.refresh()
	return m
}

// SetSize updates the editor dimensions
func (m *CronEditorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// State returns the current editor state.
func (m *CronEditorModel) State() cron.State {
	return m.state
}

// Expression returns the expression of the current state.
func (m *CronEditorModel) Expression() string {
	return m.state.Expression()
}

// Sample returns the latest preview.
func (m *CronEditorModel) Sample() cron.Sample {
	return m.sample
}

// Err returns the current validation error, or nil.
func (m *CronEditorModel) Err() error {
	return m.err
}

func (m *CronEditorModel) currentField() cronField {
	fields := fieldsFor(m.state.Mode)
	if m.fieldIndex >= len(fields) {
		m.fieldIndex = len(fields) - 1
	}
	return fields[m.fieldIndex]
}

// refresh recomputes the preview and the validation error.
func (m *CronEditorModel) refresh() {
	m.sample = cron.PreviewState(m.state, m.now(), m.samples, m.loc)
	m.err = cron.Validate(m.state, &m.sample)
}

// MoveUp moves focus to the previous row
func (m *CronEditorModel) MoveUp() {
	if m.fieldIndex > 0 {
		m.fieldIndex--
	}
	m.syncFocus()
}

// MoveDown moves focus to the next row
func (m *CronEditorModel) MoveDown() {
	if m.fieldIndex < len(fieldsFor(m.state.Mode))-1 {
		m.fieldIndex++
	}
	m.syncFocus()
}

func (m *CronEditorModel) syncFocus() {
	if m.currentField() == fieldCustom {
		m.custom.Focus()
	} else {
		m.custom.Blur()
	}
}

// CycleMode switches to the next (delta > 0) or previous mode.
func (m *CronEditorModel) CycleMode(delta int) {
	modes := cron.Modes()
	idx := 0
	for i, mode := range modes {
		if mode == m.state.Mode {
			idx = i
		}
	}
	idx = (idx + delta + len(modes)) % len(modes)
	m.state.SetMode(modes[idx])
	m.custom.SetValue(m.state.Custom)
	m.refresh()
}

// Adjust changes the focused value by delta. Numbers wrap within their
// range; on the weekday row delta moves the day cursor.
func (m *CronEditorModel) Adjust(delta int) {
	s := &m.state
	switch m.currentField() {
	case fieldMode:
		m.CycleMode(delta)
		return
	case fieldHours:
		s.XHours.Hours = wrap(s.XHours.Hours+delta, 1, 23)
	case fieldDays:
		s.XDays.Days = wrap(s.XDays.Days+delta, 1, 31)
	case fieldHour:
		if s.Mode == cron.ModeXDays {
			s.XDays.Hour = wrap(s.XDays.Hour+delta, 0, 23)
		} else {
			s.CertainDays.Hour = wrap(s.CertainDays.Hour+delta, 0, 23)
		}
	case fieldMinute:
		switch s.Mode {
		case cron.ModeXHours:
			s.XHours.Minute = wrap(s.XHours.Minute+delta, 0, 59)
		case cron.ModeXDays:
			s.XDays.Minute = wrap(s.XDays.Minute+delta, 0, 59)
		default:
			s.CertainDays.Minute = wrap(s.CertainDays.Minute+delta, 0, 59)
		}
	case fieldWeekdays:
		m.dayCursor = cron.Weekday(wrap(int(m.dayCursor)+delta, int(cron.Sunday), int(cron.Saturday)))
		return
	default:
		return
	}
	m.refresh()
}

// ToggleDay flips the weekday under the day cursor.
func (m *CronEditorModel) ToggleDay() {
	if m.currentField() != fieldWeekdays {
		return
	}
	m.state.ToggleDay(m.dayCursor)
	m.refresh()
}

// wrap folds v into [lo, hi].
func wrap(v, lo, hi int) int {
	span := hi - lo + 1
	v = (v-lo)%span + lo
	if v < lo {
		v += span
	}
	return v
}

// Apply validates the state and returns the applied message, or nil when
// the state is invalid.
func (m *CronEditorModel) Apply() tea.Msg {
	m.refresh()
	if m.err != nil {
		return nil
	}
	return ScheduleAppliedMsg{Expression: m.state.Expression(), Sample: m.sample}
}

// Update handles key input for the editor.
func (m CronEditorModel) Update(msg tea.Msg) (CronEditorModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyEsc:
		return m, func() tea.Msg { return CronEditorClosedMsg{} }
	case tea.KeyEnter:
		if applied := m.Apply(); applied != nil {
			return m, func() tea.Msg { return applied }
		}
		return m, nil
	case tea.KeyUp, tea.KeyShiftTab:
		m.MoveUp()
		return m, nil
	case tea.KeyDown, tea.KeyTab:
		m.MoveDown()
		return m, nil
	}

	if m.currentField() == fieldCustom {
		var cmd tea.Cmd
		m.custom, cmd = m.custom.Update(keyMsg)
		if v := m.custom.Value(); v != m.state.Custom {
			m.state.Custom = v
			m.refresh()
		}
		return m, cmd
	}

	switch keyMsg.String() {
	case "left", "h", "-":
		m.Adjust(-1)
	case "right", "l", "+", "=":
		m.Adjust(1)
	case "pgdown":
		m.Adjust(-10)
	case "pgup":
		m.Adjust(10)
	case " ", "x":
		m.ToggleDay()
	}
	return m, nil
}

// View renders the cron editor overlay
func (m *CronEditorModel) View() string {
	if m.width == 0 {
		m.width = 80
	}
	if m.height == 0 {
		m.height = 24
	}

	t := m.theme
	r := t.Renderer

	boxWidth := 56
	if m.width < boxWidth+10 {
		boxWidth = m.width - 10
	}
	if boxWidth < 36 {
		boxWidth = 36
	}

	labelStyle := r.NewStyle().Foreground(t.Muted).Width(10)
	valueStyle := r.NewStyle().Foreground(t.Base.GetForeground())
	focusStyle := r.NewStyle().Foreground(t.Primary).Bold(true)

	var lines []string

	titleStyle := r.NewStyle().Foreground(t.Primary).Bold(true)
	lines = append(lines, titleStyle.Render("Edit Schedule"))
	lines = append(lines, "")

	focused := m.currentField()
	for _, f := range fieldsFor(m.state.Mode) {
		prefix := "  "
		style := valueStyle
		if f == focused {
			prefix = "> "
			style = focusStyle
		}
		label, value := m.fieldText(f)
		if f == fieldCustom {
			value = m.custom.View()
		} else {
			value = style.Render(value)
		}
		lines = append(lines, prefix+labelStyle.Render(label)+value)
	}

	lines = append(lines, "")
	exprStyle := r.NewStyle().Foreground(t.Highlight)
	lines = append(lines, labelStyle.Render("  Cron")+exprStyle.Render(m.state.Expression()))
	if m.sample.ReadableExpr != "" {
		lines = append(lines, labelStyle.Render("  Means")+valueStyle.Render(m.sample.ReadableExpr))
	}

	if m.err != nil {
		errStyle := r.NewStyle().Foreground(t.Error)
		lines = append(lines, "", errStyle.Render("✗ "+m.err.Error()))
	} else if len(m.sample.Samples) > 0 {
		lines = append(lines, "", r.NewStyle().Foreground(t.Muted).Render("Next runs:"))
		for _, s := range m.sample.Samples {
			lines = append(lines, "  "+s)
		}
	}

	// Footer with keybindings
	lines = append(lines, "")
	footerStyle := r.NewStyle().Foreground(t.Secondary).Italic(true)
	lines = append(lines, footerStyle.Render("↑/↓: field | ←/→: change | space: day | enter: apply | esc: cancel"))

	boxStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		boxStyle.Render(strings.Join(lines, "\n")),
	)
}

// fieldText returns the label and plain value of a row.
func (m *CronEditorModel) fieldText(f cronField) (string, string) {
	s := m.state
	switch f {
	case fieldMode:
		return "Mode", "◂ " + s.Mode.Label() + " ▸"
	case fieldHours:
		return "Every", fmt.Sprintf("%d hour(s)", max(s.XHours.Hours, 1))
	case fieldDays:
		return "Every", fmt.Sprintf("%d day(s)", max(s.XDays.Days, 1))
	case fieldWeekdays:
		return "Days", m.weekdayRow()
	case fieldHour:
		if s.Mode == cron.ModeXDays {
			return "Hour", fmt.Sprintf("%02d", s.XDays.Hour)
		}
		return "Hour", fmt.Sprintf("%02d", s.CertainDays.Hour)
	case fieldMinute:
		switch s.Mode {
		case cron.ModeXHours:
			return "Minute", fmt.Sprintf("%02d", s.XHours.Minute)
		case cron.ModeXDays:
			return "Minute", fmt.Sprintf("%02d", s.XDays.Minute)
		default:
			return "Minute", fmt.Sprintf("%02d", s.CertainDays.Minute)
		}
	case fieldCustom:
		return "Cron", s.Custom
	}
	return "", ""
}

// weekdayRow renders the seven day toggles, bracketing the day cursor when
// the row has focus.
func (m *CronEditorModel) weekdayRow() string {
	focused := m.currentField() == fieldWeekdays
	parts := make([]string, 7)
	for d := cron.Sunday; d <= cron.Saturday; d++ {
		code := d.Code()[:2]
		if m.state.CertainDays.Days[d] {
			code = strings.ToUpper(code)
		} else {
			code = strings.ToLower(code)
		}
		if focused && d == m.dayCursor {
			code = "[" + code + "]"
		} else {
			code = " " + code + " "
		}
		parts[d] = code
	}
	return strings.Join(parts, "")
}
