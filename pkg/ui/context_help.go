package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Context identifies what the user is interacting with, for help lookup.
type Context string

const (
	ContextTree       Context = "tree"
	ContextSearch     Context = "search"
	ContextMulti      Context = "multi"
	ContextCronEditor Context = "cron"
	ContextTags       Context = "tags"
)

// ContextHelpContent contains compact help content for each context.
// Content should fit on one screen (~20 lines) without scrolling.
var ContextHelpContent = map[Context]string{
	ContextTree:       contextHelpTree,
	ContextSearch:     contextHelpSearch,
	ContextMulti:      contextHelpMulti,
	ContextCronEditor: contextHelpCron,
	ContextTags:       contextHelpTags,
}

// GetContextHelp returns the help content for a given context.
// Falls back to the tree help if the context has no specific content.
func GetContextHelp(ctx Context) string {
	if content, ok := ContextHelpContent[ctx]; ok {
		return content
	}
	return contextHelpTree
}

// RenderContextHelp renders the context-specific help modal. The markdown
// is rendered through md when given, and shown raw otherwise.
func RenderContextHelp(ctx Context, theme Theme, md *MarkdownRenderer, width int) string {
	content := GetContextHelp(ctx)

	r := theme.Renderer

	modalWidth := 64
	if width > 0 && modalWidth > width-4 {
		modalWidth = width - 4
	}
	if modalWidth < 30 {
		modalWidth = 30
	}

	if md != nil {
		md.SetWidth(modalWidth - 6)
		if rendered, err := md.Render(content); err == nil {
			content = strings.Trim(rendered, "\n")
		}
	}

	titleStyle := r.NewStyle().Bold(true).Foreground(theme.Primary)
	footerStyle := r.NewStyle().Foreground(theme.Muted).Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", modalWidth-6)))
	b.WriteString("\n\n")
	b.WriteString(content)
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("Esc to close"))

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth)

	return modalStyle.Render(b.String())
}

const contextHelpTree = `## Catalog Tree

**Navigation**
  j/k       Move up/down
  g/G       Jump to top/bottom
  h/l       Collapse or parent / expand or child
  Tab       Expand/collapse
  E/C       Expand all / collapse all

**Selection**
  Enter     Select (toggle in multi-select)
  m         Toggle multi-select

**Filtering**
  /         Search labels
  1-6       Toggle type filter (A B D N T X)
  R         Reset filters

**Actions**
  x         Export selection
  p         Run profiling
  t         Edit tags
  s         Edit schedule
  r         Reload catalog
  T         Next colour theme`

const contextHelpSearch = `## Search

Type to filter by label. Matching is case-insensitive
and keeps the ancestors of every match visible.

  Enter     Keep the term and return to the tree
  Esc       Clear the term
  F1        This help`

const contextHelpMulti = `## Multi-select

  Enter     Toggle the row under the cursor
  [x]       Every visible child selected
  [-]       Some descendants selected
  [ ]       Nothing selected

Selecting a group only selects its visible children.
  x         Export the selection
  m         Leave multi-select (clears the selection)`

const contextHelpCron = `## Schedule Editor

  ↑/↓       Move between fields
  ←/→       Change mode or value
  PgUp/PgDn Change value by 10
  Space     Toggle the weekday under the cursor
  Enter     Apply (only when valid)
  Esc       Cancel
  ?/F1      This help (F1 in the expression field)

Custom mode accepts any 5-field cron expression.`

const contextHelpTags = `## Tags

Enter tags for the row under the cursor, separated by commas.

  Enter     Save tags
  Esc       Cancel
  F1        This help`
