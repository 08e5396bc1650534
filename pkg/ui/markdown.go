package ui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// MarkdownRenderer renders help text through glamour, coloured from a Theme.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	theme    Theme
}

// NewMarkdownRendererWithTheme creates a renderer whose palette follows theme.
func NewMarkdownRendererWithTheme(width int, theme Theme) *MarkdownRenderer {
	mr := &MarkdownRenderer{width: width, theme: theme}
	mr.rebuild()
	return mr
}

func (mr *MarkdownRenderer) rebuild() {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(buildStyleFromTheme(mr.theme, mr.IsDarkMode())),
		glamour.WithWordWrap(mr.width),
	)
	if err != nil {
		// Fall back to raw markdown in Render
		r = nil
	}
	mr.renderer = r
}

// Render renders markdown. Without a renderer the input is returned as is.
func (mr *MarkdownRenderer) Render(markdown string) (string, error) {
	if mr.renderer == nil {
		return markdown, nil
	}
	return mr.renderer.Render(markdown)
}

// SetWidth rebuilds the renderer for a new wrap width. Non-positive or
// unchanged widths are ignored.
func (mr *MarkdownRenderer) SetWidth(width int) {
	if width <= 0 || width == mr.width {
		return
	}
	mr.width = width
	mr.rebuild()
}

// SetWidthWithTheme switches to theme colours and, when positive, a new
// width.
func (mr *MarkdownRenderer) SetWidthWithTheme(width int, theme Theme) {
	if width > 0 {
		mr.width = width
	}
	mr.theme = theme
	mr.rebuild()
}

// IsDarkMode reports whether the terminal has a dark background.
func (mr *MarkdownRenderer) IsDarkMode() bool {
	if mr.theme.Renderer != nil {
		return mr.theme.Renderer.HasDarkBackground()
	}
	return lipgloss.HasDarkBackground()
}

// extractHex picks the light or dark variant of an adaptive colour.
func extractHex(c lipgloss.AdaptiveColor, dark bool) string {
	if dark {
		return c.Dark
	}
	return c.Light
}

// buildStyleFromTheme starts from glamour's stock style and recolours the
// document, headings, links and code from the theme.
func buildStyleFromTheme(theme Theme, dark bool) ansi.StyleConfig {
	cfg := styles.LightStyleConfig
	if dark {
		cfg = styles.DarkStyleConfig
	}

	text := extractHex(theme.Text, dark)
	primary := extractHex(theme.Primary, dark)
	highlight := extractHex(theme.Highlight, dark)
	secondary := extractHex(theme.Secondary, dark)

	cfg.Document.Color = &text
	cfg.Heading.Color = &primary
	cfg.H1.Color = &primary
	cfg.H2.Color = &primary
	cfg.Link.Color = &highlight
	cfg.Code.Color = &secondary
	cfg.Strong.Color = &highlight
	return cfg
}
