// Package ui provides the terminal user interface for tgv.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/testgen/tgv/pkg/model"
)

// Theme holds the colours and base styles shared by every component.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style
	Path     lipgloss.Style
}

// Built-in theme names.
const (
	ThemeDefault      = "default"
	ThemeHighContrast = "high-contrast"
)

// RegisterBuiltinThemes adds the built-in themes, rendered with r.
func RegisterBuiltinThemes(reg *Registry, r *lipgloss.Renderer) {
	reg.RegisterTheme(ThemeDefault, DefaultTheme(r))
	reg.RegisterTheme(ThemeHighContrast, HighContrastTheme(r))
}

// DefaultTheme returns the Dracula-flavoured default theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#F1FA8C"},
		Highlight: lipgloss.AdaptiveColor{Light: "#0077AA", Dark: "#8BE9FD"},
		Muted:     lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#44475A"},
		Text:      lipgloss.AdaptiveColor{Light: "#000000", Dark: "#f8f8f2"},
		Error:     lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF5555"},
	}
	t.Base = r.NewStyle().Foreground(t.Text)
	t.Selected = r.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#E6E0FA", Dark: "#44475A"}).
		Bold(true)
	t.Path = r.NewStyle().Foreground(t.Highlight)
	return t
}

// HighContrastTheme swaps in saturated colours for low-quality terminals.
func HighContrastTheme(r *lipgloss.Renderer) Theme {
	t := DefaultTheme(r)
	t.Primary = lipgloss.AdaptiveColor{Light: "#0000FF", Dark: "#FFFF00"}
	t.Highlight = lipgloss.AdaptiveColor{Light: "#008000", Dark: "#00FF00"}
	t.Muted = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"}
	t.Selected = r.NewStyle().Reverse(true).Bold(true)
	t.Path = r.NewStyle().Foreground(t.Highlight).Bold(true)
	return t
}

// GetTypeIcon returns the glyph and colour for a column general type.
func (t Theme) GetTypeIcon(gt model.GeneralType) (string, lipgloss.AdaptiveColor) {
	switch gt {
	case model.TypeNumeric:
		return gt.Icon(), t.Highlight
	case model.TypeAlpha:
		return gt.Icon(), t.Secondary
	case model.TypeDatetime, model.TypeTime:
		return gt.Icon(), t.Primary
	case model.TypeBoolean:
		return gt.Icon(), t.Subtext
	default:
		return gt.Icon(), t.Muted
	}
}
