package ui

import (
	"fmt"
	"sort"
	"strings"
)

// Overlay names a modal drawn above the tree.
type Overlay string

const (
	OverlayHelp Overlay = "help"
	OverlayCron Overlay = "cron"
	OverlayTags Overlay = "tags"
)

// Registry tracks the open overlays and the loaded themes of one application
// instance. It is owned by the UI loop and not safe for concurrent use.
type Registry struct {
	overlays []Overlay // bottom to top
	themes   map[string]Theme
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{themes: make(map[string]Theme)}
}

// Open pushes an overlay, moving it to the top if it is already open.
func (r *Registry) Open(o Overlay) {
	r.Close(o)
	r.overlays = append(r.overlays, o)
}

// Close removes an overlay wherever it is in the stack.
func (r *Registry) Close(o Overlay) {
	for i, open := range r.overlays {
		if open == o {
			r.overlays = append(r.overlays[:i], r.overlays[i+1:]...)
			return
		}
	}
}

// CloseTop pops the top overlay.
func (r *Registry) CloseTop() (Overlay, bool) {
	top, ok := r.Top()
	if ok {
		r.overlays = r.overlays[:len(r.overlays)-1]
	}
	return top, ok
}

// Top returns the overlay receiving input.
func (r *Registry) Top() (Overlay, bool) {
	if len(r.overlays) == 0 {
		return "", false
	}
	return r.overlays[len(r.overlays)-1], true
}

// IsOpen reports whether o is anywhere in the stack.
func (r *Registry) IsOpen(o Overlay) bool {
	for _, open := range r.overlays {
		if open == o {
			return true
		}
	}
	return false
}

// Len returns the number of open overlays.
func (r *Registry) Len() int {
	return len(r.overlays)
}

// RegisterTheme stores a theme under name, replacing any previous one.
func (r *Registry) RegisterTheme(name string, t Theme) {
	r.themes[name] = t
}

// Theme looks up a registered theme.
func (r *Registry) Theme(name string) (Theme, bool) {
	t, ok := r.themes[name]
	return t, ok
}

// ResolveTheme looks up a theme by name; an unknown name is an error that
// lists the available themes.
func (r *Registry) ResolveTheme(name string) (Theme, error) {
	if t, ok := r.Theme(name); ok {
		return t, nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(r.ThemeNames(), ", "))
}

// ThemeNames returns the registered theme names, sorted.
func (r *Registry) ThemeNames() []string {
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
