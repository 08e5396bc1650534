// Package export renders a multi-selection for the host or the user:
// JSON for machines, Markdown for people, and the system clipboard.
package export

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	json "github.com/goccy/go-json"

	"github.com/testgen/tgv/pkg/model"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts "json", "markdown" or "md", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json or markdown)", s)
	}
}

// GenerateJSON renders the selection as indented JSON. An empty selection
// renders as [] rather than null.
func GenerateJSON(selection []model.SelectedNode) ([]byte, error) {
	if selection == nil {
		selection = []model.SelectedNode{}
	}
	data, err := json.MarshalIndent(selection, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding selection: %w", err)
	}
	return append(data, '\n'), nil
}

// Clipboard abstracts the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard not supported on this system")
	}
	return clipboard.WriteAll(text)
}

// CopyToClipboard copies text, wrapping any failure.
func CopyToClipboard(cb Clipboard, text string) error {
	if err := cb.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
