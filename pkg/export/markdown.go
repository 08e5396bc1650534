package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/testgen/tgv/pkg/model"
)

// LabelFunc resolves a node id to its display label. It returns "" for
// unknown ids.
type LabelFunc func(id string) string

// GenerateMarkdown creates a markdown report of a multi-selection
func GenerateMarkdown(selection []model.SelectedNode, label LabelFunc, title string, now time.Time) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC1123)))

	// Summary
	full, partial, leaves := countEntries(selection)
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Top-level entries**: %d\n", len(selection)))
	sb.WriteString(fmt.Sprintf("- **Fully selected groups**: %d\n", full))
	sb.WriteString(fmt.Sprintf("- **Partially selected groups**: %d\n", partial))
	sb.WriteString(fmt.Sprintf("- **Selected leaves**: %d\n\n", leaves))

	if len(selection) == 0 {
		sb.WriteString("_Nothing selected._\n")
		return sb.String()
	}

	// Hierarchy (Mermaid)
	sb.WriteString("## Hierarchy\n\n")
	sb.WriteString("```mermaid\ngraph TD\n")
	var graph func(entries []model.SelectedNode)
	graph = func(entries []model.SelectedNode) {
		for _, e := range entries {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", mermaidID(e.ID), mermaidLabel(displayLabel(label, e.ID))))
			for _, c := range e.Children {
				arrow := "-.->"
				if e.IsFullyCovered() {
					arrow = "==>" // bold for complete groups
				}
				sb.WriteString(fmt.Sprintf("    %s %s %s\n", mermaidID(e.ID), arrow, mermaidID(c.ID)))
			}
			graph(e.Children)
		}
	}
	graph(selection)
	sb.WriteString("```\n\n")

	// Selection
	sb.WriteString("## Selection\n\n")
	var list func(entries []model.SelectedNode, depth int)
	list = func(entries []model.SelectedNode, depth int) {
		for _, e := range entries {
			indent := strings.Repeat("  ", depth)
			marker := ""
			if e.All != nil {
				if *e.All {
					marker = " (all)"
				} else {
					marker = " (partial)"
				}
			}
			sb.WriteString(fmt.Sprintf("%s- **%s** `%s`%s\n", indent, displayLabel(label, e.ID), e.ID, marker))
			list(e.Children, depth+1)
		}
	}
	list(selection, 0)
	sb.WriteString("\n")

	return sb.String()
}

// SaveMarkdownToFile writes the generated markdown to a file
func SaveMarkdownToFile(selection []model.SelectedNode, label LabelFunc, title, filename string) error {
	content := GenerateMarkdown(selection, label, title, time.Now())
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing markdown export: %w", err)
	}
	return nil
}

func countEntries(entries []model.SelectedNode) (full, partial, leaves int) {
	for _, e := range entries {
		switch {
		case e.All == nil:
			leaves++
		case *e.All:
			full++
		default:
			partial++
		}
		f, p, l := countEntries(e.Children)
		full += f
		partial += p
		leaves += l
	}
	return full, partial, leaves
}

func displayLabel(label LabelFunc, id string) string {
	if label != nil {
		if l := label(id); l != "" {
			return l
		}
	}
	return id
}

// mermaidID makes an id safe to use as a mermaid node name.
func mermaidID(id string) string {
	var sb strings.Builder
	sb.WriteString("n_")
	for _, r := range id {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// mermaidLabel sanitizes a label for a quoted mermaid node.
func mermaidLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "[]", "")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	if r := []rune(s); len(r) > 30 {
		s = string(r[:27]) + "..."
	}
	return s
}
