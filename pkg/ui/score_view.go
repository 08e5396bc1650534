package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/testgen/tgv/pkg/score"
)

// ScoreRow is one labelled score shown in the score table.
type ScoreRow struct {
	Label string
	Value any
}

// RenderScores renders rows as a table with tier coloured badges followed by
// a one-line summary.
func RenderScores(theme Theme, rows []ScoreRow) string {
	r := theme.Renderer
	if len(rows) == 0 {
		return r.NewStyle().Foreground(theme.Muted).Italic(true).Render("No scores.")
	}

	values := make([]any, len(rows))
	cells := make([][]string, len(rows))
	for i, row := range rows {
		values[i] = row.Value
		cells[i] = []string{
			truncateLabel(row.Label, 40),
			score.Badge(r, row.Value),
			score.Classify(row.Value).String(),
		}
	}

	header := r.NewStyle().Bold(true).Foreground(theme.Primary).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.NewStyle().Foreground(theme.Border)).
		Headers("Name", "Score", "Tier").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	return t.Render() + "\n" + RenderSummary(theme, score.Summarize(values))
}

// RenderSummary renders count, mean, min, max and the per-tier counts.
func RenderSummary(theme Theme, s score.Summary) string {
	r := theme.Renderer
	parts := []string{fmt.Sprintf("%d scores", s.Count)}
	if s.Numeric > 0 {
		parts = append(parts, fmt.Sprintf("mean %.1f", s.Mean), fmt.Sprintf("min %.1f", s.Min), fmt.Sprintf("max %.1f", s.Max))
	}
	for _, tier := range score.Tiers() {
		if n := s.Tiers[tier]; n > 0 {
			parts = append(parts, r.NewStyle().Foreground(tier.Color()).Render(fmt.Sprintf("%s %d", tier, n)))
		}
	}
	return r.NewStyle().Foreground(theme.Subtext).Render(strings.Join(parts, " · "))
}
