package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/testgen/tgv/pkg/score"
	"github.com/testgen/tgv/pkg/ui"
)

type scoreOptions struct {
	svg  string
	json bool
}

// scoreReport is the JSON form of the score command output.
type scoreReport struct {
	Scores  []scoreEntry   `json:"scores"`
	Summary score.Summary  `json:"summary"`
	Tiers   map[string]int `json:"tiers"`
}

type scoreEntry struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Tier  string `json:"tier"`
	Color string `json:"color"`
}

func newScoreCmd(c *cli) *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score [LABEL=]VALUE...",
		Short: "Classify quality scores into colour tiers",
		Long: `Classifies each score: 96 and above is green, 91 yellow, 86 orange and
anything lower red. Text scores starting with ">" are green, with "<" red;
anything else is unknown.

Example:
  tgv score orders=97.5 refunds=88 staff=">99"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(c, opts, args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.svg, "svg", "", "Write a tier bar chart to FILE")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the classification as JSON")
	return cmd
}

// parseScoreArgs splits LABEL=VALUE arguments; bare values are labelled by
// position.
func parseScoreArgs(args []string) []ui.ScoreRow {
	rows := make([]ui.ScoreRow, 0, len(args))
	for i, arg := range args {
		label, value, ok := strings.Cut(arg, "=")
		if !ok {
			label, value = fmt.Sprintf("#%d", i+1), arg
		}
		rows = append(rows, ui.ScoreRow{Label: label, Value: value})
	}
	return rows
}

func runScore(c *cli, opts *scoreOptions, args []string, out io.Writer) error {
	rows := parseScoreArgs(args)
	values := make([]any, len(rows))
	for i, row := range rows {
		values[i] = row.Value
	}
	summary := score.Summarize(values)

	if opts.svg != "" {
		f, err := os.Create(opts.svg)
		if err != nil {
			return fmt.Errorf("creating %s: %w", opts.svg, err)
		}
		werr := score.WriteSVG(f, summary)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return fmt.Errorf("writing chart: %w", werr)
		}
		c.logger.Info("score chart written", zap.String("path", opts.svg))
	}

	if opts.json {
		report := scoreReport{Summary: summary, Tiers: make(map[string]int)}
		for _, row := range rows {
			tier := score.Classify(row.Value)
			report.Scores = append(report.Scores, scoreEntry{
				Label: row.Label,
				Value: fmt.Sprint(row.Value),
				Tier:  tier.String(),
				Color: tier.Hex(),
			})
		}
		for tier, n := range summary.Tiers {
			report.Tiers[tier.String()] = n
		}
		return writeJSON(out, report)
	}

	theme := ui.DefaultTheme(lipgloss.NewRenderer(out))
	_, err := fmt.Fprintln(out, ui.RenderScores(theme, rows))
	return err
}
