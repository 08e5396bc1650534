package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/huh"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/testgen/tgv/pkg/cron"
	"github.com/testgen/tgv/pkg/events"
	"github.com/testgen/tgv/pkg/ui"
)

type cronOptions struct {
	expr    string
	edit    bool
	samples int
	json    bool
}

func newCronCmd(c *cli) *cobra.Command {
	opts := &cronOptions{}
	cmd := &cobra.Command{
		Use:   "cron",
		Short: "Preview or edit a monitoring schedule",
		Long: `Shows the editing mode, readable description and next run times of a cron
expression. With --edit an interactive form edits the schedule first.

Examples:
  tgv cron --expr "15 */3 * * *"
  tgv cron --expr "0 9 * * MON-FRI" --samples 10 --json
  tgv cron --edit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCron(c, opts, cmd.OutOrStdout(), time.Now())
		},
	}
	cmd.Flags().StringVar(&opts.expr, "expr", "", "Cron expression (default: every day at midnight)")
	cmd.Flags().BoolVar(&opts.edit, "edit", false, "Edit the schedule in an interactive form")
	cmd.Flags().IntVarP(&opts.samples, "samples", "n", 0, "Number of run times to preview (default from config)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the preview as JSON")
	return cmd
}

func runCron(c *cli, opts *cronOptions, out io.Writer, now time.Time) error {
	samples := opts.samples
	if samples <= 0 {
		samples = c.cfg.Cron.PreviewSamples
	}

	state := cron.NewState(opts.expr)
	if opts.edit {
		form := ui.NewScheduleForm(opts.expr)
		if err := form.Form().WithTheme(huh.ThemeCharm()).Run(); err != nil {
			return fmt.Errorf("schedule form: %w", err)
		}
		edited, err := form.State()
		if err != nil {
			return err
		}
		state = edited
	}

	sample := cron.PreviewState(state, now, samples, c.cfg.Location())
	if err := cron.Validate(state, &sample); err != nil {
		if opts.json {
			_ = writeJSON(out, sample)
		}
		return fmt.Errorf("invalid schedule %q: %w", state.Expression(), err)
	}

	if opts.json {
		if err := writeJSON(out, sample); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Mode:       %s\n", state.Mode.Label())
		fmt.Fprintf(out, "Expression: %s\n", state.Expression())
		fmt.Fprintf(out, "Means:      %s\n", sample.ReadableExpr)
		fmt.Fprintln(out, "Next runs:")
		for _, s := range sample.Samples {
			fmt.Fprintf(out, "  %s\n", s)
		}
	}

	if opts.edit {
		emitter, err := c.emitter(out, false)
		if err != nil {
			return err
		}
		return emitter.Emit(events.ScheduleChanged, events.SchedulePayload{Expression: state.Expression(), Sample: sample})
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
