package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/testgen/tgv/pkg/events"
	"github.com/testgen/tgv/pkg/export"
	"github.com/testgen/tgv/pkg/tree"
)

type exportOptions struct {
	src    source
	ids    []string
	format string
	search string
	title  string
	output string
	copy   bool
}

func newExportCmd(c *cli) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a multi-selection as JSON or Markdown",
		Long: `Selects the given node IDs as if clicked in multi-select mode and writes
the minimal covering of the selected columns.

Example:
  tgv export --data catalog.yaml --select orders,refunds.amount --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), c, opts, cmd.OutOrStdout())
		},
	}
	opts.src.addFlags(cmd)
	cmd.Flags().StringSliceVar(&opts.ids, "select", nil, "Node IDs to click, comma separated")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format: json or markdown")
	cmd.Flags().StringVar(&opts.search, "search", "", "Only click nodes visible under this search")
	cmd.Flags().StringVar(&opts.title, "title", "Catalog selection", "Markdown report title")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to FILE instead of stdout")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Also copy the output to the clipboard")
	return cmd
}

func runExport(ctx context.Context, c *cli, opts *exportOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if err := opts.src.resolve(c.cfg, c.logger); err != nil {
		return err
	}
	nodes, err := opts.src.load(ctx)
	if err != nil {
		return err
	}

	t := tree.New(tree.WithMultiSelect(true))
	t.Load(nodes)
	if opts.search != "" {
		t.ApplySearch(opts.search)
	}
	for _, id := range opts.ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		node := t.Node(id)
		if node == nil {
			return fmt.Errorf("unknown node %q", id)
		}
		if node.Hidden {
			c.logger.Debug("skipping hidden node", zap.String("id", id))
			continue
		}
		t.Click(id)
	}
	selection := t.MultiSelection()

	var text string
	switch format {
	case export.FormatMarkdown:
		label := func(id string) string {
			if n := t.Node(id); n != nil {
				return n.Label
			}
			return ""
		}
		text = export.GenerateMarkdown(selection, label, opts.title, time.Now())
	default:
		data, err := export.GenerateJSON(selection)
		if err != nil {
			return err
		}
		text = string(data)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", opts.output, err)
		}
		c.logger.Info("selection exported", zap.String("path", opts.output), zap.Int("entries", len(selection)))
	} else if _, err := io.WriteString(out, text); err != nil {
		return err
	}

	if opts.copy {
		if err := export.CopyToClipboard(export.SystemClipboard{}, text); err != nil {
			c.logger.Warn("clipboard copy failed", zap.Error(err))
		}
	}

	emitter, err := c.emitter(out, false)
	if err != nil {
		return err
	}
	return emitter.Emit(events.ExportClicked, events.SelectionPayload{Multi: true, Selection: selection})
}
