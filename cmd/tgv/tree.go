package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/testgen/tgv/pkg/model"
	"github.com/testgen/tgv/pkg/tree"
	"github.com/testgen/tgv/pkg/ui"
)

type treeOptions struct {
	src      source
	multi    bool
	selected string
	search   string
	schedule string
	theme    string
	print    bool
	watch    bool
}

func newTreeCmd(c *cli) *cobra.Command {
	opts := &treeOptions{}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Browse the catalog as a selection tree",
		Long: `Opens the catalog tree in the terminal.

Keys: ↑/↓ move, ←/→ collapse/expand, enter select, / search, 1-6 type
filters, R reset, m multi-select, x export, p run profiling, t tags,
s schedule, r reload, T theme, ? help, q quit.

When stdout is not a terminal, or with --print, the tree is printed once
instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd.Context(), c, opts, cmd.OutOrStdout())
		},
	}
	opts.src.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.multi, "multi", false, "Start in multi-select mode")
	cmd.Flags().StringVar(&opts.selected, "selected", "", "Initially selected node ID")
	cmd.Flags().StringVar(&opts.search, "search", "", "Initial search term")
	cmd.Flags().StringVar(&opts.schedule, "schedule", "", "Initial cron expression for the schedule editor")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "Colour theme (overrides ui.theme)")
	cmd.Flags().BoolVar(&opts.print, "print", false, "Print the tree instead of starting the interface")
	cmd.Flags().BoolVar(&opts.watch, "watch", true, "Reload when the catalog file changes")
	return cmd
}

func runTree(ctx context.Context, c *cli, opts *treeOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := opts.src.resolve(c.cfg, c.logger); err != nil {
		return err
	}
	if opts.theme == "" {
		opts.theme = c.cfg.UI.Theme
	}
	themes, theme, err := resolveTheme(opts.theme, lipgloss.DefaultRenderer())
	if err != nil {
		return err
	}
	nodes, err := opts.src.load(ctx)
	if err != nil {
		return err
	}

	t := tree.New(
		tree.WithMultiSelect(opts.multi || c.cfg.Tree.MultiSelect),
		tree.WithSelectedID(opts.selected),
		tree.WithExpandOnSearch(c.cfg.Tree.ExpandOnSearch),
	)
	t.Load(nodes)
	if opts.selected != "" && t.SelectedID() == "" {
		c.logger.Warn("selected node not in catalog", zap.String("id", opts.selected))
	}
	if opts.search != "" {
		t.ApplySearch(opts.search)
	}

	if opts.print || !isTerminal(out) {
		return printTree(out, t, c.cfg.Tree.LabelWidth)
	}
	return runInteractive(ctx, c, opts, t, nodes, themes, theme)
}

// resolveTheme registers the built-in themes and looks up name. An empty
// name selects the default theme.
func resolveTheme(name string, r *lipgloss.Renderer) (*ui.Registry, ui.Theme, error) {
	reg := ui.NewRegistry()
	ui.RegisterBuiltinThemes(reg, r)
	if name == "" {
		name = ui.ThemeDefault
	}
	theme, err := reg.ResolveTheme(name)
	if err != nil {
		return nil, ui.Theme{}, fmt.Errorf("ui.theme: %w", err)
	}
	return reg, theme, nil
}

// isTerminal reports whether out is an interactive terminal.
func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printTree renders every visible row once, without colour.
func printTree(out io.Writer, t *tree.Tree, labelWidth int) error {
	theme := ui.DefaultTheme(lipgloss.NewRenderer(io.Discard))
	view := ui.NewTreeModel(t, theme)
	view.SetLabelWidth(labelWidth)
	view.SetSize(120, len(t.VisibleRows())+1)
	_, err := fmt.Fprint(out, view.View())
	return err
}

// runInteractive runs the full-screen interface and the catalog watcher
// together; whichever stops first stops the other.
func runInteractive(ctx context.Context, c *cli, opts *treeOptions, t *tree.Tree, nodes []model.Node, themes *ui.Registry, theme ui.Theme) error {
	logger := c.interactiveLogger()
	emitter, err := c.emitter(nil, true)
	if err != nil {
		return err
	}

	path := ""
	if opts.watch {
		path = opts.src.path()
	}
	worker, err := ui.NewCatalogWorker(ui.WorkerConfig{
		Path:   path,
		Load:   opts.src.loader(),
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("starting catalog watcher: %w", err)
	}
	if hash, err := ui.HashNodes(nodes); err == nil {
		worker.SetLastHash(hash)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	app := ui.NewApp(t, ui.AppConfig{
		Theme:          theme,
		ThemeName:      opts.theme,
		Registry:       themes,
		Emitter:        emitter,
		Logger:         logger,
		Worker:         worker,
		Context:        gctx,
		Schedule:       opts.schedule,
		PreviewSamples: c.cfg.Cron.PreviewSamples,
		Location:       c.cfg.Location(),
		LabelWidth:     c.cfg.Tree.LabelWidth,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(gctx))
	worker.SetSender(p)

	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("running tree view: %w", err)
		}
		return nil
	})
	return g.Wait()
}
