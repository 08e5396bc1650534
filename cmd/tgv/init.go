package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/testgen/tgv/pkg/config"
)

type initOptions struct {
	dir   string
	force bool
}

func newInitCmd(c *cli) *cobra.Command {
	opts := initOptions{}
	cmd := &cobra.Command{
		Use:   "init [DIR]",
		Short: "Write a default .testgen/config.yaml",
		Long: `Write a default configuration for the project in DIR (default: the
current directory). The first catalog file found near DIR becomes the default
data source, and local log and event files are added to .gitignore when DIR
is a git repository.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.dir = "."
			if len(args) == 1 {
				opts.dir = args[0]
			}
			return runInit(c, opts, cmd)
		},
	}
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing config file")
	return cmd
}

func runInit(c *cli, opts initOptions, cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	path := filepath.Join(opts.dir, config.Dir, config.File)
	if _, err := os.Stat(path); err == nil && !opts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.Default()
	if found := config.ScanCatalogs(opts.dir, 2); len(found) > 0 {
		rel, err := filepath.Rel(opts.dir, found[0])
		if err != nil {
			rel = found[0]
		}
		if strings.HasSuffix(rel, ".db") {
			cfg.Catalog.DB = rel
		} else {
			cfg.Catalog.Path = rel
		}
		c.logger.Debug("catalog discovered", zap.String("path", found[0]))
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", path)

	added, err := config.EnsureIgnored(opts.dir, config.LocalPatterns)
	if err != nil {
		// The config is already written; a .gitignore problem is not fatal.
		c.logger.Warn("updating .gitignore failed", zap.Error(err))
		return nil
	}
	if len(added) > 0 {
		fmt.Fprintf(out, "Added %s to .gitignore\n", strings.Join(added, ", "))
	}
	return nil
}
