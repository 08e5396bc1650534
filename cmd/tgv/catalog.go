package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/testgen/tgv/pkg/catalog"
	"github.com/testgen/tgv/pkg/config"
	"github.com/testgen/tgv/pkg/model"
	"github.com/testgen/tgv/pkg/ui"
)

// source names where the catalog comes from.
type source struct {
	data string // YAML/JSON node file
	db   string // SQLite catalog
}

func (s *source) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.data, "data", "", "Catalog file (YAML or JSON)")
	cmd.Flags().StringVar(&s.db, "db", "", "SQLite catalog database")
}

// resolve fills in the source from the config and, failing that, from a
// catalog file found below the working directory.
func (s *source) resolve(cfg *config.Config, logger *zap.Logger) error {
	if s.data != "" && s.db != "" {
		return fmt.Errorf("--data and --db are mutually exclusive")
	}
	if s.data != "" || s.db != "" {
		return nil
	}
	if cfg.Catalog.Path != "" || cfg.Catalog.DB != "" {
		s.data, s.db = cfg.Catalog.Path, cfg.Catalog.DB
		return nil
	}

	found := config.ScanCatalogs(".", 2)
	if len(found) == 0 {
		return fmt.Errorf("no catalog given: use --data FILE or --db FILE")
	}
	logger.Debug("using discovered catalog", zap.String("path", found[0]))
	if strings.EqualFold(filepath.Ext(found[0]), ".db") {
		s.db = found[0]
	} else {
		s.data = found[0]
	}
	return nil
}

// path returns the file backing the source.
func (s *source) path() string {
	if s.db != "" {
		return s.db
	}
	return s.data
}

// loader returns a function that reads the source afresh on every call.
func (s *source) loader() ui.CatalogLoader {
	if s.db != "" {
		db := s.db
		return func(ctx context.Context) ([]model.Node, error) {
			return catalog.LoadSQLite(ctx, db)
		}
	}
	data := s.data
	return func(context.Context) ([]model.Node, error) {
		return catalog.LoadFile(data)
	}
}

// load reads the catalog once.
func (s *source) load(ctx context.Context) ([]model.Node, error) {
	nodes, err := s.loader()(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", s.path(), err)
	}
	return nodes, nil
}
