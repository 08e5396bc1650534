// Package catalog loads the raw node forest shown by the selection tree:
// table groups, tables and columns from YAML/JSON files or a SQLite catalog.
package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/testgen/tgv/pkg/model"
)

// Node classes assigned by the loaders.
const (
	ClassTableGroup = "table_group"
	ClassTable      = "table"
	ClassColumn     = "column"
)

// LoadFile reads a node forest from a .json, .yaml or .yml file. Other
// extensions are decoded as YAML, which also accepts JSON.
func LoadFile(path string) ([]model.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	nodes, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nodes, nil
}

// Decode parses and validates a node forest. ext selects the decoder.
func Decode(data []byte, ext string) ([]model.Node, error) {
	var nodes []model.Node
	if len(bytes.TrimSpace(data)) == 0 {
		return nodes, nil
	}

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &nodes); err != nil {
			return nil, fmt.Errorf("decoding JSON catalog: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &nodes); err != nil {
			return nil, fmt.Errorf("decoding YAML catalog: %w", err)
		}
	}

	if err := model.ValidateForest(nodes); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return nodes, nil
}

// WriteFile stores a node forest, choosing the encoding from the extension.
func WriteFile(path string, nodes []model.Node) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(nodes, "", "  ")
	} else {
		data, err = yaml.Marshal(nodes)
	}
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog file: %w", err)
	}
	return nil
}
