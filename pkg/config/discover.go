package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// CatalogNames are the file names recognized by ScanCatalogs, in preference
// order.
var CatalogNames = []string{"catalog.yaml", "catalog.yml", "catalog.json", "catalog.db"}

// Discover finds and loads the configuration for dir. When no file exists
// the defaults are returned with an empty path.
func Discover(dir string) (*Config, string, error) {
	path, err := FindConfig(dir)
	if errors.Is(err, ErrNotFound) {
		cfg := Default()
		return &cfg, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// FindConfig walks up from dir looking for .testgen/config.yaml. The walk
// stops at the home directory or the filesystem root.
func FindConfig(dir string) (string, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", err
		}
	}
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, Dir, File)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", ErrNotFound
}

// ScanCatalogs walks a directory tree up to maxDepth levels deep looking for
// catalog files. Hidden directories other than .testgen are skipped.
func ScanCatalogs(root string, maxDepth int) []string {
	root = expandHome(root)
	if maxDepth <= 0 {
		maxDepth = 3
	}
	var results []string

	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return filepath.SkipDir
		}
		if !d.IsDir() {
			return nil
		}

		currentDepth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
		if currentDepth > maxDepth {
			return filepath.SkipDir
		}

		name := d.Name()
		if path != root && strings.HasPrefix(name, ".") && name != Dir {
			return filepath.SkipDir
		}

		for _, n := range CatalogNames {
			candidate := filepath.Join(path, n)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				results = append(results, candidate)
				break // One catalog per directory
			}
		}
		return nil
	})

	return results
}
