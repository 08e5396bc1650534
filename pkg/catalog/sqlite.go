package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/testgen/tgv/pkg/model"
)

// Schema is the subset of the TestGen catalog read by LoadSQLite.
const Schema = `
CREATE TABLE IF NOT EXISTS table_groups (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS data_tables (
	id INTEGER PRIMARY KEY,
	table_group_id INTEGER NOT NULL REFERENCES table_groups(id),
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS data_columns (
	id INTEGER PRIMARY KEY,
	table_id INTEGER NOT NULL REFERENCES data_tables(id),
	name TEXT NOT NULL,
	general_type TEXT
);

CREATE INDEX IF NOT EXISTS idx_data_tables_group ON data_tables(table_group_id);
CREATE INDEX IF NOT EXISTS idx_data_columns_table ON data_columns(table_id);
`

// Node ID prefixes keep ids unique across the three catalog tables.
const (
	groupPrefix  = "group:"
	tablePrefix  = "table:"
	columnPrefix = "column:"
)

// OpenSQLite opens a catalog database.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}
	return db, nil
}

// CreateSchema creates the catalog tables if they do not exist.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("creating catalog schema: %w", err)
	}
	return nil
}

// LoadSQLite reads the catalog at path as a forest of table groups, each
// holding its tables, each holding its columns. Rows are ordered by name.
func LoadSQLite(ctx context.Context, path string) ([]model.Node, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return ReadForest(ctx, db)
}

// ReadForest builds the node forest from an open catalog database.
func ReadForest(ctx context.Context, db *sql.DB) ([]model.Node, error) {
	columns, err := readColumns(ctx, db)
	if err != nil {
		return nil, err
	}
	tables, err := readTables(ctx, db, columns)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, name FROM table_groups ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying table groups: %w", err)
	}
	defer rows.Close()

	var forest []model.Node
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning table group: %w", err)
		}
		forest = append(forest, model.Node{
			ID:       fmt.Sprintf("%s%d", groupPrefix, id),
			Label:    name,
			Classes:  []string{ClassTableGroup},
			Children: tables[id],
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading table groups: %w", err)
	}
	return forest, nil
}

func readTables(ctx context.Context, db *sql.DB, columns map[int64][]model.Node) (map[int64][]model.Node, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, table_group_id, name FROM data_tables ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying tables: %w", err)
	}
	defer rows.Close()

	byGroup := make(map[int64][]model.Node)
	for rows.Next() {
		var (
			id, groupID int64
			name        string
		)
		if err := rows.Scan(&id, &groupID, &name); err != nil {
			return nil, fmt.Errorf("scanning table: %w", err)
		}
		byGroup[groupID] = append(byGroup[groupID], model.Node{
			ID:       fmt.Sprintf("%s%d", tablePrefix, id),
			Label:    name,
			Classes:  []string{ClassTable},
			Children: columns[id],
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading tables: %w", err)
	}
	return byGroup, nil
}

func readColumns(ctx context.Context, db *sql.DB) (map[int64][]model.Node, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, table_id, name, general_type FROM data_columns ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}
	defer rows.Close()

	byTable := make(map[int64][]model.Node)
	for rows.Next() {
		var (
			id, tableID int64
			name        string
			generalType sql.NullString
		)
		if err := rows.Scan(&id, &tableID, &name, &generalType); err != nil {
			return nil, fmt.Errorf("scanning column: %w", err)
		}
		gt := model.GeneralType(generalType.String)
		if !gt.IsValid() {
			gt = model.TypeUnknown
		}
		byTable[tableID] = append(byTable[tableID], model.Node{
			ID:          fmt.Sprintf("%s%d", columnPrefix, id),
			Label:       name,
			Classes:     []string{ClassColumn},
			GeneralType: gt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	return byTable, nil
}
