// Package duckdb wraps the embedded DuckDB analysis database.
// All dataset ingestion, cleaning and descriptive SQL runs through it.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// DB is a thin handle over a DuckDB connection.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens a DuckDB database at path. Use ":memory:" (or an empty
// path) for an in-memory database.
func Open(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	return &DB{db: db, path: path}, nil
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (d *DB) Exec(ctx context.Context, sqlStr string, args ...any) error {
	if d.db == nil {
		return fmt.Errorf("database connection not established")
	}

	if _, err := d.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
// rows.Err() must be checked by the caller after iteration completes.
func (d *DB) Query(ctx context.Context, sqlStr string, args ...any) (*sql.Rows, error) {
	if d.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := d.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return rows, nil
}

// QueryRow executes a SQL statement expected to return a single row.
func (d *DB) QueryRow(ctx context.Context, sqlStr string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, sqlStr, args...)
}

// Count returns the number of rows in a table.
func (d *DB) Count(ctx context.Context, table string) (int64, error) {
	if err := validateIdent(table); err != nil {
		return 0, err
	}

	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := d.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return n, nil
}

// LoadCSV loads a CSV file into a table, replacing it if it exists.
// DuckDB infers the schema from the file.
func (d *DB) LoadCSV(ctx context.Context, table string, filePath string) error {
	if d.db == nil {
		return fmt.Errorf("database connection not established")
	}
	if err := validateIdent(table); err != nil {
		return err
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	query := fmt.Sprintf(
		"CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv_auto('%s', header=true)",
		table,
		strings.ReplaceAll(absPath, "'", "''"),
	)

	if err := d.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to load CSV %s: %w", filePath, err)
	}
	return nil
}

// Column describes one column of a table.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Position int
}

// TableMetadata returns column information and row count for a table.
func (d *DB) TableMetadata(ctx context.Context, table string) ([]Column, int64, error) {
	if d.db == nil {
		return nil, 0, fmt.Errorf("database connection not established")
	}

	query := `
		SELECT column_name, data_type, is_nullable, ordinal_position
		FROM information_schema.columns
		WHERE table_schema = 'main' AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := d.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var col Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, 0, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, 0, fmt.Errorf("table %s not found", table)
	}

	count, err := d.Count(ctx, table)
	if err != nil {
		count = 0
	}

	return columns, count, nil
}

// validateIdent rejects table names that cannot be safely interpolated.
func validateIdent(name string) error {
	if name == "" {
		return fmt.Errorf("empty table name")
	}
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			continue
		}
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}
