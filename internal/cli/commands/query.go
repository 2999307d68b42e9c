package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/airlens-labs/airlens/internal/cli/config"
	"github.com/airlens-labs/airlens/internal/duckdb"
	"github.com/airlens-labs/airlens/internal/engine"
	"github.com/spf13/cobra"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the analysis database",
		Long: `Query the analysis database directly with SQL.

The dataset is loaded and cleaned first, so both the raw table
(listings_raw) and the cleaned table (listings) are available.
Supports multiple output formats for scripting.

When invoked without arguments, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  airlens query "SELECT room_type, AVG(price) FROM listings GROUP BY room_type"

  # List available tables
  airlens query tables

  # Show schema for a table
  airlens query schema listings

  # Output as JSON
  airlens query "SELECT * FROM listings LIMIT 5" --format json

  # Interactive mode
  airlens query`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	// Flags
	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	// Subcommands
	cmd.AddCommand(newQueryTablesCommand(opts))
	cmd.AddCommand(newQuerySchemaCommand(opts))

	return cmd
}

// effectiveFormat resolves the query output format: the --format flag when
// explicitly set, otherwise the global output format from config.
func effectiveFormat(cmd *cobra.Command, opts *QueryOptions) string {
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		return opts.Format
	}
	if cfg := config.GetCurrentConfig(); cfg != nil && cfg.OutputFormat != "" {
		return cfg.OutputFormat
	}
	return opts.Format
}

// openQueryEngine creates an engine with the dataset loaded, ready for SQL.
func openQueryEngine(cmd *cobra.Command) (*engine.Engine, *duckdb.DB, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, nil, err
	}
	eng, err := createEngine(cfg, getLogger(cmd))
	if err != nil {
		return nil, nil, err
	}
	if _, err := eng.LoadDataset(cmd.Context()); err != nil {
		_ = eng.Close()
		return nil, nil, err
	}
	db, err := eng.DB(cmd.Context())
	if err != nil {
		_ = eng.Close()
		return nil, nil, err
	}
	return eng, db, nil
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	opts.Format = effectiveFormat(cmd, opts)

	// Determine SQL source
	var sqlQuery string

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return runQueryREPL(cmd, opts)
	}

	eng, db, err := openQueryEngine(cmd)
	if err != nil {
		return err
	}
	defer eng.Close()

	return executeAndRenderQuery(cmd.Context(), cmd, db, sqlQuery, opts.Format)
}

// executeAndRenderQuery executes a query and renders results, properly closing rows with defer.
func executeAndRenderQuery(ctx context.Context, cmd *cobra.Command, db *duckdb.DB, query, format string) error {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return renderResults(cmd.OutOrStdout(), rows, format)
}

// newQueryTablesCommand creates the tables subcommand.
func newQueryTablesCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables in the analysis database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, db, err := openQueryEngine(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()
			return listTables(cmd.Context(), cmd.OutOrStdout(), db, effectiveFormat(cmd, opts))
		},
	}
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show schema for a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, db, err := openQueryEngine(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()
			return showSchema(cmd.Context(), cmd.OutOrStdout(), db, args[0], effectiveFormat(cmd, opts))
		},
	}
}

func listTables(ctx context.Context, w io.Writer, db *duckdb.DB, format string) error {
	rows, err := db.Query(ctx, `
		SELECT table_name AS name, table_type AS type
		FROM information_schema.tables
		WHERE table_schema = 'main'
		ORDER BY table_type, table_name
	`)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	return renderResults(w, rows, format)
}

func showSchema(ctx context.Context, w io.Writer, db *duckdb.DB, tableName, format string) error {
	columns, count, err := db.TableMetadata(ctx, tableName)
	if err != nil {
		return err
	}

	results := make([]map[string]any, 0, len(columns))
	for _, c := range columns {
		results = append(results, map[string]any{
			"name":     c.Name,
			"type":     c.Type,
			"nullable": c.Nullable,
		})
	}
	if err := renderMaps(w, []string{"name", "type", "nullable"}, results, format); err != nil {
		return err
	}
	if format == "table" {
		_, _ = fmt.Fprintf(w, "%d rows in %s\n", count, tableName)
	}
	return nil
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
