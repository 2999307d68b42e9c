package dataset

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/airlens-labs/airlens/internal/duckdb"
)

// CleanOptions controls the cleaning stage.
type CleanOptions struct {
	// MaxPrice drops rows priced above this value (data-entry outliers).
	// Zero disables the cap.
	MaxPrice float64
}

// CleanResult reports what the cleaning stage did.
type CleanResult struct {
	RowsIn      int64
	RowsOut     int64
	RowsDropped int64
}

// Clean materializes the cleaned listings table from the raw table:
// zero- and negative-priced rows are dropped (the log target is undefined
// there), over-cap prices are dropped, reviews_per_month is backfilled to 0
// for listings without reviews, and log_price is derived once.
func Clean(ctx context.Context, db *duckdb.DB, logger *slog.Logger, opts CleanOptions) (*CleanResult, error) {
	rowsIn, err := db.Count(ctx, RawTable)
	if err != nil {
		return nil, fmt.Errorf("failed to count raw rows: %w", err)
	}

	logger.Debug("cleaning dataset", "rows_in", rowsIn, "max_price", opts.MaxPrice)

	if err := db.Exec(ctx, buildCleanSQL(opts)); err != nil {
		return nil, fmt.Errorf("failed to materialize clean table: %w", err)
	}

	rowsOut, err := db.Count(ctx, CleanTable)
	if err != nil {
		return nil, fmt.Errorf("failed to count clean rows: %w", err)
	}
	if rowsOut == 0 {
		return nil, fmt.Errorf("no rows left after cleaning (%d rows in)", rowsIn)
	}

	res := &CleanResult{
		RowsIn:      rowsIn,
		RowsOut:     rowsOut,
		RowsDropped: rowsIn - rowsOut,
	}

	logger.Debug("cleaned dataset", "rows_out", res.RowsOut, "rows_dropped", res.RowsDropped)
	return res, nil
}

// buildCleanSQL returns the CREATE TABLE statement for the clean stage.
func buildCleanSQL(opts CleanOptions) string {
	priceFilter := "price > 0"
	if opts.MaxPrice > 0 {
		priceFilter = fmt.Sprintf("price > 0 AND price <= %g", opts.MaxPrice)
	}

	return fmt.Sprintf(`
		CREATE OR REPLACE TABLE %s AS
		SELECT
			id,
			COALESCE(name, '') AS name,
			host_id,
			COALESCE(host_name, '') AS host_name,
			neighbourhood_group,
			neighbourhood,
			latitude,
			longitude,
			room_type,
			CAST(price AS DOUBLE) AS price,
			CAST(minimum_nights AS DOUBLE) AS minimum_nights,
			CAST(number_of_reviews AS DOUBLE) AS number_of_reviews,
			COALESCE(CAST(last_review AS VARCHAR), '') AS last_review,
			COALESCE(CAST(reviews_per_month AS DOUBLE), 0) AS reviews_per_month,
			CAST(calculated_host_listings_count AS DOUBLE) AS calculated_host_listings_count,
			CAST(availability_365 AS DOUBLE) AS availability_365,
			LN(CAST(price AS DOUBLE)) AS log_price
		FROM %s
		WHERE %s
	`, CleanTable, RawTable, priceFilter)
}
