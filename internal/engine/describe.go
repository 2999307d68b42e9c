package engine

import (
	"context"
	"fmt"

	"github.com/airlens-labs/airlens/internal/dataset"
	"github.com/airlens-labs/airlens/internal/report"
	"github.com/airlens-labs/airlens/internal/stats"
)

const defaultHistogramBins = 30

// Describe computes the descriptive statistics of the cleaned dataset.
// The aggregates run inside DuckDB; only the log-price values cross into
// Go, for histogram binning.
func (e *Engine) Describe(ctx context.Context) (*report.Report, error) {
	db, err := e.DB(ctx)
	if err != nil {
		return nil, err
	}

	r := &report.Report{DatasetPath: e.cfg.DatasetPath}

	for _, col := range dataset.NumericColumns {
		query := fmt.Sprintf(`
			SELECT
				COUNT(%[1]s),
				AVG(%[1]s),
				COALESCE(STDDEV_SAMP(%[1]s), 0),
				MIN(%[1]s),
				QUANTILE_CONT(%[1]s, 0.25),
				QUANTILE_CONT(%[1]s, 0.5),
				QUANTILE_CONT(%[1]s, 0.75),
				MAX(%[1]s)
			FROM %[2]s
		`, col, dataset.CleanTable)

		s := &stats.Summary{Column: col}
		row := db.QueryRow(ctx, query)
		if err := row.Scan(&s.Count, &s.Mean, &s.StdDev, &s.Min, &s.Q25, &s.Median, &s.Q75, &s.Max); err != nil {
			return nil, fmt.Errorf("failed to summarize %s: %w", col, err)
		}
		r.Summaries = append(r.Summaries, s)
	}

	for _, col := range []string{"neighbourhood_group", "room_type"} {
		groups, err := e.groupSummaries(ctx, col, 0)
		if err != nil {
			return nil, err
		}
		r.Groups = append(r.Groups, groups...)
	}

	topN := e.cfg.TopNeighbourhoods
	if topN <= 0 {
		topN = 10
	}
	top, err := e.groupSummaries(ctx, "neighbourhood", topN)
	if err != nil {
		return nil, err
	}
	r.TopNeighbourhood = top

	for _, col := range dataset.FeatureColumns {
		query := fmt.Sprintf(
			"SELECT COALESCE(CORR(%s, %s), 0) FROM %s",
			col, dataset.TargetColumn, dataset.CleanTable,
		)
		var c report.Correlation
		c.Feature = col
		if err := db.QueryRow(ctx, query).Scan(&c.R); err != nil {
			return nil, fmt.Errorf("failed to correlate %s: %w", col, err)
		}
		r.Correlations = append(r.Correlations, c)
	}

	logPrices, err := e.logPriceValues(ctx)
	if err != nil {
		return nil, err
	}
	bins := e.cfg.HistogramBins
	if bins <= 0 {
		bins = defaultHistogramBins
	}
	hist, err := stats.NewHistogram(logPrices, bins)
	if err != nil {
		return nil, fmt.Errorf("failed to bin log-price: %w", err)
	}
	r.LogPriceHist = hist
	r.RowsOut = int64(len(logPrices))

	return r, nil
}

// groupSummaries returns listing counts and price stats grouped by column.
// limit > 0 keeps only the most frequent levels.
func (e *Engine) groupSummaries(ctx context.Context, column string, limit int) ([]report.GroupSummary, error) {
	db, err := e.DB(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %[1]s, COUNT(*), AVG(price), MEDIAN(price)
		FROM %[2]s
		GROUP BY %[1]s
		ORDER BY COUNT(*) DESC
	`, column, dataset.CleanTable)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", column, err)
	}
	defer func() { _ = rows.Close() }()

	var out []report.GroupSummary
	for rows.Next() {
		g := report.GroupSummary{Column: column}
		if err := rows.Scan(&g.Level, &g.Count, &g.MeanPrice, &g.MedianPrice); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}
	return out, nil
}

// logPriceValues loads the log-price column into memory.
func (e *Engine) logPriceValues(ctx context.Context) ([]float64, error) {
	db, err := e.DB(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s", dataset.TargetColumn, dataset.CleanTable)
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load log-price: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan log-price: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log-price: %w", err)
	}
	return values, nil
}
