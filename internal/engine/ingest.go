package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/airlens-labs/airlens/internal/dataset"
)

// LoadDataset ingests the configured listings CSV into the raw table and
// materializes the cleaned table.
func (e *Engine) LoadDataset(ctx context.Context) (*dataset.CleanResult, error) {
	if e.cfg.DatasetPath == "" {
		return nil, fmt.Errorf("no dataset configured")
	}
	if _, err := os.Stat(e.cfg.DatasetPath); err != nil {
		return nil, fmt.Errorf("dataset not found: %w", err)
	}

	db, err := e.DB(ctx)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("loading dataset", "path", e.cfg.DatasetPath)
	if err := db.LoadCSV(ctx, dataset.RawTable, e.cfg.DatasetPath); err != nil {
		return nil, fmt.Errorf("failed to ingest dataset: %w", err)
	}

	res, err := dataset.Clean(ctx, db, e.logger, dataset.CleanOptions{MaxPrice: e.cfg.MaxPrice})
	if err != nil {
		return nil, fmt.Errorf("failed to clean dataset: %w", err)
	}

	e.logger.Info("dataset ready", "rows_in", res.RowsIn, "rows_out", res.RowsOut, "rows_dropped", res.RowsDropped)
	return res, nil
}
