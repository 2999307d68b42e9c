// Package engine orchestrates the analysis pipeline: dataset ingestion,
// cleaning, descriptive statistics, model fitting and report assembly.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/airlens-labs/airlens/internal/duckdb"
	"github.com/airlens-labs/airlens/internal/state"
)

// ModelConfig bounds the tree-based models.
type ModelConfig struct {
	// ForestTrees is the random forest size.
	ForestTrees int
	// MaxDepth bounds the decision tree and forest members.
	MaxDepth int
	// MinLeaf is the minimum rows per leaf.
	MinLeaf int
}

// Config holds engine configuration.
type Config struct {
	// DatasetPath is the listings CSV to analyze.
	DatasetPath string
	// DatabasePath is the DuckDB database path (empty for in-memory).
	DatabasePath string
	// StatePath is the run history SQLite database path.
	StatePath string
	// OutputDir receives the markdown report and plot PNGs.
	OutputDir string

	// MaxPrice drops listings priced above it during cleaning.
	MaxPrice float64
	// Seed fixes the shuffle, folds and forest sampling.
	Seed int64
	// TestFraction is the holdout share of the split.
	TestFraction float64
	// CVFolds is the cross-validation fold count.
	CVFolds int
	// TopNeighbourhoods bounds the neighbourhood ranking table.
	TopNeighbourhoods int
	// HistogramBins bins the log-price distribution.
	HistogramBins int
	// Plots disables PNG generation when false.
	Plots bool

	Models ModelConfig

	// Logger is the structured logger (discard if nil).
	Logger *slog.Logger
}

// Engine runs the analysis pipeline against a single dataset.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	db          *duckdb.DB
	dbConnected bool
	dbMu        sync.Mutex

	store state.Store
}

// New creates an engine with a lazy analysis-database connection.
// The DuckDB connection is only opened when the pipeline first needs it.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine", "dataset", cfg.DatasetPath, "database", cfg.DatabasePath)

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}

	return &Engine{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}, nil
}

// Close releases the engine's database handles.
func (e *Engine) Close() error {
	var firstErr error
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			firstErr = err
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DB returns the analysis database, connecting on first use.
func (e *Engine) DB(ctx context.Context) (*duckdb.DB, error) {
	if err := e.ensureDBConnected(ctx); err != nil {
		return nil, err
	}
	return e.db, nil
}

// Store returns the run history store.
func (e *Engine) Store() state.Store {
	return e.store
}

func (e *Engine) ensureDBConnected(ctx context.Context) error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if e.dbConnected {
		return nil
	}

	db, err := duckdb.Open(ctx, e.cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to connect analysis database: %w", err)
	}

	e.db = db
	e.dbConnected = true
	return nil
}
