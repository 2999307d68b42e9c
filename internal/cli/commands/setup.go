// Package commands contains the airlens CLI subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/airlens-labs/airlens/internal/cli/config"
	"github.com/airlens-labs/airlens/internal/engine"
	"github.com/spf13/cobra"
)

// getConfig returns the loaded configuration or an error if it is missing.
func getConfig() (*config.Config, error) {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// getLogger extracts the logger from the command context.
func getLogger(cmd *cobra.Command) *slog.Logger {
	return config.GetLogger(cmd.Context())
}

// createEngine builds an analysis engine from the CLI configuration.
func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	// Ensure the state directory exists
	if cfg.StatePath != "" && cfg.StatePath != ":memory:" {
		stateDir := filepath.Dir(cfg.StatePath)
		if stateDir != "." && stateDir != "" {
			if err := os.MkdirAll(stateDir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	eng, err := engine.New(engine.Config{
		DatasetPath:       cfg.DatasetPath,
		DatabasePath:      cfg.DatabasePath,
		StatePath:         cfg.StatePath,
		OutputDir:         cfg.OutputDir,
		MaxPrice:          cfg.MaxPrice,
		Seed:              cfg.Seed,
		TestFraction:      cfg.TestFraction,
		CVFolds:           cfg.CVFolds,
		TopNeighbourhoods: cfg.TopNeighbourhoods,
		HistogramBins:     cfg.HistogramBins,
		Plots:             cfg.Plots,
		Models: engine.ModelConfig{
			ForestTrees: cfg.Models.ForestTrees,
			MaxDepth:    cfg.Models.MaxDepth,
			MinLeaf:     cfg.Models.MinLeaf,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return eng, nil
}
