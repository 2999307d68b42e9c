package config

import (
	"fmt"

	"github.com/airlens-labs/airlens/internal/report"
)

// Validate checks bounds that would otherwise fail deep inside the
// pipeline with a worse message.
func (c *Config) Validate() error {
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test_fraction must be in (0, 1), got %g", c.TestFraction)
	}
	if c.CVFolds < 2 {
		return fmt.Errorf("cv_folds must be at least 2, got %d", c.CVFolds)
	}
	if c.MaxPrice < 0 {
		return fmt.Errorf("max_price must not be negative, got %g", c.MaxPrice)
	}
	if c.Models.ForestTrees < 1 {
		return fmt.Errorf("models.forest_trees must be at least 1, got %d", c.Models.ForestTrees)
	}
	if c.Models.MinLeaf < 1 {
		return fmt.Errorf("models.min_leaf must be at least 1, got %d", c.Models.MinLeaf)
	}
	if c.Models.MaxDepth < 1 {
		return fmt.Errorf("models.max_depth must be at least 1, got %d", c.Models.MaxDepth)
	}
	if c.OutputFormat != "" && !report.ValidFormat(c.OutputFormat) {
		return fmt.Errorf("unknown output format %q", c.OutputFormat)
	}
	return nil
}
