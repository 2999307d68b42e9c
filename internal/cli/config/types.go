// Package config provides configuration management for the airlens CLI.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
package config

// ModelsConfig bounds the tree-based models.
type ModelsConfig struct {
	ForestTrees int `koanf:"forest_trees"`
	MaxDepth    int `koanf:"max_depth"`
	MinLeaf     int `koanf:"min_leaf"`
}

// Config holds all CLI configuration options.
type Config struct {
	DatasetPath       string       `koanf:"dataset"`
	DatabasePath      string       `koanf:"database"`
	StatePath         string       `koanf:"state_path"`
	OutputDir         string       `koanf:"output_dir"`
	OutputFormat      string       `koanf:"output"`
	Verbose           bool         `koanf:"verbose"`
	Seed              int64        `koanf:"seed"`
	MaxPrice          float64      `koanf:"max_price"`
	TestFraction      float64      `koanf:"test_fraction"`
	CVFolds           int          `koanf:"cv_folds"`
	TopNeighbourhoods int          `koanf:"top_neighbourhoods"`
	HistogramBins     int          `koanf:"histogram_bins"`
	Plots             bool         `koanf:"plots"`
	Models            ModelsConfig `koanf:"models"`
}

// Default configuration values.
const (
	DefaultStateFile    = ".airlens/state.db"
	DefaultOutputDir    = "reports"
	DefaultOutputFormat = "table"
	DefaultSeed         = 42
	DefaultMaxPrice     = 10000
	DefaultTestFraction = 0.2
	DefaultCVFolds      = 3
	DefaultTopHoods     = 10
	DefaultHistBins     = 30
	DefaultForestTrees  = 100
	DefaultMaxDepth     = 12
	DefaultMinLeaf      = 5
)
