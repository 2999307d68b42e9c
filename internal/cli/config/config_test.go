package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, int64(DefaultSeed), cfg.Seed)
	assert.Equal(t, float64(DefaultMaxPrice), cfg.MaxPrice)
	assert.InDelta(t, DefaultTestFraction, cfg.TestFraction, 1e-9)
	assert.Equal(t, DefaultCVFolds, cfg.CVFolds)
	assert.Equal(t, DefaultForestTrees, cfg.Models.ForestTrees)
	assert.True(t, cfg.Plots)
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "airlens.yaml")
	content := `
dataset: data/listings.csv
max_price: 500
cv_folds: 5
models:
  forest_trees: 50
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "data/listings.csv", cfg.DatasetPath)
	assert.Equal(t, 500.0, cfg.MaxPrice)
	assert.Equal(t, 5, cfg.CVFolds)
	assert.Equal(t, 50, cfg.Models.ForestTrees)
	// Untouched keys keep defaults.
	assert.Equal(t, DefaultMinLeaf, cfg.Models.MinLeaf)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	ResetConfig()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "airlens.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max_price: 500\n"), 0o600))

	t.Setenv("AIRLENS_MAX_PRICE", "750")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, 750.0, cfg.MaxPrice)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	ResetConfig()
	t.Setenv("AIRLENS_SEED", "7")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int64("seed", 0, "")
	flags.String("state", "", "")
	require.NoError(t, flags.Parse([]string{"--seed", "99", "--state", "custom.db"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Seed)
	// --state maps onto state_path.
	assert.Equal(t, "custom.db", cfg.StatePath)
}

func TestLoadConfig_UnsetFlagsIgnored(t *testing.T) {
	ResetConfig()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Float64("max-price", 123, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	// Flag default must not override the config default.
	assert.Equal(t, float64(DefaultMaxPrice), cfg.MaxPrice)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			TestFraction: 0.2,
			CVFolds:      3,
			MaxPrice:     1000,
			OutputFormat: "table",
			Models:       ModelsConfig{ForestTrees: 10, MaxDepth: 5, MinLeaf: 2},
		}
	}

	require.NoError(t, base().Validate())

	c := base()
	c.TestFraction = 1.5
	require.Error(t, c.Validate())

	c = base()
	c.CVFolds = 1
	require.Error(t, c.Validate())

	c = base()
	c.Models.ForestTrees = 0
	require.Error(t, c.Validate())

	c = base()
	c.OutputFormat = "xml"
	require.Error(t, c.Validate())
}

func TestGetLogger_Fallback(t *testing.T) {
	logger := GetLogger(t.Context())
	require.NotNil(t, logger)
}
