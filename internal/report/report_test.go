package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/airlens-labs/airlens/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	sum, err := stats.Summarize("price", []float64{50, 100, 150, 200})
	require.NoError(t, err)
	hist, err := stats.NewHistogram([]float64{3.9, 4.6, 5.0, 5.3}, 4)
	require.NoError(t, err)

	return &Report{
		DatasetPath: "data/listings.csv",
		RowsIn:      48895,
		RowsOut:     48884,
		GeneratedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Summaries:   []*stats.Summary{sum},
		Groups: []GroupSummary{
			{Column: "neighbourhood_group", Level: "Manhattan", Count: 21661, MeanPrice: 196.88, MedianPrice: 150},
			{Column: "room_type", Level: "Private room", Count: 22326, MeanPrice: 89.78, MedianPrice: 70},
		},
		Correlations: []Correlation{{Feature: "availability_365", R: 0.12}},
		LogPriceHist: hist,
		Models: []ModelResult{
			{Name: "linear_regression", CVRMSE: 0.51, RMSE: 0.50, MAE: 0.38, R2: 0.49, FitDuration: 120 * time.Millisecond},
			{Name: "random_forest", CVRMSE: 0.44, RMSE: 0.43, MAE: 0.31, R2: 0.62, FitDuration: 3 * time.Second,
				Predicted: []float64{4.5, 4.8, 5.1}, Residuals: []float64{0.2, -0.1, 0.3}},
		},
		Best: "random_forest",
	}
}

func TestMarkdown(t *testing.T) {
	md := sampleReport(t).Markdown()

	assert.Contains(t, md, "# Listings Price Analysis")
	assert.Contains(t, md, "48895 rows loaded, 48884 after cleaning")
	assert.Contains(t, md, "## Numeric summary")
	assert.Contains(t, md, "## Price by neighbourhood group")
	assert.Contains(t, md, "| Manhattan | 21661 |")
	assert.Contains(t, md, "## Price by room type")
	assert.Contains(t, md, "## Model comparison")
	assert.Contains(t, md, "| random_forest | 0.4400 |")
	assert.Contains(t, md, "## Holdout residuals")
	assert.Contains(t, md, "## Conclusion")
	assert.Contains(t, md, "random_forest achieved the lowest holdout RMSE")
}

func TestConclusion_NoModels(t *testing.T) {
	r := &Report{}
	assert.Equal(t, "No models were fitted.", r.Conclusion())
}

func TestBestResult(t *testing.T) {
	r := sampleReport(t)
	best := r.BestResult()
	require.NotNil(t, best)
	assert.Equal(t, "random_forest", best.Name)

	r.Best = "missing"
	assert.Nil(t, r.BestResult())
}

func TestRenderComparison_Formats(t *testing.T) {
	models := sampleReport(t).Models

	var buf bytes.Buffer
	require.NoError(t, RenderComparison(&buf, models, FormatTable))
	assert.Contains(t, buf.String(), "random_forest")
	assert.Contains(t, buf.String(), "0.4300")

	buf.Reset()
	require.NoError(t, RenderComparison(&buf, models, FormatMarkdown))
	assert.True(t, strings.HasPrefix(buf.String(), "| model |"))

	buf.Reset()
	require.NoError(t, RenderComparison(&buf, models, FormatCSV))
	assert.Contains(t, buf.String(), "model,cv_rmse,rmse,mae,r2,fit_time")

	buf.Reset()
	require.NoError(t, RenderComparison(&buf, models, FormatJSON))
	assert.Contains(t, buf.String(), `"model": "random_forest"`)
}

func TestRenderGroups_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderGroups(&buf, nil, FormatTable))
	assert.Contains(t, buf.String(), "(0 rows)")
}

func TestHistogramText(t *testing.T) {
	h, err := stats.NewHistogram([]float64{1, 1, 1, 2, 3}, 2)
	require.NoError(t, err)

	text := HistogramText(h)
	assert.Contains(t, text, "#")
	assert.Equal(t, 2, strings.Count(text, "\n"))
}

func TestWritePlots(t *testing.T) {
	dir := t.TempDir()

	histPath := filepath.Join(dir, "hist.png")
	err := WriteHistogramPNG(histPath, "Log-price", "log_price", []float64{3.9, 4.6, 5.0, 5.3, 4.2}, 4)
	require.NoError(t, err)
	info, err := os.Stat(histPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	resPath := filepath.Join(dir, "residuals.png")
	err = WriteResidualPNG(resPath, "Residuals", []float64{4.0, 4.5, 5.0}, []float64{0.1, -0.2, 0.05})
	require.NoError(t, err)
	_, err = os.Stat(resPath)
	require.NoError(t, err)
}

func TestWriteResidualPNG_Mismatch(t *testing.T) {
	err := WriteResidualPNG(filepath.Join(t.TempDir(), "r.png"), "Residuals", []float64{1}, []float64{1, 2})
	require.Error(t, err)
}
