package engine

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/airlens-labs/airlens/internal/state"
	"github.com/airlens-labs/airlens/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestCSV generates a small synthetic listings file where price
// depends on room type and availability, so the models have signal to find.
func writeTestCSV(t *testing.T, rows int) string {
	t.Helper()

	groups := []string{"Manhattan", "Brooklyn", "Queens"}
	hoods := []string{"Harlem", "Williamsburg", "Astoria", "Midtown"}
	roomTypes := []string{"Entire home/apt", "Private room", "Shared room"}
	basePrice := map[string]float64{"Entire home/apt": 200, "Private room": 90, "Shared room": 50}

	rng := rand.New(rand.NewSource(11))
	var b strings.Builder
	b.WriteString("id,name,host_id,host_name,neighbourhood_group,neighbourhood,latitude,longitude,room_type,price,minimum_nights,number_of_reviews,last_review,reviews_per_month,calculated_host_listings_count,availability_365\n")
	for i := 0; i < rows; i++ {
		rt := roomTypes[rng.Intn(len(roomTypes))]
		avail := rng.Intn(365)
		price := basePrice[rt] + float64(avail)/10 + rng.Float64()*20
		fmt.Fprintf(&b, "%d,Listing %d,%d,Host %d,%s,%s,%.4f,%.4f,%s,%.0f,%d,%d,2019-06-%02d,%.2f,%d,%d\n",
			i+1, i+1, 100+i, 100+i,
			groups[rng.Intn(len(groups))], hoods[rng.Intn(len(hoods))],
			40.6+rng.Float64()*0.3, -74.0+rng.Float64()*0.2,
			rt, price,
			1+rng.Intn(5), rng.Intn(100), 1+rng.Intn(28),
			rng.Float64()*3, 1+rng.Intn(4), avail)
	}

	path := filepath.Join(t.TempDir(), "listings.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func newTestEngine(t *testing.T, csvPath string) *Engine {
	t.Helper()

	eng, err := New(Config{
		DatasetPath:   csvPath,
		StatePath:     ":memory:",
		OutputDir:     t.TempDir(),
		MaxPrice:      10000,
		Seed:          42,
		TestFraction:  0.25,
		CVFolds:       3,
		HistogramBins: 10,
		Models:        ModelConfig{ForestTrees: 10, MaxDepth: 8, MinLeaf: 3},
		Logger:        testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestLoadDataset(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, writeTestCSV(t, 60))

	res, err := eng.LoadDataset(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(60), res.RowsIn)
	assert.Equal(t, int64(60), res.RowsOut)
}

func TestLoadDataset_MissingFile(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, "/nonexistent/listings.csv")

	_, err := eng.LoadDataset(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset not found")
}

func TestDescribe(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, writeTestCSV(t, 80))

	_, err := eng.LoadDataset(ctx)
	require.NoError(t, err)

	r, err := eng.Describe(ctx)
	require.NoError(t, err)

	assert.Len(t, r.Summaries, 8)
	for _, s := range r.Summaries {
		assert.Equal(t, 80, s.Count, "column %s", s.Column)
		assert.LessOrEqual(t, s.Min, s.Median, "column %s", s.Column)
		assert.LessOrEqual(t, s.Median, s.Max, "column %s", s.Column)
	}

	assert.NotEmpty(t, r.Groups)
	assert.NotEmpty(t, r.TopNeighbourhood)
	assert.Len(t, r.Correlations, 7)
	require.NotNil(t, r.LogPriceHist)
	assert.Len(t, r.LogPriceHist.Counts, 10)
}

func TestFit(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, writeTestCSV(t, 120))

	_, err := eng.LoadDataset(ctx)
	require.NoError(t, err)

	results, best, err := eng.Fit(ctx)
	require.NoError(t, err)
	require.Len(t, results, 3)

	names := make(map[string]bool)
	for _, m := range results {
		names[m.Name] = true
		assert.Greater(t, m.RMSE, 0.0)
		assert.Greater(t, m.CVRMSE, 0.0)
		assert.NotEmpty(t, m.Residuals)
	}
	assert.True(t, names["linear_regression"])
	assert.True(t, names["decision_tree"])
	assert.True(t, names["random_forest"])
	assert.True(t, names[best], "best model %q must be one of the results", best)
}

func TestRun_WritesReportAndHistory(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, writeTestCSV(t, 120))

	res, err := eng.Run(ctx)
	require.NoError(t, err)
	require.NotNil(t, res.Report)
	assert.NotEmpty(t, res.RunID)

	content, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Listings Price Analysis")
	assert.Contains(t, string(content), "## Model comparison")

	runs, err := eng.Store().ListRuns(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, state.RunStatusSuccess, runs[0].Status)
	assert.Equal(t, res.Report.Best, runs[0].BestModel)

	metrics, err := eng.Store().GetMetrics(res.RunID)
	require.NoError(t, err)
	assert.Len(t, metrics, 3)
}

func TestFitRun_RecordsHistory(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, writeTestCSV(t, 120))

	runID, results, best, err := eng.FitRun(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)
	assert.Len(t, results, 3)
	assert.NotEmpty(t, best)

	runs, err := eng.Store().ListRuns(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, state.RunStatusSuccess, runs[0].Status)
	assert.Equal(t, best, runs[0].BestModel)

	metrics, err := eng.Store().GetMetrics(runID)
	require.NoError(t, err)
	assert.Len(t, metrics, 3)
}

// metricsFailStore rejects metric writes to exercise the post-pipeline
// failure path.
type metricsFailStore struct {
	state.Store
}

func (s *metricsFailStore) SaveMetrics(string, []state.ModelMetric) error {
	return fmt.Errorf("disk full")
}

func TestRun_MetricsSaveFailureMarksRunFailed(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, writeTestCSV(t, 120))
	eng.store = &metricsFailStore{Store: eng.store}

	_, err := eng.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save metrics")

	// The run row must not be left in status running.
	runs, err := eng.Store().ListRuns(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, state.RunStatusFailed, runs[0].Status)
	assert.Contains(t, runs[0].Error, "failed to save metrics")
}

func TestFitRun_MetricsSaveFailureMarksRunFailed(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, writeTestCSV(t, 120))
	eng.store = &metricsFailStore{Store: eng.store}

	_, _, _, err := eng.FitRun(ctx)
	require.Error(t, err)

	runs, err := eng.Store().ListRuns(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, state.RunStatusFailed, runs[0].Status)
}

func TestRun_RecordsFailure(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, "/nonexistent/listings.csv")

	_, err := eng.Run(ctx)
	require.Error(t, err)

	runs, err := eng.Store().ListRuns(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, state.RunStatusFailed, runs[0].Status)
	assert.NotEmpty(t, runs[0].Error)
}
