package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore(nil)
	require.NoError(t, s.Open(":memory:"))
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.InitSchema())
	return s
}

func TestCreateAndCompleteRun(t *testing.T) {
	s := newTestStore(t)

	run, err := s.CreateRun("data/listings.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	err = s.CompleteRun(run.ID, RunStatusSuccess, "", "random_forest", 48895, 48884)
	require.NoError(t, err)

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, RunStatusSuccess, runs[0].Status)
	assert.Equal(t, "random_forest", runs[0].BestModel)
	assert.Equal(t, int64(48895), runs[0].RowsIn)
	assert.NotNil(t, runs[0].CompletedAt)
}

func TestCompleteRun_NotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.CompleteRun("missing", RunStatusFailed, "boom", "", 0, 0)
	require.Error(t, err)
}

func TestSaveAndGetMetrics(t *testing.T) {
	s := newTestStore(t)

	run, err := s.CreateRun("data/listings.csv")
	require.NoError(t, err)

	metrics := []ModelMetric{
		{RunID: run.ID, Model: "linear_regression", CVRMSE: 0.51, RMSE: 0.50, MAE: 0.38, R2: 0.49, FitSeconds: 0.1},
		{RunID: run.ID, Model: "random_forest", CVRMSE: 0.44, RMSE: 0.43, MAE: 0.31, R2: 0.62, FitSeconds: 3.2},
		{RunID: run.ID, Model: "decision_tree", CVRMSE: 0.48, RMSE: 0.47, MAE: 0.35, R2: 0.55, FitSeconds: 0.4},
	}
	require.NoError(t, s.SaveMetrics(run.ID, metrics))

	got, err := s.GetMetrics(run.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Ordered by holdout RMSE ascending.
	assert.Equal(t, "random_forest", got[0].Model)
	assert.Equal(t, "linear_regression", got[2].Model)
}

func TestListRuns_Limit(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 5; i++ {
		_, err := s.CreateRun("data/listings.csv")
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestStore_NotOpened(t *testing.T) {
	s := NewSQLiteStore(nil)
	_, err := s.CreateRun("x")
	require.Error(t, err)
	require.Error(t, s.InitSchema())
}
