// Package state persists run history: one row per report generation plus
// the metrics of each fitted model.
package state

import "time"

// RunStatus is the lifecycle state of a recorded run.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID          string
	DatasetPath string
	RowsIn      int64
	RowsOut     int64
	Status      RunStatus
	Error       string
	BestModel   string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// ModelMetric is the recorded evaluation of one model within a run.
type ModelMetric struct {
	RunID      string
	Model      string
	CVRMSE     float64
	RMSE       float64
	MAE        float64
	R2         float64
	FitSeconds float64
}

// Store is the persistence surface for run history.
type Store interface {
	// Open opens the store at path. Use ":memory:" for tests.
	Open(path string) error

	// Close releases the underlying database.
	Close() error

	// InitSchema creates tables if they don't exist.
	InitSchema() error

	// CreateRun records the start of a pipeline run.
	CreateRun(datasetPath string) (*Run, error)

	// CompleteRun finalizes a run with its outcome.
	CompleteRun(id string, status RunStatus, errMsg, bestModel string, rowsIn, rowsOut int64) error

	// SaveMetrics records the per-model metrics of a run.
	SaveMetrics(runID string, metrics []ModelMetric) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*Run, error)

	// GetMetrics returns the metrics recorded for a run.
	GetMetrics(runID string) ([]ModelMetric, error)
}
