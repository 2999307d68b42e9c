package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/airlens-labs/airlens/internal/report"
	"github.com/airlens-labs/airlens/internal/state"
)

// RunResult is what a full pipeline run leaves behind.
type RunResult struct {
	RunID      string
	Report     *report.Report
	ReportPath string
	PlotPaths  []string
}

// Run executes the full pipeline: ingest, clean, describe, fit, then
// write the report and plots. The run is recorded in the history store
// whether it succeeds or fails.
func (e *Engine) Run(ctx context.Context) (*RunResult, error) {
	run, err := e.store.CreateRun(e.cfg.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	res, err := e.runPipeline(ctx)
	if err != nil {
		e.failRun(run.ID, err)
		return nil, err
	}
	res.RunID = run.ID

	r := res.Report
	if err := e.store.SaveMetrics(run.ID, metricRows(run.ID, r.Models)); err != nil {
		err = fmt.Errorf("failed to save metrics: %w", err)
		e.failRun(run.ID, err)
		return nil, err
	}
	if err := e.store.CompleteRun(run.ID, state.RunStatusSuccess, "", r.Best, r.RowsIn, r.RowsOut); err != nil {
		err = fmt.Errorf("failed to complete run: %w", err)
		e.failRun(run.ID, err)
		return nil, err
	}

	e.logger.Info("run complete", "run_id", run.ID, "best", r.Best, "report", res.ReportPath)
	return res, nil
}

// FitRun loads the dataset, fits the models and records the invocation
// in the run history. Unlike Run it writes no report or plots.
func (e *Engine) FitRun(ctx context.Context) (runID string, results []report.ModelResult, best string, err error) {
	run, err := e.store.CreateRun(e.cfg.DatasetPath)
	if err != nil {
		return "", nil, "", fmt.Errorf("failed to record run: %w", err)
	}

	cleanRes, err := e.LoadDataset(ctx)
	if err != nil {
		e.failRun(run.ID, err)
		return "", nil, "", err
	}

	results, best, err = e.Fit(ctx)
	if err != nil {
		e.failRun(run.ID, err)
		return "", nil, "", err
	}

	if err := e.store.SaveMetrics(run.ID, metricRows(run.ID, results)); err != nil {
		err = fmt.Errorf("failed to save metrics: %w", err)
		e.failRun(run.ID, err)
		return "", nil, "", err
	}
	if err := e.store.CompleteRun(run.ID, state.RunStatusSuccess, "", best, cleanRes.RowsIn, cleanRes.RowsOut); err != nil {
		err = fmt.Errorf("failed to complete run: %w", err)
		e.failRun(run.ID, err)
		return "", nil, "", err
	}
	return run.ID, results, best, nil
}

// failRun marks a run failed, best effort. A run row must never be left
// in status running once its invocation has returned.
func (e *Engine) failRun(id string, cause error) {
	if err := e.store.CompleteRun(id, state.RunStatusFailed, cause.Error(), "", 0, 0); err != nil {
		e.logger.Error("failed to record run failure", "run_id", id, "error", err)
	}
}

func metricRows(runID string, results []report.ModelResult) []state.ModelMetric {
	metrics := make([]state.ModelMetric, 0, len(results))
	for _, m := range results {
		metrics = append(metrics, state.ModelMetric{
			RunID:      runID,
			Model:      m.Name,
			CVRMSE:     m.CVRMSE,
			RMSE:       m.RMSE,
			MAE:        m.MAE,
			R2:         m.R2,
			FitSeconds: m.FitDuration.Seconds(),
		})
	}
	return metrics
}

func (e *Engine) runPipeline(ctx context.Context) (*RunResult, error) {
	cleanRes, err := e.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}

	r, err := e.Describe(ctx)
	if err != nil {
		return nil, err
	}
	r.RowsIn = cleanRes.RowsIn
	r.RowsOut = cleanRes.RowsOut
	r.GeneratedAt = time.Now().UTC()

	results, best, err := e.Fit(ctx)
	if err != nil {
		return nil, err
	}
	r.Models = results
	r.Best = best

	res := &RunResult{Report: r}

	outDir := e.cfg.OutputDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	res.ReportPath = filepath.Join(outDir, "report.md")
	if err := os.WriteFile(res.ReportPath, []byte(r.Markdown()), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	if e.cfg.Plots {
		paths, err := e.writePlots(ctx, outDir, r)
		if err != nil {
			return nil, err
		}
		res.PlotPaths = paths
	}

	return res, nil
}

// writePlots renders the log-price histogram and the best model's
// residual scatter.
func (e *Engine) writePlots(ctx context.Context, outDir string, r *report.Report) ([]string, error) {
	var paths []string

	logPrices, err := e.logPriceValues(ctx)
	if err != nil {
		return nil, err
	}
	bins := e.cfg.HistogramBins
	if bins <= 0 {
		bins = defaultHistogramBins
	}

	histPath := filepath.Join(outDir, "log_price_hist.png")
	if err := report.WriteHistogramPNG(histPath, "Log-price distribution", "log_price", logPrices, bins); err != nil {
		return nil, fmt.Errorf("failed to write histogram plot: %w", err)
	}
	paths = append(paths, histPath)

	if best := r.BestResult(); best != nil && len(best.Residuals) > 0 {
		resPath := filepath.Join(outDir, "residuals.png")
		title := fmt.Sprintf("Residuals (%s)", best.Name)
		if err := report.WriteResidualPNG(resPath, title, best.Predicted, best.Residuals); err != nil {
			return nil, fmt.Errorf("failed to write residual plot: %w", err)
		}
		paths = append(paths, resPath)
	}

	return paths, nil
}
