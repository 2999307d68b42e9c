package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/airlens-labs/airlens/internal/dataset"
	"github.com/airlens-labs/airlens/internal/model"
	"github.com/airlens-labs/airlens/internal/report"
)

const (
	defaultTestFraction = 0.2
	defaultCVFolds      = 3
)

// Fit trains and evaluates the three regressors on the cleaned dataset.
// Results come back ordered as fitted; best is the name with the lowest
// holdout RMSE.
func (e *Engine) Fit(ctx context.Context) (results []report.ModelResult, best string, err error) {
	db, err := e.DB(ctx)
	if err != nil {
		return nil, "", err
	}

	frame, err := dataset.LoadFrame(ctx, db)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load modeling frame: %w", err)
	}

	design, err := model.Encode(frame)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode features: %w", err)
	}

	testFraction := e.cfg.TestFraction
	if testFraction <= 0 || testFraction >= 1 {
		testFraction = defaultTestFraction
	}
	folds := e.cfg.CVFolds
	if folds < 2 {
		folds = defaultCVFolds
	}

	train, test, err := design.Split(testFraction, e.cfg.Seed)
	if err != nil {
		return nil, "", fmt.Errorf("failed to split dataset: %w", err)
	}

	e.logger.Info("fitting models",
		"rows", design.Rows(), "features", len(design.Names),
		"train", train.Rows(), "test", test.Rows(), "folds", folds)

	mc := e.cfg.Models
	factories := []model.Factory{
		func() model.Regressor { return model.NewLinearRegression() },
		func() model.Regressor { return model.NewDecisionTree(mc.MaxDepth, mc.MinLeaf) },
		func() model.Regressor { return model.NewRandomForest(mc.ForestTrees, mc.MaxDepth, mc.MinLeaf, e.cfg.Seed) },
	}

	bestRMSE := 0.0
	for _, build := range factories {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		m := build()
		start := time.Now()

		cvRMSE, err := model.CrossValidate(build, train, folds, e.cfg.Seed)
		if err != nil {
			return nil, "", fmt.Errorf("%s: cross-validation failed: %w", m.Name(), err)
		}

		if err := m.Fit(train.X, train.Y); err != nil {
			return nil, "", fmt.Errorf("%s: fit failed: %w", m.Name(), err)
		}

		preds, err := m.Predict(test.X)
		if err != nil {
			return nil, "", fmt.Errorf("%s: predict failed: %w", m.Name(), err)
		}
		metrics, err := model.Evaluate(preds, test.Y)
		if err != nil {
			return nil, "", fmt.Errorf("%s: evaluation failed: %w", m.Name(), err)
		}
		residuals, err := model.Residuals(preds, test.Y)
		if err != nil {
			return nil, "", fmt.Errorf("%s: residuals failed: %w", m.Name(), err)
		}

		elapsed := time.Since(start)
		e.logger.Info("fitted model", "model", m.Name(),
			"cv_rmse", cvRMSE, "rmse", metrics.RMSE, "r2", metrics.R2, "took", elapsed)

		results = append(results, report.ModelResult{
			Name:        m.Name(),
			CVRMSE:      cvRMSE,
			RMSE:        metrics.RMSE,
			MAE:         metrics.MAE,
			R2:          metrics.R2,
			FitDuration: elapsed,
			Predicted:   preds,
			Residuals:   residuals,
		})

		if best == "" || metrics.RMSE < bestRMSE {
			best = m.Name()
			bestRMSE = metrics.RMSE
		}
	}

	return results, best, nil
}
