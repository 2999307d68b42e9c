// Package model implements the three regressors compared by the report:
// ordinary least squares, a CART regression tree and a random forest.
// All predict log-price from the encoded listing features.
package model

import "fmt"

// Regressor is the common surface of the fitted models.
type Regressor interface {
	// Name identifies the model in reports and metrics.
	Name() string

	// Fit trains the model on rows X and targets y.
	Fit(X [][]float64, y []float64) error

	// Predict returns one prediction per row of X.
	// Must be called after Fit.
	Predict(X [][]float64) ([]float64, error)
}

// Factory builds a fresh, unfitted regressor. Cross-validation needs a
// new instance per fold.
type Factory func() Regressor

func checkTrainingData(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("no training rows")
	}
	if len(X) != len(y) {
		return fmt.Errorf("row/target length mismatch: %d vs %d", len(X), len(y))
	}
	width := len(X[0])
	if width == 0 {
		return fmt.Errorf("no features")
	}
	for i, row := range X {
		if len(row) != width {
			return fmt.Errorf("ragged row %d: %d columns, expected %d", i, len(row), width)
		}
	}
	return nil
}
