package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Metrics holds the evaluation numbers reported per model.
type Metrics struct {
	RMSE float64
	MAE  float64
	R2   float64
}

// Evaluate computes RMSE, MAE and R-squared of predictions against truth.
func Evaluate(predicted, actual []float64) (*Metrics, error) {
	if len(predicted) != len(actual) {
		return nil, fmt.Errorf("length mismatch: %d predictions vs %d targets", len(predicted), len(actual))
	}
	if len(actual) == 0 {
		return nil, fmt.Errorf("no values to evaluate")
	}

	var sse, sae float64
	for i, p := range predicted {
		d := p - actual[i]
		sse += d * d
		sae += math.Abs(d)
	}
	n := float64(len(actual))

	mean := stat.Mean(actual, nil)
	var sst float64
	for _, a := range actual {
		d := a - mean
		sst += d * d
	}

	m := &Metrics{
		RMSE: math.Sqrt(sse / n),
		MAE:  sae / n,
	}
	if sst > 0 {
		m.R2 = 1 - sse/sst
	}
	return m, nil
}

// Residuals returns actual minus predicted, pairwise.
func Residuals(predicted, actual []float64) ([]float64, error) {
	if len(predicted) != len(actual) {
		return nil, fmt.Errorf("length mismatch: %d predictions vs %d targets", len(predicted), len(actual))
	}
	out := make([]float64, len(actual))
	for i := range actual {
		out[i] = actual[i] - predicted[i]
	}
	return out, nil
}
