package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression fits ordinary least squares via the normal equations,
// with a small ridge term on the diagonal so collinear or constant columns
// don't make the system singular.
type LinearRegression struct {
	// Ridge is added to the diagonal of X'X. Defaults to 1e-8 when zero.
	Ridge float64

	intercept float64
	coef      []float64
}

// NewLinearRegression returns an unfitted OLS model.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Name implements Regressor.
func (m *LinearRegression) Name() string { return "linear_regression" }

// Fit solves (X'X + ridge*I) beta = X'y with an intercept column.
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	if err := checkTrainingData(X, y); err != nil {
		return fmt.Errorf("linear regression: %w", err)
	}

	n := len(X)
	p := len(X[0]) + 1 // leading intercept column

	ridge := m.Ridge
	if ridge == 0 {
		ridge = 1e-8
	}

	data := make([]float64, n*p)
	for i, row := range X {
		data[i*p] = 1
		copy(data[i*p+1:(i+1)*p], row)
	}
	xm := mat.NewDense(n, p, data)
	yv := mat.NewVecDense(n, y)

	var xtx mat.Dense
	xtx.Mul(xm.T(), xm)
	for j := 0; j < p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+ridge)
	}

	var xty mat.VecDense
	xty.MulVec(xm.T(), yv)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return fmt.Errorf("linear regression: failed to solve normal equations: %w", err)
	}

	m.intercept = beta.AtVec(0)
	m.coef = make([]float64, p-1)
	for j := 1; j < p; j++ {
		m.coef[j-1] = beta.AtVec(j)
	}
	return nil
}

// Predict implements Regressor.
func (m *LinearRegression) Predict(X [][]float64) ([]float64, error) {
	if m.coef == nil {
		return nil, fmt.Errorf("linear regression: model not fitted")
	}

	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.coef) {
			return nil, fmt.Errorf("linear regression: row %d has %d features, model has %d", i, len(row), len(m.coef))
		}
		v := m.intercept
		for j, x := range row {
			v += m.coef[j] * x
		}
		out[i] = v
	}
	return out, nil
}

// Coefficients returns the fitted intercept and feature weights.
func (m *LinearRegression) Coefficients() (intercept float64, coef []float64) {
	return m.intercept, m.coef
}
