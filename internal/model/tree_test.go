package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionTree_PiecewiseConstant(t *testing.T) {
	// Step function: y = 10 for x < 5, y = 20 for x >= 5.
	// A depth-1 tree should fit this exactly.
	var X [][]float64
	var y []float64
	for i := 0; i < 40; i++ {
		x := float64(i) / 4
		X = append(X, []float64{x})
		if x < 5 {
			y = append(y, 10)
		} else {
			y = append(y, 20)
		}
	}

	tree := NewDecisionTree(3, 2)
	require.NoError(t, tree.Fit(X, y))

	preds, err := tree.Predict([][]float64{{1}, {9}})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, preds[0], 1e-9)
	assert.InDelta(t, 20.0, preds[1], 1e-9)
	assert.Equal(t, 1, tree.Depth())
}

func TestDecisionTree_ConstantTarget(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{7, 7, 7, 7}

	tree := NewDecisionTree(5, 1)
	require.NoError(t, tree.Fit(X, y))

	preds, err := tree.Predict(X)
	require.NoError(t, err)
	for _, p := range preds {
		assert.Equal(t, 7.0, p)
	}
	assert.Equal(t, 0, tree.Depth())
}

func TestDecisionTree_MinLeafRespected(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	n := 100
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		X[i] = []float64{rng.Float64()}
		y[i] = rng.Float64()
	}

	// MinLeaf of 50 leaves no legal split on 100 rows.
	tree := NewDecisionTree(10, 50)
	require.NoError(t, tree.Fit(X, y))
	assert.Equal(t, 0, tree.Depth())
}

func TestDecisionTree_ReducesError(t *testing.T) {
	// Noisy quadratic; the tree should beat predicting the mean.
	rng := rand.New(rand.NewSource(3))
	n := 300
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		x := rng.Float64()*6 - 3
		X[i] = []float64{x}
		y[i] = x*x + rng.NormFloat64()*0.1
	}

	tree := NewDecisionTree(8, 5)
	require.NoError(t, tree.Fit(X, y))

	preds, err := tree.Predict(X)
	require.NoError(t, err)
	m, err := Evaluate(preds, y)
	require.NoError(t, err)
	assert.Greater(t, m.R2, 0.8)
}

func TestDecisionTree_NotFitted(t *testing.T) {
	tree := NewDecisionTree(3, 1)
	_, err := tree.Predict([][]float64{{1}})
	require.Error(t, err)
}
