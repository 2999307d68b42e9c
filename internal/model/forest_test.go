package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeNoisyData(t *testing.T, n int, seed int64) ([][]float64, []float64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := range X {
		x0 := rng.Float64() * 10
		x1 := rng.Float64() * 10
		x2 := rng.Float64() // irrelevant feature
		X[i] = []float64{x0, x1, x2}
		y[i] = 2*x0 - x1 + rng.NormFloat64()*0.5
	}
	return X, y
}

func TestRandomForest_Fit(t *testing.T) {
	X, y := makeNoisyData(t, 400, 4)

	forest := NewRandomForest(30, 10, 3, 42)
	require.NoError(t, forest.Fit(X, y))

	preds, err := forest.Predict(X)
	require.NoError(t, err)
	m, err := Evaluate(preds, y)
	require.NoError(t, err)
	assert.Greater(t, m.R2, 0.85)
}

func TestRandomForest_DeterministicForSeed(t *testing.T) {
	X, y := makeNoisyData(t, 150, 5)
	probe := [][]float64{{2, 3, 0.5}, {8, 1, 0.1}}

	a := NewRandomForest(15, 8, 3, 7)
	require.NoError(t, a.Fit(X, y))
	pa, err := a.Predict(probe)
	require.NoError(t, err)

	b := NewRandomForest(15, 8, 3, 7)
	require.NoError(t, b.Fit(X, y))
	pb, err := b.Predict(probe)
	require.NoError(t, err)

	assert.Equal(t, pa, pb)
}

func TestRandomForest_DifferentSeedsDiffer(t *testing.T) {
	X, y := makeNoisyData(t, 150, 6)
	probe := [][]float64{{2, 3, 0.5}}

	a := NewRandomForest(15, 8, 3, 1)
	require.NoError(t, a.Fit(X, y))
	pa, _ := a.Predict(probe)

	b := NewRandomForest(15, 8, 3, 2)
	require.NoError(t, b.Fit(X, y))
	pb, _ := b.Predict(probe)

	assert.NotEqual(t, pa, pb)
}

func TestRandomForest_DefaultMTry(t *testing.T) {
	X, y := makeNoisyData(t, 60, 8)

	forest := NewRandomForest(5, 5, 2, 3)
	forest.MTry = 0 // p/3 default
	require.NoError(t, forest.Fit(X, y))

	preds, err := forest.Predict(X[:1])
	require.NoError(t, err)
	assert.Len(t, preds, 1)
}

func TestRandomForest_NotFitted(t *testing.T) {
	forest := NewRandomForest(5, 5, 2, 3)
	_, err := forest.Predict([][]float64{{1, 2, 3}})
	require.Error(t, err)
}
