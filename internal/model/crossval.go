package model

import (
	"fmt"
	"math/rand"
)

// CrossValidate runs k-fold cross-validation on the training design and
// returns the mean fold RMSE. A fresh model is built per fold so folds
// never share fitted state.
func CrossValidate(build Factory, d *Design, k int, seed int64) (float64, error) {
	if k < 2 {
		return 0, fmt.Errorf("cross-validation needs k >= 2, got %d", k)
	}
	n := d.Rows()
	if n < k {
		return 0, fmt.Errorf("cross-validation needs at least %d rows, got %d", k, n)
	}

	folds := foldIndices(n, k, seed)

	var total float64
	for fi, holdout := range folds {
		inFold := make(map[int]bool, len(holdout))
		for _, i := range holdout {
			inFold[i] = true
		}
		train := make([]int, 0, n-len(holdout))
		for i := 0; i < n; i++ {
			if !inFold[i] {
				train = append(train, i)
			}
		}

		trainSet := d.subset(train)
		testSet := d.subset(holdout)

		m := build()
		if err := m.Fit(trainSet.X, trainSet.Y); err != nil {
			return 0, fmt.Errorf("fold %d: %w", fi, err)
		}
		preds, err := m.Predict(testSet.X)
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", fi, err)
		}
		metrics, err := Evaluate(preds, testSet.Y)
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", fi, err)
		}
		total += metrics.RMSE
	}

	return total / float64(k), nil
}

// foldIndices shuffles 0..n-1 with the seed and deals the indices into k
// near-equal folds.
func foldIndices(n, k int, seed int64) [][]int {
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	folds := make([][]int, k)
	for i, idx := range perm {
		f := i % k
		folds[f] = append(folds[f], idx)
	}
	return folds
}
