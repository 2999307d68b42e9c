package model

import (
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RandomForest averages bagged regression trees with per-split feature
// subsampling. Deterministic for a fixed Seed: each tree gets its own RNG
// derived from the seed and its position in the forest.
type RandomForest struct {
	// Trees is the forest size. Zero means 100.
	Trees int
	// MaxDepth and MinLeaf bound the member trees (see DecisionTree).
	MaxDepth int
	MinLeaf  int
	// MTry is the number of features sampled per split.
	// Zero means max(1, p/3), the usual regression default.
	MTry int
	// Seed fixes the bootstrap and feature sampling.
	Seed int64

	trees []*DecisionTree
}

// NewRandomForest returns an unfitted forest with the given shape.
func NewRandomForest(trees, maxDepth, minLeaf int, seed int64) *RandomForest {
	return &RandomForest{Trees: trees, MaxDepth: maxDepth, MinLeaf: minLeaf, Seed: seed}
}

// Name implements Regressor.
func (f *RandomForest) Name() string { return "random_forest" }

// Fit implements Regressor. Trees are trained concurrently with a bounded
// errgroup; determinism comes from per-tree seeds, not goroutine order.
func (f *RandomForest) Fit(X [][]float64, y []float64) error {
	if err := checkTrainingData(X, y); err != nil {
		return fmt.Errorf("random forest: %w", err)
	}

	nTrees := f.Trees
	if nTrees <= 0 {
		nTrees = 100
	}
	mtry := f.MTry
	if mtry <= 0 {
		mtry = len(X[0]) / 3
		if mtry < 1 {
			mtry = 1
		}
	}
	minLeaf := f.MinLeaf
	if minLeaf <= 0 {
		minLeaf = 3
	}

	f.trees = make([]*DecisionTree, nTrees)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i := 0; i < nTrees; i++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(f.Seed + int64(i)*7919))

			// Bootstrap sample with replacement.
			n := len(X)
			bx := make([][]float64, n)
			by := make([]float64, n)
			for j := 0; j < n; j++ {
				k := rng.Intn(n)
				bx[j] = X[k]
				by[j] = y[k]
			}

			tree := &DecisionTree{
				MaxDepth: f.MaxDepth,
				MinLeaf:  minLeaf,
				mtry:     mtry,
				rng:      rng,
			}
			if err := tree.Fit(bx, by); err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
			f.trees[i] = tree
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		f.trees = nil
		return fmt.Errorf("random forest: %w", err)
	}
	return nil
}

// Predict implements Regressor: the mean of the member tree predictions.
func (f *RandomForest) Predict(X [][]float64) ([]float64, error) {
	if len(f.trees) == 0 {
		return nil, fmt.Errorf("random forest: model not fitted")
	}

	out := make([]float64, len(X))
	for _, tree := range f.trees {
		preds, err := tree.Predict(X)
		if err != nil {
			return nil, fmt.Errorf("random forest: %w", err)
		}
		for i, p := range preds {
			out[i] += p
		}
	}
	for i := range out {
		out[i] /= float64(len(f.trees))
	}
	return out, nil
}
