package model

import (
	"fmt"
	"math/rand"
	"sort"
)

// DecisionTree is a CART regression tree. Splits minimize the summed
// squared error of the two children; leaves predict the mean target.
type DecisionTree struct {
	// MaxDepth bounds the tree depth. Zero means the default of 12.
	MaxDepth int
	// MinLeaf is the minimum number of rows per leaf. Zero means 5.
	MinLeaf int

	// mtry, when positive, samples that many candidate features per split.
	// Used by the random forest; zero considers every feature.
	mtry int
	rng  *rand.Rand

	root *treeNode
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// NewDecisionTree returns an unfitted tree with the given bounds.
func NewDecisionTree(maxDepth, minLeaf int) *DecisionTree {
	return &DecisionTree{MaxDepth: maxDepth, MinLeaf: minLeaf}
}

// Name implements Regressor.
func (t *DecisionTree) Name() string { return "decision_tree" }

// Fit implements Regressor.
func (t *DecisionTree) Fit(X [][]float64, y []float64) error {
	if err := checkTrainingData(X, y); err != nil {
		return fmt.Errorf("decision tree: %w", err)
	}

	maxDepth := t.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 12
	}
	minLeaf := t.MinLeaf
	if minLeaf <= 0 {
		minLeaf = 5
	}

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.grow(X, y, idx, 0, maxDepth, minLeaf)
	return nil
}

// Predict implements Regressor.
func (t *DecisionTree) Predict(X [][]float64) ([]float64, error) {
	if t.root == nil {
		return nil, fmt.Errorf("decision tree: model not fitted")
	}

	out := make([]float64, len(X))
	for i, row := range X {
		node := t.root
		for !node.leaf {
			if row[node.feature] <= node.threshold {
				node = node.left
			} else {
				node = node.right
			}
		}
		out[i] = node.value
	}
	return out, nil
}

// Depth returns the depth of the fitted tree (a single leaf has depth 0).
func (t *DecisionTree) Depth() int {
	return depthOf(t.root)
}

func depthOf(n *treeNode) int {
	if n == nil || n.leaf {
		return 0
	}
	l, r := depthOf(n.left), depthOf(n.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

// grow recursively builds the tree over the rows named by idx.
func (t *DecisionTree) grow(X [][]float64, y []float64, idx []int, depth, maxDepth, minLeaf int) *treeNode {
	mean, sse := meanSSE(y, idx)

	if depth >= maxDepth || len(idx) < 2*minLeaf || sse == 0 {
		return &treeNode{leaf: true, value: mean}
	}

	feature, threshold, gain := t.bestSplit(X, y, idx, minLeaf, sse)
	if gain <= 0 {
		return &treeNode{leaf: true, value: mean}
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < minLeaf || len(right) < minLeaf {
		return &treeNode{leaf: true, value: mean}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      t.grow(X, y, left, depth+1, maxDepth, minLeaf),
		right:     t.grow(X, y, right, depth+1, maxDepth, minLeaf),
	}
}

// bestSplit scans candidate features for the threshold with the largest
// SSE reduction. Rows are sorted once per feature and prefix sums give the
// child SSEs in a single pass.
func (t *DecisionTree) bestSplit(X [][]float64, y []float64, idx []int, minLeaf int, parentSSE float64) (feature int, threshold, gain float64) {
	feature = -1
	gain = 0

	features := t.candidateFeatures(len(X[0]))

	sorted := make([]int, len(idx))
	for _, f := range features {
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool {
			return X[sorted[a]][f] < X[sorted[b]][f]
		})

		var sumLeft, sqLeft float64
		var sumRight, sqRight float64
		for _, i := range sorted {
			sumRight += y[i]
			sqRight += y[i] * y[i]
		}

		n := len(sorted)
		for k := 0; k < n-1; k++ {
			i := sorted[k]
			sumLeft += y[i]
			sqLeft += y[i] * y[i]
			sumRight -= y[i]
			sqRight -= y[i] * y[i]

			// Can't split between identical feature values.
			if X[i][f] == X[sorted[k+1]][f] {
				continue
			}

			nL, nR := k+1, n-k-1
			if nL < minLeaf || nR < minLeaf {
				continue
			}

			sseL := sqLeft - sumLeft*sumLeft/float64(nL)
			sseR := sqRight - sumRight*sumRight/float64(nR)
			g := parentSSE - sseL - sseR
			if g > gain {
				gain = g
				feature = f
				threshold = (X[i][f] + X[sorted[k+1]][f]) / 2
			}
		}
	}

	return feature, threshold, gain
}

// candidateFeatures returns the feature indices considered at a split.
func (t *DecisionTree) candidateFeatures(p int) []int {
	if t.mtry <= 0 || t.mtry >= p || t.rng == nil {
		all := make([]int, p)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return t.rng.Perm(p)[:t.mtry]
}

// meanSSE returns the mean and summed squared error of y over idx.
func meanSSE(y []float64, idx []int) (mean, sse float64) {
	var sum, sq float64
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	n := float64(len(idx))
	mean = sum / n
	sse = sq - sum*sum/n
	if sse < 0 {
		sse = 0 // numerical noise
	}
	return mean, sse
}
