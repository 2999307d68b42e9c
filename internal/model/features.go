package model

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/airlens-labs/airlens/internal/dataset"
)

// Design is the encoded feature matrix handed to the regressors.
type Design struct {
	// Names holds one label per column of X, in order.
	Names []string
	X     [][]float64
	Y     []float64
}

// Rows returns the number of rows in the design.
func (d *Design) Rows() int {
	return len(d.X)
}

// Encode builds the design matrix from a cleaned frame: numeric feature
// columns as-is, categorical columns one-hot encoded with the first level
// (alphabetical) dropped as the reference.
func Encode(f *dataset.Frame) (*Design, error) {
	n := f.Rows()
	if n == 0 {
		return nil, fmt.Errorf("empty frame")
	}

	d := &Design{
		X: make([][]float64, n),
		Y: make([]float64, n),
	}
	copy(d.Y, f.Target)

	for _, col := range dataset.FeatureColumns {
		values, ok := f.Numeric[col]
		if !ok || len(values) != n {
			return nil, fmt.Errorf("numeric column %s missing or wrong length", col)
		}
		d.Names = append(d.Names, col)
	}

	// Levels per categorical column, sorted so the encoding is stable.
	type encodedCat struct {
		column string
		levels []string       // reference level excluded
		index  map[string]int // level -> column offset within this block
	}
	var cats []encodedCat
	for _, col := range dataset.CategoricalColumns {
		values, ok := f.Categorical[col]
		if !ok || len(values) != n {
			return nil, fmt.Errorf("categorical column %s missing or wrong length", col)
		}

		seen := make(map[string]bool)
		for _, v := range values {
			seen[v] = true
		}
		levels := make([]string, 0, len(seen))
		for v := range seen {
			levels = append(levels, v)
		}
		sort.Strings(levels)

		ec := encodedCat{column: col, index: make(map[string]int)}
		for i, lvl := range levels {
			if i == 0 {
				continue // reference level
			}
			ec.index[lvl] = len(ec.levels)
			ec.levels = append(ec.levels, lvl)
			d.Names = append(d.Names, col+"="+lvl)
		}
		cats = append(cats, ec)
	}

	width := len(d.Names)
	for i := 0; i < n; i++ {
		row := make([]float64, width)
		j := 0
		for _, col := range dataset.FeatureColumns {
			row[j] = f.Numeric[col][i]
			j++
		}
		for _, ec := range cats {
			if off, ok := ec.index[f.Categorical[ec.column][i]]; ok {
				row[j+off] = 1
			}
			j += len(ec.levels)
		}
		d.X[i] = row
	}

	return d, nil
}

// Split shuffles row indices with the given seed and splits them into
// train and test sets. testFraction must be in (0, 1).
func (d *Design) Split(testFraction float64, seed int64) (train, test *Design, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %g", testFraction)
	}
	n := d.Rows()
	if n < 2 {
		return nil, nil, fmt.Errorf("need at least 2 rows to split, got %d", n)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(float64(n) * testFraction)
	if nTest < 1 {
		nTest = 1
	}

	test = d.subset(perm[:nTest])
	train = d.subset(perm[nTest:])
	return train, test, nil
}

// subset returns a new Design restricted to the given row indices.
// The underlying rows are shared, not copied.
func (d *Design) subset(idx []int) *Design {
	s := &Design{
		Names: d.Names,
		X:     make([][]float64, len(idx)),
		Y:     make([]float64, len(idx)),
	}
	for i, j := range idx {
		s.X[i] = d.X[j]
		s.Y[i] = d.Y[j]
	}
	return s
}
