// Package stats provides the small numeric summaries the report needs for
// in-memory value slices. Table-level summaries are computed in SQL by the
// engine; this package covers what has to happen after rows leave the
// database (histogram binning, residual summaries).
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics for one numeric column.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Summarize computes descriptive statistics for a slice of values.
func Summarize(column string, values []float64) (*Summary, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no values for column %s", column)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := &Summary{
		Column: column,
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		Min:    sorted[0],
		Q25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s, nil
}

// Histogram is a fixed-width binning of a value slice.
type Histogram struct {
	Min    float64
	Max    float64
	Width  float64
	Counts []int
}

// NewHistogram bins values into the given number of fixed-width bins.
func NewHistogram(values []float64, bins int) (*Histogram, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no values to bin")
	}
	if bins < 1 {
		return nil, fmt.Errorf("bins must be positive, got %d", bins)
	}

	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	h := &Histogram{
		Min:    minV,
		Max:    maxV,
		Counts: make([]int, bins),
	}

	if minV == maxV {
		// Degenerate distribution: everything lands in the first bin.
		h.Width = 0
		h.Counts[0] = len(values)
		return h, nil
	}

	h.Width = (maxV - minV) / float64(bins)
	for _, v := range values {
		idx := int(math.Floor((v - minV) / h.Width))
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
	}
	return h, nil
}

// BinLabel returns a human-readable range label for bin i.
func (h *Histogram) BinLabel(i int) string {
	lo := h.Min + float64(i)*h.Width
	return fmt.Sprintf("[%.2f, %.2f)", lo, lo+h.Width)
}
