package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	s, err := Summarize("price", values)
	require.NoError(t, err)

	assert.Equal(t, "price", s.Column)
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 3.0, s.Mean, 1e-9)
	assert.InDelta(t, 1.5811, s.StdDev, 1e-3)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.InDelta(t, 3.0, s.Median, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	_, err := Summarize("price", nil)
	require.Error(t, err)
}

func TestSummarize_SingleValue(t *testing.T) {
	s, err := Summarize("price", []float64{42})
	require.NoError(t, err)
	assert.Equal(t, 42.0, s.Mean)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 42.0, s.Min)
	assert.Equal(t, 42.0, s.Max)
}

func TestNewHistogram(t *testing.T) {
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}

	h, err := NewHistogram(values, 5)
	require.NoError(t, err)

	assert.Equal(t, 0.0, h.Min)
	assert.Equal(t, 10.0, h.Max)
	assert.Len(t, h.Counts, 5)

	total := 0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, len(values), total)

	// Max value must land in the last bin, not overflow.
	assert.GreaterOrEqual(t, h.Counts[4], 1)
}

func TestNewHistogram_Degenerate(t *testing.T) {
	h, err := NewHistogram([]float64{3, 3, 3}, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, h.Counts[0])
	assert.Equal(t, 0.0, h.Width)
}

func TestNewHistogram_Invalid(t *testing.T) {
	_, err := NewHistogram(nil, 5)
	require.Error(t, err)

	_, err = NewHistogram([]float64{1}, 0)
	require.Error(t, err)
}

func TestBinLabel(t *testing.T) {
	h, err := NewHistogram([]float64{0, 10}, 2)
	require.NoError(t, err)
	assert.Equal(t, "[0.00, 5.00)", h.BinLabel(0))
	assert.False(t, math.IsNaN(h.Width))
}
