package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WriteHistogramPNG writes a histogram of the values to path.
func WriteHistogramPNG(path, title, xLabel string, values []float64, bins int) error {
	if len(values) == 0 {
		return fmt.Errorf("no values to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save histogram plot: %w", err)
	}
	return nil
}

// WriteResidualPNG writes a predicted-vs-residual scatter plot to path,
// with a zero reference line.
func WriteResidualPNG(path, title string, predicted, residuals []float64) error {
	if len(predicted) != len(residuals) {
		return fmt.Errorf("length mismatch: %d predictions vs %d residuals", len(predicted), len(residuals))
	}
	if len(predicted) == 0 {
		return fmt.Errorf("no residuals to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "predicted log-price"
	p.Y.Label.Text = "residual"

	pts := make(plotter.XYs, len(predicted))
	minX, maxX := predicted[0], predicted[0]
	for i := range predicted {
		pts[i].X = predicted[i]
		pts[i].Y = residuals[i]
		if predicted[i] < minX {
			minX = predicted[i]
		}
		if predicted[i] > maxX {
			maxX = predicted[i]
		}
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.Radius = vg.Points(1)
	p.Add(scatter)

	zero, err := plotter.NewLine(plotter.XYs{{X: minX, Y: 0}, {X: maxX, Y: 0}})
	if err != nil {
		return fmt.Errorf("failed to build zero line: %w", err)
	}
	p.Add(zero)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save residual plot: %w", err)
	}
	return nil
}
