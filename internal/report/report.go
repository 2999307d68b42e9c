// Package report assembles and renders the analysis report: dataset
// summary, group tables, correlations, model comparison and residual
// diagnostics.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/airlens-labs/airlens/internal/stats"
)

// GroupSummary is one row of a grouped price table.
type GroupSummary struct {
	Column      string  `json:"column"`
	Level       string  `json:"level"`
	Count       int64   `json:"count"`
	MeanPrice   float64 `json:"mean_price"`
	MedianPrice float64 `json:"median_price"`
}

// Correlation is the Pearson correlation of a feature with log-price.
type Correlation struct {
	Feature string  `json:"feature"`
	R       float64 `json:"r"`
}

// ModelResult is the evaluation of one fitted model.
type ModelResult struct {
	Name        string        `json:"model"`
	CVRMSE      float64       `json:"cv_rmse"`
	RMSE        float64       `json:"rmse"`
	MAE         float64       `json:"mae"`
	R2          float64       `json:"r2"`
	FitDuration time.Duration `json:"fit_duration"`

	// Residuals on the holdout set, used for the residual plot.
	Predicted []float64 `json:"-"`
	Residuals []float64 `json:"-"`
}

// Report is everything a single analysis run produces.
type Report struct {
	DatasetPath string
	RowsIn      int64
	RowsOut     int64
	GeneratedAt time.Time

	Summaries        []*stats.Summary
	Groups           []GroupSummary
	Correlations     []Correlation
	TopNeighbourhood []GroupSummary
	LogPriceHist     *stats.Histogram

	Models []ModelResult
	Best   string
}

// BestResult returns the result named by Best, or nil.
func (r *Report) BestResult() *ModelResult {
	for i := range r.Models {
		if r.Models[i].Name == r.Best {
			return &r.Models[i]
		}
	}
	return nil
}

// ResidualSummaries describes the holdout residual distribution of each
// fitted model. Models without residuals are skipped.
func (r *Report) ResidualSummaries() []*stats.Summary {
	var out []*stats.Summary
	for _, m := range r.Models {
		s, err := stats.Summarize(m.Name, m.Residuals)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Conclusion returns the one-line summary that closes the report.
func (r *Report) Conclusion() string {
	best := r.BestResult()
	if best == nil {
		return "No models were fitted."
	}
	return fmt.Sprintf(
		"%s achieved the lowest holdout RMSE (%.4f, R2 %.3f) predicting log-price across %d listings.",
		best.Name, best.RMSE, best.R2, r.RowsOut,
	)
}

// Markdown renders the full report as a markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Listings Price Analysis\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Dataset: `%s` (%d rows loaded, %d after cleaning)\n\n", r.DatasetPath, r.RowsIn, r.RowsOut)

	if len(r.Summaries) > 0 {
		b.WriteString("## Numeric summary\n\n")
		b.WriteString("| column | count | mean | stddev | min | p25 | median | p75 | max |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
		for _, s := range r.Summaries {
			fmt.Fprintf(&b, "| %s | %d | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f |\n",
				s.Column, s.Count, s.Mean, s.StdDev, s.Min, s.Q25, s.Median, s.Q75, s.Max)
		}
		b.WriteString("\n")
	}

	writeGroupTable := func(title string, groups []GroupSummary) {
		if len(groups) == 0 {
			return
		}
		fmt.Fprintf(&b, "## %s\n\n", title)
		b.WriteString("| level | listings | mean price | median price |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, g := range groups {
			fmt.Fprintf(&b, "| %s | %d | %.2f | %.2f |\n", g.Level, g.Count, g.MeanPrice, g.MedianPrice)
		}
		b.WriteString("\n")
	}
	writeGroupTable("Price by neighbourhood group", filterGroups(r.Groups, "neighbourhood_group"))
	writeGroupTable("Price by room type", filterGroups(r.Groups, "room_type"))
	writeGroupTable("Top neighbourhoods", r.TopNeighbourhood)

	if len(r.Correlations) > 0 {
		b.WriteString("## Correlation with log-price\n\n")
		b.WriteString("| feature | r |\n")
		b.WriteString("| --- | --- |\n")
		for _, c := range r.Correlations {
			fmt.Fprintf(&b, "| %s | %.4f |\n", c.Feature, c.R)
		}
		b.WriteString("\n")
	}

	if r.LogPriceHist != nil {
		b.WriteString("## Log-price distribution\n\n```\n")
		b.WriteString(HistogramText(r.LogPriceHist))
		b.WriteString("```\n\n")
	}

	if len(r.Models) > 0 {
		b.WriteString("## Model comparison\n\n")
		b.WriteString("| model | cv rmse | rmse | mae | r2 | fit time |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
		for _, m := range r.Models {
			fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.4f | %.4f | %s |\n",
				m.Name, m.CVRMSE, m.RMSE, m.MAE, m.R2, m.FitDuration.Round(time.Millisecond))
		}
		b.WriteString("\n")

		if residuals := r.ResidualSummaries(); len(residuals) > 0 {
			b.WriteString("## Holdout residuals\n\n")
			b.WriteString("| model | mean | stddev | min | max |\n")
			b.WriteString("| --- | --- | --- | --- | --- |\n")
			for _, s := range residuals {
				fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.4f | %.4f |\n",
					s.Column, s.Mean, s.StdDev, s.Min, s.Max)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Conclusion\n\n")
	b.WriteString(r.Conclusion())
	b.WriteString("\n")

	return b.String()
}

func filterGroups(groups []GroupSummary, column string) []GroupSummary {
	var out []GroupSummary
	for _, g := range groups {
		if g.Column == column {
			out = append(out, g)
		}
	}
	return out
}

// HistogramText renders a histogram as fixed-width text bars.
func HistogramText(h *stats.Histogram) string {
	const maxBar = 50

	maxCount := 0
	for _, c := range h.Counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		return ""
	}

	var b strings.Builder
	for i, c := range h.Counts {
		bar := c * maxBar / maxCount
		fmt.Fprintf(&b, "%-16s %s %d\n", h.BinLabel(i), strings.Repeat("#", bar), c)
	}
	return b.String()
}
