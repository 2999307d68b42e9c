package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Output formats accepted by the render functions.
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatCSV      = "csv"
)

// ValidFormat reports whether f is a known output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatTable, FormatMarkdown, FormatJSON, FormatCSV, "md":
		return true
	}
	return false
}

// RenderComparison writes the model comparison in the requested format.
func RenderComparison(w io.Writer, models []ModelResult, format string) error {
	cols := []string{"model", "cv_rmse", "rmse", "mae", "r2", "fit_time"}
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		rows = append(rows, []string{
			m.Name,
			fmt.Sprintf("%.4f", m.CVRMSE),
			fmt.Sprintf("%.4f", m.RMSE),
			fmt.Sprintf("%.4f", m.MAE),
			fmt.Sprintf("%.4f", m.R2),
			m.FitDuration.Round(time.Millisecond).String(),
		})
	}

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(models)
	}
	return renderRows(w, cols, rows, format)
}

// RenderSummaries writes the numeric column summaries.
func RenderSummaries(w io.Writer, r *Report, format string) error {
	cols := []string{"column", "count", "mean", "stddev", "min", "p25", "median", "p75", "max"}
	rows := make([][]string, 0, len(r.Summaries))
	for _, s := range r.Summaries {
		rows = append(rows, []string{
			s.Column,
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.3f", s.Mean),
			fmt.Sprintf("%.3f", s.StdDev),
			fmt.Sprintf("%.3f", s.Min),
			fmt.Sprintf("%.3f", s.Q25),
			fmt.Sprintf("%.3f", s.Median),
			fmt.Sprintf("%.3f", s.Q75),
			fmt.Sprintf("%.3f", s.Max),
		})
	}

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.Summaries)
	}
	return renderRows(w, cols, rows, format)
}

// RenderGroups writes one grouped price table.
func RenderGroups(w io.Writer, groups []GroupSummary, format string) error {
	cols := []string{"level", "listings", "mean_price", "median_price"}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Level,
			fmt.Sprintf("%d", g.Count),
			fmt.Sprintf("%.2f", g.MeanPrice),
			fmt.Sprintf("%.2f", g.MedianPrice),
		})
	}

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	}
	return renderRows(w, cols, rows, format)
}

// RenderCorrelations writes the feature/log-price correlation table.
func RenderCorrelations(w io.Writer, correlations []Correlation, format string) error {
	cols := []string{"feature", "r"}
	rows := make([][]string, 0, len(correlations))
	for _, c := range correlations {
		rows = append(rows, []string{c.Feature, fmt.Sprintf("%.4f", c.R)})
	}

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(correlations)
	}
	return renderRows(w, cols, rows, format)
}

// renderRows renders pre-formatted rows as a table, markdown or CSV.
func renderRows(w io.Writer, cols []string, rows [][]string, format string) error {
	switch format {
	case FormatMarkdown, "md":
		return renderMarkdownRows(w, cols, rows)
	case FormatCSV:
		return renderCSVRows(w, cols, rows)
	default:
		return renderTableRows(w, cols, rows)
	}
}

func renderTableRows(w io.Writer, cols []string, rows [][]string) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		t.AppendRow(row)
	}

	t.Render()
	return nil
}

func renderMarkdownRows(w io.Writer, cols []string, rows [][]string) error {
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))
	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(r, " | "))
	}
	return nil
}

func renderCSVRows(w io.Writer, cols []string, rows [][]string) error {
	_, _ = fmt.Fprintln(w, strings.Join(cols, ","))
	for _, r := range rows {
		escaped := make([]string, len(r))
		for i, v := range r {
			escaped[i] = escapeCSV(v)
		}
		_, _ = fmt.Fprintln(w, strings.Join(escaped, ","))
	}
	return nil
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
