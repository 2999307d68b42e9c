package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/airlens-labs/airlens/internal/state"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded runs and their model metrics",
		Long: `History lists recent analysis runs, newest first. With a run ID it
shows the per-model metrics recorded for that run. A short ID prefix
is accepted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfig()
			if err != nil {
				return err
			}
			logger := getLogger(cmd)

			eng, err := createEngine(cfg, logger)
			if err != nil {
				return err
			}
			defer eng.Close()

			if len(args) == 1 {
				return showRunMetrics(cmd, eng.Store(), args[0])
			}
			return listRuns(cmd, eng.Store(), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")

	return cmd
}

func listRuns(cmd *cobra.Command, store state.Store, limit int) error {
	runs, err := store.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet. Run 'airlens run' first.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Started", "Status", "Rows", "Best Model", "Duration"})
	for _, r := range runs {
		duration := "-"
		if r.CompletedAt != nil {
			duration = r.CompletedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		rows := "-"
		if r.RowsOut > 0 {
			rows = fmt.Sprintf("%d/%d", r.RowsOut, r.RowsIn)
		}
		best := r.BestModel
		if best == "" {
			best = "-"
		}
		t.AppendRow(table.Row{
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			string(r.Status),
			rows,
			best,
			duration,
		})
	}
	t.Render()
	return nil
}

func showRunMetrics(cmd *cobra.Command, store state.Store, idPrefix string) error {
	runs, err := store.ListRuns(1000)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	var run *state.Run
	for _, r := range runs {
		if strings.HasPrefix(r.ID, idPrefix) {
			if run != nil {
				return fmt.Errorf("run ID prefix %q is ambiguous", idPrefix)
			}
			run = r
		}
	}
	if run == nil {
		return fmt.Errorf("no run matching %q", idPrefix)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s)\n", run.ID, run.Status)
	fmt.Fprintf(out, "Dataset: %s\n", run.DatasetPath)
	if run.Status == state.RunStatusFailed && run.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", run.Error)
	}

	metrics, err := store.GetMetrics(run.ID)
	if err != nil {
		return fmt.Errorf("failed to load metrics: %w", err)
	}
	if len(metrics) == 0 {
		fmt.Fprintln(out, "No metrics recorded for this run.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Model", "CV RMSE", "RMSE", "MAE", "R2", "Fit Time"})
	for _, m := range metrics {
		t.AppendRow(table.Row{
			m.Model,
			fmt.Sprintf("%.4f", m.CVRMSE),
			fmt.Sprintf("%.4f", m.RMSE),
			fmt.Sprintf("%.4f", m.MAE),
			fmt.Sprintf("%.4f", m.R2),
			fmt.Sprintf("%.2fs", m.FitSeconds),
		})
	}
	t.Render()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
