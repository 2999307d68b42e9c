package commands

import (
	"fmt"

	"github.com/airlens-labs/airlens/internal/report"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full analysis pipeline",
		Long: `Run ingests the dataset, cleans it, computes descriptive statistics,
fits the regression models and writes the report and plots to the
output directory. Each run is recorded in the history store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			res, err := eng.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("run failed: %w", err)
			}

			out := cmd.OutOrStdout()
			r := res.Report
			fmt.Fprintf(out, "Analyzed %d of %d listings (%d dropped)\n\n",
				r.RowsOut, r.RowsIn, r.RowsIn-r.RowsOut)

			if err := report.RenderComparison(out, r.Models, cfg.OutputFormat); err != nil {
				return err
			}

			fmt.Fprintf(out, "\n%s\n\n", r.Conclusion())
			fmt.Fprintf(out, "Report: %s\n", res.ReportPath)
			for _, p := range res.PlotPaths {
				fmt.Fprintf(out, "Plot:   %s\n", p)
			}
			fmt.Fprintf(out, "Run ID: %s\n", res.RunID)
			return nil
		},
	}

	return cmd
}
