package commands

import (
	"fmt"

	"github.com/airlens-labs/airlens/internal/report"
	"github.com/spf13/cobra"
)

// NewFitCommand creates the fit command.
func NewFitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit and compare the regression models",
		Long: `Fit loads and cleans the dataset, encodes the feature matrix, then
trains a linear regression, a decision tree and a random forest on
log-price. Each model reports cross-validated and holdout error.

Unlike run, fit writes no report or plots. The invocation is still
recorded in the run history.`,
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

			runID, results, best, err := eng.FitRun(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := report.RenderComparison(out, results, cfg.OutputFormat); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nBest model by holdout RMSE: %s\n", best)
			fmt.Fprintf(out, "Run ID: %s\n", runID)
			return nil
		},
	}

	return cmd
}
