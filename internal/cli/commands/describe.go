package commands

import (
	"fmt"

	"github.com/airlens-labs/airlens/internal/report"
	"github.com/spf13/cobra"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	var showHist bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show descriptive statistics for the dataset",
		Long: `Describe loads and cleans the dataset, then prints per-column
summaries, grouped price tables, the top neighbourhoods by listing
count and feature correlations with log-price.`,
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

			ctx := cmd.Context()
			cleanRes, err := eng.LoadDataset(ctx)
			if err != nil {
				return err
			}

			r, err := eng.Describe(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			format := cfg.OutputFormat

			fmt.Fprintf(out, "Dataset: %s\n", cfg.DatasetPath)
			fmt.Fprintf(out, "Rows: %d loaded, %d after cleaning\n\n", cleanRes.RowsIn, cleanRes.RowsOut)

			fmt.Fprintln(out, "Numeric columns:")
			if err := report.RenderSummaries(out, r, format); err != nil {
				return err
			}

			fmt.Fprintln(out, "\nPrice by group:")
			if err := report.RenderGroups(out, r.Groups, format); err != nil {
				return err
			}

			fmt.Fprintln(out, "\nTop neighbourhoods:")
			if err := report.RenderGroups(out, r.TopNeighbourhood, format); err != nil {
				return err
			}

			fmt.Fprintln(out, "\nCorrelation with log-price:")
			if err := report.RenderCorrelations(out, r.Correlations, format); err != nil {
				return err
			}

			if showHist && r.LogPriceHist != nil {
				fmt.Fprintln(out, "\nLog-price distribution:")
				fmt.Fprint(out, report.HistogramText(r.LogPriceHist))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showHist, "histogram", false, "Print a text histogram of log-price")

	return cmd
}
