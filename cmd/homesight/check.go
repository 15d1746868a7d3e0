package main

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spektr-org/homesight/dataset"
)

var checkSource string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load a source and print a column-level profile",
	Long: `check loads the configured dataset source (or the --source
override), validates its schema and prints per-column diagnostics:
missing-value counts and value ranges. Exits non-zero when the source
cannot be loaded or is missing required columns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source := cfg.Dataset.Source
		if checkSource != "" {
			source = checkSource
		}

		loader := dataset.NewLoader(cfg.GetFetchTimeout(), logger.Named("loader"))
		ds, err := loader.Load(cmd.Context(), source)
		if err != nil {
			return err
		}

		p := dataset.Describe(ds)
		fmt.Printf("source:    %s\n", p.Source)
		fmt.Printf("rows:      %d (skipped %d)\n", p.Rows, p.Skipped)
		fmt.Printf("countries: %d\n", p.Countries)
		fmt.Println()
		fmt.Printf("%-22s %8s %16s %16s\n", "column", "missing", "min", "max")
		for _, col := range p.Columns {
			fmt.Printf("%-22s %8d %16s %16s\n", col.Name, col.Missing, fmtBound(col.Min), fmtBound(col.Max))
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkSource, "source", "", "override the configured dataset source")
}

// fmtBound renders a profile bound, dash for an all-NaN column.
func fmtBound(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
