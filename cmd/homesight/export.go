package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/homesight/dataset"
	"github.com/spektr-org/homesight/engine"
	"github.com/spektr-org/homesight/export"
)

var (
	exportOut       string
	exportFormat    string
	exportMinTotal  float64
	exportMaxTotal  float64
	exportCountries []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered dataset to a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := dataset.NewLoader(cfg.GetFetchTimeout(), logger.Named("loader"))
		ds, err := loader.Load(cmd.Context(), cfg.Dataset.Source)
		if err != nil {
			return err
		}

		criteria := engine.Unbounded()
		if cmd.Flags().Changed("min-total") {
			criteria.MinTotal = exportMinTotal
		}
		if cmd.Flags().Changed("max-total") {
			criteria.MaxTotal = exportMaxTotal
		}
		if len(exportCountries) > 0 {
			criteria.Countries = exportCountries
		}
		filtered := engine.Filter(engine.NewView(ds), criteria)

		out, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer out.Close()

		switch exportFormat {
		case "csv":
			err = export.WriteCSV(out, filtered)
		case "xlsx":
			err = export.WriteXLSX(out, filtered, engine.SumByCountry(filtered))
		default:
			return fmt.Errorf("unknown format %q (want csv or xlsx)", exportFormat)
		}
		if err != nil {
			return err
		}

		logger.Named("export").Info("export written",
			zap.String("path", exportOut),
			zap.String("format", exportFormat),
			zap.Int("rows", filtered.Len()))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "homesight.csv", "output file path")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().Float64Var(&exportMinTotal, "min-total", 0, "minimum total, inclusive")
	exportCmd.Flags().Float64Var(&exportMaxTotal, "max-total", 0, "maximum total, inclusive")
	exportCmd.Flags().StringSliceVar(&exportCountries, "countries", nil, "restrict to these countries")
}
