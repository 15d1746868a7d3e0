package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/homesight/config"
	"github.com/spektr-org/homesight/logging"
)

// ============================================================================
// HOMESIGHT CLI — serve, check and export
// ============================================================================

const version = "0.1.0"

var (
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "homesight",
	Short: "Homelessness statistics dashboard backend",
	Long: `homesight loads a per-country homelessness dataset and serves
filterable aggregate views over HTTP: country rankings, population
shares, regional treemaps, histograms and map points, plus CSV and
XLSX exports of whatever the current filters select.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd, checkCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
