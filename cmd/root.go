package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/landgrid/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "landgrid",
	Short: "Continent labels and land centerpoints for the landgrid hexcells",
	Long: `Downloads the Natural Earth country boundaries, builds continent regions,
labels every landgrid hexcell with a continent code and an on-land centerpoint,
and renders a preview of the result.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
