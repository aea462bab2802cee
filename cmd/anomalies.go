package cmd

import (
	"github.com/factorscope/factorscope/core"
	"github.com/factorscope/factorscope/internal/contract"
	"github.com/spf13/cobra"
)

// anomaliesCmd flags machines with unusual energy consumption.
var anomaliesCmd = &cobra.Command{
	Use:   "anomalies [sqlite-db-path]",
	Short: "Flag machines whose energy use deviates from the fleet.",
	Long: `Sum each machine's energy consumption over the range and flag the ones
that sit far from the fleet average.

A machine is anomalous when its total kWh is more than --anomaly-std
standard deviations from the fleet mean. Machines are listed by how far
they deviate, so the biggest outliers come first.

Examples:
  # Fleet-wide anomaly scan
  factorscope anomalies

  # Tighter threshold catches milder outliers
  factorscope anomalies --anomaly-std 1.5

  # Anomalies on one line
  factorscope anomalies --line L1`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnomalies(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run anomaly analysis", err)
		}
	},
}
