package cmd

import (
	"github.com/factorscope/factorscope/core"
	"github.com/factorscope/factorscope/internal/contract"
	"github.com/spf13/cobra"
)

// energyCmd computes daily energy KPIs per machine.
var energyCmd = &cobra.Command{
	Use:   "energy [sqlite-db-path]",
	Short: "Show daily energy use, peak demand and kWh per good unit.",
	Long: `Compute daily energy KPIs for every machine in range.

Per machine and day:
- Total kWh consumed
- Peak and average kW demand
- kWh per good unit produced (efficiency)

Days where peak demand exceeds the configured multiple of the machine's
trailing average peak are flagged as spikes. Days with no good units keep an
efficiency of 0 marked with an asterisk.

Examples:
  # Last 30 days for all machines
  factorscope energy

  # More sensitive spike detection
  factorscope energy --spike-factor 1.15

  # Export for the energy dashboard
  factorscope energy --output parquet --output-file energy.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteEnergy(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run energy analysis", err)
		}
	},
}
