package cmd

import (
	"github.com/factorscope/factorscope/core"
	"github.com/factorscope/factorscope/internal/contract"
	"github.com/spf13/cobra"
)

// featuresCmd builds model input rows per machine.
var featuresCmd = &cobra.Command{
	Use:   "features [sqlite-db-path]",
	Short: "Build model input features per machine at the end of the range.",
	Long: `Derive the rolling-window feature vector used by the risk model.

Features are computed strictly from records at or before the as-of time
(the range end), so a row built for a past instant matches what would have
been computed live. Machines with too few event records are skipped.

The vector covers cycle time statistics, scrap rate, downtime ratio, power
statistics, energy per good unit, cumulative runtime and hours since the
last breakdown.

Examples:
  # Features for all machines as of now
  factorscope features

  # Backtest features at a past instant
  factorscope features --end 2026-06-01T00:00:00Z

  # Wider window, stricter history requirement
  factorscope features --window 72h --min-records 10

  # Export training data
  factorscope features --output parquet --output-file features.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFeatures(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run features analysis", err)
		}
	},
}
