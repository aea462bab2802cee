package cmd

import (
	"github.com/factorscope/factorscope/core"
	"github.com/factorscope/factorscope/internal/contract"
	"github.com/spf13/cobra"
)

// paretoCmd ranks downtime reasons by total duration.
var paretoCmd = &cobra.Command{
	Use:   "pareto [sqlite-db-path]",
	Short: "Rank downtime reasons by total duration (Pareto analysis).",
	Long: `Aggregate DOWN events by reason code and rank them by total downtime.

The classic maintenance question is "which few reasons cause most of our
downtime". Each reason gets its share of total downtime plus a cumulative
percentage, so the 80% cutoff is visible at a glance.

Examples:
  # Plant-wide Pareto for the last 30 days
  factorscope pareto

  # Pareto for a single line
  factorscope pareto --line L1

  # Top 5 reasons only
  factorscope pareto --limit 5`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePareto(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run pareto analysis", err)
		}
	},
}
