package cmd

import (
	"github.com/factorscope/factorscope/core"
	"github.com/factorscope/factorscope/internal/contract"
	"github.com/spf13/cobra"
)

// oeeCmd computes daily OEE per machine.
var oeeCmd = &cobra.Command{
	Use:   "oee [sqlite-db-path]",
	Short: "Show daily OEE (availability, performance, quality) per machine.",
	Long: `Compute Overall Equipment Effectiveness for every machine and day in range.

OEE is the product of three ratios, each clamped to [0,1]:
- Availability: run time over planned time
- Performance: ideal production time over actual run time
- Quality: good units over total units

Days with no units counted get a quality of 1.0 marked with an asterisk so
unmeasured days are never mistaken for perfect ones.

Examples:
  # Last 30 days for all machines
  factorscope oee

  # One machine over an explicit range
  factorscope oee --machine M-07 --start 2026-07-01T00:00:00Z --end 2026-08-01T00:00:00Z

  # Per-line rollup with raw counters
  factorscope oee --line L2 --detail

  # Export to CSV for tracking
  factorscope oee --output csv --output-file oee.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteOEE(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run oee analysis", err)
		}
	},
}
