package cmd

import (
	"github.com/factorscope/factorscope/core"
	"github.com/factorscope/factorscope/internal/contract"
	"github.com/spf13/cobra"
)

// healthCmd computes the composite machine health report.
var healthCmd = &cobra.Command{
	Use:   "health [sqlite-db-path]",
	Short: "Show a 0-100 composite health score per machine, worst first.",
	Long: `Combine OEE, uptime, quality and energy stability into one 0-100 health
score per machine.

The score is a weighted sum of the machine's average KPIs over the range.
Machines are listed worst first so the report doubles as a maintenance
priority list. Use --explain to see which component drags a score down.

Examples:
  # Plant-wide health, worst first
  factorscope health

  # Show what drives each score
  factorscope health --explain

  # Health for one line
  factorscope health --line L3`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHealth(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run health analysis", err)
		}
	},
}
