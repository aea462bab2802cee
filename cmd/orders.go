package cmd

import (
	"github.com/factorscope/factorscope/core"
	"github.com/factorscope/factorscope/internal/contract"
	"github.com/spf13/cobra"
)

// ordersCmd reports production order schedule risk.
var ordersCmd = &cobra.Command{
	Use:   "orders [sqlite-db-path]",
	Short: "Show production orders with schedule-risk flags, most urgent first.",
	Long: `List production orders with a status rolled up from their routing steps
and flag the ones past due.

An order past its due timestamp that is not yet completed is marked at
schedule risk. More than a day overdue raises the severity to high.
Orders are listed by due date so the most pressing work comes first.

Examples:
  # All orders, soonest due first
  factorscope orders

  # Only the five most urgent orders
  factorscope orders --limit 5

  # Machine-readable output for a scheduler
  factorscope orders --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSchedule(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run schedule analysis", err)
		}
	},
}
