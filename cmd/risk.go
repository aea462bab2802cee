package cmd

import (
	"github.com/factorscope/factorscope/core"
	"github.com/factorscope/factorscope/internal/contract"
	"github.com/spf13/cobra"
)

// riskCmd scores machine failure risk with a pre-fit model.
var riskCmd = &cobra.Command{
	Use:   "risk [sqlite-db-path]",
	Short: "Score machine failure risk with the configured model.",
	Long: `Build feature vectors and score every qualifying machine with a pre-fit
classifier (logistic regression or random forest artifact).

Each machine gets a failure probability in [0,1] and a low/medium/high band
from the configured thresholds. Results are ranked worst first. Band cutoffs
live in the config file under 'bands:' so alerting sensitivity can be retuned
without retraining.

Requires --model-path pointing to a model artifact JSON.

Examples:
  # Score all machines with the shipped model
  factorscope risk --model-path models/failure.json

  # Backtest risk at a past instant
  factorscope risk --model-path models/failure.json --end 2026-06-01T00:00:00Z

  # Feed the maintenance planner
  factorscope risk --model-path models/failure.json --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRisk(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run risk analysis", err)
		}
	},
}
