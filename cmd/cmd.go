// Package cmd defines the command-line interface for factorscope.
package cmd

import (
	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(oeeCmd)
	rootCmd.AddCommand(paretoCmd)
	rootCmd.AddCommand(energyCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(anomaliesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(migrateCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("db-backend", string(schema.SQLiteBackend), "Factory data backend: sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string (SQLite path, MySQL DSN or PostgreSQL DSN)")
	rootCmd.PersistentFlags().StringP("machine", "m", "", "Restrict analysis to one machine ID")
	rootCmd.PersistentFlags().String("line", "", "Restrict analysis to one production line")
	rootCmd.PersistentFlags().String("start", "", "Range start in RFC3339 (defaults to 30 days before end)")
	rootCmd.PersistentFlags().String("end", "", "Range end in RFC3339 (defaults to now)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-row counters and durations")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Result cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql cache (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored band labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of featuresCmd to Viper
	featuresCmd.Flags().String("window", contract.DefaultRollingWindow.String(), "Rolling window for feature statistics (Go duration)")
	featuresCmd.Flags().Int("min-records", contract.DefaultMinRecords, "Minimum event records a machine needs before the as-of time")
	featuresCmd.Flags().String("fault-sentinel", contract.DefaultFaultSentinel.String(), "Time-since-last-fault placeholder for machines with no prior fault")
	if err := viper.BindPFlags(featuresCmd.Flags()); err != nil {
		contract.LogFatal("Error binding features flags", err)
	}

	// Bind all flags of riskCmd to Viper
	riskCmd.Flags().String("model-path", "", "Path to the model artifact JSON")
	if err := viper.BindPFlags(riskCmd.Flags()); err != nil {
		contract.LogFatal("Error binding risk flags", err)
	}

	// Bind all flags of energyCmd to Viper
	energyCmd.Flags().Float64("spike-factor", contract.DefaultSpikeFactor, "Peak demand multiple of the trailing average that raises a spike alert")
	if err := viper.BindPFlags(energyCmd.Flags()); err != nil {
		contract.LogFatal("Error binding energy flags", err)
	}

	// Bind all flags of anomaliesCmd to Viper
	anomaliesCmd.Flags().Float64("anomaly-std", contract.DefaultAnomalyStd, "Standard deviations from the fleet mean that flag a machine as anomalous")
	if err := viper.BindPFlags(anomaliesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding anomalies flags", err)
	}

	// Bind all flags of healthCmd to Viper
	healthCmd.Flags().Bool("explain", false, "Print per-machine component contributions")
	if err := viper.BindPFlags(healthCmd.Flags()); err != nil {
		contract.LogFatal("Error binding health flags", err)
	}

	// Bind all flags of migrateCmd to Viper
	migrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(migrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding migrate flags", err)
	}
}
