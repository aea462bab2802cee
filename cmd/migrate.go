package cmd

import (
	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/internal/factorydb"
	"github.com/factorscope/factorscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// migrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT open the data source, allowing
// migrations to run on a fresh database.
func migrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("db-backend"))
	connStr := viper.GetString("db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetDefaultFactoryDBPath()
	}

	cfg.DBBackend = backend
	cfg.DBConnect = connStr

	return nil
}

// migrateSetupWrapper wraps migrateSetup to provide PreRunE for the migrate command.
func migrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return migrateSetup()
}

// migrateCmd runs database migrations for the factory telemetry schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the factory telemetry store.

Creates or upgrades the machines, production, events and energy tables on the
configured backend. By default, migrates to the latest version. Use
--target-version for specific versions.

Examples:
  # Create the telemetry schema on a fresh SQLite file
  factorscope migrate --db-connect data/factory.db

  # Migrate a shared PostgreSQL instance
  factorscope migrate --db-backend postgresql --db-connect "host=db port=5432 user=factory dbname=telemetry"

  # Rollback to initial state
  factorscope migrate --target-version 0`,
	PreRunE: migrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := factorydb.Migrate(cfg.DBBackend, cfg.DBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
