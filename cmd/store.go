package cmd

import (
	"fmt"

	"github.com/huangsam/crashspot/core"
	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeBackendSetup loads the minimal configuration needed to reach the store.
// Store commands skip the full sharedSetup so report settings cannot block maintenance.
func storeBackendSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	backend, err := contract.ValidateBackend(viper.GetString("backend"), viper.GetString("db-connect"))
	if err != nil {
		return err
	}
	cfg.Backend = backend
	cfg.DBConnect = viper.GetString("db-connect")
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeSetupWrapper loads the backend settings and opens the record store.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := storeBackendSetup(); err != nil {
		return err
	}
	rs, err := store.NewRecordStore(cfg.Backend, cfg.DBConnect)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	recordStore = rs
	return nil
}

// storeCmd focused on record store maintenance.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the crash record store",
	Long: `Inspect and maintain the table of crash records.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (nothing persisted)

Subcommands:
  status  - Show record counts, date coverage and table size
  clear   - Remove every record
  migrate - Run schema migrations
  export  - Write every record to a Parquet file`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display record store statistics and connection details",
	Long: `Show the backend, connection state, number of records, distinct boroughs,
earliest and latest crash dates and the table size.

Examples:
  crashspot store status
  CRASHSPOT_BACKEND=mysql CRASHSPOT_DB_CONNECT="user:pass@tcp(localhost:3306)/crashes" crashspot store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStoreStatus(rootCtx, recordStore); err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every crash record",
	Long: `Delete every record from the configured backend. The table itself is kept.

Use this before loading a fresh export of the dataset.

Examples:
  crashspot store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStoreClear(rootCtx, recordStore); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the record store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the record store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  crashspot store migrate

  # Rollback to initial state
  crashspot store migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return storeBackendSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		result, err := store.MigrateRecords(cfg.Backend, cfg.DBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(result)
	},
}

// storeExportCmd exports every record to Parquet.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every crash record to a Parquet file",
	Long: `Write a Parquet snapshot of the record store, typically after cleaning,
for analysis in tools such as DuckDB, pandas or Spark.

Examples:
  crashspot store export --output-file brooklyn-summers.parquet`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStoreExport(rootCtx, recordStore, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export records", err)
		}
	},
}
