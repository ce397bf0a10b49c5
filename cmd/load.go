package cmd

import (
	"github.com/huangsam/crashspot/core"
	"github.com/huangsam/crashspot/internal/contract"
	"github.com/spf13/cobra"
)

// loadCmd appends the records of a collisions file to the store.
var loadCmd = &cobra.Command{
	Use:   "load <csv-path>",
	Short: "Load a collisions CSV file into the record store.",
	Long: `Read the NYC motor vehicle collisions CSV export and append every row to the
record store in a single transaction.

Dates are read as MM/DD/YYYY and times as H:MM. A malformed row aborts the
load with its line number and nothing is written.

Examples:
  # Load into the default SQLite store
  crashspot load Motor_Vehicle_Collisions_-_Crashes.csv

  # Load into PostgreSQL
  CRASHSPOT_BACKEND=postgresql CRASHSPOT_DB_CONNECT="host=localhost dbname=crashes" crashspot load crashes.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteLoad(rootCtx, cfg, recordStore, args[0]); err != nil {
			contract.LogFatal("Cannot load records", err)
		}
	},
}

// cleanCmd runs the cleaning pipeline.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove records outside the borough, seasons or map.",
	Long: `Run the cleaning steps in order, each in its own transaction:

  borough   - delete records of other boroughs or with no borough
  geo       - delete records with missing or zero coordinates
  temporal  - delete records outside every season

The pipeline stops at the first failing step; later steps are skipped.
Running it twice deletes nothing the second time.

Examples:
  crashspot clean
  crashspot clean --borough queens --seasons 2019-06-01:2019-08-31`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("cleaning pipeline", core.ExecuteClean),
}
