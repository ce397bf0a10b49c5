// Package cmd defines the command-line interface for crashspot.
package cmd

import (
	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(weekdayCmd)
	rootCmd.AddCommand(hourCmd)
	rootCmd.AddCommand(topDaysCmd)
	rootCmd.AddCommand(windowCmd)
	rootCmd.AddCommand(dayPartsCmd)
	rootCmd.AddCommand(zipCodesCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	storeCmd.AddCommand(storeExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "Record store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("db-connect", "", "Database connection string (SQLite path, or e.g. user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("borough", contract.DefaultBorough, "Borough kept by cleaning")
	rootCmd.PersistentFlags().String("seasons", contract.DefaultSeasons, "Comma-separated start:end date ranges kept by cleaning")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().Int("base-year", contract.DefaultBaseYear, "Year for the BEFORE state of comparisons")
	rootCmd.PersistentFlags().Int("target-year", contract.DefaultTargetYear, "Year for the AFTER state of comparisons")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of windowCmd to Viper
	windowCmd.Flags().String("from", contract.DefaultWindowFrom, "First date searched (YYYY-MM-DD)")
	windowCmd.Flags().String("to", contract.DefaultWindowTo, "Last date searched (YYYY-MM-DD)")
	windowCmd.Flags().Int("length", contract.DefaultWindowLength, "Window length in series entries")
	windowCmd.Flags().String("semantics", string(schema.CalendarSemantics), "Window entries: calendar (every day) or entries (days with crashes)")
	if err := viper.BindPFlags(windowCmd.Flags()); err != nil {
		contract.LogFatal("Error binding window flags", err)
	}

	// Bind all flags of topDaysCmd to Viper
	topDaysCmd.Flags().Int("year", contract.DefaultTopDaysYear, "Year to rank days in")
	topDaysCmd.Flags().IntP("limit", "l", contract.DefaultResultLimit, "Number of days to display")
	if err := viper.BindPFlags(topDaysCmd.Flags()); err != nil {
		contract.LogFatal("Error binding topdays flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
