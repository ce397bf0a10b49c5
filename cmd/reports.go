package cmd

import (
	"github.com/huangsam/crashspot/core"
	"github.com/spf13/cobra"
)

// weekdayCmd ranks weekdays by crash count.
var weekdayCmd = &cobra.Command{
	Use:   "weekday",
	Short: "Rank days of the week by number of crashes.",
	Long: `Count the cleaned crash records per day of week and rank them, busiest first.

Each row shows the count and its share of all crashes. Shares are rounded
to one decimal and always add up to 100%.

Examples:
  # Rank weekdays for the cleaned records
  crashspot weekday

  # Export the ranking as JSON
  crashspot weekday --output json --output-file weekday.json`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("weekday report", core.ExecuteWeekday),
}

// hourCmd shows the hour-of-day distribution.
var hourCmd = &cobra.Command{
	Use:   "hour",
	Short: "Show crashes per hour of day.",
	Long: `Count the cleaned crash records per hour of day (00 to 23).

Every hour is listed, in order, even when no crash happened in it.
The counting runs inside the record store.

Examples:
  crashspot hour
  crashspot hour --output csv --output-file hours.csv`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("hour report", core.ExecuteHour),
}

// topDaysCmd lists the busiest days of a year.
var topDaysCmd = &cobra.Command{
	Use:   "topdays",
	Short: "List the busiest days of a year.",
	Long: `Find the days with the most crashes in a year and list them chronologically,
grouped by month and labeled like "June 5".

Ties are broken by the earlier date.

Examples:
  # Top 12 days of 2020 (default)
  crashspot topdays

  # Top 20 days of 2019
  crashspot topdays --year 2019 --limit 20`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("top days report", core.ExecuteTopDays),
}

// windowCmd finds the busiest fixed-length window.
var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Find the busiest run of consecutive days.",
	Long: `Slide a window of fixed length over the daily crash counts and report the
window with the highest total. The earliest window wins ties.

With --semantics calendar (default) every calendar day in the range is one
entry and days without crashes count as zero. With --semantics entries only
days with at least one crash are entries, so a window can span more days.

Examples:
  # Busiest 100-day window between 2019-01-01 and 2020-10-31 (defaults)
  crashspot window

  # Busiest week of summer 2020
  crashspot window --from 2020-06-01 --to 2020-08-31 --length 7`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("window report", core.ExecuteWindow),
}

// dayPartsCmd compares the day-part distribution of two years.
var dayPartsCmd = &cobra.Command{
	Use:   "dayparts",
	Short: "Compare crashes by time of day between two years.",
	Long: `Split crashes into Night (00-05), Morning (06-11), Afternoon (12-17) and
Evening (18-23) and show the share of each part for the base and target year.

Examples:
  crashspot dayparts
  crashspot dayparts --base-year 2018 --target-year 2020`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("day parts report", core.ExecuteDayParts),
}

// zipCodesCmd compares per zip code counts between two years.
var zipCodesCmd = &cobra.Command{
	Use:   "zipcodes",
	Short: "Compare crashes per zip code between two years.",
	Long: `Count crashes per zip code in the base and target year. Every zip code seen
in either year is listed for both. Records without a zip code are counted
under UNKNOWN.

Examples:
  crashspot zipcodes
  crashspot zipcodes --output parquet --output-file zipcodes.parquet`,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("zip codes report", core.ExecuteZipCodes),
}
