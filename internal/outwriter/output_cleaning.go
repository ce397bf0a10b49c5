package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/internal/parquet"
	"github.com/huangsam/crashspot/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Step status labels.
const (
	stepApplied = "applied"
	stepFailed  = "failed"
	stepSkipped = "skipped"
)

func stepStatus(s schema.StepResult) string {
	switch {
	case s.Skipped:
		return stepSkipped
	case s.Failed():
		return stepFailed
	default:
		return stepApplied
	}
}

// PrintCleaningReport outputs a cleaning report, dispatching based on the output format configured.
func PrintCleaningReport(report schema.CleaningReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForCleaning(w, report)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteSeriesParquet("Cleaning", schema.RankingReport, cleaningSeries(report), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCleaningTable(w, report, duration)
		}, "Wrote table")
	}
	return nil
}

// cleaningSeries turns per-step deletions into a series keyed by step name.
func cleaningSeries(report schema.CleaningReport) []schema.SeriesPoint {
	points := make([]schema.SeriesPoint, len(report.Steps))
	for i, s := range report.Steps {
		points[i] = schema.SeriesPoint{Group: stepStatus(s), Key: string(s.Name), Value: float64(s.RowsDeleted)}
	}
	return points
}

func writeCSVResultsForCleaning(w io.Writer, report schema.CleaningReport) error {
	header := []string{"step", "rows_deleted", "status", "error"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range report.Steps {
			row := []string{string(s.Name), strconv.FormatInt(s.RowsDeleted, 10), stepStatus(s), s.Error}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCleaningTable(w io.Writer, report schema.CleaningReport, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Step", "Deleted", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range report.Steps {
		data = append(data, []string{string(s.Name), strconv.FormatInt(s.RowsDeleted, 10), stepStatus(s)})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	seasons := make([]string, len(report.SeasonsApplied))
	for i, s := range report.SeasonsApplied {
		seasons[i] = s.String()
	}
	if _, err := fmt.Fprintf(w, "Borough: %s | Seasons: %s\n", report.TargetBorough, strings.Join(seasons, ", ")); err != nil {
		return err
	}
	for _, s := range report.Steps {
		if s.Failed() {
			if _, err := fmt.Fprintf(w, "Step %s failed: %s\n", s.Name, s.Error); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "Cleaning removed %d records in %v. Remaining: %d\n",
		report.TotalDeleted(), duration.Round(time.Millisecond), report.RemainingRows)
	return err
}
