package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/internal/parquet"
	"github.com/huangsam/crashspot/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// windowDocument is the JSON shape of a window report.
type windowDocument struct {
	Window schema.WindowResult `json:"window"`
	Points []schema.DailyCount `json:"points"`
}

// PrintWindowResult outputs the busiest window, dispatching based on the output format configured.
func PrintWindowResult(result schema.WindowResult, points []schema.DailyCount, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, windowDocument{Window: result, Points: points})
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForWindow(w, result, points)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteDailyParquet(points, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeWindowTable(w, result, points, duration)
		}, "Wrote table")
	}
	return nil
}

// writeCSVResultsForWindow writes the daily counts inside the window, each tagged with the window bounds.
func writeCSVResultsForWindow(w io.Writer, result schema.WindowResult, points []schema.DailyCount) error {
	header := []string{"date", "count", "window_start", "window_end", "window_sum", "semantics"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range points {
			row := []string{
				p.Date.Format(contract.DateTimeFormat),
				strconv.FormatInt(p.Count, 10),
				result.Start.Format(contract.DateTimeFormat),
				result.End.Format(contract.DateTimeFormat),
				strconv.FormatInt(result.Sum, 10),
				string(result.Semantics),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeWindowTable prints a two-column summary of the window.
func writeWindowTable(w io.Writer, result schema.WindowResult, points []schema.DailyCount, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Field", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	unit := "days"
	if result.Semantics == schema.EntrySemantics {
		unit = "entries"
	}
	var busiest schema.DailyCount
	for _, p := range points {
		if p.Count > busiest.Count {
			busiest = p
		}
	}

	data := [][]string{
		{"Start", result.Start.Format(contract.DateTimeFormat)},
		{"End", result.End.Format(contract.DateTimeFormat)},
		{"Crashes", strconv.FormatInt(result.Sum, 10)},
		{"Length", fmt.Sprintf("%d %s", result.Length, unit)},
		{"Calendar span", fmt.Sprintf("%d days", result.SpanDays)},
		{"Semantics", string(result.Semantics)},
	}
	if busiest.Count > 0 {
		data = append(data, []string{"Busiest day", fmt.Sprintf("%s (%d)", busiest.Date.Format(contract.DateTimeFormat), busiest.Count)})
	}
	if result.Length > 0 {
		data = append(data, []string{"Daily average", fmt.Sprintf("%.1f", float64(result.Sum)/float64(result.Length))})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Window analysis completed in %v\n", duration.Round(time.Millisecond))
	return err
}
