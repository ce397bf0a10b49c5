package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/internal/parquet"
	"github.com/huangsam/crashspot/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// seriesDocument is the JSON shape of one emitted series.
type seriesDocument struct {
	Label  string               `json:"label"`
	Kind   schema.ReportKind    `json:"kind"`
	Total  float64              `json:"total"`
	Series []schema.SeriesPoint `json:"series"`
}

// PrintSeries outputs a labeled series, dispatching based on the output format configured.
func PrintSeries(label string, series []schema.SeriesPoint, kind schema.ReportKind, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, seriesDocument{Label: label, Kind: kind, Total: seriesTotal(series), Series: series})
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForSeries(w, label, series, kind, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteSeriesParquet(label, kind, series, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSeriesTable(w, label, series, kind, cfg, fmtFloat)
		}, "Wrote table")
	}
	return nil
}

// writeCSVResultsForSeries writes one row per point, repeating the label and kind.
func writeCSVResultsForSeries(w io.Writer, label string, series []schema.SeriesPoint, kind schema.ReportKind, fmtFloat func(float64) string) error {
	header := []string{"label", "kind", "group", "key", "value", "share", "legend"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range series {
			row := []string{
				label,
				string(kind),
				p.Group,
				p.Key,
				formatValue(p.Value, fmtFloat),
				fmtFloat(p.Share),
				p.Legend,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeSeriesTable renders a series as a human-readable table.
// Rankings get a rank and intensity label; timeseries and pies get bars.
func writeSeriesTable(w io.Writer, label string, series []schema.SeriesPoint, kind schema.ReportKind, cfg *contract.Config, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintln(w, label); err != nil {
		return err
	}
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, "No data.")
		return err
	}

	table := tablewriter.NewWriter(w)
	hasGroups := hasGroup(series)

	// 1. Define Headers
	var headers []string
	if kind == schema.RankingReport {
		headers = append(headers, "Rank")
	}
	if hasGroups {
		headers = append(headers, "Group")
	}
	headers = append(headers, "Key", "Count", "Share")
	if kind == schema.RankingReport {
		headers = append(headers, "Label")
	} else {
		headers = append(headers, "Bar")
	}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	maxValue := seriesMax(series)
	barWidth := getMaxTableBarWidth(cfg)
	keyWidth := getMaxTableKeyWidth(cfg)
	lastGroup := ""

	var data [][]string
	for i, p := range series {
		var row []string
		if kind == schema.RankingReport {
			row = append(row, strconv.Itoa(i+1))
		}
		if hasGroups {
			// Only the first row of a group shows its name
			group := ""
			if i == 0 || p.Group != lastGroup {
				group = p.Group
			}
			lastGroup = p.Group
			row = append(row, group)
		}
		row = append(row,
			contract.TruncateLabel(p.Key, keyWidth),
			formatValue(p.Value, fmtFloat),
			fmtFloat(p.Share)+"%",
		)
		switch kind {
		case schema.RankingReport:
			row = append(row, intensityLabel(p.Value, maxValue, cfg.UseColors))
		case schema.PieReport:
			row = append(row, renderBar(p.Share, 100, barWidth))
		default:
			row = append(row, renderBar(p.Value, maxValue, barWidth))
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total: %s across %d entries\n", formatValue(seriesTotal(series), fmtFloat), len(series)); err != nil {
		return err
	}
	if legend := seriesLegend(series); legend != "" {
		_, err := fmt.Fprintf(w, "Legend: %s\n", legend)
		return err
	}
	return nil
}

// seriesLegend lists each distinct key with its legend in first-seen order.
func seriesLegend(series []schema.SeriesPoint) string {
	seen := make(map[string]bool)
	var parts []string
	for _, p := range series {
		if p.Legend == "" || seen[p.Key] {
			continue
		}
		seen[p.Key] = true
		parts = append(parts, p.Key+" "+p.Legend)
	}
	return strings.Join(parts, ", ")
}

// formatValue prints whole values as integers and everything else with the configured precision.
func formatValue(v float64, fmtFloat func(float64) string) string {
	if v == math.Trunc(v) {
		return formatCount(v)
	}
	return fmtFloat(v)
}

func hasGroup(series []schema.SeriesPoint) bool {
	for _, p := range series {
		if p.Group != "" {
			return true
		}
	}
	return false
}

func seriesMax(series []schema.SeriesPoint) float64 {
	var m float64
	for _, p := range series {
		m = max(m, p.Value)
	}
	return m
}

func seriesTotal(series []schema.SeriesPoint) float64 {
	var total float64
	for _, p := range series {
		total += p.Value
	}
	return total
}
