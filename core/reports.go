package core

import (
	"context"
	"fmt"
	"strconv"

	"github.com/huangsam/crashspot/core/agg"
	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/internal/outwriter"
	"github.com/huangsam/crashspot/schema"
)

// seriesReport describes a report that renders as one labeled series.
type seriesReport struct {
	name  string
	kind  schema.ReportKind
	label func(cfg *contract.Config) string
	scope func(cfg *contract.Config) string
	build func(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) ([]schema.SeriesPoint, error)
}

var weekdayReport = seriesReport{
	name:  "weekday",
	kind:  schema.RankingReport,
	label: func(*contract.Config) string { return "Crashes by day of week" },
	scope: seasonsScope,
	build: func(ctx context.Context, _ *contract.Config, rs contract.RecordStore) ([]schema.SeriesPoint, error) {
		buckets, err := GetWeekdayResults(ctx, rs)
		return bucketPoints(buckets), err
	},
}

var hourReport = seriesReport{
	name:  "hour",
	kind:  schema.TimeseriesReport,
	label: func(*contract.Config) string { return "Crashes by hour of day" },
	scope: seasonsScope,
	build: func(ctx context.Context, _ *contract.Config, rs contract.RecordStore) ([]schema.SeriesPoint, error) {
		buckets, err := GetHourResults(ctx, rs)
		return bucketPoints(buckets), err
	},
}

var topDaysReport = seriesReport{
	name: "topdays",
	kind: schema.TimeseriesReport,
	label: func(cfg *contract.Config) string {
		return fmt.Sprintf("Top %d days of %d", cfg.ResultLimit, cfg.Year)
	},
	scope: func(cfg *contract.Config) string { return yearScope(cfg.Year) },
	build: func(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) ([]schema.SeriesPoint, error) {
		days, err := GetTopDaysResults(ctx, cfg, rs)
		return topDayPoints(days), err
	},
}

var dayPartsReport = seriesReport{
	name: "dayparts",
	kind: schema.PieReport,
	label: func(cfg *contract.Config) string {
		return fmt.Sprintf("Crashes by time of day, %d vs %d", cfg.BaseYear, cfg.TargetYear)
	},
	scope: compareScope,
	build: func(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) ([]schema.SeriesPoint, error) {
		shift, err := GetDayPartResults(ctx, cfg, rs)
		return dayPartPoints(shift), err
	},
}

var zipCodesReport = seriesReport{
	name: "zipcodes",
	kind: schema.TimeseriesReport,
	label: func(cfg *contract.Config) string {
		return fmt.Sprintf("Crashes by zip code, %d vs %d", cfg.BaseYear, cfg.TargetYear)
	},
	scope: compareScope,
	build: func(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) ([]schema.SeriesPoint, error) {
		counts, err := GetZipCodeResults(ctx, cfg, rs)
		return zipYearPoints(counts), err
	},
}

// executeSeries prints the header, then hands the report's series to the output writer.
func executeSeries(ctx context.Context, cfg *contract.Config, rs contract.RecordStore, report seriesReport) error {
	logReportHeader(ctx, cfg, report.name, report.scope(cfg))
	return emitSeries(ctx, cfg, rs, outwriter.NewOutWriter(cfg), report)
}

// emitSeries builds the report and emits it to the sink exactly once.
func emitSeries(ctx context.Context, cfg *contract.Config, rs contract.RecordStore, sink contract.ReportSink, report seriesReport) error {
	points, err := report.build(ctx, cfg, rs)
	if err != nil {
		return err
	}
	return sink.Emit(report.label(cfg), points, report.kind)
}

// bucketPoints converts categorical buckets, keeping their order.
func bucketPoints(buckets []schema.CategoryBucket) []schema.SeriesPoint {
	if buckets == nil {
		return nil
	}
	points := make([]schema.SeriesPoint, len(buckets))
	for i, b := range buckets {
		points[i] = schema.SeriesPoint{Key: b.Label, Value: float64(b.Count), Share: b.Percentage}
	}
	return points
}

// topDayPoints groups the chronological top days by month.
func topDayPoints(days []schema.TopDay) []schema.SeriesPoint {
	if days == nil {
		return nil
	}
	points := make([]schema.SeriesPoint, len(days))
	for i, d := range days {
		points[i] = schema.SeriesPoint{Group: d.Date.Month().String(), Key: d.Label, Value: float64(d.Count)}
	}
	return points
}

// dayPartPoints lists the base year's day parts, then the target year's.
func dayPartPoints(shift schema.DayPartShift) []schema.SeriesPoint {
	var points []schema.SeriesPoint
	add := func(year int, buckets []schema.CategoryBucket) {
		group := strconv.Itoa(year)
		for _, b := range buckets {
			legend, _ := agg.DayPartRange(b.Label)
			points = append(points, schema.SeriesPoint{Group: group, Key: b.Label, Value: float64(b.Count), Share: b.Percentage, Legend: legend})
		}
	}
	add(shift.BaseYear, shift.Base)
	if shift.TargetYear != shift.BaseYear {
		add(shift.TargetYear, shift.Target)
	}
	return points
}

// zipYearPoints groups the yearly counts by zip code.
func zipYearPoints(counts []schema.ZipYearCount) []schema.SeriesPoint {
	if counts == nil {
		return nil
	}
	points := make([]schema.SeriesPoint, len(counts))
	for i, c := range counts {
		points[i] = schema.SeriesPoint{Group: c.ZipCode, Key: strconv.Itoa(c.Year), Value: float64(c.Count)}
	}
	return points
}

// windowLabel summarizes a window result for sinks that only take series.
func windowLabel(w schema.WindowResult) string {
	return fmt.Sprintf("Busiest window of %d entries: %s to %s, %d crashes (%s)",
		w.Length, w.Start.Format(contract.DateTimeFormat), w.End.Format(contract.DateTimeFormat), w.Sum, w.Semantics)
}

// dailyPoints keys each daily count by its date.
func dailyPoints(counts []schema.DailyCount) []schema.SeriesPoint {
	points := make([]schema.SeriesPoint, len(counts))
	for i, c := range counts {
		points[i] = schema.SeriesPoint{Key: c.Date.Format(contract.DateTimeFormat), Value: float64(c.Count)}
	}
	return points
}
