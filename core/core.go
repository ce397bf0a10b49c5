// Package core has orchestration logic for loading, cleaning and reporting on crash records.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/crashspot/core/agg"
	"github.com/huangsam/crashspot/core/algo"
	"github.com/huangsam/crashspot/core/clean"
	"github.com/huangsam/crashspot/core/series"
	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/internal/ingest"
	"github.com/huangsam/crashspot/internal/outwriter"
	"github.com/huangsam/crashspot/schema"
)

// ExecutorFunc defines the function signature for executing different reports.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) error

// WindowReport is the busiest window together with the daily counts inside it.
type WindowReport struct {
	Window schema.WindowResult `json:"window"`
	Points []schema.DailyCount `json:"points"`
}

// ExecuteLoad reads the collisions file at path and appends its records to the store.
func ExecuteLoad(ctx context.Context, cfg *contract.Config, rs contract.RecordStore, path string) error {
	start := time.Now()
	n, err := rs.BulkLoad(ctx, ingest.ReadFile(path))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(headerWriter(cfg), "%sLoaded %d records from %s in %v\n",
		icon(cfg, "✅"), n, path, time.Since(start).Round(time.Millisecond))
	return err
}

// ExecuteClean runs the cleaning pipeline and prints its report.
// The report is printed even when a step fails, so skipped steps are visible.
func ExecuteClean(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) error {
	start := time.Now()
	logReportHeader(ctx, cfg, "clean", seasonsScope(cfg))
	report, runErr := GetCleaningResults(ctx, cfg, rs)
	if len(report.Steps) == 0 {
		return runErr
	}
	if err := outwriter.NewOutWriter(cfg).WriteCleaning(report, time.Since(start)); err != nil {
		return err
	}
	return runErr
}

// GetCleaningResults runs the cleaning pipeline for the configured borough and seasons.
func GetCleaningResults(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) (schema.CleaningReport, error) {
	return clean.Run(ctx, rs, clean.OptionsFromConfig(cfg))
}

// GetWeekdayResults counts cleaned records per day of week, busiest first.
func GetWeekdayResults(ctx context.Context, rs contract.RecordStore) ([]schema.CategoryBucket, error) {
	records, err := selectRecords(ctx, rs)
	if err != nil {
		return nil, err
	}
	return agg.Categorize(records, agg.Weekday, agg.ByCount)
}

// GetHourResults counts cleaned records per hour of day through the store.
// All 24 hours are present, zero where no crash happened.
func GetHourResults(ctx context.Context, rs contract.RecordStore) ([]schema.CategoryBucket, error) {
	counts, err := rs.CountByHour(ctx)
	if err != nil {
		return nil, contract.WrapQueryError("count by hour", err)
	}
	filled := make(map[string]int64, 24)
	for h := range 24 {
		filled[agg.HourLabel(h)] = 0
	}
	for key, count := range counts {
		filled[key] += count
	}
	return agg.HourBuckets(filled)
}

// GetTopDaysResults returns the busiest days of the configured year in chronological order.
func GetTopDaysResults(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) ([]schema.TopDay, error) {
	s, err := series.FromStore(ctx, rs, schema.YearRange(cfg.Year), false)
	if err != nil {
		return nil, err
	}
	return algo.TopDays(s, cfg.ResultLimit), nil
}

// GetWindowResults finds the busiest window of the configured length within the configured range.
func GetWindowResults(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) (WindowReport, error) {
	s, err := series.FromStore(ctx, rs, cfg.WindowRange, cfg.Semantics == schema.CalendarSemantics)
	if err != nil {
		return WindowReport{}, err
	}
	result, err := algo.MaxWindow(s, cfg.WindowLength)
	if err != nil {
		return WindowReport{}, err
	}
	span := schema.DateRange{Start: result.Start, End: result.End}
	points := make([]schema.DailyCount, 0, result.Length)
	for _, p := range s.Points {
		if span.Contains(p.Date) {
			points = append(points, p)
		}
	}
	return WindowReport{Window: result, Points: points}, nil
}

// GetDayPartResults compares the time-of-day distribution of the base and target years.
func GetDayPartResults(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) (schema.DayPartShift, error) {
	records, err := selectRecords(ctx, rs)
	if err != nil {
		return schema.DayPartShift{}, err
	}
	return agg.DayPartShift(records, cfg.BaseYear, cfg.TargetYear)
}

// GetZipCodeResults counts cleaned records per zip code for the base and target years.
func GetZipCodeResults(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) ([]schema.ZipYearCount, error) {
	records, err := selectRecords(ctx, rs)
	if err != nil {
		return nil, err
	}
	return agg.ZipYearCounts(records, cfg.BaseYear, cfg.TargetYear), nil
}

// ExecuteWeekday prints the day-of-week ranking.
func ExecuteWeekday(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) error {
	return executeSeries(ctx, cfg, rs, weekdayReport)
}

// ExecuteHour prints the hour-of-day distribution.
func ExecuteHour(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) error {
	return executeSeries(ctx, cfg, rs, hourReport)
}

// ExecuteTopDays prints the busiest days of a year, grouped by month.
func ExecuteTopDays(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) error {
	return executeSeries(ctx, cfg, rs, topDaysReport)
}

// ExecuteDayParts prints the day-part distribution of two years.
func ExecuteDayParts(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) error {
	return executeSeries(ctx, cfg, rs, dayPartsReport)
}

// ExecuteZipCodes prints the per zip code counts of two years.
func ExecuteZipCodes(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) error {
	return executeSeries(ctx, cfg, rs, zipCodesReport)
}

// ExecuteWindow prints the busiest window of the configured length.
func ExecuteWindow(ctx context.Context, cfg *contract.Config, rs contract.RecordStore) error {
	start := time.Now()
	logReportHeader(ctx, cfg, "window", windowScope(cfg))
	report, err := GetWindowResults(ctx, cfg, rs)
	if err != nil {
		return err
	}
	return emitWindow(outwriter.NewOutWriter(cfg), report, time.Since(start))
}

// emitWindow hands a window report to the sink, in full when the sink supports it.
func emitWindow(sink contract.ReportSink, report WindowReport, duration time.Duration) error {
	if ws, ok := sink.(contract.WindowSink); ok {
		return ws.WriteWindow(report.Window, report.Points, duration)
	}
	return sink.Emit(windowLabel(report.Window), dailyPoints(report.Points), schema.TimeseriesReport)
}

// selectRecords reads a snapshot of every cleaned record.
func selectRecords(ctx context.Context, rs contract.RecordStore) ([]schema.CrashRecord, error) {
	records, err := rs.SelectAll(ctx)
	if err != nil {
		return nil, contract.WrapQueryError("select records", err)
	}
	return records, nil
}
