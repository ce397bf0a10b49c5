// Package parquet provides data structures and functions for exporting crashspot
// records and reports to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/crashspot/schema"
	"github.com/parquet-go/parquet-go"
)

// CrashRow represents one stored crash record.
// This struct maps to the crashspot_crashes database table.
type CrashRow struct {
	// ID is the store surrogate key
	ID int64 `parquet:"id,snappy"`

	// CollisionID is the source collision identifier
	CollisionID int64 `parquet:"collision_id,snappy"`

	// CrashDate is the calendar date of the crash (stored as TIMESTAMP at UTC midnight)
	CrashDate time.Time `parquet:"crash_date,snappy"`

	// CrashTime is the 24h HH:MM time of the crash
	CrashTime string `parquet:"crash_time,snappy"`

	Borough   *string `parquet:"borough,optional,snappy"`
	ZipCode   *string `parquet:"zip_code,optional,snappy"`
	Latitude  *string `parquet:"latitude,optional,snappy"`
	Longitude *string `parquet:"longitude,optional,snappy"`

	OnStreetName       string `parquet:"on_street_name,snappy"`
	PersonsInjured     int32  `parquet:"persons_injured,snappy"`
	PersonsKilled      int32  `parquet:"persons_killed,snappy"`
	ContributingFactor string `parquet:"contributing_factor,snappy"`
	VehicleType        string `parquet:"vehicle_type,snappy"`
}

// SeriesRow represents one point of a labeled report series.
type SeriesRow struct {
	// Label names the report the point belongs to
	Label string `parquet:"label,dict,snappy"`

	// Kind is the report kind (ranking, timeseries, pie)
	Kind string `parquet:"kind,dict,snappy"`

	// Group clusters points, e.g. month or year (nullable)
	Group *string `parquet:"group,optional,snappy"`

	Key   string  `parquet:"key,snappy"`
	Value float64 `parquet:"value,snappy"`
	Share float64 `parquet:"share,snappy"`

	// Legend explains the key, e.g. a day part's hours (nullable)
	Legend *string `parquet:"legend,optional,snappy"`
}

// DailyRow represents one entry of a daily count series.
type DailyRow struct {
	Date  time.Time `parquet:"date,snappy"`
	Count int64     `parquet:"count,snappy"`
}

// writeRows writes rows to a new Parquet file at outputPath.
// The schema is derived from the struct tags of T.
func writeRows[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the buffered row group and the footer
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// readRows reads every row of a Parquet file written by writeRows.
func readRows[T any](inputPath string) ([]T, error) {
	rows, err := parquet.ReadFile[T](inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	return rows, nil
}

// WriteCrashRowsParquet writes crash records to a Parquet file.
func WriteCrashRowsParquet(records []schema.CrashRecord, outputPath string) error {
	return writeRows(ToCrashRows(records), outputPath)
}

// WriteSeriesParquet writes a labeled report series to a Parquet file.
func WriteSeriesParquet(label string, kind schema.ReportKind, series []schema.SeriesPoint, outputPath string) error {
	return writeRows(ToSeriesRows(label, kind, series), outputPath)
}

// WriteDailyParquet writes a daily count series to a Parquet file.
func WriteDailyParquet(points []schema.DailyCount, outputPath string) error {
	rows := make([]DailyRow, len(points))
	for i, p := range points {
		rows[i] = DailyRow{Date: p.Date, Count: p.Count}
	}
	return writeRows(rows, outputPath)
}

// ReadCrashRowsParquet reads crash rows back from a Parquet file.
func ReadCrashRowsParquet(inputPath string) ([]CrashRow, error) {
	return readRows[CrashRow](inputPath)
}

// ReadSeriesParquet reads series rows back from a Parquet file.
func ReadSeriesParquet(inputPath string) ([]SeriesRow, error) {
	return readRows[SeriesRow](inputPath)
}

// ReadDailyParquet reads daily rows back from a Parquet file.
func ReadDailyParquet(inputPath string) ([]DailyRow, error) {
	return readRows[DailyRow](inputPath)
}

// ToCrashRows converts crash records to their Parquet representation.
func ToCrashRows(records []schema.CrashRecord) []CrashRow {
	rows := make([]CrashRow, len(records))
	for i, r := range records {
		rows[i] = CrashRow{
			ID:                 r.ID,
			CollisionID:        r.CollisionID,
			CrashDate:          r.CrashDate,
			CrashTime:          r.CrashTime,
			Borough:            r.Borough,
			ZipCode:            r.ZipCode,
			Latitude:           r.Latitude,
			Longitude:          r.Longitude,
			OnStreetName:       r.OnStreetName,
			PersonsInjured:     int32(r.PersonsInjured),
			PersonsKilled:      int32(r.PersonsKilled),
			ContributingFactor: r.ContributingFactor,
			VehicleType:        r.VehicleType,
		}
	}
	return rows
}

// ToSeriesRows converts a labeled series to its Parquet representation.
func ToSeriesRows(label string, kind schema.ReportKind, series []schema.SeriesPoint) []SeriesRow {
	rows := make([]SeriesRow, len(series))
	for i, p := range series {
		var group, legend *string
		if p.Group != "" {
			g := p.Group
			group = &g
		}
		if p.Legend != "" {
			l := p.Legend
			legend = &l
		}
		rows[i] = SeriesRow{
			Label:  label,
			Kind:   string(kind),
			Group:  group,
			Key:    p.Key,
			Value:  p.Value,
			Share:  p.Share,
			Legend: legend,
		}
	}
	return rows
}
