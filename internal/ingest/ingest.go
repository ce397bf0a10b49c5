// Package ingest reads raw collision exports into crash records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/schema"
)

// Source column headers of the collisions export.
const (
	HeaderCrashDate          = "CRASH DATE"
	HeaderCrashTime          = "CRASH TIME"
	HeaderBorough            = "BOROUGH"
	HeaderZipCode            = "ZIP CODE"
	HeaderLatitude           = "LATITUDE"
	HeaderLongitude          = "LONGITUDE"
	HeaderOnStreetName       = "ON STREET NAME"
	HeaderPersonsInjured     = "NUMBER OF PERSONS INJURED"
	HeaderPersonsKilled      = "NUMBER OF PERSONS KILLED"
	HeaderContributingFactor = "CONTRIBUTING FACTOR VEHICLE 1"
	HeaderVehicleType        = "VEHICLE TYPE CODE 1"
	HeaderCollisionID        = "COLLISION_ID"
)

// requiredHeaders must be present for a file to load at all.
var requiredHeaders = []string{HeaderCrashDate, HeaderCrashTime, HeaderCollisionID}

// dateLayouts are tried in order; the export uses month/day/year.
var dateLayouts = []string{"01/02/2006", schema.DateLayout, "2006-01-02T15:04:05.000"}

// ReadFile streams crash records from a CSV file on disk.
func ReadFile(path string) iter.Seq2[schema.CrashRecord, error] {
	return func(yield func(schema.CrashRecord, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(schema.CrashRecord{}, &contract.LoadError{Path: path, Err: err})
			return
		}
		defer func() { _ = f.Close() }()

		for record, err := range Read(f, path) {
			if !yield(record, err) || err != nil {
				return
			}
		}
	}
}

// Read streams crash records from CSV content with a header row.
// The sequence stops after the first error, which is always a *contract.LoadError.
func Read(r io.Reader, name string) iter.Seq2[schema.CrashRecord, error] {
	return func(yield func(schema.CrashRecord, error) bool) {
		reader := csv.NewReader(r)
		reader.ReuseRecord = true

		header, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = errors.New("empty input")
			}
			yield(schema.CrashRecord{}, &contract.LoadError{Path: name, Line: 1, Err: err})
			return
		}
		cols, err := indexHeader(header)
		if err != nil {
			yield(schema.CrashRecord{}, &contract.LoadError{Path: name, Line: 1, Err: err})
			return
		}

		for {
			row, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var pe *csv.ParseError
				line := 0
				if errors.As(err, &pe) {
					line = pe.Line
				}
				yield(schema.CrashRecord{}, &contract.LoadError{Path: name, Line: line, Err: err})
				return
			}
			line, _ := reader.FieldPos(0)
			record, err := cols.parse(row)
			if err != nil {
				yield(schema.CrashRecord{}, &contract.LoadError{Path: name, Line: line, Err: err})
				return
			}
			if !yield(record, nil) {
				return
			}
		}
	}
}

// columns maps source headers to their position in a row.
type columns map[string]int

func indexHeader(header []string) (columns, error) {
	cols := make(columns, len(header))
	for i, h := range header {
		cols[strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))] = i
	}
	for _, required := range requiredHeaders {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return cols, nil
}

// get returns the trimmed value of a column, or "" when the column is absent.
func (c columns) get(row []string, header string) string {
	i, ok := c[header]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// nullable returns nil for empty values.
func (c columns) nullable(row []string, header string) *string {
	v := c.get(row, header)
	if v == "" {
		return nil
	}
	return &v
}

func (c columns) parse(row []string) (schema.CrashRecord, error) {
	var r schema.CrashRecord
	var err error

	if r.CollisionID, err = strconv.ParseInt(c.get(row, HeaderCollisionID), 10, 64); err != nil {
		return r, fmt.Errorf("invalid %s: %w", HeaderCollisionID, err)
	}
	if r.CrashDate, err = ParseCrashDate(c.get(row, HeaderCrashDate)); err != nil {
		return r, err
	}
	if r.CrashTime, err = NormalizeCrashTime(c.get(row, HeaderCrashTime)); err != nil {
		return r, err
	}
	if r.PersonsInjured, err = parseCount(c.get(row, HeaderPersonsInjured)); err != nil {
		return r, fmt.Errorf("invalid %s: %w", HeaderPersonsInjured, err)
	}
	if r.PersonsKilled, err = parseCount(c.get(row, HeaderPersonsKilled)); err != nil {
		return r, fmt.Errorf("invalid %s: %w", HeaderPersonsKilled, err)
	}

	if borough := c.get(row, HeaderBorough); borough != "" {
		upper := strings.ToUpper(borough)
		r.Borough = &upper
	}
	r.ZipCode = c.nullable(row, HeaderZipCode)
	r.Latitude = c.nullable(row, HeaderLatitude)
	r.Longitude = c.nullable(row, HeaderLongitude)
	r.OnStreetName = c.get(row, HeaderOnStreetName)
	r.ContributingFactor = c.get(row, HeaderContributingFactor)
	r.VehicleType = c.get(row, HeaderVehicleType)
	return r, nil
}

// ParseCrashDate parses a crash date in month/day/year or ISO form.
func ParseCrashDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return schema.DayOf(d), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid crash date %q (expected MM/DD/YYYY)", s)
}

// NormalizeCrashTime turns "H:MM" or "HH:MM[:SS]" into zero-padded "HH:MM".
func NormalizeCrashTime(s string) (string, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("invalid crash time %q (expected H:MM)", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid crash time %q: hour out of range 0-23", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid crash time %q: minute out of range 0-59", s)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}
