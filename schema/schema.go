// Package schema has configs, models and global variables for all parts of crashspot.
package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CrashRecord represents one reported motor vehicle collision.
// Nullable source fields are pointers; latitude and longitude keep the raw
// decimal text from the source so malformed values can be detected during cleaning.
type CrashRecord struct {
	ID                 int64     `json:"id"`                            // Store surrogate key
	CollisionID        int64     `json:"collision_id"`                  // Source collision identifier
	CrashDate          time.Time `json:"crash_date"`                    // Calendar date at UTC midnight
	CrashTime          string    `json:"crash_time"`                    // Normalized 24h HH:MM
	Borough            *string   `json:"borough,omitempty"`             // Borough name, upper case
	ZipCode            *string   `json:"zip_code,omitempty"`            // Five digit zip code
	Latitude           *string   `json:"latitude,omitempty"`            // Raw decimal text
	Longitude          *string   `json:"longitude,omitempty"`           // Raw decimal text
	OnStreetName       string    `json:"on_street_name,omitempty"`      // Street the crash happened on
	PersonsInjured     int       `json:"persons_injured"`               // Number of persons injured
	PersonsKilled      int       `json:"persons_killed"`                // Number of persons killed
	ContributingFactor string    `json:"contributing_factor,omitempty"` // Factor for the first vehicle
	VehicleType        string    `json:"vehicle_type,omitempty"`        // Type code of the first vehicle
}

// Hour returns the hour of day encoded in CrashTime.
// It errors on anything outside 0-23.
func (r CrashRecord) Hour() (int, error) {
	head, _, _ := strings.Cut(r.CrashTime, ":")
	hour, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, fmt.Errorf("invalid crash time %q: %w", r.CrashTime, err)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid crash time %q: hour %d out of range 0-23", r.CrashTime, hour)
	}
	return hour, nil
}

// GeoValue is the raw coordinate pair for one stored record.
type GeoValue struct {
	ID        int64
	Latitude  string
	Longitude string
}

// DailyCount is the number of crashes on one calendar date.
type DailyCount struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

// DailySeries is an ascending, date-unique sequence of daily counts.
// When Dense is true every date in [From, To] appears exactly once.
type DailySeries struct {
	Points []DailyCount `json:"points"`
	From   time.Time    `json:"from"`
	To     time.Time    `json:"to"`
	Dense  bool         `json:"dense"`
}

// Len returns the number of entries in the series.
func (s DailySeries) Len() int {
	return len(s.Points)
}

// Total returns the sum of all counts in the series.
func (s DailySeries) Total() int64 {
	var total int64
	for _, p := range s.Points {
		total += p.Count
	}
	return total
}

// Semantics reports what one entry of the series spans.
func (s DailySeries) Semantics() WindowSemantics {
	if s.Dense {
		return CalendarSemantics
	}
	return EntrySemantics
}

// WindowResult is the maximal contiguous window found in a daily series.
type WindowResult struct {
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
	Sum       int64           `json:"sum"`
	Length    int             `json:"length"`    // Number of series entries in the window
	SpanDays  int             `json:"span_days"` // Calendar days from Start to End inclusive
	Semantics WindowSemantics `json:"semantics"`
}

// CategoryBucket is one label of a categorical distribution.
type CategoryBucket struct {
	Label      string  `json:"label"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TopDay is one of the busiest days of a year.
type TopDay struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
	Label string    `json:"label"` // e.g. "June 5"
}

// DayPartShift compares the time-of-day distribution of two years.
type DayPartShift struct {
	BaseYear   int              `json:"base_year"`
	TargetYear int              `json:"target_year"`
	Base       []CategoryBucket `json:"base"`
	Target     []CategoryBucket `json:"target"`
}

// ZipYearCount is the crash count of one zip code in one year.
type ZipYearCount struct {
	ZipCode string `json:"zip_code"`
	Year    int    `json:"year"`
	Count   int64  `json:"count"`
}

// SeriesPoint is one keyed value handed to a report sink.
// Group optionally clusters consecutive points, e.g. by month or year.
type SeriesPoint struct {
	Group string  `json:"group,omitempty"`
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Share float64 `json:"share,omitempty"` // Percentage of the series total

	// Legend optionally explains Key, e.g. the hours a day part covers.
	Legend string `json:"legend,omitempty"`
}
