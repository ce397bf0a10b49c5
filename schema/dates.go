package schema

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date layout used by the store and config.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls within the range, bounds included.
func (r DateRange) Contains(d time.Time) bool {
	d = DayOf(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days returns the number of calendar days in the range.
func (r DateRange) Days() int {
	return DaysInclusive(r.Start, r.End)
}

// String renders the range as "start:end".
func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ":" + r.End.Format(DateLayout)
}

// ParseDateRange parses "YYYY-MM-DD:YYYY-MM-DD".
func ParseDateRange(s string) (DateRange, error) {
	startStr, endStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return DateRange{}, fmt.Errorf("invalid date range %q (expected start:end)", s)
	}
	start, err := ParseDate(startStr)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate(endStr)
	if err != nil {
		return DateRange{}, err
	}
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("invalid date range %q: end before start", s)
	}
	return DateRange{Start: start, End: end}, nil
}

// ParseDate parses an ISO calendar date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// DayOf truncates t to its calendar date at UTC midnight.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInclusive returns the number of calendar days from start to end, both included.
// It returns 0 when end is before start.
func DaysInclusive(start, end time.Time) int {
	start, end = DayOf(start), DayOf(end)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// YearRange returns the range covering every day of the given year.
func YearRange(year int) DateRange {
	return DateRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// MonthDayLabel formats a date as "June 5".
func MonthDayLabel(d time.Time) string {
	return fmt.Sprintf("%s %d", d.Month(), d.Day())
}
