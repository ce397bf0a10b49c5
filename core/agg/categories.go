package agg

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/huangsam/crashspot/schema"
)

// Weekday labels a record with the weekday name of its crash date.
func Weekday(r schema.CrashRecord) (string, error) {
	return r.CrashDate.Weekday().String(), nil
}

// Hour labels a record with the two-digit hour of its crash time.
func Hour(r schema.CrashRecord) (string, error) {
	hour, err := r.Hour()
	if err != nil {
		return "", err
	}
	return HourLabel(hour), nil
}

// HourLabel formats an hour of day as two digits.
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d", hour)
}

// DayPart labels a record with the part of day its crash happened in.
func DayPart(r schema.CrashRecord) (string, error) {
	hour, err := r.Hour()
	if err != nil {
		return "", err
	}
	return DayPartOf(hour)
}

// dayPartHours holds the first and last hour of each day part.
var dayPartHours = map[string][2]int{
	schema.NightPart:     {0, 5},
	schema.MorningPart:   {6, 11},
	schema.AfternoonPart: {12, 17},
	schema.EveningPart:   {18, 23},
}

// DayPartOf maps an hour to Night (0-5), Morning (6-11), Afternoon (12-17) or Evening (18-23).
func DayPartOf(hour int) (string, error) {
	if hour < 0 || hour > 23 {
		return "", fmt.Errorf("hour %d out of range 0-23", hour)
	}
	for _, part := range schema.DayParts {
		if bounds := dayPartHours[part]; hour <= bounds[1] {
			return part, nil
		}
	}
	return schema.EveningPart, nil
}

// DayPartRange renders the clock range of a day part, e.g. "06:00-11:59".
func DayPartRange(part string) (string, error) {
	bounds, ok := dayPartHours[part]
	if !ok {
		return "", fmt.Errorf("unknown day part %q", part)
	}
	return fmt.Sprintf("%02d:00-%02d:59", bounds[0], bounds[1]), nil
}

// ZipYear labels a record with its zip code and crash year, e.g. "11201 2019".
// Records without a zip code use schema.UnknownZip.
func ZipYear(r schema.CrashRecord) (string, error) {
	return ZipYearLabel(zipOf(r), r.CrashDate.Year()), nil
}

// ZipYearLabel formats a zip code and year pair.
func ZipYearLabel(zip string, year int) string {
	return zip + " " + strconv.Itoa(year)
}

func zipOf(r schema.CrashRecord) string {
	if r.ZipCode == nil || *r.ZipCode == "" {
		return schema.UnknownZip
	}
	return *r.ZipCode
}

// InYear keeps the records whose crash date falls in year.
func InYear(records []schema.CrashRecord, year int) []schema.CrashRecord {
	var out []schema.CrashRecord
	for _, r := range records {
		if r.CrashDate.Year() == year {
			out = append(out, r)
		}
	}
	return out
}

// HourBuckets orders store-delegated hour counts by hour.
// Keys that are not hours 00-23 are rejected.
func HourBuckets(counts map[string]int64) ([]schema.CategoryBucket, error) {
	normalized := make(map[string]int64, len(counts))
	for key, count := range counts {
		hour, err := strconv.Atoi(key)
		if err != nil || hour < 0 || hour > 23 {
			return nil, fmt.Errorf("invalid hour key %q", key)
		}
		normalized[HourLabel(hour)] += count
	}
	return Bucketize(normalized, ByLabel), nil
}

// DayPartShift compares the day-part distribution of two years.
// All four day parts are present for each year, zero where no crash happened.
func DayPartShift(records []schema.CrashRecord, baseYear, targetYear int) (schema.DayPartShift, error) {
	base, err := dayPartBuckets(InYear(records, baseYear))
	if err != nil {
		return schema.DayPartShift{}, err
	}
	target, err := dayPartBuckets(InYear(records, targetYear))
	if err != nil {
		return schema.DayPartShift{}, err
	}
	return schema.DayPartShift{BaseYear: baseYear, TargetYear: targetYear, Base: base, Target: target}, nil
}

func dayPartBuckets(records []schema.CrashRecord) ([]schema.CategoryBucket, error) {
	counts := make(map[string]int64, len(schema.DayParts))
	for _, part := range schema.DayParts {
		counts[part] = 0
	}
	for _, r := range records {
		part, err := DayPart(r)
		if err != nil {
			return nil, fmt.Errorf("failed to categorize record %d: %w", r.CollisionID, err)
		}
		counts[part]++
	}
	return Bucketize(counts, ByLabels(schema.DayParts)), nil
}

// ZipYearCounts counts records per zip code for the two years, ordered by zip then year.
// Every zip seen in either year has an entry for both years.
func ZipYearCounts(records []schema.CrashRecord, baseYear, targetYear int) []schema.ZipYearCount {
	type key struct {
		zip  string
		year int
	}
	counts := make(map[key]int64)
	zips := make(map[string]struct{})
	for _, r := range records {
		year := r.CrashDate.Year()
		if year != baseYear && year != targetYear {
			continue
		}
		zip := zipOf(r)
		counts[key{zip, year}]++
		zips[zip] = struct{}{}
	}

	years := []int{baseYear}
	if targetYear != baseYear {
		years = append(years, targetYear)
	}
	slices.Sort(years)

	out := make([]schema.ZipYearCount, 0, len(zips)*len(years))
	for zip := range zips {
		for _, year := range years {
			out = append(out, schema.ZipYearCount{ZipCode: zip, Year: year, Count: counts[key{zip, year}]})
		}
	}
	slices.SortFunc(out, func(a, b schema.ZipYearCount) int {
		if c := cmp.Compare(a.ZipCode, b.ZipCode); c != 0 {
			return c
		}
		return cmp.Compare(a.Year, b.Year)
	})
	return out
}
