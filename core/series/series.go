// Package series builds date-indexed crash count series.
package series

import (
	"context"
	"slices"
	"time"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/schema"
)

// FromRecords counts records per crash date within rng.
// Without dense only dates with at least one record appear; with dense every
// date of rng appears once, zero where no record exists.
func FromRecords(records []schema.CrashRecord, rng schema.DateRange, dense bool) schema.DailySeries {
	counts := make(map[time.Time]int64)
	for _, r := range records {
		d := schema.DayOf(r.CrashDate)
		if rng.Contains(d) {
			counts[d]++
		}
	}
	points := make([]schema.DailyCount, 0, len(counts))
	for d, c := range counts {
		points = append(points, schema.DailyCount{Date: d, Count: c})
	}
	return FromCounts(points, rng, dense)
}

// FromCounts builds a series from per-date counts, e.g. the result of a store query.
// Counts outside rng are dropped and duplicate dates are merged.
func FromCounts(counts []schema.DailyCount, rng schema.DateRange, dense bool) schema.DailySeries {
	merged := make(map[time.Time]int64, len(counts))
	for _, c := range counts {
		d := schema.DayOf(c.Date)
		if rng.Contains(d) {
			merged[d] += c.Count
		}
	}
	points := make([]schema.DailyCount, 0, len(merged))
	for d, c := range merged {
		points = append(points, schema.DailyCount{Date: d, Count: c})
	}
	slices.SortFunc(points, func(a, b schema.DailyCount) int {
		return a.Date.Compare(b.Date)
	})

	s := schema.DailySeries{Points: points, From: schema.DayOf(rng.Start), To: schema.DayOf(rng.End)}
	if dense {
		return Densify(s)
	}
	return s
}

// FromStore delegates the per-date grouping to the record store.
// The result equals FromRecords over the same records.
func FromStore(ctx context.Context, rs contract.RecordStore, rng schema.DateRange, dense bool) (schema.DailySeries, error) {
	counts, err := rs.CountByDate(ctx, rng.Start, rng.End)
	if err != nil {
		return schema.DailySeries{}, contract.WrapQueryError("count by date", err)
	}
	return FromCounts(counts, rng, dense), nil
}

// Densify materializes every date in [From, To], filling gaps with zero.
// A series whose range is empty or reversed stays empty.
func Densify(s schema.DailySeries) schema.DailySeries {
	days := schema.DaysInclusive(s.From, s.To)
	points := make([]schema.DailyCount, 0, days)
	i := 0
	for d := range days {
		date := s.From.AddDate(0, 0, d)
		var count int64
		for i < len(s.Points) && !s.Points[i].Date.After(date) {
			if s.Points[i].Date.Equal(date) {
				count += s.Points[i].Count
			}
			i++
		}
		points = append(points, schema.DailyCount{Date: date, Count: count})
	}
	return schema.DailySeries{Points: points, From: s.From, To: s.To, Dense: true}
}

// ForSemantics builds the series shape matching the requested window semantics.
func ForSemantics(records []schema.CrashRecord, rng schema.DateRange, semantics schema.WindowSemantics) schema.DailySeries {
	return FromRecords(records, rng, semantics == schema.CalendarSemantics)
}
