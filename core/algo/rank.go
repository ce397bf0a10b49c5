package algo

import (
	"cmp"
	"slices"

	"github.com/huangsam/crashspot/schema"
)

// TopDays picks the limit busiest days of a series and returns them in
// chronological order. Busier days win; among equal counts the earlier day wins.
// Days without crashes are never reported.
func TopDays(s schema.DailySeries, limit int) []schema.TopDay {
	candidates := make([]schema.DailyCount, 0, s.Len())
	for _, p := range s.Points {
		if p.Count > 0 {
			candidates = append(candidates, p)
		}
	}
	slices.SortStableFunc(candidates, func(a, b schema.DailyCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return a.Date.Compare(b.Date)
	})
	if len(candidates) > limit {
		candidates = candidates[:max(limit, 0)]
	}
	slices.SortFunc(candidates, func(a, b schema.DailyCount) int {
		return a.Date.Compare(b.Date)
	})

	days := make([]schema.TopDay, len(candidates))
	for i, c := range candidates {
		days[i] = schema.TopDay{Date: c.Date, Count: c.Count, Label: schema.MonthDayLabel(c.Date)}
	}
	return days
}
