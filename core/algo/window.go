// Package algo has the window and ranking algorithms over daily crash series.
package algo

import (
	"errors"
	"fmt"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/schema"
)

// NaiveMaxEntries bounds the quadratic reference implementation.
const NaiveMaxEntries = 512

// ErrSeriesTooLong is returned by MaxWindowNaive for series above NaiveMaxEntries.
var ErrSeriesTooLong = errors.New("series too long for naive window search")

// MaxWindow finds the run of w consecutive entries with the largest total count.
// The earliest run wins ties. It keeps a running sum, so it is linear in the series length.
//
// What an entry spans depends on the series: one calendar day for a dense series,
// one present date for a sparse one. The result records which.
func MaxWindow(s schema.DailySeries, w int) (schema.WindowResult, error) {
	if err := checkWindow(s, w); err != nil {
		return schema.WindowResult{}, err
	}
	points := s.Points

	var sum int64
	for _, p := range points[:w] {
		sum += p.Count
	}
	best, bestStart := sum, 0
	for i := w; i < len(points); i++ {
		sum += points[i].Count - points[i-w].Count
		if sum > best {
			best, bestStart = sum, i-w+1
		}
	}
	return windowResult(s, bestStart, w, best), nil
}

// MaxWindowNaive recomputes every window sum from scratch.
// It exists as a reference for MaxWindow and refuses series longer than NaiveMaxEntries.
func MaxWindowNaive(s schema.DailySeries, w int) (schema.WindowResult, error) {
	if err := checkWindow(s, w); err != nil {
		return schema.WindowResult{}, err
	}
	if s.Len() > NaiveMaxEntries {
		return schema.WindowResult{}, fmt.Errorf("%w: %d entries exceeds %d", ErrSeriesTooLong, s.Len(), NaiveMaxEntries)
	}

	positions := s.Len() - w + 1
	var best int64 = -1
	bestStart := 0
	for start := range positions {
		var sum int64
		for _, p := range s.Points[start : start+w] {
			sum += p.Count
		}
		if sum > best {
			best, bestStart = sum, start
		}
	}
	return windowResult(s, bestStart, w, best), nil
}

func checkWindow(s schema.DailySeries, w int) error {
	if w <= 0 {
		return fmt.Errorf("window length must be greater than 0 (received %d)", w)
	}
	if s.Len() < w {
		return &contract.InsufficientDataError{Window: w, Entries: s.Len()}
	}
	return nil
}

func windowResult(s schema.DailySeries, start, w int, sum int64) schema.WindowResult {
	first, last := s.Points[start].Date, s.Points[start+w-1].Date
	return schema.WindowResult{
		Start:     first,
		End:       last,
		Sum:       sum,
		Length:    w,
		SpanDays:  schema.DaysInclusive(first, last),
		Semantics: s.Semantics(),
	}
}
