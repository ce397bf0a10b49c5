// Package agg has categorical aggregation logic for crash records.
package agg

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/crashspot/schema"
)

// PercentDecimals is the number of decimal places reported for percentages.
const PercentDecimals = 1

// CategoryFunc maps a record to its category label.
// It must be pure; an error rejects the record instead of bucketing it.
type CategoryFunc func(r schema.CrashRecord) (string, error)

// Ordering compares two buckets for presentation.
type Ordering func(a, b schema.CategoryBucket) int

// ByCount orders buckets by descending count, then by label.
func ByCount(a, b schema.CategoryBucket) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	return cmp.Compare(a.Label, b.Label)
}

// ByLabel orders buckets lexicographically by label.
// Two-digit hours and "zip year" labels sort naturally this way.
func ByLabel(a, b schema.CategoryBucket) int {
	return cmp.Compare(a.Label, b.Label)
}

// ByLabels orders buckets by the position of their label in labels.
// Labels not listed go last in lexicographic order.
func ByLabels(labels []string) Ordering {
	rank := make(map[string]int, len(labels))
	for i, l := range labels {
		rank[l] = i
	}
	return func(a, b schema.CategoryBucket) int {
		ra, okA := rank[a.Label]
		rb, okB := rank[b.Label]
		switch {
		case okA && okB:
			return cmp.Compare(ra, rb)
		case okA:
			return -1
		case okB:
			return 1
		}
		return cmp.Compare(a.Label, b.Label)
	}
}

// Categorize groups records by fn and returns one bucket per distinct label.
// Counts sum to len(records); each percentage is rounded independently.
func Categorize(records []schema.CrashRecord, fn CategoryFunc, order Ordering) ([]schema.CategoryBucket, error) {
	counts := make(map[string]int64)
	for _, r := range records {
		label, err := fn(r)
		if err != nil {
			return nil, fmt.Errorf("failed to categorize record %d: %w", r.CollisionID, err)
		}
		counts[label]++
	}
	return Bucketize(counts, order), nil
}

// Bucketize turns label counts into ordered buckets with percentages.
// Store-delegated counts go through here as well.
func Bucketize(counts map[string]int64, order Ordering) []schema.CategoryBucket {
	buckets := make([]schema.CategoryBucket, 0, len(counts))
	for label, count := range counts {
		buckets = append(buckets, schema.CategoryBucket{Label: label, Count: count})
	}
	slices.SortFunc(buckets, order)

	values := make([]int64, len(buckets))
	for i, b := range buckets {
		values[i] = b.Count
	}
	for i, p := range Percentages(values, PercentDecimals) {
		buckets[i].Percentage = p
	}
	return buckets
}

// Percentages returns 100*count/total for each count, rounded half away from zero
// to the given decimals. Each value is rounded on its own, so equal counts get equal
// percentages and the sum may drift from 100 by at most half a unit per entry.
func Percentages(counts []int64, decimals int) []float64 {
	out := make([]float64, len(counts))
	var total int64
	for _, c := range counts {
		total += c
	}
	if total <= 0 {
		return out
	}

	scale := math.Pow10(decimals)
	for i, c := range counts {
		out[i] = math.Round(float64(c)*100*scale/float64(total)) / scale
	}
	return out
}
