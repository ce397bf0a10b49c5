package algo

import (
	"testing"
	"time"

	"github.com/huangsam/crashspot/schema"
	"github.com/stretchr/testify/assert"
)

func TestTopDays(t *testing.T) {
	s := denseSeries(3, 9, 0, 9, 1, 7, 2)

	days := TopDays(s, 3)
	assert.Len(t, days, 3)

	// Chronological, not by count
	assert.Equal(t, origin.AddDate(0, 0, 1), days[0].Date)
	assert.Equal(t, origin.AddDate(0, 0, 3), days[1].Date)
	assert.Equal(t, origin.AddDate(0, 0, 5), days[2].Date)
	assert.Equal(t, "January 2", days[0].Label)
	assert.Equal(t, int64(7), days[2].Count)
}

func TestTopDays_TieKeepsEarlierDay(t *testing.T) {
	days := TopDays(denseSeries(5, 5, 5), 2)
	assert.Equal(t, []time.Time{origin, origin.AddDate(0, 0, 1)}, []time.Time{days[0].Date, days[1].Date})
}

func TestTopDays_SkipsEmptyDays(t *testing.T) {
	days := TopDays(denseSeries(0, 4, 0), 12)
	assert.Len(t, days, 1)
	assert.Equal(t, int64(4), days[0].Count)
}

func TestTopDays_LimitEdges(t *testing.T) {
	assert.Empty(t, TopDays(denseSeries(1, 2), 0))
	assert.Empty(t, TopDays(schema.DailySeries{}, 5))
	assert.Len(t, TopDays(denseSeries(1, 2), 10), 2)
}
