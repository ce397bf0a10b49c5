package core

import (
	"testing"
	"time"

	"github.com/huangsam/crashspot/schema"
	"github.com/stretchr/testify/assert"
)

func TestBucketPoints(t *testing.T) {
	assert.Nil(t, bucketPoints(nil))
	points := bucketPoints([]schema.CategoryBucket{{Label: "Friday", Count: 3, Percentage: 75}, {Label: "Monday", Count: 1, Percentage: 25}})
	assert.Equal(t, []schema.SeriesPoint{
		{Key: "Friday", Value: 3, Share: 75},
		{Key: "Monday", Value: 1, Share: 25},
	}, points)
}

func TestTopDayPoints(t *testing.T) {
	days := []schema.TopDay{
		{Date: day(2020, time.June, 5), Count: 40, Label: "June 5"},
		{Date: day(2020, time.July, 4), Count: 55, Label: "July 4"},
	}
	assert.Equal(t, []schema.SeriesPoint{
		{Group: "June", Key: "June 5", Value: 40},
		{Group: "July", Key: "July 4", Value: 55},
	}, topDayPoints(days))
}

func TestDayPartPoints(t *testing.T) {
	shift := schema.DayPartShift{
		BaseYear:   2019,
		TargetYear: 2020,
		Base:       []schema.CategoryBucket{{Label: schema.NightPart, Count: 1, Percentage: 100}},
		Target:     []schema.CategoryBucket{{Label: schema.NightPart, Count: 2, Percentage: 100}},
	}
	points := dayPartPoints(shift)
	assert.Len(t, points, 2)
	assert.Equal(t, "2019", points[0].Group)
	assert.Equal(t, "2020", points[1].Group)
	assert.Equal(t, 2.0, points[1].Value)
	assert.Equal(t, "00:00-05:59", points[0].Legend)

	// The same year is not listed twice
	shift.TargetYear = 2019
	assert.Len(t, dayPartPoints(shift), 1)
}

func TestZipYearPoints(t *testing.T) {
	points := zipYearPoints([]schema.ZipYearCount{{ZipCode: "11201", Year: 2019, Count: 4}})
	assert.Equal(t, []schema.SeriesPoint{{Group: "11201", Key: "2019", Value: 4}}, points)
}
