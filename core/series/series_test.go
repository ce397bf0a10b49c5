package series

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/internal/store"
	"github.com/huangsam/crashspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2020, m, d, 0, 0, 0, 0, time.UTC)
}

func records(dates ...time.Time) []schema.CrashRecord {
	out := make([]schema.CrashRecord, len(dates))
	for i, d := range dates {
		out[i] = schema.CrashRecord{CollisionID: int64(i + 1), CrashDate: d, CrashTime: "10:00"}
	}
	return out
}

func sample() []schema.CrashRecord {
	return records(
		day(time.June, 3), day(time.June, 1), day(time.June, 3),
		day(time.June, 6), day(time.May, 31), day(time.June, 8),
	)
}

var june1to7 = schema.DateRange{Start: day(time.June, 1), End: day(time.June, 7)}

func TestFromRecords_Sparse(t *testing.T) {
	s := FromRecords(sample(), june1to7, false)
	assert.False(t, s.Dense)
	assert.Equal(t, schema.EntrySemantics, s.Semantics())
	assert.Equal(t, []schema.DailyCount{
		{Date: day(time.June, 1), Count: 1},
		{Date: day(time.June, 3), Count: 2},
		{Date: day(time.June, 6), Count: 1},
	}, s.Points)
	assert.Equal(t, int64(4), s.Total())
}

func TestFromRecords_Dense(t *testing.T) {
	s := FromRecords(sample(), june1to7, true)
	assert.True(t, s.Dense)
	assert.Equal(t, schema.CalendarSemantics, s.Semantics())
	require.Equal(t, 7, s.Len())

	expected := []int64{1, 0, 2, 0, 0, 1, 0}
	for i, p := range s.Points {
		assert.Equal(t, day(time.June, 1+i), p.Date)
		assert.Equal(t, expected[i], p.Count)
	}
	assert.Equal(t, int64(4), s.Total())
}

func TestFromRecords_Empty(t *testing.T) {
	s := FromRecords(nil, june1to7, false)
	assert.Zero(t, s.Len())

	dense := FromRecords(nil, june1to7, true)
	assert.Equal(t, 7, dense.Len())
	assert.Zero(t, dense.Total())
}

func TestFromCounts_MergesAndSorts(t *testing.T) {
	s := FromCounts([]schema.DailyCount{
		{Date: day(time.June, 5), Count: 2},
		{Date: day(time.June, 2), Count: 1},
		{Date: day(time.June, 5).Add(3 * time.Hour), Count: 4},
		{Date: day(time.July, 1), Count: 9},
	}, june1to7, false)
	assert.Equal(t, []schema.DailyCount{
		{Date: day(time.June, 2), Count: 1},
		{Date: day(time.June, 5), Count: 6},
	}, s.Points)
}

func TestDensify_ReversedRange(t *testing.T) {
	s := Densify(schema.DailySeries{From: day(time.June, 7), To: day(time.June, 1)})
	assert.Zero(t, s.Len())
	assert.True(t, s.Dense)
}

func TestDensify_Idempotent(t *testing.T) {
	once := FromRecords(sample(), june1to7, true)
	twice := Densify(once)
	assert.Equal(t, once.Points, twice.Points)
}

func TestForSemantics(t *testing.T) {
	assert.True(t, ForSemantics(sample(), june1to7, schema.CalendarSemantics).Dense)
	assert.False(t, ForSemantics(sample(), june1to7, schema.EntrySemantics).Dense)
}

func seqOf(rs []schema.CrashRecord) iter.Seq2[schema.CrashRecord, error] {
	return func(yield func(schema.CrashRecord, error) bool) {
		for _, r := range rs {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func TestFromStore_MatchesInProcess(t *testing.T) {
	ctx := context.Background()
	rs, err := store.NewRecordStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = rs.Close() }()

	_, err = rs.BulkLoad(ctx, seqOf(sample()))
	require.NoError(t, err)

	for _, dense := range []bool{false, true} {
		fromStore, err := FromStore(ctx, rs, june1to7, dense)
		require.NoError(t, err)
		assert.Equal(t, FromRecords(sample(), june1to7, dense), fromStore)
	}
}

func TestFromStore_QueryError(t *testing.T) {
	ctx := context.Background()
	rs := &store.MockRecordStore{}
	rs.On("CountByDate", ctx, june1to7.Start, june1to7.End).Return(nil, errors.New("timeout"))

	_, err := FromStore(ctx, rs, june1to7, false)
	var queryErr *contract.QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "count by date", queryErr.Step)
	rs.AssertExpectations(t)
	rs.AssertNotCalled(t, "SelectAll", mock.Anything)
}
