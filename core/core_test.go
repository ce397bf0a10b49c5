package core

import (
	"context"
	"encoding/json"
	"errors"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/internal/outwriter"
	"github.com/huangsam/crashspot/internal/parquet"
	"github.com/huangsam/crashspot/internal/store"
	"github.com/huangsam/crashspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// crashes returns n Brooklyn records on date at crashTime.
func crashes(date time.Time, n int, crashTime string, zip *string) []schema.CrashRecord {
	out := make([]schema.CrashRecord, n)
	for i := range out {
		out[i] = schema.CrashRecord{
			CollisionID: int64(date.YearDay()*100 + i),
			CrashDate:   date,
			CrashTime:   crashTime,
			Borough:     ptr("BROOKLYN"),
			ZipCode:     zip,
			Latitude:    ptr("40.69"),
			Longitude:   ptr("-73.99"),
		}
	}
	return out
}

// fixture has daily counts 5, 3, 10, 2 for June 1-4 2020 and 4 crashes on June 10 2019.
func fixture() []schema.CrashRecord {
	var records []schema.CrashRecord
	records = append(records, crashes(day(2020, time.June, 1), 5, "08:00", ptr("11201"))...)
	records = append(records, crashes(day(2020, time.June, 2), 3, "13:30", ptr("11201"))...)
	records = append(records, crashes(day(2020, time.June, 3), 10, "19:15", ptr("11215"))...)
	records = append(records, crashes(day(2020, time.June, 4), 2, "02:45", nil)...)
	records = append(records, crashes(day(2019, time.June, 10), 4, "08:10", ptr("11201"))...)
	return records
}

func seqOf(records []schema.CrashRecord) iter.Seq2[schema.CrashRecord, error] {
	return func(yield func(schema.CrashRecord, error) bool) {
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func loadedStore(t *testing.T) contract.RecordStore {
	t.Helper()
	rs, err := store.NewRecordStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })
	_, err = rs.BulkLoad(context.Background(), seqOf(fixture()))
	require.NoError(t, err)
	return rs
}

func testConfig() *contract.Config {
	return &contract.Config{
		Backend:      schema.SQLiteBackend,
		Borough:      "BROOKLYN",
		Seasons:      []schema.DateRange{{Start: day(2019, time.June, 1), End: day(2019, time.July, 31)}, {Start: day(2020, time.June, 1), End: day(2020, time.July, 31)}},
		Output:       schema.JSONOut,
		Precision:    1,
		WindowRange:  schema.DateRange{Start: day(2020, time.June, 1), End: day(2020, time.June, 4)},
		WindowLength: 2,
		Semantics:    schema.CalendarSemantics,
		Year:         2020,
		ResultLimit:  2,
		BaseYear:     2019,
		TargetYear:   2020,
	}
}

func TestGetWeekdayResults(t *testing.T) {
	buckets, err := GetWeekdayResults(context.Background(), loadedStore(t))
	require.NoError(t, err)

	expected := []schema.CategoryBucket{
		{Label: "Wednesday", Count: 10, Percentage: 41.7},
		{Label: "Monday", Count: 9, Percentage: 37.5},
		{Label: "Tuesday", Count: 3, Percentage: 12.5},
		{Label: "Thursday", Count: 2, Percentage: 8.3},
	}
	assert.Equal(t, expected, buckets)
}

func TestGetHourResults(t *testing.T) {
	buckets, err := GetHourResults(context.Background(), loadedStore(t))
	require.NoError(t, err)
	require.Len(t, buckets, 24)

	counts := make(map[string]int64)
	var total int64
	for i, b := range buckets {
		assert.Equal(t, i, mustAtoi(t, b.Label), "hours are ordered")
		counts[b.Label] = b.Count
		total += b.Count
	}
	assert.Equal(t, int64(24), total)
	assert.Equal(t, int64(9), counts["08"])
	assert.Equal(t, int64(3), counts["13"])
	assert.Equal(t, int64(10), counts["19"])
	assert.Equal(t, int64(2), counts["02"])
	assert.Equal(t, int64(0), counts["23"])
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	var n int
	for _, c := range s {
		require.True(t, c >= '0' && c <= '9', "not a number: %s", s)
		n = n*10 + int(c-'0')
	}
	return n
}

func TestGetTopDaysResults(t *testing.T) {
	days, err := GetTopDaysResults(context.Background(), testConfig(), loadedStore(t))
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "June 1", days[0].Label)
	assert.Equal(t, int64(5), days[0].Count)
	assert.Equal(t, "June 3", days[1].Label)
	assert.Equal(t, int64(10), days[1].Count)
}

func TestGetWindowResults(t *testing.T) {
	for _, semantics := range []schema.WindowSemantics{schema.CalendarSemantics, schema.EntrySemantics} {
		t.Run(string(semantics), func(t *testing.T) {
			cfg := testConfig()
			cfg.Semantics = semantics

			report, err := GetWindowResults(context.Background(), cfg, loadedStore(t))
			require.NoError(t, err)
			assert.Equal(t, day(2020, time.June, 2), report.Window.Start)
			assert.Equal(t, day(2020, time.June, 3), report.Window.End)
			assert.Equal(t, int64(13), report.Window.Sum)
			assert.Equal(t, semantics, report.Window.Semantics)
			assert.Equal(t, []schema.DailyCount{
				{Date: day(2020, time.June, 2), Count: 3},
				{Date: day(2020, time.June, 3), Count: 10},
			}, report.Points)
		})
	}
}

func TestGetWindowResults_InsufficientData(t *testing.T) {
	cfg := testConfig()
	cfg.WindowLength = 5

	_, err := GetWindowResults(context.Background(), cfg, loadedStore(t))
	var insufficient *contract.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 5, insufficient.Window)
	assert.Equal(t, 4, insufficient.Entries)
}

func TestGetDayPartResults(t *testing.T) {
	shift, err := GetDayPartResults(context.Background(), testConfig(), loadedStore(t))
	require.NoError(t, err)

	assert.Equal(t, []schema.CategoryBucket{
		{Label: schema.NightPart, Count: 0, Percentage: 0},
		{Label: schema.MorningPart, Count: 4, Percentage: 100},
		{Label: schema.AfternoonPart, Count: 0, Percentage: 0},
		{Label: schema.EveningPart, Count: 0, Percentage: 0},
	}, shift.Base)
	assert.Equal(t, []schema.CategoryBucket{
		{Label: schema.NightPart, Count: 2, Percentage: 10},
		{Label: schema.MorningPart, Count: 5, Percentage: 25},
		{Label: schema.AfternoonPart, Count: 3, Percentage: 15},
		{Label: schema.EveningPart, Count: 10, Percentage: 50},
	}, shift.Target)
}

func TestGetZipCodeResults(t *testing.T) {
	counts, err := GetZipCodeResults(context.Background(), testConfig(), loadedStore(t))
	require.NoError(t, err)
	assert.Equal(t, []schema.ZipYearCount{
		{ZipCode: "11201", Year: 2019, Count: 4},
		{ZipCode: "11201", Year: 2020, Count: 8},
		{ZipCode: "11215", Year: 2019, Count: 0},
		{ZipCode: "11215", Year: 2020, Count: 10},
		{ZipCode: schema.UnknownZip, Year: 2019, Count: 0},
		{ZipCode: schema.UnknownZip, Year: 2020, Count: 2},
	}, counts)
}

func TestGetResults_QueryErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	rs := &store.MockRecordStore{}
	rs.On("SelectAll", ctx).Return(nil, boom)
	rs.On("CountByHour", ctx).Return(nil, boom)
	rs.On("CountByDate", ctx, mock.Anything, mock.Anything).Return(nil, boom)

	var queryErr *contract.QueryError

	_, err := GetWeekdayResults(ctx, rs)
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "select records", queryErr.Step)

	_, err = GetHourResults(ctx, rs)
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "count by hour", queryErr.Step)

	_, err = GetWindowResults(ctx, testConfig(), rs)
	require.ErrorAs(t, err, &queryErr)
	assert.ErrorIs(t, err, boom)

	_, err = GetZipCodeResults(ctx, testConfig(), rs)
	assert.ErrorIs(t, err, boom)

	rs.AssertExpectations(t)
}

func TestGetResults_StoreQueryErrorsNotRewrapped(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	rs := &store.MockRecordStore{}
	rs.On("SelectAll", ctx).Return(nil, &contract.QueryError{Step: "select records", Err: boom})
	rs.On("CountByHour", ctx).Return(nil, &contract.QueryError{Step: "count by hour", Err: boom})
	rs.On("CountByDate", ctx, mock.Anything, mock.Anything).Return(nil, &contract.QueryError{Step: "count by date", Err: boom})

	_, err := GetWeekdayResults(ctx, rs)
	require.Error(t, err)
	assert.Equal(t, "query failed in select records: connection reset", err.Error())

	_, err = GetHourResults(ctx, rs)
	require.Error(t, err)
	assert.Equal(t, "query failed in count by hour: connection reset", err.Error())

	_, err = GetTopDaysResults(ctx, testConfig(), rs)
	require.Error(t, err)
	assert.Equal(t, "query failed in count by date: connection reset", err.Error())
}

func TestGetCleaningResults(t *testing.T) {
	ctx := context.Background()
	rs := loadedStore(t)
	cfg := testConfig()
	cfg.Seasons = cfg.Seasons[1:]

	report, err := GetCleaningResults(ctx, cfg, rs)
	require.NoError(t, err)
	require.Len(t, report.Steps, len(schema.CleaningSteps))
	assert.Equal(t, int64(4), report.TotalDeleted())
	assert.Equal(t, int64(20), report.RemainingRows)
}

func TestEmitSeries(t *testing.T) {
	ctx := context.Background()
	rs := loadedStore(t)

	tests := []struct {
		report seriesReport
		label  string
		kind   schema.ReportKind
		points int
	}{
		{weekdayReport, "Crashes by day of week", schema.RankingReport, 4},
		{hourReport, "Crashes by hour of day", schema.TimeseriesReport, 24},
		{topDaysReport, "Top 2 days of 2020", schema.TimeseriesReport, 2},
		{dayPartsReport, "Crashes by time of day, 2019 vs 2020", schema.PieReport, 8},
		{zipCodesReport, "Crashes by zip code, 2019 vs 2020", schema.TimeseriesReport, 6},
	}
	for _, tt := range tests {
		t.Run(tt.report.name, func(t *testing.T) {
			sink := &outwriter.MockReportSink{}
			sink.On("Emit", tt.label, mock.Anything, tt.kind).Return(nil).Once()

			require.NoError(t, emitSeries(ctx, testConfig(), rs, sink, tt.report))

			sink.AssertExpectations(t)
			points := sink.Calls[0].Arguments.Get(1).([]schema.SeriesPoint)
			assert.Len(t, points, tt.points)
		})
	}
}

func TestEmitSeries_SinkError(t *testing.T) {
	sink := &outwriter.MockReportSink{}
	sink.On("Emit", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	err := emitSeries(context.Background(), testConfig(), loadedStore(t), sink, weekdayReport)
	assert.ErrorContains(t, err, "disk full")
}

func TestEmitSeries_BuildErrorSkipsSink(t *testing.T) {
	ctx := context.Background()
	rs := &store.MockRecordStore{}
	rs.On("SelectAll", ctx).Return(nil, errors.New("gone"))
	sink := &outwriter.MockReportSink{}

	err := emitSeries(ctx, testConfig(), rs, sink, weekdayReport)
	assert.Error(t, err)
	sink.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything)
}

func TestEmitWindow_SeriesSink(t *testing.T) {
	report, err := GetWindowResults(context.Background(), testConfig(), loadedStore(t))
	require.NoError(t, err)

	sink := &outwriter.MockReportSink{}
	sink.On("Emit",
		"Busiest window of 2 entries: 2020-06-02 to 2020-06-03, 13 crashes (calendar)",
		[]schema.SeriesPoint{{Key: "2020-06-02", Value: 3}, {Key: "2020-06-03", Value: 10}},
		schema.TimeseriesReport,
	).Return(nil).Once()

	require.NoError(t, emitWindow(sink, report, time.Second))
	sink.AssertExpectations(t)
}

func TestEmitWindow_WindowSink(t *testing.T) {
	report, err := GetWindowResults(context.Background(), testConfig(), loadedStore(t))
	require.NoError(t, err)

	sink := &outwriter.MockWindowSink{}
	sink.On("WriteWindow", report.Window, report.Points, time.Second).Return(nil).Once()

	require.NoError(t, emitWindow(sink, report, time.Second))
	sink.AssertExpectations(t)
	sink.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteWeekday_JSONFile(t *testing.T) {
	cfg := testConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), "weekday.json")

	require.NoError(t, ExecuteWeekday(WithSuppressHeader(context.Background()), cfg, loadedStore(t)))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var doc struct {
		Label  string               `json:"label"`
		Kind   schema.ReportKind    `json:"kind"`
		Series []schema.SeriesPoint `json:"series"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, schema.RankingReport, doc.Kind)
	require.Len(t, doc.Series, 4)
	assert.Equal(t, schema.SeriesPoint{Key: "Wednesday", Value: 10, Share: 41.7}, doc.Series[0])
}

func TestExecuteWindow_JSONFile(t *testing.T) {
	cfg := testConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), "window.json")

	require.NoError(t, ExecuteWindow(WithSuppressHeader(context.Background()), cfg, loadedStore(t)))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var report WindowReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, int64(13), report.Window.Sum)
	assert.Len(t, report.Points, 2)
}

func TestExecuteClean_ReportsFailure(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	cfg := testConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), "clean.json")

	rs := &store.MockRecordStore{}
	rs.On("Apply", ctx, mock.Anything).Return(nil, errors.New("locked"))

	err := ExecuteClean(ctx, cfg, rs)
	var queryErr *contract.QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, string(schema.BoroughStep), queryErr.Step)

	data, readErr := os.ReadFile(cfg.OutputFile)
	require.NoError(t, readErr)
	var report schema.CleaningReport
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report.Steps, 3)
	assert.True(t, report.Steps[2].Skipped)
}

func TestExecuteLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crashes.csv")
	content := "CRASH DATE,CRASH TIME,BOROUGH,ZIP CODE,LATITUDE,LONGITUDE,COLLISION_ID\n" +
		"06/05/2020,8:05,BROOKLYN,11201,40.6943,-73.9903,1\n" +
		"06/06/2020,17:30,QUEENS,,,,2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rs, err := store.NewRecordStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })

	ctx := context.Background()
	require.NoError(t, ExecuteLoad(ctx, testConfig(), rs, path))
	count, err := rs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestExecuteLoad_BadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crashes.csv")
	content := "CRASH DATE,CRASH TIME,COLLISION_ID\n06/05/2020,8:05,1\n13/45/2020,9:00,2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rs, err := store.NewRecordStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })

	ctx := context.Background()
	err = ExecuteLoad(ctx, testConfig(), rs, path)
	var loadErr *contract.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 3, loadErr.Line)

	count, err := rs.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExecuteStoreExport(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "crashes.parquet")
	require.NoError(t, ExecuteStoreExport(context.Background(), loadedStore(t), outputFile))

	rows, err := parquet.ReadCrashRowsParquet(outputFile)
	require.NoError(t, err)
	assert.Len(t, rows, len(fixture()))
}

func TestExecuteStoreExport_RequiresFile(t *testing.T) {
	err := ExecuteStoreExport(context.Background(), &store.MockRecordStore{}, "")
	assert.ErrorContains(t, err, "--output-file")
}

func TestExecuteStoreClear(t *testing.T) {
	ctx := context.Background()
	rs := loadedStore(t)
	require.NoError(t, ExecuteStoreClear(ctx, rs))
	count, err := rs.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
