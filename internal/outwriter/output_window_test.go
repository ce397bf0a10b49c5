package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/internal/parquet"
	"github.com/huangsam/crashspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWindow() (schema.WindowResult, []schema.DailyCount) {
	start := time.Date(2020, time.June, 2, 0, 0, 0, 0, time.UTC)
	points := []schema.DailyCount{{Date: start, Count: 3}, {Date: start.AddDate(0, 0, 1), Count: 10}}
	result := schema.WindowResult{
		Start:     start,
		End:       start.AddDate(0, 0, 1),
		Sum:       13,
		Length:    2,
		SpanDays:  2,
		Semantics: schema.CalendarSemantics,
	}
	return result, points
}

func TestWriteWindowTable(t *testing.T) {
	result, points := sampleWindow()
	var buf bytes.Buffer
	require.NoError(t, writeWindowTable(&buf, result, points, 42*time.Millisecond))

	output := buf.String()
	assert.Contains(t, output, "2020-06-02")
	assert.Contains(t, output, "2020-06-03")
	assert.Contains(t, output, "13")
	assert.Contains(t, output, "2 days")
	assert.Contains(t, output, "calendar")
	assert.Contains(t, output, "2020-06-03 (10)")
	assert.Contains(t, output, "6.5")
	assert.Contains(t, output, "Window analysis completed in 42ms")
}

func TestWriteWindowTable_EntrySemantics(t *testing.T) {
	result, points := sampleWindow()
	result.Semantics = schema.EntrySemantics
	result.SpanDays = 30
	var buf bytes.Buffer
	require.NoError(t, writeWindowTable(&buf, result, points, time.Millisecond))
	assert.Contains(t, buf.String(), "2 entries")
	assert.Contains(t, buf.String(), "30 days")
}

func TestWriteCSVResultsForWindow(t *testing.T) {
	result, points := sampleWindow()
	var buf bytes.Buffer
	require.NoError(t, writeCSVResultsForWindow(&buf, result, points))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2020-06-03", "10", "2020-06-02", "2020-06-03", "13", "calendar"}, records[2])
}

func TestPrintWindowResult_JSON(t *testing.T) {
	result, points := sampleWindow()
	outputFile := filepath.Join(t.TempDir(), "window.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: outputFile}

	require.NoError(t, NewOutWriter(cfg).WriteWindow(result, points, time.Second))

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	var doc windowDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, int64(13), doc.Window.Sum)
	assert.Len(t, doc.Points, 2)
}

func TestPrintWindowResult_Parquet(t *testing.T) {
	result, points := sampleWindow()
	outputFile := filepath.Join(t.TempDir(), "window.parquet")
	cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: outputFile}

	require.NoError(t, PrintWindowResult(result, points, cfg, time.Second))

	rows, err := parquet.ReadDailyParquet(outputFile)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
