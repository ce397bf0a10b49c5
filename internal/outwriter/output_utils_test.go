package outwriter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBar(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		maxValue float64
		width    int
		expected int
	}{
		{"full", 10, 10, 20, 20},
		{"half", 5, 10, 20, 10},
		{"tiny stays visible", 0.01, 10, 20, 1},
		{"zero", 0, 10, 20, 0},
		{"no max", 5, 0, 20, 0},
		{"over max clamps", 20, 10, 20, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, strings.Count(renderBar(tt.value, tt.maxValue, tt.width), barRune))
		})
	}
}

func TestIntensityLabel(t *testing.T) {
	assert.Equal(t, contract.PeakValue, intensityLabel(95, 100, false))
	assert.Equal(t, contract.ModerateValue, intensityLabel(50, 100, false))
	assert.Contains(t, intensityLabel(10, 100, true), contract.LowValue)
}

func TestGetMaxTableBarWidth(t *testing.T) {
	assert.Equal(t, minBarWidth, getMaxTableBarWidth(&contract.Config{Width: 40}))
	assert.Equal(t, 30, getMaxTableBarWidth(&contract.Config{Width: 80}))
	assert.Equal(t, maxBarWidth, getMaxTableBarWidth(&contract.Config{Width: 300}))
}

func TestGetMaxTableKeyWidth(t *testing.T) {
	assert.Equal(t, 12, getMaxTableKeyWidth(&contract.Config{Width: 50}))
	assert.Equal(t, 40, getMaxTableKeyWidth(&contract.Config{Width: 300}))
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"a", "b"}, func(w *csv.Writer) error {
		return w.Write([]string{"1", "2"})
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"a"}, func(*csv.Writer) error {
		return errors.New("row failure")
	})
	assert.ErrorContains(t, err, "row failure")
}

func TestWriteWithFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(outputFile, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	}, "Wrote test")
	require.NoError(t, err)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)
	assert.Equal(t, "1.50", fmtFloat(1.5))
	assert.Equal(t, "%d", intFmt)
}
