package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		maxValue float64
		expected string
	}{
		{"zero max", 5, 0, LowValue},
		{"zero value", 0, 100, LowValue},
		{"just before moderate", 49.9, 100, LowValue},
		{"exactly moderate", 50, 100, ModerateValue},
		{"just before high", 74.9, 100, ModerateValue},
		{"exactly high", 75, 100, HighValue},
		{"just before peak", 89.9, 100, HighValue},
		{"exactly peak", 90, 100, PeakValue},
		{"the max itself", 42, 42, PeakValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.value, tt.maxValue))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		label string
	}{
		{"low", 30, LowValue},
		{"moderate", 60, ModerateValue},
		{"high", 80, HighValue},
		{"peak", 95, PeakValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, GetColorLabel(tt.value, 100), tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.csv")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}

func TestGetDBFilePath(t *testing.T) {
	path := GetDBFilePath()
	assert.True(t, strings.HasSuffix(path, ".crashspot.db"))
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", TruncateLabel("short", 10))
	assert.Equal(t, "ATLANTI...", TruncateLabel("ATLANTIC AVENUE", 10))
	assert.Equal(t, "ATLANTIC AVENUE", TruncateLabel("ATLANTIC AVENUE", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "YES", "true", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
