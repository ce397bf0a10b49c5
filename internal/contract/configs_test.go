package contract

import (
	"testing"
	"time"

	"github.com/huangsam/crashspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns raw input matching the CLI defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Backend:    string(schema.SQLiteBackend),
		Borough:    "brooklyn",
		Seasons:    DefaultSeasons,
		Output:     "text",
		Precision:  DefaultPrecision,
		Emoji:      "no",
		Color:      "yes",
		From:       DefaultWindowFrom,
		To:         DefaultWindowTo,
		Length:     DefaultWindowLength,
		Semantics:  string(schema.CalendarSemantics),
		Year:       DefaultTopDaysYear,
		Limit:      DefaultResultLimit,
		BaseYear:   DefaultBaseYear,
		TargetYear: DefaultTargetYear,
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{name: "valid defaults", mutate: func(*ConfigRawInput) {}},
		{name: "invalid backend", mutate: func(in *ConfigRawInput) { in.Backend = "oracle" }, expectError: "invalid backend"},
		{name: "mysql without dsn", mutate: func(in *ConfigRawInput) { in.Backend = "mysql" }, expectError: "db-connect is required"},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: "invalid output format"},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: "requires --output-file"},
		{name: "invalid precision", mutate: func(in *ConfigRawInput) { in.Precision = 3 }, expectError: "precision must be 1 or 2"},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: "invalid --color"},
		{name: "empty borough", mutate: func(in *ConfigRawInput) { in.Borough = "  " }, expectError: "borough cannot be empty"},
		{name: "bad seasons", mutate: func(in *ConfigRawInput) { in.Seasons = "2019-06-01" }, expectError: "invalid --seasons"},
		{name: "empty seasons", mutate: func(in *ConfigRawInput) { in.Seasons = " , " }, expectError: "at least one season"},
		{name: "bad from", mutate: func(in *ConfigRawInput) { in.From = "01/01/2019" }, expectError: "invalid --from"},
		{name: "reversed window", mutate: func(in *ConfigRawInput) { in.From, in.To = in.To, in.From }, expectError: "before start"},
		{name: "zero length", mutate: func(in *ConfigRawInput) { in.Length = 0 }, expectError: "window length"},
		{name: "bad semantics", mutate: func(in *ConfigRawInput) { in.Semantics = "weeks" }, expectError: "invalid semantics"},
		{name: "limit too large", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: "limit must be"},
		{name: "bad year", mutate: func(in *ConfigRawInput) { in.BaseYear = 0 }, expectError: "year must be"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidate_Values(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, "BROOKLYN", cfg.Borough)
	require.Len(t, cfg.Seasons, 2)
	assert.Equal(t, time.Date(2019, time.June, 1, 0, 0, 0, 0, time.UTC), cfg.Seasons[0].Start)
	assert.Equal(t, time.Date(2020, time.July, 31, 0, 0, 0, 0, time.UTC), cfg.Seasons[1].End)
	assert.Equal(t, schema.CalendarSemantics, cfg.Semantics)
	assert.Equal(t, 100, cfg.WindowLength)
	assert.True(t, cfg.UseColors)
	assert.False(t, cfg.UseEmojis)
}

func TestParseSeasons_Sorted(t *testing.T) {
	seasons, err := ParseSeasons("2020-06-01:2020-07-31, 2019-06-01:2019-07-31")
	require.NoError(t, err)
	require.Len(t, seasons, 2)
	assert.Equal(t, 2019, seasons[0].Start.Year())
	assert.Equal(t, 2020, seasons[1].Start.Year())
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "root:pw@tcp(localhost:3306)/crashes"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "root:pw@localhost"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=crashes"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "postgres://localhost"))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	clone := cfg.Clone()
	clone.Seasons[0] = schema.YearRange(2021)
	clone.Borough = "QUEENS"

	assert.Equal(t, 2019, cfg.Seasons[0].Start.Year())
	assert.Equal(t, "BROOKLYN", cfg.Borough)
}
