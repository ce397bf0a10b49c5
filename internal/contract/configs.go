package contract

import (
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/crashspot/schema"
)

// Default values for configuration.
const (
	DefaultBorough      = "BROOKLYN"
	DefaultSeasons      = "2019-06-01:2019-07-31,2020-06-01:2020-07-31"
	DefaultWindowFrom   = "2019-01-01"
	DefaultWindowTo     = "2020-10-31"
	DefaultWindowLength = 100
	DefaultTopDaysYear  = 2020
	DefaultResultLimit  = 12
	MaxResultLimit      = 366
	DefaultPrecision    = 1
	DefaultBaseYear     = 2019
	DefaultTargetYear   = 2020
)

// DateTimeFormat is the default date representation in output.
var DateTimeFormat = schema.DateLayout

// Config holds the validated configuration shared by every command.
type Config struct {
	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	Borough string             // Target borough kept by cleaning
	Seasons []schema.DateRange // Date ranges kept by cleaning

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)

	WindowRange  schema.DateRange
	WindowLength int
	Semantics    schema.WindowSemantics

	Year        int // Year used by the top days report
	ResultLimit int // Number of top days to report

	BaseYear   int // BEFORE year of two-year comparisons
	TargetYear int // AFTER year of two-year comparisons

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ConfigRawInput holds the raw, unvalidated values from file, env and flags.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Backend    string `mapstructure:"backend"`
	DBConnect  string `mapstructure:"db-connect"`
	Borough    string `mapstructure:"borough"`
	Seasons    string `mapstructure:"seasons"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`
	Emoji      string `mapstructure:"emoji"`
	Color      string `mapstructure:"color"`

	// --- Fields from windowCmd.Flags() ---
	From      string `mapstructure:"from"`
	To        string `mapstructure:"to"`
	Length    int    `mapstructure:"length"`
	Semantics string `mapstructure:"semantics"`

	// --- Fields from topDaysCmd.Flags() ---
	Year  int `mapstructure:"year"`
	Limit int `mapstructure:"limit"`

	// --- Fields from daypartsCmd and zipcodesCmd flags ---
	BaseYear   int `mapstructure:"base-year"`
	TargetYear int `mapstructure:"target-year"`
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Seasons = slices.Clone(c.Seasons)
	return &clone
}

// ProcessAndValidate populates cfg from input, validating every field.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processCleaningScope(cfg, input); err != nil {
		return err
	}
	if err := processReportInputs(cfg, input); err != nil {
		return err
	}
	return cfg.ValidateReportInputs()
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// ValidateDatabaseConnectionString checks the connection string shape for a backend.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateBackend parses and checks a backend name together with its connection string.
func ValidateBackend(backendStr, connStr string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(backendStr))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}
	if err := ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", err
	}
	return backend, nil
}

// ParseSeasons parses a comma-separated list of "start:end" date ranges.
func ParseSeasons(s string) ([]schema.DateRange, error) {
	var seasons []schema.DateRange
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := schema.ParseDateRange(part)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, r)
	}
	if len(seasons) == 0 {
		return nil, fmt.Errorf("at least one season is required")
	}
	slices.SortFunc(seasons, func(a, b schema.DateRange) int {
		return a.Start.Compare(b.Start)
	})
	return seasons, nil
}

// ValidateReportInputs checks the report parameters that MCP callers may override.
func (c *Config) ValidateReportInputs() error {
	if c.WindowLength <= 0 {
		return fmt.Errorf("window length must be greater than 0 (received %d)", c.WindowLength)
	}
	if c.WindowRange.End.Before(c.WindowRange.Start) {
		return fmt.Errorf("window end %s is before start %s", c.WindowRange.End.Format(DateTimeFormat), c.WindowRange.Start.Format(DateTimeFormat))
	}
	if _, ok := schema.ValidWindowSemantics[c.Semantics]; !ok {
		return fmt.Errorf("invalid semantics '%s'. must be calendar, entries", c.Semantics)
	}
	if c.ResultLimit <= 0 || c.ResultLimit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, c.ResultLimit)
	}
	for _, year := range []int{c.Year, c.BaseYear, c.TargetYear} {
		if year < 1 || year > 9999 {
			return fmt.Errorf("year must be between 1 and 9999 (received %d)", year)
		}
	}
	return nil
}

// validateSimpleInputs transfers and checks output-related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}

// validateBackendConfigs checks the record store backend settings.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend, err := ValidateBackend(input.Backend, input.DBConnect)
	if err != nil {
		return err
	}
	cfg.Backend = backend
	cfg.DBConnect = input.DBConnect
	return nil
}

// processCleaningScope resolves the borough and seasons kept by cleaning.
func processCleaningScope(cfg *Config, input *ConfigRawInput) error {
	borough := strings.ToUpper(strings.TrimSpace(input.Borough))
	if borough == "" {
		return fmt.Errorf("borough cannot be empty")
	}
	cfg.Borough = borough

	seasons, err := ParseSeasons(input.Seasons)
	if err != nil {
		return fmt.Errorf("invalid --seasons value: %w", err)
	}
	cfg.Seasons = seasons
	return nil
}

// processReportInputs transfers report parameters.
func processReportInputs(cfg *Config, input *ConfigRawInput) error {
	from, err := schema.ParseDate(input.From)
	if err != nil {
		return fmt.Errorf("invalid --from value: %w", err)
	}
	to, err := schema.ParseDate(input.To)
	if err != nil {
		return fmt.Errorf("invalid --to value: %w", err)
	}
	cfg.WindowRange = schema.DateRange{Start: from, End: to}
	cfg.WindowLength = input.Length
	cfg.Semantics = schema.WindowSemantics(strings.ToLower(input.Semantics))

	cfg.Year = input.Year
	cfg.ResultLimit = input.Limit
	cfg.BaseYear = input.BaseYear
	cfg.TargetYear = input.TargetYear
	return nil
}
