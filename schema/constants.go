package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the record store.
	DatabaseBackend string

	// ReportKind tells the report sink how a labeled series should be presented.
	ReportKind string

	// WindowSemantics describes what one entry of a window spans.
	WindowSemantics string

	// StepName identifies a cleaning step.
	StepName string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All record store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All report kinds supported by the sink.
const (
	RankingReport    ReportKind = "ranking"
	TimeseriesReport ReportKind = "timeseries"
	PieReport        ReportKind = "pie"
)

// Window semantics.
const (
	// EntrySemantics means each window entry is one present date; gaps are skipped.
	EntrySemantics WindowSemantics = "entries"

	// CalendarSemantics means each window entry is one calendar day; gaps count as zero.
	CalendarSemantics WindowSemantics = "calendar" // default
)

// Cleaning steps, in execution order.
const (
	BoroughStep  StepName = "borough"
	GeoStep      StepName = "geo"
	TemporalStep StepName = "temporal"
)

// Day parts used by the time-of-day distribution.
const (
	NightPart     = "Night"
	MorningPart   = "Morning"
	AfternoonPart = "Afternoon"
	EveningPart   = "Evening"
)

// Placeholder label for records without a zip code.
const UnknownZip = "UNKNOWN"

// DayParts lists day parts in chronological order.
var DayParts = []string{NightPart, MorningPart, AfternoonPart, EveningPart}

// Weekdays lists weekday names in chronological order, starting on Monday.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// CleaningSteps lists the cleaning steps in the order they run.
var CleaningSteps = []StepName{BoroughStep, GeoStep, TemporalStep}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid record store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidReportKinds lists all valid report kinds.
var ValidReportKinds = map[ReportKind]struct{}{
	RankingReport:    {},
	TimeseriesReport: {},
	PieReport:        {},
}

// ValidWindowSemantics lists all valid window semantics.
var ValidWindowSemantics = map[WindowSemantics]struct{}{
	EntrySemantics:    {},
	CalendarSemantics: {},
}
