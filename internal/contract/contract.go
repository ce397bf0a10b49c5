// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"iter"
	"time"

	"github.com/huangsam/crashspot/schema"
)

// Predicate is a parameterized SQL condition over the crash records table.
// Clause uses "?" placeholders; stores rebind them for their backend.
// Values always travel in Args and are never spliced into Clause.
type Predicate struct {
	Clause string
	Args   []any
}

// RecordTx is the set of record operations available inside a store transaction.
type RecordTx interface {
	// DeleteWhere removes every record matching the predicate.
	DeleteWhere(ctx context.Context, p Predicate) (int64, error)

	// DeleteByIDs removes the records with the given surrogate keys.
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)

	// GeoValues returns the raw coordinates of every record with both values present.
	GeoValues(ctx context.Context) ([]schema.GeoValue, error)
}

// RecordStore defines the durable table of crash records.
// The handle is created once and passed to every pipeline and aggregation call.
type RecordStore interface {
	// BulkLoad appends records in a single transaction and returns how many were written.
	// Any error from the sequence aborts the load with nothing written.
	BulkLoad(ctx context.Context, records iter.Seq2[schema.CrashRecord, error]) (int64, error)

	// DeleteWhere removes every record matching the predicate in its own transaction.
	DeleteWhere(ctx context.Context, p Predicate) (int64, error)

	// Apply runs fn in one transaction. It commits when fn returns nil and rolls back otherwise.
	Apply(ctx context.Context, fn func(tx RecordTx) error) error

	// SelectAll returns every record ordered by crash date then id.
	SelectAll(ctx context.Context) ([]schema.CrashRecord, error)

	// CountByDate returns per-date counts within [lo, hi] for dates with at least one record.
	CountByDate(ctx context.Context, lo, hi time.Time) ([]schema.DailyCount, error)

	// CountByHour returns counts keyed by the two-digit hour prefix of crash_time.
	CountByHour(ctx context.Context) (map[string]int64, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// Clear removes every record.
	Clear(ctx context.Context) error

	// GetStatus returns status information about the store.
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Close releases the underlying connection.
	Close() error
}

// ReportSink receives labeled, ordered series for rendering.
type ReportSink interface {
	Emit(label string, series []schema.SeriesPoint, kind schema.ReportKind) error
}

// WindowSink is a ReportSink that can also render a window result in full.
// Sinks without it receive the window's daily counts as a timeseries.
type WindowSink interface {
	ReportSink
	WriteWindow(result schema.WindowResult, points []schema.DailyCount, duration time.Duration) error
}
