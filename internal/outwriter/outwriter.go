// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"time"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/schema"
)

// OutWriter renders reports in the configured output format.
// It is the report sink used by every command.
type OutWriter struct {
	cfg *contract.Config
}

var _ contract.WindowSink = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter(cfg *contract.Config) *OutWriter {
	return &OutWriter{cfg: cfg}
}

// Emit renders one labeled series using the configured output format.
func (ow *OutWriter) Emit(label string, series []schema.SeriesPoint, kind schema.ReportKind) error {
	if _, ok := schema.ValidReportKinds[kind]; !ok {
		return fmt.Errorf("unsupported report kind %q", kind)
	}
	return PrintSeries(label, series, kind, ow.cfg)
}

// WriteWindow renders the busiest window together with its daily counts.
func (ow *OutWriter) WriteWindow(result schema.WindowResult, points []schema.DailyCount, duration time.Duration) error {
	return PrintWindowResult(result, points, ow.cfg, duration)
}

// WriteCleaning renders the outcome of a cleaning run.
func (ow *OutWriter) WriteCleaning(report schema.CleaningReport, duration time.Duration) error {
	return PrintCleaningReport(report, ow.cfg, duration)
}
