package outwriter

import (
	"time"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/schema"
	"github.com/stretchr/testify/mock"
)

// MockReportSink is a mock implementation of ReportSink for testing.
type MockReportSink struct {
	mock.Mock
}

var _ contract.ReportSink = &MockReportSink{} // Compile-time check

// Emit implements the ReportSink interface.
func (m *MockReportSink) Emit(label string, series []schema.SeriesPoint, kind schema.ReportKind) error {
	args := m.Called(label, series, kind)
	return args.Error(0)
}

// MockWindowSink is a mock implementation of WindowSink for testing.
type MockWindowSink struct {
	MockReportSink
}

var _ contract.WindowSink = &MockWindowSink{} // Compile-time check

// WriteWindow implements the WindowSink interface.
func (m *MockWindowSink) WriteWindow(result schema.WindowResult, points []schema.DailyCount, duration time.Duration) error {
	args := m.Called(result, points, duration)
	return args.Error(0)
}
