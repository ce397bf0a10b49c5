package store

import (
	"context"
	"iter"
	"time"

	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/schema"
	"github.com/stretchr/testify/mock"
)

// MockRecordStore is a mock implementation of RecordStore for testing.
type MockRecordStore struct {
	mock.Mock
}

var _ contract.RecordStore = &MockRecordStore{} // Compile-time check

// BulkLoad implements the RecordStore interface.
func (m *MockRecordStore) BulkLoad(ctx context.Context, records iter.Seq2[schema.CrashRecord, error]) (int64, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteWhere implements the RecordStore interface.
func (m *MockRecordStore) DeleteWhere(ctx context.Context, p contract.Predicate) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

// Apply implements the RecordStore interface.
// When a RecordTx is configured as the first return value it is handed to fn,
// and fn's error wins over the configured error.
func (m *MockRecordStore) Apply(ctx context.Context, fn func(tx contract.RecordTx) error) error {
	args := m.Called(ctx, fn)
	if tx, ok := args.Get(0).(contract.RecordTx); ok {
		if err := fn(tx); err != nil {
			return err
		}
	}
	return args.Error(1)
}

// SelectAll implements the RecordStore interface.
func (m *MockRecordStore) SelectAll(ctx context.Context) ([]schema.CrashRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.CrashRecord)
	return records, args.Error(1)
}

// CountByDate implements the RecordStore interface.
func (m *MockRecordStore) CountByDate(ctx context.Context, lo, hi time.Time) ([]schema.DailyCount, error) {
	args := m.Called(ctx, lo, hi)
	counts, _ := args.Get(0).([]schema.DailyCount)
	return counts, args.Error(1)
}

// CountByHour implements the RecordStore interface.
func (m *MockRecordStore) CountByHour(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[string]int64)
	return counts, args.Error(1)
}

// Count implements the RecordStore interface.
func (m *MockRecordStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Clear implements the RecordStore interface.
func (m *MockRecordStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// GetStatus implements the RecordStore interface.
func (m *MockRecordStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the RecordStore interface.
func (m *MockRecordStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRecordTx is a mock implementation of RecordTx for testing.
type MockRecordTx struct {
	mock.Mock
}

var _ contract.RecordTx = &MockRecordTx{} // Compile-time check

// DeleteWhere implements the RecordTx interface.
func (m *MockRecordTx) DeleteWhere(ctx context.Context, p contract.Predicate) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteByIDs implements the RecordTx interface.
func (m *MockRecordTx) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

// GeoValues implements the RecordTx interface.
func (m *MockRecordTx) GeoValues(ctx context.Context) ([]schema.GeoValue, error) {
	args := m.Called(ctx)
	values, _ := args.Get(0).([]schema.GeoValue)
	return values, args.Error(1)
}
